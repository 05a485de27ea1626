package model

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodePayment           = "PAYMENT_ERROR"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation carrying a stable error code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrSaleNotFound           = NewDomainError(ErrCodeNotFound, "Sale not found")
	ErrInventoryNotFound      = NewDomainError(ErrCodeNotFound, "Inventory not found")
	ErrUserNotFound           = NewDomainError(ErrCodeNotFound, "User not found")
	ErrNotificationNotFound   = NewDomainError(ErrCodeNotFound, "Notification not found")
	ErrCartItemNotFound       = NewDomainError(ErrCodeNotFound, "Cart item not found")
	ErrEmailTaken             = NewDomainError(ErrCodeConflict, "A user with this email already exists")
	ErrInvalidCredentials     = NewDomainError(ErrCodeUnauthorised, "Invalid email or password")
	ErrInvalidQuantity        = NewDomainError(ErrCodeValidation, "Quantity must be greater than zero")
	ErrCancelReasonRequired   = NewDomainError(ErrCodeValidation, "Cancel reason is required")
	ErrRefundMessageRequired  = NewDomainError(ErrCodeValidation, "Refund message is required")
	ErrInvalidRefundAction    = NewDomainError(ErrCodeValidation, "Refund action must be ACCEPT or REJECT")
	ErrSaleNotUpdatable       = NewDomainError(ErrCodeValidation, "Cannot update a cancelled or refunded sale")
	ErrRefundAlreadyRequested = NewDomainError(ErrCodeValidation, "A refund has already been requested for this sale")
	ErrRefundAlreadyDone      = NewDomainError(ErrCodeValidation, "This sale has already been refunded")
	ErrInvalidPaymentInfo     = NewDomainError(ErrCodeValidation, "Payment info is missing or malformed")
	ErrPaymentProcessing      = NewDomainError(ErrCodePayment, "Payment processing failed")
	ErrAssociatedSaleNotFound = NewDomainError(ErrCodeNotFound, "Associated sale not found")
)

// InsufficientStockError is returned when a requested quantity exceeds the
// remaining stock of an inventory line. It carries the quantity that is
// actually available so callers can report it.
type InsufficientStockError struct {
	InventoryID uuid.UUID
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for inventory %s: only %d remaining", e.InventoryID, e.Available)
}
