package model

import (
	"time"

	"github.com/google/uuid"
)

// SaleStatus describes the lifecycle state of a sale.
type SaleStatus string

const (
	SaleStatusPending         SaleStatus = "PENDING"
	SaleStatusPaymentPending  SaleStatus = "PAYMENT_PENDING"
	SaleStatusDelivering      SaleStatus = "DELIVERING"
	SaleStatusCompleted       SaleStatus = "COMPLETED"
	SaleStatusCancelled       SaleStatus = "CANCELLED"
	SaleStatusRefundRequested SaleStatus = "REFUND_REQUESTED"
	SaleStatusRefunded        SaleStatus = "REFUNDED"
)

// Terminal reports whether the status blocks further lifecycle transitions.
func (s SaleStatus) Terminal() bool {
	return s == SaleStatusCancelled || s == SaleStatusRefunded
}

// SaleType distinguishes an in-person point-of-sale record from a delivery
// order placed online.
type SaleType string

const (
	SaleTypeSale  SaleType = "SALE"
	SaleTypeOrder SaleType = "ORDER"
)

// RefundAction is the admin decision on a refund request.
type RefundAction string

const (
	RefundActionAccept RefundAction = "ACCEPT"
	RefundActionReject RefundAction = "REJECT"
)

// Sale is the transactional record of purchased inventory lines. A sale with
// type ORDER carries delivery and refund semantics. Sales are never deleted;
// cancellation is a status mutation.
type Sale struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Number         string     `json:"number" db:"number"`
	Status         SaleStatus `json:"status" db:"status"`
	Type           SaleType   `json:"type" db:"type"`
	PaymentMethod  string     `json:"paymentMethod" db:"payment_method"`
	TransactionRef *string    `json:"transactionRef,omitempty" db:"transaction_ref"`
	CancelReason   *string    `json:"cancelReason,omitempty" db:"cancel_reason"`
	RefundReason   *string    `json:"refundReason,omitempty" db:"refund_reason"`
	RefundResponse *string    `json:"refundResponse,omitempty" db:"refund_response"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`

	Items  []SaleItem  `json:"items,omitempty" db:"-"`
	Client *SaleClient `json:"client,omitempty" db:"-"`
}

// SaleItem is one line within a sale referencing an inventory line. Amount is
// the discounted line total computed at creation time.
type SaleItem struct {
	ID          uuid.UUID `json:"-" db:"id"`
	SaleID      uuid.UUID `json:"-" db:"sale_id"`
	InventoryID uuid.UUID `json:"inventoryId" db:"inventory_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Amount      float64   `json:"amount" db:"amount"`
}

// SaleClient is the denormalised recipient/payer snapshot attached to a sale.
// It is a copy, not a live user reference: orders may be placed by guests
// without an account.
type SaleClient struct {
	ID          uuid.UUID `json:"-" db:"id"`
	SaleID      uuid.UUID `json:"-" db:"sale_id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"phone" db:"phone"`
	Address     string    `json:"address,omitempty" db:"address"`
	City        string    `json:"city,omitempty" db:"city"`
	Country     string    `json:"country,omitempty" db:"country"`
	PaymentInfo *string   `json:"-" db:"payment_info"`
}

// SaleItemRequest is a single requested line in a sale or order.
type SaleItemRequest struct {
	InventoryID uuid.UUID `json:"inventoryId"`
	Quantity    int       `json:"quantity"`
}

// SaleClientRequest carries the recipient snapshot for a sale or order.
// PaymentInfo is a JSON-encoded blob holding the payer account number.
type SaleClientRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address,omitempty"`
	City        string  `json:"city,omitempty"`
	Country     string  `json:"country,omitempty"`
	PaymentInfo *string `json:"paymentInfo,omitempty"`
}

// CreateSaleRequest represents the payload for the point-of-sale flow.
type CreateSaleRequest struct {
	PaymentMethod string             `json:"paymentMethod"`
	Items         []SaleItemRequest  `json:"items"`
	Client        *SaleClientRequest `json:"client,omitempty"`
}

// CreateOrderRequest represents the payload for the online order flow.
type CreateOrderRequest struct {
	Items  []SaleItemRequest  `json:"items"`
	Client *SaleClientRequest `json:"client,omitempty"`
}

// CreateOrderResponse returns the persisted order together with the payment
// reference when payment initiation succeeded.
type CreateOrderResponse struct {
	Sale       *Sale  `json:"sale"`
	PaymentRef string `json:"paymentRef,omitempty"`
}

// CancelSaleRequest carries the mandatory cancellation reason.
type CancelSaleRequest struct {
	Reason string `json:"reason"`
}

// RefundRequestPayload carries the buyer's refund request message.
type RefundRequestPayload struct {
	Message string `json:"message"`
}

// CompleteRefundRequest carries the admin decision on a refund request.
type CompleteRefundRequest struct {
	Message string       `json:"message"`
	Action  RefundAction `json:"action"`
}

// SaleFilter narrows sale listings.
type SaleFilter struct {
	Status string
	Type   string
	Email  string
	Page   int
	Limit  int
}

// SaleList is a paginated sale listing.
type SaleList struct {
	Items []Sale `json:"items"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}
