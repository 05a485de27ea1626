package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"boutique/internal/discount"
	"boutique/internal/metrics"
	"boutique/internal/model"
	"boutique/internal/payment"
	"boutique/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// paymentService implements PaymentService.
type paymentService struct {
	saleRepo      repository.SaleRepository
	inventoryRepo repository.InventoryRepository
	userRepo      repository.UserRepository
	gateway       payment.Gateway
	notifier      Notifier
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	saleRepo repository.SaleRepository,
	inventoryRepo repository.InventoryRepository,
	userRepo repository.UserRepository,
	gateway payment.Gateway,
	notifier Notifier,
	m *metrics.Metrics,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		saleRepo:      saleRepo,
		inventoryRepo: inventoryRepo,
		userRepo:      userRepo,
		gateway:       gateway,
		notifier:      notifier,
		metrics:       m,
		logger:        logger.With().Str("service", "payment").Logger(),
	}
}

// paymentInfo is the JSON blob stored on the sale client carrying the payer
// account number.
type paymentInfo struct {
	AccountNumber string `json:"accountNumber"`
}

// Initiate computes the sale's discounted total at the sale's creation
// timestamp, charges the client's payment account and stores the returned
// external reference. No retry: a failed attempt is terminal and must be
// re-initiated by the caller.
func (s *paymentService) Initiate(ctx context.Context, saleID uuid.UUID) (string, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return "", fmt.Errorf("failed to initiate payment: %w", err)
	}
	if sale == nil {
		return "", model.ErrSaleNotFound
	}
	if sale.Status.Terminal() {
		return "", model.ErrSaleNotUpdatable
	}

	account, err := s.payerAccount(sale)
	if err != nil {
		return "", err
	}

	total, err := s.totalAmount(ctx, sale)
	if err != nil {
		return "", err
	}

	result, err := s.gateway.Cashin(ctx, account, total)
	if err != nil {
		s.metrics.PaymentsFailed.Inc()
		s.logger.Error().
			Err(err).
			Str("sale_id", saleID.String()).
			Float64("amount", total).
			Msg("cashin request failed")
		return "", model.ErrPaymentProcessing
	}

	if err := s.saleRepo.MarkPaymentPending(ctx, saleID, result.Ref); err != nil {
		return "", fmt.Errorf("failed to store payment reference: %w", err)
	}

	s.metrics.PaymentsInitiated.Inc()
	s.logger.Info().
		Str("sale_id", saleID.String()).
		Str("transaction_ref", result.Ref).
		Float64("amount", total).
		Msg("payment initiated")

	return result.Ref, nil
}

// payerAccount extracts the account number from the client's paymentInfo blob.
func (s *paymentService) payerAccount(sale *model.Sale) (string, error) {
	if sale.Client == nil || sale.Client.PaymentInfo == nil {
		return "", model.ErrInvalidPaymentInfo
	}

	var info paymentInfo
	if err := json.Unmarshal([]byte(*sale.Client.PaymentInfo), &info); err != nil {
		s.logger.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("malformed payment info")
		return "", model.ErrInvalidPaymentInfo
	}
	if info.AccountNumber == "" {
		return "", model.ErrInvalidPaymentInfo
	}

	return info.AccountNumber, nil
}

// totalAmount sums the discounted line totals of the sale's items, resolving
// each discount at the sale's creation timestamp. Using the creation time on
// both the display path and here keeps the two computations in agreement.
func (s *paymentService) totalAmount(ctx context.Context, sale *model.Sale) (float64, error) {
	var total float64
	for _, item := range sale.Items {
		inv, err := s.inventoryRepo.GetByID(ctx, item.InventoryID)
		if err != nil {
			return 0, fmt.Errorf("failed to compute payment amount: %w", err)
		}
		if inv == nil {
			return 0, model.ErrInventoryNotFound
		}
		total += discount.LineTotal(inv, item.Quantity, sale.CreatedAt)
	}
	return total, nil
}

// HandleCallback reconciles an asynchronous provider callback. A success
// status completes the sale; the write is an unconditional overwrite, so a
// replayed callback re-applies the same terminal state. A missing buyer
// account suppresses the notification but never the transition.
func (s *paymentService) HandleCallback(ctx context.Context, externalRef, status string) error {
	sale, err := s.saleRepo.GetByTransactionRef(ctx, externalRef)
	if err != nil {
		return fmt.Errorf("failed to handle payment callback: %w", err)
	}
	if sale == nil {
		s.metrics.PaymentCallbacks.WithLabelValues("unmatched").Inc()
		return model.ErrAssociatedSaleNotFound
	}

	if !strings.EqualFold(status, "success") {
		s.metrics.PaymentCallbacks.WithLabelValues("failure").Inc()
		s.logger.Warn().
			Str("sale_id", sale.ID.String()).
			Str("status", status).
			Msg("payment failed at provider")
		s.notifyBuyer(ctx, sale, "Payment failed",
			fmt.Sprintf("The payment for your order %s did not go through. Please try again.", sale.Number),
			model.NotificationError)
		return nil
	}

	if err := s.saleRepo.UpdateStatus(ctx, sale.ID, model.SaleStatusCompleted); err != nil {
		return fmt.Errorf("failed to complete sale: %w", err)
	}

	s.metrics.PaymentCallbacks.WithLabelValues("success").Inc()
	s.logger.Info().
		Str("sale_id", sale.ID.String()).
		Str("transaction_ref", externalRef).
		Msg("payment confirmed")

	s.notifyBuyer(ctx, sale, "Payment successful",
		fmt.Sprintf("Your payment for order %s was received. Thank you!", sale.Number),
		model.NotificationSuccess)

	return nil
}

// notifyBuyer resolves the buyer account by client email and sends a
// best-effort notification.
func (s *paymentService) notifyBuyer(ctx context.Context, sale *model.Sale, title, message string, typ model.NotificationType) {
	if sale.Client == nil || sale.Client.Email == "" {
		return
	}

	user, err := s.userRepo.GetByEmail(ctx, sale.Client.Email)
	if err != nil {
		s.logger.Warn().Err(err).Str("email", sale.Client.Email).Msg("buyer lookup failed")
		return
	}
	if user == nil {
		s.logger.Debug().Str("email", sale.Client.Email).Msg("no account for buyer, skipping notification")
		return
	}

	if err := s.notifier.Notify(ctx, []uuid.UUID{user.ID}, title, message, nil, typ); err != nil {
		s.logger.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("failed to notify buyer")
	}
}
