package service

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"boutique/internal/discount"
	"boutique/internal/metrics"
	"boutique/internal/model"
	"boutique/internal/receipt"
	"boutique/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// saleService implements SaleService.
type saleService struct {
	saleRepo      repository.SaleRepository
	inventoryRepo repository.InventoryRepository
	cartRepo      repository.CartRepository
	userRepo      repository.UserRepository
	payments      PaymentService
	notifier      Notifier
	receipts      receipt.Store
	metrics       *metrics.Metrics
	logger        zerolog.Logger
}

// NewSaleService creates a new sale service.
func NewSaleService(
	saleRepo repository.SaleRepository,
	inventoryRepo repository.InventoryRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	payments PaymentService,
	notifier Notifier,
	receipts receipt.Store,
	m *metrics.Metrics,
	logger zerolog.Logger,
) SaleService {
	return &saleService{
		saleRepo:      saleRepo,
		inventoryRepo: inventoryRepo,
		cartRepo:      cartRepo,
		userRepo:      userRepo,
		payments:      payments,
		notifier:      notifier,
		receipts:      receipts,
		metrics:       m,
		logger:        logger.With().Str("service", "sale").Logger(),
	}
}

// CreateSale records an in-person point-of-sale transaction.
func (s *saleService) CreateSale(ctx context.Context, req *model.CreateSaleRequest) (*model.Sale, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}
	if req.PaymentMethod == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Payment method is required")
	}

	sale, err := s.create(ctx, req.Items, req.Client, model.SaleTypeSale, model.SaleStatusCompleted, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	s.metrics.SalesCreated.WithLabelValues(string(model.SaleTypeSale)).Inc()

	// Receipt storage is a side effect: a storage failure never voids the sale.
	body := receipt.Render(sale, sale.CreatedAt)
	if location, rErr := s.receipts.Put(ctx, receipt.Key(sale), body); rErr != nil {
		s.logger.Warn().Err(rErr).Str("sale_number", sale.Number).Msg("failed to store receipt")
	} else {
		s.logger.Debug().Str("location", location).Msg("receipt stored")
	}

	return sale, nil
}

// CreateOrder records an online order. The sale is created PENDING, the
// placing user's cart is cleared by email match, and a payment charge is
// initiated. A failed initiation leaves the order PENDING for the caller to
// retry; it does not undo the order.
func (s *saleService) CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}
	if req.Client == nil || req.Client.Email == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Client details are required for orders")
	}

	sale, err := s.create(ctx, req.Items, req.Client, model.SaleTypeOrder, model.SaleStatusPending, "ONLINE")
	if err != nil {
		return nil, err
	}

	s.metrics.SalesCreated.WithLabelValues(string(model.SaleTypeOrder)).Inc()

	if err := s.cartRepo.DeleteByUserEmail(ctx, req.Client.Email); err != nil {
		s.logger.Warn().Err(err).Str("email", req.Client.Email).Msg("failed to clear cart after order")
	}

	resp := &model.CreateOrderResponse{Sale: sale}

	ref, err := s.payments.Initiate(ctx, sale.ID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("sale_id", sale.ID.String()).
			Msg("payment initiation failed, order left pending")
		return resp, nil
	}

	sale.Status = model.SaleStatusPaymentPending
	sale.TransactionRef = &ref
	resp.PaymentRef = ref

	return resp, nil
}

// create runs the transactional sale creation. Requested quantities are
// aggregated per inventory line, each line is locked and its remaining stock
// checked against the full aggregated quantity, and only then the sale with
// its items and client snapshot is inserted. Check and insertion share one
// transaction, so they cannot race with a concurrent creation on the same
// line. Lines are locked in a fixed order to keep two concurrent creations
// from deadlocking each other.
func (s *saleService) create(
	ctx context.Context,
	items []model.SaleItemRequest,
	client *model.SaleClientRequest,
	saleType model.SaleType,
	status model.SaleStatus,
	paymentMethod string,
) (*model.Sale, error) {
	tx, err := s.saleRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	sale := &model.Sale{
		ID:            uuid.New(),
		Status:        status,
		Type:          saleType,
		PaymentMethod: paymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Merge duplicate inventory references so the availability check sees the
	// full quantity requested for a line, then lock lines in a fixed order.
	requested := make(map[uuid.UUID]int, len(items))
	lineIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, seen := requested[item.InventoryID]; !seen {
			lineIDs = append(lineIDs, item.InventoryID)
		}
		requested[item.InventoryID] += item.Quantity
	}
	slices.SortFunc(lineIDs, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})

	saleItems := make([]model.SaleItem, 0, len(lineIDs))
	for _, lineID := range lineIDs {
		quantity := requested[lineID]

		var inv *model.Inventory
		var sold int
		if inv, sold, err = s.inventoryRepo.LockLine(ctx, tx, lineID); err != nil {
			return nil, fmt.Errorf("failed to create sale: %w", err)
		}
		if inv == nil {
			err = model.ErrInventoryNotFound
			return nil, err
		}

		remaining := inv.Quantity - sold
		if remaining < quantity {
			s.logger.Warn().
				Str("inventory_id", inv.ID.String()).
				Int("requested", quantity).
				Int("available", remaining).
				Msg("insufficient stock")
			err = &model.InsufficientStockError{
				InventoryID: inv.ID,
				Requested:   quantity,
				Available:   remaining,
			}
			return nil, err
		}

		saleItems = append(saleItems, model.SaleItem{
			ID:          uuid.New(),
			SaleID:      sale.ID,
			InventoryID: inv.ID,
			Quantity:    quantity,
			Amount:      discount.LineTotal(inv, quantity, now),
		})
	}

	// The number comes from a sequence, so reserving it before the stock
	// checks would burn a number on every rejected attempt.
	if sale.Number, err = s.saleRepo.NextNumber(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	if err = s.saleRepo.CreateSale(ctx, tx, sale); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}
	if err = s.saleRepo.CreateSaleItems(ctx, tx, saleItems); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	var saleClient *model.SaleClient
	if client != nil {
		saleClient = &model.SaleClient{
			ID:          uuid.New(),
			SaleID:      sale.ID,
			Name:        client.Name,
			Email:       client.Email,
			Phone:       client.Phone,
			Address:     client.Address,
			City:        client.City,
			Country:     client.Country,
			PaymentInfo: client.PaymentInfo,
		}
		if err = s.saleRepo.CreateSaleClient(ctx, tx, saleClient); err != nil {
			return nil, fmt.Errorf("failed to create sale: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	sale.Items = saleItems
	sale.Client = saleClient

	s.logger.Info().
		Str("sale_id", sale.ID.String()).
		Str("number", sale.Number).
		Str("type", string(saleType)).
		Int("item_count", len(saleItems)).
		Msg("sale created")

	return sale, nil
}

// GetByID retrieves a sale by ID. Returns nil when absent.
func (s *saleService) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	return sale, nil
}

// List retrieves sales matching the filter.
func (s *saleService) List(ctx context.Context, filter model.SaleFilter) (*model.SaleList, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	sales, total, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	return &model.SaleList{
		Items: sales,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Cancel cancels the sale with a mandatory reason. The buyer is notified only
// when someone other than the buyer performed the cancellation.
func (s *saleService) Cancel(ctx context.Context, id uuid.UUID, reason, actorEmail string) error {
	if strings.TrimSpace(reason) == "" {
		return model.ErrCancelReasonRequired
	}

	sale, err := s.loadSale(ctx, id)
	if err != nil {
		return err
	}

	if err := s.saleRepo.Cancel(ctx, id, reason); err != nil {
		return err
	}

	s.logger.Info().Str("sale_id", id.String()).Str("reason", reason).Msg("sale cancelled")

	if sale.Client == nil || strings.EqualFold(actorEmail, sale.Client.Email) {
		return nil
	}
	s.notifyBuyer(ctx, sale, "Order cancelled",
		fmt.Sprintf("Your order %s has been cancelled: %s", sale.Number, reason),
		model.NotificationWarning)

	return nil
}

// SetDelivering moves a non-terminal sale to DELIVERING.
func (s *saleService) SetDelivering(ctx context.Context, id uuid.UUID) error {
	sale, err := s.loadSale(ctx, id)
	if err != nil {
		return err
	}
	if sale.Status.Terminal() {
		return model.ErrSaleNotUpdatable
	}

	if err := s.saleRepo.UpdateStatus(ctx, id, model.SaleStatusDelivering); err != nil {
		return err
	}

	s.notifyBuyer(ctx, sale, "Order on its way",
		fmt.Sprintf("Your order %s is out for delivery", sale.Number),
		model.NotificationInfo)

	return nil
}

// SetCompleted moves a non-terminal sale to COMPLETED.
func (s *saleService) SetCompleted(ctx context.Context, id uuid.UUID) error {
	sale, err := s.loadSale(ctx, id)
	if err != nil {
		return err
	}
	if sale.Status.Terminal() {
		return model.ErrSaleNotUpdatable
	}

	if err := s.saleRepo.UpdateStatus(ctx, id, model.SaleStatusCompleted); err != nil {
		return err
	}

	s.notifyBuyer(ctx, sale, "Order completed",
		fmt.Sprintf("Your order %s has been delivered", sale.Number),
		model.NotificationSuccess)

	return nil
}

// RequestRefund records the buyer's refund request. The sale moves to
// REFUND_REQUESTED; the refund itself happens when an admin completes it.
func (s *saleService) RequestRefund(ctx context.Context, id uuid.UUID, message string) error {
	if strings.TrimSpace(message) == "" {
		return model.ErrRefundMessageRequired
	}

	sale, err := s.loadSale(ctx, id)
	if err != nil {
		return err
	}
	switch sale.Status {
	case model.SaleStatusRefunded:
		return model.ErrRefundAlreadyDone
	case model.SaleStatusRefundRequested:
		return model.ErrRefundAlreadyRequested
	case model.SaleStatusCancelled:
		return model.ErrSaleNotUpdatable
	}

	if err := s.saleRepo.RequestRefund(ctx, id, message); err != nil {
		return err
	}

	s.logger.Info().Str("sale_id", id.String()).Msg("refund requested")
	return nil
}

// CompleteRefund applies the admin decision. ACCEPT refunds the sale and
// triggers the refund payment; REJECT records the response and leaves the
// status on REFUND_REQUESTED.
func (s *saleService) CompleteRefund(ctx context.Context, id uuid.UUID, message string, action model.RefundAction) error {
	if strings.TrimSpace(message) == "" {
		return model.ErrRefundMessageRequired
	}
	if action != model.RefundActionAccept && action != model.RefundActionReject {
		return model.ErrInvalidRefundAction
	}

	sale, err := s.loadSale(ctx, id)
	if err != nil {
		return err
	}
	if sale.Status == model.SaleStatusRefunded {
		return model.ErrRefundAlreadyDone
	}

	if action == model.RefundActionReject {
		if err := s.saleRepo.RejectRefund(ctx, id, message); err != nil {
			return err
		}
		s.notifyBuyer(ctx, sale, "Refund declined",
			fmt.Sprintf("Your refund request for %s was declined: %s", sale.Number, message),
			model.NotificationWarning)
		return nil
	}

	if err := s.saleRepo.AcceptRefund(ctx, id, message); err != nil {
		return err
	}

	// TODO: issue the refund charge once the provider's cash-out endpoint
	// is available; today the money movement happens out of band.
	s.logger.Info().Str("sale_id", id.String()).Msg("refund accepted")

	s.notifyBuyer(ctx, sale, "Refund accepted",
		fmt.Sprintf("Your refund for %s has been accepted: %s", sale.Number, message),
		model.NotificationSuccess)

	return nil
}

// loadSale fetches a sale and maps absence to ErrSaleNotFound.
func (s *saleService) loadSale(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	if sale == nil {
		return nil, model.ErrSaleNotFound
	}
	return sale, nil
}

// notifyBuyer resolves the buyer account from the sale's client email and
// sends a best-effort notification. A missing account or a sink failure is
// logged and never blocks the caller.
func (s *saleService) notifyBuyer(ctx context.Context, sale *model.Sale, title, message string, typ model.NotificationType) {
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

// validateItems rejects empty item lists and non-positive quantities.
func validateItems(items []model.SaleItemRequest) error {
	if len(items) == 0 {
		return model.NewDomainError(model.ErrCodeValidation, "Sale must contain at least one item")
	}
	for _, item := range items {
		if item.InventoryID == uuid.Nil {
			return model.NewDomainError(model.ErrCodeValidation, "Inventory id is required on every item")
		}
		if item.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}
	}
	return nil
}
