package handler

import (
	"net/http"
	"strings"

	"boutique/internal/middleware"
	"boutique/internal/model"
	"boutique/internal/service"

	"github.com/rs/zerolog"
)

// SaleHandler handles sale and order HTTP requests.
type SaleHandler struct {
	service service.SaleService
	logger  zerolog.Logger
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(service service.SaleService, logger zerolog.Logger) *SaleHandler {
	return &SaleHandler{
		service: service,
		logger:  logger.With().Str("handler", "sale").Logger(),
	}
}

// CreateSale handles POST /api/sales requests (point-of-sale flow).
func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	sale, err := h.service.CreateSale(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, sale)
}

// CreateOrder handles POST /api/orders requests (online order flow).
func (h *SaleHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	resp, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /api/sales requests.
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	filter := model.SaleFilter{
		Status: r.URL.Query().Get("status"),
		Type:   r.URL.Query().Get("type"),
		Page:   page,
		Limit:  limit,
	}

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// ListMine handles GET /api/sales/mine requests, scoped to the caller's email.
func (h *SaleHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())

	page, limit := pagination(r)
	filter := model.SaleFilter{
		Status: r.URL.Query().Get("status"),
		Email:  claims.Email,
		Page:   page,
		Limit:  limit,
	}

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// GetByID handles GET /api/sales/{id} requests. Clients can only read their
// own sales; staff can read any.
func (h *SaleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	sale, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if sale == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "sale not found", h.logger)
		return
	}

	claims := middleware.ClaimsFrom(r.Context())
	if claims.Role == model.RoleClient {
		if sale.Client == nil || !strings.EqualFold(sale.Client.Email, claims.Email) {
			writeError(w, http.StatusForbidden, model.ErrCodeForbidden, "not your sale", h.logger)
			return
		}
	}

	writeJSON(w, http.StatusOK, sale)
}

// Cancel handles POST /api/sales/{id}/cancel requests.
func (h *SaleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var req model.CancelSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	claims := middleware.ClaimsFrom(r.Context())
	if err := h.service.Cancel(r.Context(), id, req.Reason, claims.Email); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetDelivering handles POST /api/sales/{id}/delivering requests.
func (h *SaleHandler) SetDelivering(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := h.service.SetDelivering(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetCompleted handles POST /api/sales/{id}/complete requests.
func (h *SaleHandler) SetCompleted(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := h.service.SetCompleted(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RequestRefund handles POST /api/sales/{id}/refund-request requests.
func (h *SaleHandler) RequestRefund(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var req model.RefundRequestPayload
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := h.service.RequestRefund(r.Context(), id, req.Message); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompleteRefund handles POST /api/sales/{id}/refund-complete requests.
func (h *SaleHandler) CompleteRefund(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var req model.CompleteRefundRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := h.service.CompleteRefund(r.Context(), id, req.Message, req.Action); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
