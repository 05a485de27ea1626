package handler

import (
	"net/http"

	"boutique/internal/model"
	"boutique/internal/service"

	"github.com/rs/zerolog"
)

// InventoryHandler handles inventory HTTP requests.
type InventoryHandler struct {
	service service.InventoryService
	logger  zerolog.Logger
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(service service.InventoryService, logger zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With().Str("handler", "inventory").Logger(),
	}
}

// Create handles POST /api/inventory requests.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateInventoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	inv, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, inv)
}

// List handles GET /api/inventory requests.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	list, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// GetByID handles GET /api/inventory/{id} requests.
func (h *InventoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	detail, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if detail == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "inventory not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// AddDiscount handles POST /api/inventory/{id}/discounts requests.
func (h *InventoryHandler) AddDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var req model.CreateDiscountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	d, err := h.service.AddDiscount(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, d)
}
