package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"boutique/internal/model"
	"boutique/internal/service"

	"github.com/rs/zerolog"
)

// callbackPayload is the canonical webhook body sent by the payment provider.
type callbackPayload struct {
	Data struct {
		Ref    string `json:"ref"`
		Status string `json:"status"`
	} `json:"data"`
}

// PaymentHandler handles payment initiation and provider callbacks.
type PaymentHandler struct {
	service       service.PaymentService
	webhookSecret string
	logger        zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, webhookSecret string, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:       service,
		webhookSecret: webhookSecret,
		logger:        logger.With().Str("handler", "payment").Logger(),
	}
}

// Initiate handles POST /api/payments/initiate/{saleId} requests.
func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	saleID, err := pathUUID(r, "saleId")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	ref, err := h.service.Initiate(r.Context(), saleID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"transactionRef": ref})
}

// Callback handles POST /api/payments/callback requests from the provider.
// When a webhook secret is configured the X-Webhook-Signature header must
// carry a hex HMAC-SHA256 of the raw body.
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "unreadable body", h.logger)
		return
	}

	if h.webhookSecret != "" && !h.verifySignature(body, r.Header.Get("X-Webhook-Signature")) {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "invalid webhook signature", h.logger)
		return
	}

	var payload callbackPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Data.Ref == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "malformed callback payload", h.logger)
		return
	}

	if err := h.service.HandleCallback(r.Context(), payload.Data.Ref, payload.Data.Status); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *PaymentHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
