package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"boutique/internal/config"

	"github.com/rs/zerolog"
)

// client is an HTTP Gateway implementation for a cash-in payment provider.
// No retry is performed: a failed charge is terminal for that attempt and
// must be retried by a new client-initiated request.
type client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	tokens       *tokenSource
	logger       zerolog.Logger
}

// NewClient creates a new payment gateway client.
func NewClient(cfg config.PaymentConfig, logger zerolog.Logger) Gateway {
	c := &client{
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		logger:       logger.With().Str("component", "payment-gateway").Logger(),
	}
	c.tokens = newTokenSource(c.fetchToken)
	return c
}

// authResponse is the provider's token endpoint response.
type authResponse struct {
	Access  string `json:"access"`
	Expires int64  `json:"expires"` // unix seconds
}

func (c *client) fetchToken(ctx context.Context) (string, time.Time, error) {
	payload := map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to encode auth payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/agents/authorize", bytes.NewReader(body))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("provider auth request failed")
		return "", time.Time{}, fmt.Errorf("provider auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Msg("provider auth rejected")
		return "", time.Time{}, fmt.Errorf("provider auth rejected with status %d", resp.StatusCode)
	}

	var auth authResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to decode auth response: %w", err)
	}

	if auth.Access == "" {
		return "", time.Time{}, fmt.Errorf("provider auth response carried no token")
	}

	c.logger.Debug().Msg("provider access token refreshed")
	return auth.Access, time.Unix(auth.Expires, 0), nil
}

// cashinRequest is the provider's charge payload.
type cashinRequest struct {
	Number string  `json:"number"`
	Amount float64 `json:"amount"`
}

// Cashin requests a charge of amount against the given account number.
func (c *client) Cashin(ctx context.Context, account string, amount float64) (*CashinResult, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire provider token: %w", err)
	}

	body, err := json.Marshal(cashinRequest{Number: account, Amount: amount})
	if err != nil {
		return nil, fmt.Errorf("failed to encode cashin payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transactions/cashin", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build cashin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("cashin request failed")
		return nil, fmt.Errorf("cashin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token revoked server-side; drop the cache so the next attempt
		// authenticates again.
		c.tokens.Invalidate()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("detail", string(detail)).
			Msg("provider rejected cashin")
		return nil, fmt.Errorf("provider rejected cashin with status %d", resp.StatusCode)
	}

	var result CashinResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode cashin response: %w", err)
	}

	if result.Ref == "" {
		return nil, fmt.Errorf("cashin response carried no transaction reference")
	}

	c.logger.Info().
		Str("ref", result.Ref).
		Str("status", result.Status).
		Float64("amount", amount).
		Msg("cashin initiated")

	return &result, nil
}
