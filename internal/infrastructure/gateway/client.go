package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/devlink/bookings-api/internal/api/metrics"
	"github.com/devlink/bookings-api/internal/core/domain"
	"github.com/devlink/bookings-api/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// Client talks to the external payment gateway over HTTP. Every request
// carries the bearer secret and runs under a bounded deadline so a hung
// gateway surfaces as an error instead of stalling the request.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client
}

// Config captures the settings for the gateway client.
type Config struct {
	BaseURL string
	Secret  string
	Timeout time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		secret:  cfg.Secret,
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope is the gateway's standard response wrapper. Status false means
// the gateway rejected the request; Message explains why.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Channel   string `json:"channel"`
	PaidAt    string `json:"paid_at"`
	Reference string `json:"reference"`
	ID        int64  `json:"id"`
}

// Initialize opens a checkout session for the reference. Amount is already
// in the gateway's minor unit.
func (c *Client) Initialize(ctx context.Context, req ports.GatewayInitializeRequest) (*ports.GatewaySession, error) {
	payload := map[string]any{
		"email":     req.Email,
		"amount":    req.AmountMinor,
		"reference": req.Reference,
	}
	if req.CallbackURL != "" {
		payload["callback_url"] = req.CallbackURL
	}
	if len(req.Metadata) > 0 {
		payload["metadata"] = req.Metadata
	}

	var data initializeData
	if err := c.call(ctx, http.MethodPost, "/transaction/initialize", payload, "initialize", &data); err != nil {
		return nil, err
	}

	return &ports.GatewaySession{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// Verify fetches the gateway's view of a transaction. This is the only
// source of truth for whether money actually moved.
func (c *Client) Verify(ctx context.Context, reference string) (*ports.GatewayTransaction, error) {
	var data verifyData
	if err := c.call(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, "verify", &data); err != nil {
		return nil, err
	}

	tx := &ports.GatewayTransaction{
		Status:      data.Status,
		AmountMinor: data.Amount,
		Currency:    data.Currency,
		Channel:     data.Channel,
		GatewayRef:  data.Reference,
	}
	if data.PaidAt != "" {
		if ts, err := time.Parse(time.RFC3339, data.PaidAt); err == nil {
			tsUTC := ts.UTC()
			tx.PaidAt = &tsUTC
		}
	}
	return tx, nil
}

// call performs one gateway round trip and decodes the envelope. Transport
// failures, non-2xx responses, and status:false envelopes all come back as
// a GatewayError carrying the gateway's own message.
func (c *Client) call(ctx context.Context, method, path string, payload any, op string, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.GatewayRequestDuration.WithLabelValues(op, "error").Observe(time.Since(start).Seconds())
		return &domain.GatewayError{Op: op, Message: "gateway unreachable", Err: err}
	}
	defer resp.Body.Close()
	metrics.GatewayRequestDuration.WithLabelValues(op, "ok").Observe(time.Since(start).Seconds())

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &domain.GatewayError{Op: op, Message: "failed to read gateway response", Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &domain.GatewayError{Op: op, Message: fmt.Sprintf("malformed gateway response (HTTP %d)", resp.StatusCode), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("gateway returned HTTP %d", resp.StatusCode)
		}
		return &domain.GatewayError{Op: op, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &domain.GatewayError{Op: op, Message: "malformed gateway payload", Err: err}
		}
	}
	return nil
}
