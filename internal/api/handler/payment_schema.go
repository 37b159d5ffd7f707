package handler

import (
	"time"

	"github.com/devlink/bookings-api/internal/core/domain"
)

type initializePaymentResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code,omitempty"`
	AmountMinor      int64  `json:"amount_minor"`
}

type paymentResponse struct {
	Reference   string     `json:"reference"`
	BookingID   string     `json:"booking_id"`
	AmountMinor int64      `json:"amount_minor"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	Channel     string     `json:"channel,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}

// webhookRequest mirrors the gateway's charge event payload. Only the
// reference and status are read; everything else is re-fetched from the
// gateway's verify endpoint before any state changes.
type webhookRequest struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	} `json:"data"`
}

type acceptedResponse struct {
	Message string `json:"message"`
}

func toPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		Reference:   p.Reference,
		BookingID:   p.BookingID,
		AmountMinor: p.AmountMinor,
		Amount:      float64(p.AmountMinor) / 100,
		Currency:    p.Currency,
		Status:      string(p.Status),
		Channel:     p.Channel,
		PaidAt:      p.PaidAt,
	}
}
