package handler

import (
	"time"

	"github.com/devlink/bookings-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type createBookingRequest struct {
	Service     string    `json:"service"      validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Notes       string    `json:"notes"`
	Amount      float64   `json:"amount"       validate:"required,gt=0"`
	Currency    string    `json:"currency"     validate:"required,len=3"`
}

type listBookingsQuery struct {
	Status string `query:"status"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

// Response-only types owned by the transport layer, kept separate from
// domain types so the JSON contract is not coupled to internal changes.

type bookingResponse struct {
	ID               string    `json:"id"`
	CustomerID       string    `json:"customer_id"`
	Service          string    `json:"service"`
	ScheduledAt      time.Time `json:"scheduled_at"`
	Notes            string    `json:"notes,omitempty"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	PaymentReference string    `json:"payment_reference,omitempty"`
	PaymentStatus    string    `json:"payment_status,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type listBookingsResponse struct {
	Items      []bookingResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:               b.ID,
		CustomerID:       b.CustomerID,
		Service:          b.Service,
		ScheduledAt:      b.ScheduledAt,
		Notes:            b.Notes,
		Amount:           b.Amount,
		Currency:         b.Currency,
		Status:           string(b.Status),
		PaymentReference: b.PaymentReference,
		PaymentStatus:    string(b.PaymentStatus),
		CreatedAt:        b.CreatedAt,
	}
}
