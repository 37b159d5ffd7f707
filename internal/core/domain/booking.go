package domain

import (
	"errors"
	"time"
)

// BookingStatus tracks the booking itself, distinct from its payment.
type BookingStatus string

const (
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingConfirmed      BookingStatus = "confirmed"
	BookingCancelled      BookingStatus = "cancelled"
)

var ErrBookingNotFound = errors.New("booking not found")

// Booking is the core aggregate: a customer's reservation of a service,
// settled by at most one successful payment. PaymentReference and
// PaymentStatus mirror the payment record keyed by the same reference.
type Booking struct {
	ID               string        `json:"id"`
	CustomerID       string        `json:"customer_id"`
	Service          string        `json:"service"`
	ScheduledAt      time.Time     `json:"scheduled_at"`
	Notes            string        `json:"notes,omitempty"`
	Amount           float64       `json:"amount"`
	Currency         string        `json:"currency"`
	Status           BookingStatus `json:"status"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	PaymentStatus    PaymentStatus `json:"payment_status,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
