package domain

import (
	"errors"
	"fmt"
	"time"
)

// PaymentStatus represents the lifecycle state of a payment attempt.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// validPaymentTransitions defines the allowed state machine transitions.
// Both success and failed are terminal.
var validPaymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentSuccess, PaymentFailed},
}

var ErrInvalidTransition = errors.New("invalid payment status transition")
var ErrPaymentNotFound = errors.New("payment not found")

// CanTransitionTo reports whether a transition from s to next is valid.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range validPaymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s is a final state.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentSuccess || s == PaymentFailed
}

// Payment is the durable record of one payment attempt. Reference is the
// join key between the local booking and the gateway's transaction; it is
// immutable once created, as is AmountMinor.
type Payment struct {
	ID          string        `json:"id"`
	Reference   string        `json:"reference"`
	BookingID   string        `json:"booking_id"`
	CustomerID  string        `json:"customer_id"`
	Email       string        `json:"email"`
	AmountMinor int64         `json:"amount_minor"`
	Currency    string        `json:"currency"`
	Status      PaymentStatus `json:"status"`
	Channel     string        `json:"channel,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
}

// GatewayError wraps a failure reported by the external payment gateway.
// The gateway's own message is preserved so operators can diagnose
// gateway-side rejects from our logs alone.
type GatewayError struct {
	Op      string
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("gateway %s failed", e.Op)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// IsGatewayError reports whether err is (or wraps) a GatewayError.
func IsGatewayError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}
