package ports

import (
	"context"
	"time"

	"github.com/devlink/bookings-api/internal/core/domain"
)

// GatewayInitializeRequest is the payload for the gateway's initialize call.
// Amount is in the gateway's minor currency unit.
type GatewayInitializeRequest struct {
	Email       string
	AmountMinor int64
	Reference   string
	CallbackURL string
	Metadata    map[string]string
}

// GatewaySession is the gateway's answer to a successful initialize call.
type GatewaySession struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// GatewayTransaction is the gateway's view of a transaction as reported by
// its verify endpoint. This is the sole source of truth for settlement.
type GatewayTransaction struct {
	Status      string
	AmountMinor int64
	Currency    string
	Channel     string
	PaidAt      *time.Time
	GatewayRef  string
}

// PaymentGateway abstracts the external payment provider.
type PaymentGateway interface {
	Initialize(ctx context.Context, req GatewayInitializeRequest) (*GatewaySession, error)
	Verify(ctx context.Context, reference string) (*GatewayTransaction, error)
}

// PaymentRepository defines persistence operations for payment records.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	FindByReference(ctx context.Context, reference string) (*domain.Payment, error)
	// UpdateStatusFromPending atomically transitions the payment with the
	// given reference from pending to status. It returns
	// domain.ErrPaymentNotFound when no pending record matched, which
	// callers use to detect already-terminal records.
	UpdateStatusFromPending(ctx context.Context, reference string, status domain.PaymentStatus, channel string, paidAt *time.Time) (*domain.Payment, error)
}

// InitializePaymentInput carries the data to start a payment for a booking.
// Amount is in major currency units.
type InitializePaymentInput struct {
	BookingID  string
	CustomerID string
	Email      string
	Role       domain.Role
}

// InitializePaymentResult is returned to the caller so they can complete
// checkout on the gateway's hosted page.
type InitializePaymentResult struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
	AmountMinor      int64
}

// WebhookEvent is a gateway charge notification. Gateways redeliver
// webhooks, so processing must be idempotent per reference.
type WebhookEvent struct {
	Event     string
	Reference string
	Status    string
}

// PaymentService manages the payment lifecycle: reference generation,
// gateway initialization, verification, and idempotent settlement.
type PaymentService interface {
	InitializePayment(ctx context.Context, input InitializePaymentInput) (*InitializePaymentResult, error)
	// VerifyPayment queries the gateway and applies the verified result.
	VerifyPayment(ctx context.Context, reference string) (*domain.Payment, error)
	// HandleWebhook deduplicates, verifies, and applies one gateway event.
	HandleWebhook(ctx context.Context, event WebhookEvent) error
}
