package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/devlink/bookings-api/internal/api/metrics"
	"github.com/devlink/bookings-api/internal/core/domain"
	"github.com/devlink/bookings-api/internal/core/ports"
)

const referencePrefix = "DV-PAY"

// WebhookDedup abstracts the webhook idempotency store (Redis).
type WebhookDedup interface {
	IsDuplicate(ctx context.Context, reference, status string) (bool, error)
	Mark(ctx context.Context, reference, status string) error
}

// PaymentService drives the payment lifecycle. It holds no mutable state:
// correctness under concurrent verification relies on the repository's
// atomic pending-to-terminal update, not on locks here.
type PaymentService struct {
	payments    ports.PaymentRepository
	bookings    ports.BookingRepository
	gateway     ports.PaymentGateway
	dedup       WebhookDedup
	callbackURL string
	log         zerolog.Logger
}

func NewPaymentService(
	payments ports.PaymentRepository,
	bookings ports.BookingRepository,
	gateway ports.PaymentGateway,
	dedup WebhookDedup,
	callbackURL string,
	log zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		payments:    payments,
		bookings:    bookings,
		gateway:     gateway,
		dedup:       dedup,
		callbackURL: callbackURL,
		log:         log,
	}
}

// GenerateReference returns a payment reference of the form
// DV-PAY-<unix-milli>-<random 0..999999>. Uniqueness is probabilistic:
// two calls in the same millisecond collide only if they also draw the
// same random suffix. Collisions are not reconciled.
func GenerateReference() string {
	return fmt.Sprintf("%s-%d-%d", referencePrefix, time.Now().UnixMilli(), randomSuffix())
}

func randomSuffix() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// fallback: use current nanoseconds
		return time.Now().UnixNano() % 1000000
	}
	return int64(binary.BigEndian.Uint64(b[:]) % 1000000)
}

// ToMinorUnits converts a major-unit amount to the gateway's minor unit.
// Round half up; exact for integral inputs.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ToMajorUnits converts a minor-unit amount back to major units.
func ToMajorUnits(amountMinor int64) float64 {
	return float64(amountMinor) / 100
}

// InitializePayment creates a local pending payment record for the booking
// and opens a gateway checkout session for it. The local record stays
// pending until a verify call confirms the gateway's outcome, so a gateway
// failure here leaves no partial settlement behind.
func (s *PaymentService) InitializePayment(ctx context.Context, input ports.InitializePaymentInput) (*ports.InitializePaymentResult, error) {
	scope := input.CustomerID
	if input.Role == domain.RoleAdmin {
		scope = ""
	}
	booking, err := s.bookings.FindByID(ctx, input.BookingID, scope)
	if err != nil {
		return nil, err
	}
	if booking.PaymentStatus == domain.PaymentSuccess {
		return nil, fmt.Errorf("booking %s already paid: %w", booking.ID, domain.ErrInvalidTransition)
	}

	reference := GenerateReference()
	amountMinor := ToMinorUnits(booking.Amount)
	now := time.Now().UTC()

	payment := &domain.Payment{
		Reference:   reference,
		BookingID:   booking.ID,
		CustomerID:  booking.CustomerID,
		Email:       input.Email,
		AmountMinor: amountMinor,
		Currency:    booking.Currency,
		Status:      domain.PaymentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment record: %w", err)
	}

	session, err := s.gateway.Initialize(ctx, ports.GatewayInitializeRequest{
		Email:       input.Email,
		AmountMinor: amountMinor,
		Reference:   reference,
		CallbackURL: s.callbackURL,
		Metadata: map[string]string{
			"booking_id":  booking.ID,
			"customer_id": booking.CustomerID,
		},
	})
	if err != nil {
		s.log.Warn().Err(err).Str("reference", reference).Msg("gateway initialize failed")
		return nil, err
	}

	if err := s.bookings.SetPaymentState(ctx, booking.ID, reference, domain.PaymentPending); err != nil {
		s.log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to attach payment reference to booking")
	}

	s.log.Info().
		Str("reference", reference).
		Str("booking_id", booking.ID).
		Int64("amount_minor", amountMinor).
		Msg("payment initialized")

	return &ports.InitializePaymentResult{
		Reference:        session.Reference,
		AuthorizationURL: session.AuthorizationURL,
		AccessCode:       session.AccessCode,
		AmountMinor:      amountMinor,
	}, nil
}

// VerifyPayment queries the gateway for the reference, applies the verified
// result, and returns the resulting local record. Safe to call repeatedly.
func (s *PaymentService) VerifyPayment(ctx context.Context, reference string) (*domain.Payment, error) {
	tx, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	if err := s.applyVerifiedResult(ctx, reference, tx); err != nil {
		return nil, err
	}
	return s.payments.FindByReference(ctx, reference)
}

// HandleWebhook processes one gateway charge event: deduplicates, verifies
// with the gateway (the event payload alone is never trusted), and applies
// the result. Redelivered events are no-ops.
func (s *PaymentService) HandleWebhook(ctx context.Context, event ports.WebhookEvent) error {
	if event.Reference == "" {
		return nil
	}

	isDup, err := s.dedup.IsDuplicate(ctx, event.Reference, event.Status)
	if err != nil {
		s.log.Warn().Err(err).Str("reference", event.Reference).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.WebhookDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("reference", event.Reference).Str("status", event.Status).Msg("duplicate webhook skipped")
		return nil
	}
	metrics.WebhookDedupTotal.WithLabelValues("miss").Inc()

	if _, err := s.VerifyPayment(ctx, event.Reference); err != nil {
		return fmt.Errorf("webhook %s: %w", event.Reference, err)
	}

	if markErr := s.dedup.Mark(ctx, event.Reference, event.Status); markErr != nil {
		s.log.Warn().Err(markErr).Str("reference", event.Reference).Msg("failed to set dedup key")
	}
	return nil
}

// applyVerifiedResult transitions the local record from pending to the
// gateway-reported terminal state. Applying the same terminal state twice
// is a no-op; the atomic conditional update in the repository is what makes
// this safe under concurrent or duplicate invocation.
func (s *PaymentService) applyVerifiedResult(ctx context.Context, reference string, tx *ports.GatewayTransaction) error {
	status, final := mapGatewayStatus(tx.Status)
	if !final {
		// gateway still reports the transaction in flight; keep pending
		return nil
	}

	updated, err := s.payments.UpdateStatusFromPending(ctx, reference, status, tx.Channel, tx.PaidAt)
	if err != nil {
		if !errors.Is(err, domain.ErrPaymentNotFound) {
			return fmt.Errorf("apply verified result: %w", err)
		}
		// No pending row matched: either the reference is unknown, or the
		// record is already terminal (idempotent replay or a conflicting
		// outcome).
		existing, ferr := s.payments.FindByReference(ctx, reference)
		if ferr != nil {
			return ferr
		}
		if existing.Status == status {
			return nil
		}
		return fmt.Errorf("payment %s already %s, gateway reports %s: %w",
			reference, existing.Status, status, domain.ErrInvalidTransition)
	}

	if err := s.bookings.SetPaymentState(ctx, updated.BookingID, reference, status); err != nil {
		s.log.Error().Err(err).
			Str("reference", reference).
			Str("booking_id", updated.BookingID).
			Msg("failed to mirror payment status onto booking")
	}

	s.log.Info().
		Str("reference", reference).
		Str("status", string(status)).
		Int64("amount_minor", updated.AmountMinor).
		Msg("payment settled")
	return nil
}

// mapGatewayStatus maps the gateway's reported status onto the local state
// machine. Non-final gateway states leave the record pending.
func mapGatewayStatus(gatewayStatus string) (domain.PaymentStatus, bool) {
	switch gatewayStatus {
	case "success":
		return domain.PaymentSuccess, true
	case "failed", "abandoned", "reversed":
		return domain.PaymentFailed, true
	default:
		return domain.PaymentPending, false
	}
}
