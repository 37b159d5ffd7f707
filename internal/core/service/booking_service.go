package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/devlink/bookings-api/internal/core/domain"
	"github.com/devlink/bookings-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type BookingService struct {
	repo ports.BookingRepository
	log  zerolog.Logger
}

func NewBookingService(repo ports.BookingRepository, log zerolog.Logger) *BookingService {
	return &BookingService{repo: repo, log: log}
}

// CreateBooking creates a new booking in pending_payment state.
func (s *BookingService) CreateBooking(ctx context.Context, input ports.CreateBookingInput) (*domain.Booking, error) {
	now := time.Now().UTC()
	booking := &domain.Booking{
		ID:          uuid.NewString(),
		CustomerID:  input.CustomerID,
		Service:     input.Service,
		ScheduledAt: input.ScheduledAt.UTC(),
		Notes:       input.Notes,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Status:      domain.BookingPendingPayment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.log.Error().Err(err).Msg("failed to create booking")
		return nil, err
	}

	s.log.Info().
		Str("booking_id", booking.ID).
		Str("customer_id", booking.CustomerID).
		Str("service", booking.Service).
		Msg("booking created")

	return booking, nil
}

// GetBooking retrieves a single booking. Customers only see their own;
// admins see everything.
func (s *BookingService) GetBooking(ctx context.Context, input ports.GetBookingInput) (*domain.Booking, error) {
	scope := input.CustomerID
	if input.Role == domain.RoleAdmin {
		scope = ""
	}
	return s.repo.FindByID(ctx, input.BookingID, scope)
}

// ListBookings returns a page of bookings scoped by role.
func (s *BookingService) ListBookings(ctx context.Context, input ports.ListBookingsInput) (*ports.ListBookingsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := ports.ListBookingsFilter{
		CustomerID: input.CustomerID,
		Status:     input.Status,
		Page:       page,
		Limit:      limit,
	}
	if input.Role == domain.RoleAdmin {
		filter.CustomerID = ""
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListBookingsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}
