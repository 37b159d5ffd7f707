package ports

import (
	"context"
	"time"

	"github.com/devlink/bookings-api/internal/core/domain"
)

// CreateBookingInput carries all data needed to create a new booking.
type CreateBookingInput struct {
	CustomerID  string
	Service     string
	ScheduledAt time.Time
	Notes       string
	Amount      float64
	Currency    string
}

// GetBookingInput carries the parameters to retrieve a single booking.
// Role and CustomerID enforce scoping: customers only see their own.
type GetBookingInput struct {
	BookingID  string
	Role       domain.Role
	CustomerID string
}

// ListBookingsInput carries the parameters for the list endpoint.
type ListBookingsInput struct {
	Role       domain.Role
	CustomerID string
	Status     string
	Page       int
	Limit      int
}

// ListBookingsResult is returned by ListBookings.
type ListBookingsResult struct {
	Items      []*domain.Booking
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ListBookingsFilter is the repository-level query. CustomerID empty means
// no scoping (admin).
type ListBookingsFilter struct {
	CustomerID string
	Status     string
	Page       int
	Limit      int
}

// BookingService defines use-case operations for bookings.
type BookingService interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, input GetBookingInput) (*domain.Booking, error)
	ListBookings(ctx context.Context, input ListBookingsInput) (*ListBookingsResult, error)
}

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	// FindByID retrieves a booking. When customerID is non-empty the query is
	// additionally filtered by customer_id (scoping).
	FindByID(ctx context.Context, id string, customerID string) (*domain.Booking, error)
	List(ctx context.Context, filter ListBookingsFilter) ([]*domain.Booking, int64, error)
	// SetPaymentState updates the payment mirror fields on a booking. A
	// successful payment also confirms the booking.
	SetPaymentState(ctx context.Context, id string, reference string, status domain.PaymentStatus) error
}
