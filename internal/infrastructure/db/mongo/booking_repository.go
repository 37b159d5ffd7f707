package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devlink/bookings-api/internal/core/domain"
	"github.com/devlink/bookings-api/internal/core/ports"
)

const bookingCollection = "bookings"

// BookingRepository implements ports.BookingRepository using MongoDB.
// Booking IDs are application-generated UUIDs stored as _id.
type BookingRepository struct {
	coll *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{coll: db.Collection(bookingCollection)}
}

type mongoBooking struct {
	ID               string    `bson:"_id"`
	CustomerID       string    `bson:"customer_id"`
	Service          string    `bson:"service"`
	ScheduledAt      time.Time `bson:"scheduled_at"`
	Notes            string    `bson:"notes,omitempty"`
	Amount           float64   `bson:"amount"`
	Currency         string    `bson:"currency"`
	Status           string    `bson:"status"`
	PaymentReference string    `bson:"payment_reference,omitempty"`
	PaymentStatus    string    `bson:"payment_status,omitempty"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

func (m mongoBooking) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:               m.ID,
		CustomerID:       m.CustomerID,
		Service:          m.Service,
		ScheduledAt:      m.ScheduledAt.UTC(),
		Notes:            m.Notes,
		Amount:           m.Amount,
		Currency:         m.Currency,
		Status:           domain.BookingStatus(m.Status),
		PaymentReference: m.PaymentReference,
		PaymentStatus:    domain.PaymentStatus(m.PaymentStatus),
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	doc := mongoBooking{
		ID:          b.ID,
		CustomerID:  b.CustomerID,
		Service:     b.Service,
		ScheduledAt: b.ScheduledAt.UTC(),
		Notes:       b.Notes,
		Amount:      b.Amount,
		Currency:    b.Currency,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt.UTC(),
		UpdatedAt:   b.UpdatedAt.UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string, customerID string) (*domain.Booking, error) {
	filter := bson.M{"_id": id}
	if customerID != "" {
		filter["customer_id"] = customerID
	}

	var mb mongoBooking
	if err := r.coll.FindOne(ctx, filter).Decode(&mb); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return mb.toDomain(), nil
}

func (r *BookingRepository) List(ctx context.Context, filter ports.ListBookingsFilter) ([]*domain.Booking, int64, error) {
	query := bson.M{}
	if filter.CustomerID != "" {
		query["customer_id"] = filter.CustomerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer cur.Close(ctx)

	var items []*domain.Booking
	for cur.Next(ctx) {
		var mb mongoBooking
		if err := cur.Decode(&mb); err != nil {
			return nil, 0, fmt.Errorf("decode booking: %w", err)
		}
		items = append(items, mb.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings: %w", err)
	}

	return items, total, nil
}

// SetPaymentState mirrors payment progress onto the booking. A successful
// payment also confirms the booking; a failed one leaves it awaiting a new
// payment attempt.
func (r *BookingRepository) SetPaymentState(ctx context.Context, id string, reference string, status domain.PaymentStatus) error {
	set := bson.M{
		"payment_reference": reference,
		"payment_status":    string(status),
		"updated_at":        time.Now().UTC(),
	}
	if status == domain.PaymentSuccess {
		set["status"] = string(domain.BookingConfirmed)
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("set booking payment state: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}
