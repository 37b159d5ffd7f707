package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devlink/bookings-api/internal/core/domain"
)

const paymentCollection = "payments"

// PaymentRepository implements ports.PaymentRepository using MongoDB.
// References carry a unique index so a reference collision surfaces as a
// duplicate-key error at insert time instead of a split payment record.
type PaymentRepository struct {
	coll *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{coll: db.Collection(paymentCollection)}
}

// EnsureIndexes creates the unique reference index. Call once at startup.
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "reference", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type mongoPayment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Reference   string             `bson:"reference"`
	BookingID   string             `bson:"booking_id"`
	CustomerID  string             `bson:"customer_id"`
	Email       string             `bson:"email"`
	AmountMinor int64              `bson:"amount_minor"`
	Currency    string             `bson:"currency"`
	Status      string             `bson:"status"`
	Channel     string             `bson:"channel,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
	PaidAt      *time.Time         `bson:"paid_at,omitempty"`
}

func (m mongoPayment) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:          m.ID.Hex(),
		Reference:   m.Reference,
		BookingID:   m.BookingID,
		CustomerID:  m.CustomerID,
		Email:       m.Email,
		AmountMinor: m.AmountMinor,
		Currency:    m.Currency,
		Status:      domain.PaymentStatus(m.Status),
		Channel:     m.Channel,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
		PaidAt:      m.PaidAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	doc := mongoPayment{
		Reference:   p.Reference,
		BookingID:   p.BookingID,
		CustomerID:  p.CustomerID,
		Email:       p.Email,
		AmountMinor: p.AmountMinor,
		Currency:    p.Currency,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) FindByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	var mp mongoPayment
	if err := r.coll.FindOne(ctx, bson.M{"reference": reference}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return mp.toDomain(), nil
}

// UpdateStatusFromPending performs the atomic single-row transition that
// exactly-once settlement relies on: the filter matches only while the
// record is still pending, so concurrent appliers race on one conditional
// update and at most one of them wins.
func (r *PaymentRepository) UpdateStatusFromPending(
	ctx context.Context,
	reference string,
	status domain.PaymentStatus,
	channel string,
	paidAt *time.Time,
) (*domain.Payment, error) {
	set := bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}
	if channel != "" {
		set["channel"] = channel
	}
	if paidAt != nil {
		set["paid_at"] = paidAt.UTC()
	}

	filter := bson.M{
		"reference": reference,
		"status":    string(domain.PaymentPending),
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mp mongoPayment
	if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	return mp.toDomain(), nil
}
