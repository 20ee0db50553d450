package repository

import (
	"context"
	"errors"
	"fmt"
	availabilityerrors "scheduleflow/internal/availability/errors"
	"scheduleflow/pkg/config"
	mongotx "scheduleflow/pkg/db/mongo"
	"scheduleflow/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Availability"
)

type mongoAvailabilityRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type AvailabilityRepository interface {
	ListBySeller(ctx context.Context, sellerID string, limit int, offset int64) ([]*model.TimeSlot, error)
	FindByID(ctx context.Context, slotID string) (*model.TimeSlot, error)
	InsertMany(ctx context.Context, slots []model.TimeSlot) error
	Delete(ctx context.Context, sellerID string, slotID string) (int64, error)
	SetBooked(ctx context.Context, sellerID string, slotID string, bookedBy string, bookedAt time.Time) error
	CountBySeller(ctx context.Context, sellerID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoAvailabilityRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAvailabilityRepository) ListBySeller(ctx context.Context, sellerID string, limit int, offset int64) ([]*model.TimeSlot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"seller_id": sellerID}
	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer cursor.Close(ctx)

	slots := []*model.TimeSlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}

	return slots, nil
}

func (r *mongoAvailabilityRepository) FindByID(ctx context.Context, slotID string) (*model.TimeSlot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var slot model.TimeSlot
	err := r.collection.FindOne(ctx, bson.M{"_id": slotID}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, availabilityerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}

	return &slot, nil
}

func (r *mongoAvailabilityRepository) InsertMany(ctx context.Context, slots []model.TimeSlot) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(slots))
	for i := range slots {
		docs = append(docs, slots[i])
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return fmt.Errorf("failed to insert slots: %w", err)
	}
	return nil
}

func (r *mongoAvailabilityRepository) Delete(ctx context.Context, sellerID string, slotID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": slotID, "seller_id": sellerID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete slot: %w", err)
	}

	return result.DeletedCount, nil
}

// SetBooked transitions a slot to booked only when it is still available.
// The status filter makes concurrent booking attempts race on the same
// document: exactly one update matches, the rest observe ErrAlreadyBooked.
func (r *mongoAvailabilityRepository) SetBooked(ctx context.Context, sellerID string, slotID string, bookedBy string, bookedAt time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"_id":       slotID,
		"seller_id": sellerID,
		"status":    model.SlotAvailable,
	}
	update := bson.M{
		"$set": bson.M{
			"status":    model.SlotBooked,
			"booked_by": bookedBy,
			"booked_at": bookedAt.UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to book slot: %w", err)
	}

	if result.MatchedCount == 0 {
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": slotID, "seller_id": sellerID})
		if countErr != nil {
			return fmt.Errorf("failed to book slot: %w", countErr)
		}
		if count == 0 {
			return availabilityerrors.ErrNotFound
		}
		return availabilityerrors.ErrAlreadyBooked
	}

	return nil
}

func (r *mongoAvailabilityRepository) CountBySeller(ctx context.Context, sellerID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"seller_id": sellerID})
	if err != nil {
		return 0, fmt.Errorf("failed to count slots: %w", err)
	}
	return count, nil
}

func (r *mongoAvailabilityRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
