package repository

import (
	"context"
	"errors"
	"fmt"
	sellerserrors "scheduleflow/internal/sellers/errors"
	"scheduleflow/pkg/config"
	mongotx "scheduleflow/pkg/db/mongo"
	"scheduleflow/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Sellers"
)

type mongoSellerRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type SellerRepository interface {
	Create(ctx context.Context, seller *model.Seller) error
	FindByID(ctx context.Context, id string) (*model.Seller, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Seller, error)
	FindByNames(ctx context.Context, names []string) ([]*model.Seller, error)
	Update(ctx context.Context, id string, updates bson.M) error
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoSellerRepository(cfg *config.Config) SellerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSellerRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoSellerRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoSellerRepository) Create(ctx context.Context, seller *model.Seller) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	seller.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	_, err := r.collection.InsertOne(ctx, seller)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return sellerserrors.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create seller: %w", err)
	}
	return nil
}

func (r *mongoSellerRepository) FindByID(ctx context.Context, id string) (*model.Seller, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var seller model.Seller
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&seller)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sellerserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find seller: %w", err)
	}

	return &seller, nil
}

func (r *mongoSellerRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Seller, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sellers: %w", err)
	}
	defer cursor.Close(ctx)

	sellers := []*model.Seller{}
	if err := cursor.All(ctx, &sellers); err != nil {
		return nil, fmt.Errorf("failed to decode sellers: %w", err)
	}

	return sellers, nil
}

func (r *mongoSellerRepository) FindByNames(ctx context.Context, names []string) ([]*model.Seller, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if len(names) == 0 {
		return []*model.Seller{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"name": bson.M{"$in": names}})
	if err != nil {
		return nil, fmt.Errorf("failed to find sellers by name: %w", err)
	}
	defer cursor.Close(ctx)

	sellers := []*model.Seller{}
	if err := cursor.All(ctx, &sellers); err != nil {
		return nil, fmt.Errorf("failed to decode sellers: %w", err)
	}

	return sellers, nil
}

func (r *mongoSellerRepository) Update(ctx context.Context, id string, updates bson.M) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if len(updates) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update seller: %w", err)
	}
	if result.MatchedCount == 0 {
		return sellerserrors.ErrNotFound
	}
	return nil
}

func (r *mongoSellerRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count sellers: %w", err)
	}
	return count, nil
}

func (r *mongoSellerRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
