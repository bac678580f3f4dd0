package cartstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brewcart/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoStore implements Store backed by a MongoDB collection with one
// document per owner key.
type mongoStore struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewMongoStore creates a new MongoDB-backed cart store.
func NewMongoStore(collection *mongo.Collection, logger zerolog.Logger) Store {
	return &mongoStore{
		collection: collection,
		logger:     logger.With().Str("store", "cart").Logger(),
	}
}

// Get retrieves the cart for the given owner key.
func (s *mongoStore) Get(ctx context.Context, ownerKey string) (*model.Cart, error) {
	var cart model.Cart

	filter := bson.M{"owner_key": ownerKey}
	err := s.collection.FindOne(ctx, filter).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Str("owner_key", ownerKey).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

// Save persists the cart with an optimistic version check.
func (s *mongoStore) Save(ctx context.Context, cart *model.Cart) error {
	now := time.Now()
	cart.UpdatedAt = now
	cart.Status = model.CartStatusActive

	if cart.Version == 0 {
		cart.CreatedAt = now
		cart.Version = 1

		if _, err := s.collection.InsertOne(ctx, cart); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Someone else created the cart first.
				return ErrVersionConflict
			}
			s.logger.Error().Err(err).Str("owner_key", cart.OwnerKey).Msg("failed to insert cart")
			return fmt.Errorf("failed to insert cart: %w", err)
		}
		return nil
	}

	filter := bson.M{
		"owner_key": cart.OwnerKey,
		"version":   cart.Version,
		"status":    model.CartStatusActive,
	}
	update := bson.M{
		"$set": bson.M{
			"items":      cart.Items,
			"updated_at": now,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_key", cart.OwnerKey).Msg("failed to update cart")
		return fmt.Errorf("failed to update cart: %w", err)
	}

	if result.MatchedCount == 0 {
		s.logger.Debug().
			Str("owner_key", cart.OwnerKey).
			Int64("version", cart.Version).
			Msg("stale cart write rejected")
		return ErrVersionConflict
	}

	cart.Version++

	return nil
}

// ClaimForCheckout flips the cart to checking-out, conditional on version.
func (s *mongoStore) ClaimForCheckout(ctx context.Context, ownerKey string, version int64) error {
	filter := bson.M{
		"owner_key": ownerKey,
		"version":   version,
		"status":    model.CartStatusActive,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     model.CartStatusCheckingOut,
			"updated_at": time.Now(),
		},
	}

	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_key", ownerKey).Msg("failed to claim cart")
		return fmt.Errorf("failed to claim cart: %w", err)
	}

	if result.MatchedCount == 0 {
		s.logger.Debug().
			Str("owner_key", ownerKey).
			Int64("version", version).
			Msg("cart claim rejected")
		return ErrVersionConflict
	}

	return nil
}

// ReleaseClaim returns a claimed cart to the active status.
func (s *mongoStore) ReleaseClaim(ctx context.Context, ownerKey string) error {
	filter := bson.M{
		"owner_key": ownerKey,
		"status":    model.CartStatusCheckingOut,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     model.CartStatusActive,
			"updated_at": time.Now(),
		},
	}

	if _, err := s.collection.UpdateOne(ctx, filter, update); err != nil {
		s.logger.Error().Err(err).Str("owner_key", ownerKey).Msg("failed to release cart claim")
		return fmt.Errorf("failed to release cart claim: %w", err)
	}

	return nil
}

// Clear deletes the cart document.
func (s *mongoStore) Clear(ctx context.Context, ownerKey string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"owner_key": ownerKey}); err != nil {
		s.logger.Error().Err(err).Str("owner_key", ownerKey).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
