package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "farmbook/internal/bookings/errors"
	"farmbook/pkg/config"
	"farmbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	SlotLockCollectionName = "SlotLocks"
)

type mongoSlotLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// SlotLockRepository provides the advisory lock serializing reservation
// admission. Acquire is an insert against a unique _id; the duplicate key
// error means another reservation holds the lock.
type SlotLockRepository interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

func NewMongoSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		cfg:        cfg,
		collection: db.Collection(SlotLockCollectionName),
	}
}

// LockKey builds the admission lock key for one occurrence of an activity.
func LockKey(activityID string, occurrenceDate time.Time) string {
	return fmt.Sprintf("%s:%d", activityID, occurrenceDate.UTC().Unix())
}

func (r *mongoSlotLockRepository) Acquire(ctx context.Context, key string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock := model.SlotLock{
		ID:        key,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrSlotLocked
		}
		return fmt.Errorf("failed to acquire slot lock: %w", err)
	}

	return nil
}

// Release is idempotent: deleting an absent lock is not an error, so a lock
// reclaimed by TTL expiry does not fail the releasing caller.
func (r *mongoSlotLockRepository) Release(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("failed to release slot lock: %w", err)
	}

	return nil
}
