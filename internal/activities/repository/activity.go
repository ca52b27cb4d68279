package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	activitieserrors "farmbook/internal/activities/errors"
	"farmbook/pkg/config"
	"farmbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Activities"
)

// windowSlack widens non-recurring lookups so an activity that starts
// shortly before the query window but runs into it is still fetched. The
// expander applies the precise intersection afterwards.
const windowSlack = 24 * time.Hour

type mongoActivityRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type ActivityRepository interface {
	FindByID(ctx context.Context, id string) (*model.Activity, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Activity, error)
	FindIntersectingWindow(ctx context.Context, from, to time.Time) ([]*model.Activity, error)
	Count(ctx context.Context) (int64, error)
}

func NewMongoActivityRepository(cfg *config.Config) ActivityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoActivityRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoActivityRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoActivityRepository) FindByID(ctx context.Context, id string) (*model.Activity, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", activitieserrors.ErrInvalidID, id)
	}

	var activity model.Activity
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&activity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", activitieserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find activity: %w", err)
	}
	return &activity, nil
}

func (r *mongoActivityRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Activity, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer cursor.Close(ctx)

	var activities []*model.Activity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}

	return activities, nil
}

// FindIntersectingWindow returns activities that can produce occurrences
// inside [from, to): one-off activities starting near the window, and
// recurring activities whose rule has not ended before the window opens.
func (r *mongoActivityRepository) FindIntersectingWindow(ctx context.Context, from, to time.Time) ([]*model.Activity, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"start_time": bson.M{"$lt": to},
		"$or": []bson.M{
			{"recurrence.end_date": bson.M{"$gt": from}},
			{"start_time": bson.M{"$gte": from.Add(-windowSlack)}},
		},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query activities for window: %w", err)
	}
	defer cursor.Close(ctx)

	var activities []*model.Activity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}

	return activities, nil
}

func (r *mongoActivityRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}
