package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmbook/pkg/config"
	"farmbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	FingerprintCollectionName = "SubmissionFingerprints"
)

type mongoFingerprintRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// FingerprintRepository records accepted submissions for duplicate
// detection. A TTL index on created_at keeps the collection bounded to the
// dedup window.
type FingerprintRepository interface {
	Record(ctx context.Context, fingerprint string) error
	FindLatest(ctx context.Context, fingerprint string, since time.Time) (*model.SubmissionFingerprint, error)
}

func NewMongoFingerprintRepository(cfg *config.Config) FingerprintRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFingerprintRepository{
		cfg:        cfg,
		collection: db.Collection(FingerprintCollectionName),
	}
}

func (r *mongoFingerprintRepository) Record(ctx context.Context, fingerprint string) error {
	if _, ok := ctx.(mongo.SessionContext); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.WriteTimeout)
		defer cancel()
	}

	doc := model.SubmissionFingerprint{
		Fingerprint: fingerprint,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to record submission fingerprint: %w", err)
	}

	return nil
}

// FindLatest returns the most recent submission with this fingerprint at or
// after since, or nil when none exists.
func (r *mongoFingerprintRepository) FindLatest(ctx context.Context, fingerprint string, since time.Time) (*model.SubmissionFingerprint, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"fingerprint": fingerprint,
		"created_at":  bson.M{"$gte": since},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var doc model.SubmissionFingerprint
	err := r.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up submission fingerprint: %w", err)
	}

	return &doc, nil
}
