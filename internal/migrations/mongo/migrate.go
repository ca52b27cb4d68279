package mongo

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"farmbook/internal/migrations/mongo/validators"
)

const (
	DefaultDBName = "farmbook"

	// Matches config.DefaultDedupWindow; fingerprints must outlive the
	// dedup window or a repeat submission slips through after the purge.
	defaultFingerprintTTL = 300 * time.Second
)

var (
	ActivitiesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "start_time", Value: 1}}},
		{Keys: bson.D{
			{Key: "category", Value: 1},
			{Key: "start_time", Value: 1},
		}},
		{Keys: bson.D{{Key: "recurrence.end_date", Value: 1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// Composite index backing the per-occurrence load aggregation.
		{Keys: bson.D{
			{Key: "activity_id", Value: 1},
			{Key: "occurrence_date", Value: 1},
			{Key: "status", Value: 1},
		}},
		{Keys: bson.D{{Key: "occurrence_date", Value: 1}}},
	}

	CalendarEventsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "start_time", Value: 1}}},
	}

	// TTL reclaims admission locks abandoned by crashed holders.
	SlotLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

// SubmissionFingerprintsIndexes derives the fingerprint TTL from the same
// DEDUP_WINDOW variable the bookings service reads, so raising the window
// never purges fingerprints mid-window.
func SubmissionFingerprintsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "fingerprint", Value: 1},
			{Key: "created_at", Value: -1},
		}},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(fingerprintTTLSeconds()),
		},
	}
}

func fingerprintTTLSeconds() int32 {
	ttl := defaultFingerprintTTL
	if value := os.Getenv("DEDUP_WINDOW"); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			ttl = d
		}
	}
	return int32(ttl / time.Second)
}

func RunMigration(ctx context.Context, client *mongo.Client) error {
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = DefaultDBName
	}
	db := client.Database(dbName)
	fmt.Printf("🚀 Running Farmbook Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Activities": {
			Indexes:   ActivitiesIndexes,
			Validator: validators.ActivityValidator,
		},
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"CalendarEvents": {
			Indexes:   CalendarEventsIndexes,
			Validator: validators.CalendarEventValidator,
		},
		"SlotLocks": {
			Indexes: SlotLocksIndexes,
		},
		"SubmissionFingerprints": {
			Indexes: SubmissionFingerprintsIndexes(),
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts = opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator == nil {
		return nil
	}

	fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
