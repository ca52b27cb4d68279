package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "farmbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Booking submission guard rails.
	DefaultDedupWindow         = 300 * time.Second
	DefaultMaxPartySize        = 50
	DefaultBookingCodeAttempts = 5
	DefaultSlotLockTTL         = 10 * time.Second
	DefaultSlotLockRetries     = 20
	DefaultSlotLockRetryDelay  = 25 * time.Millisecond

	// Calendar aggregation.
	DefaultAggregateTimeout       = 10 * time.Second
	DefaultQueryWindowDays        = 31
	DefaultDefaultDurationMin     = 60
	DefaultMaxOccurrencesPerQuery = 500

	DefaultPaginationLimit = 100
)
