package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDedupWindow         = "DEDUP_WINDOW"
	EnvMaxPartySize        = "MAX_PARTY_SIZE"
	EnvBookingCodeAttempts = "BOOKING_CODE_ATTEMPTS"
	EnvSlotLockTTL         = "SLOT_LOCK_TTL"
	EnvSlotLockRetries     = "SLOT_LOCK_RETRIES"
	EnvSlotLockRetryDelay  = "SLOT_LOCK_RETRY_DELAY"

	EnvAggregateTimeout    = "AGGREGATE_TIMEOUT"
	EnvQueryWindowDays     = "QUERY_WINDOW_DAYS"
	EnvDefaultDurationMin  = "DEFAULT_DURATION_MIN"
	EnvMaxOccurrencesQuery = "MAX_OCCURRENCES_PER_QUERY"
)
