package kafka_config

import "time"

const (
	// Empty default: event publishing is opt-in per deployment.
	DefaultKafkaBrokers = ""

	DefaultBookingsTopic    = "farmbook.bookings"
	DefaultBookingsDLQTopic = ""

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // Require all replicas
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false
)
