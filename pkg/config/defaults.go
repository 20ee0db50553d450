package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "scheduleflow"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultCalendarAPIBaseURL = "https://www.googleapis.com/calendar/v3"
	DefaultCalendarTimeZone   = "UTC"
	DefaultCalendarTimeout    = 10 * time.Second

	DefaultRecommendTimeout = 8 * time.Second
	DefaultRecommendRPS     = 2
	DefaultRecommendBurst   = 4

	DefaultKafkaBrokers        = "localhost:9092"
	DefaultKafkaSlotEventTopic = "availability.slot-events"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultDefaultSlotDurationMin = 30
	DefaultDefaultStartOfDay      = "09:00"
	DefaultDefaultEndOfDay        = "17:00"

	DefaultPaginationLimit = 100
)
