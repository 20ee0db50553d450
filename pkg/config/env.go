package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret = "JWT_SECRET"

	EnvCalendarAPIBaseURL = "CALENDAR_API_BASE_URL"
	EnvCalendarTimeZone   = "CALENDAR_TIME_ZONE"
	EnvCalendarTimeout    = "CALENDAR_TIMEOUT"

	EnvRecommendBaseURL = "RECOMMEND_BASE_URL"
	EnvRecommendAPIKey  = "RECOMMEND_API_KEY"
	EnvRecommendTimeout = "RECOMMEND_TIMEOUT"
	EnvRecommendRPS     = "RECOMMEND_RPS"
	EnvRecommendBurst   = "RECOMMEND_BURST"

	EnvKafkaBrokers        = "KAFKA_BROKERS"
	EnvKafkaSlotEventTopic = "KAFKA_SLOT_EVENT_TOPIC"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDefaultSlotDurationMin = "DEFAULT_SLOT_DURATION_MIN"
	EnvDefaultStartOfDay      = "DEFAULT_START_OF_DAY"
	EnvDefaultEndOfDay        = "DEFAULT_END_OF_DAY"
)
