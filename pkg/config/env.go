package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"
	EnvEnvFile  = "ENV_FILE"

	EnvJWTSecret = "JWT_SECRET"
	EnvJWTTTL    = "JWT_TTL"
	EnvSealKey   = "TOKEN_SEAL_KEY"

	EnvFrontendOrigin = "FRONTEND_ORIGIN"

	EnvMailProvider = "MAIL_PROVIDER"
	EnvMailHost     = "MAIL_HOST"
	EnvMailPort     = "MAIL_PORT"
	EnvMailUser     = "EMAIL_USER"
	EnvMailPassword = "EMAIL_PASSWORD"
	EnvMailFrom     = "EMAIL_FROM"

	EnvPaymentClientID      = "PAYPAL_CLIENT_ID"
	EnvPaymentClientSecret  = "PAYPAL_CLIENT_SECRET"
	EnvPaymentBaseURL       = "PAYPAL_BASE_URL"
	EnvPaymentWebhookSecret = "PAYMENT_WEBHOOK_SECRET"

	EnvPendingRegistrationTTL = "PENDING_REGISTRATION_TTL"
	EnvPasswordResetTTL       = "PASSWORD_RESET_TTL"
	EnvCatalogLatency         = "CATALOG_LATENCY"

	EnvEventsEnabled = "BOOKING_EVENTS_ENABLED"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
