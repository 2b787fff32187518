package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "concierge"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultPort     = "8080"
	DefaultLogLevel = "info"
	DefaultEnvFile  = ".env"

	DefaultJWTTTL = 7 * 24 * time.Hour

	DefaultFrontendOrigin = "http://localhost:5173"

	DefaultMailProvider = "gmail"
	DefaultMailPort     = 587

	DefaultPaymentBaseURL = "https://api-m.sandbox.paypal.com"

	DefaultPendingRegistrationTTL = 30 * time.Minute
	DefaultPasswordResetTTL       = 1 * time.Hour
	DefaultCatalogLatency         = 0 * time.Millisecond

	DefaultEventsEnabled = true

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
	MinJWTSecretLength     = 32
)
