package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"

	mongodb "concierge/pkg/db/mongo"
	redisdb "concierge/pkg/db/redis"
	"concierge/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	mongoURIRegex      = regexp.MustCompile(`^mongodb(\+srv)?://`)
	mongoCredentialsRx = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)

	mailProviders = map[string]bool{"smtp": true, "gmail": true, "log": true}
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Port string

	JWTSecret string
	JWTTTL    time.Duration
	SealKey   string

	FrontendOrigin string

	MailProvider string
	MailHost     string
	MailPort     int
	MailUser     string
	MailPassword string
	MailFrom     string

	PaymentClientID      string
	PaymentClientSecret  string
	PaymentBaseURL       string
	PaymentWebhookSecret string

	PendingRegistrationTTL time.Duration
	PasswordResetTTL       time.Duration
	CatalogLatency         time.Duration

	EventsEnabled bool

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log   *logger.Logger
	Mongo *mongo.Client
	Redis *redis.Client
}

func Load(serviceName string) *Config {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load(getEnvStr(EnvEnvFile, DefaultEnvFile))

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedisAddr:     getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		Port: getEnvStr(EnvPort, DefaultPort),

		JWTSecret: getEnvStr(EnvJWTSecret, ""),
		JWTTTL:    getEnvDuration(EnvJWTTTL, DefaultJWTTTL),
		SealKey:   getEnvStr(EnvSealKey, ""),

		FrontendOrigin: getEnvStr(EnvFrontendOrigin, DefaultFrontendOrigin),

		MailProvider: getEnvStr(EnvMailProvider, DefaultMailProvider),
		MailHost:     getEnvStr(EnvMailHost, ""),
		MailPort:     getEnvNum(EnvMailPort, DefaultMailPort),
		MailUser:     getEnvStr(EnvMailUser, ""),
		MailPassword: getEnvStr(EnvMailPassword, ""),
		MailFrom:     getEnvStr(EnvMailFrom, ""),

		PaymentClientID:      getEnvStr(EnvPaymentClientID, ""),
		PaymentClientSecret:  getEnvStr(EnvPaymentClientSecret, ""),
		PaymentBaseURL:       getEnvStr(EnvPaymentBaseURL, DefaultPaymentBaseURL),
		PaymentWebhookSecret: getEnvStr(EnvPaymentWebhookSecret, ""),

		PendingRegistrationTTL: getEnvDuration(EnvPendingRegistrationTTL, DefaultPendingRegistrationTTL),
		PasswordResetTTL:       getEnvDuration(EnvPasswordResetTTL, DefaultPasswordResetTTL),
		CatalogLatency:         getEnvDuration(EnvCatalogLatency, DefaultCatalogLatency),

		EventsEnabled: getEnvBool(EnvEventsEnabled, DefaultEventsEnabled),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	client, err := mongodb.Connect(cfg.MongoURI, cfg.MongoConnTimeout)
	if err != nil {
		cfg.Log.Fatal("Failed to connect to MongoDB", "error", err, "uri", redactMongoURI(cfg.MongoURI))
	}
	cfg.Log.Info("Successfully connected to MongoDB", "database", cfg.MongoDatabaseName)
	cfg.Mongo = client
}

func (cfg *Config) SetRedis() {
	client, err := redisdb.Connect(redisdb.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Timeout:  cfg.MongoConnTimeout,
	})
	if err != nil {
		cfg.Log.Fatal("Failed to connect to Redis", "error", err, "addr", cfg.RedisAddr)
	}
	cfg.Log.Info("Successfully connected to Redis", "addr", cfg.RedisAddr)
	cfg.Redis = client
}

func (cfg *Config) MongoDatabase() *mongo.Database {
	return cfg.Mongo.Database(cfg.MongoDatabaseName)
}

func (cfg *Config) MailConfigured() bool {
	return cfg.MailProvider == "log" || (cfg.MailUser != "" && cfg.MailPassword != "")
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !mongoURIRegex.MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.RedisAddr == "" {
		errors = append(errors, "RedisAddr cannot be empty")
	}
	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		errors = append(errors, fmt.Sprintf("JWTSecret must be at least %d characters long", MinJWTSecretLength))
	}
	if cfg.JWTTTL <= 0 {
		errors = append(errors, fmt.Sprintf("JWTTTL must be positive, got: %s", cfg.JWTTTL))
	}

	if u, err := url.Parse(cfg.FrontendOrigin); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("FrontendOrigin must be an absolute URL, got: %s", cfg.FrontendOrigin))
	}

	if !mailProviders[cfg.MailProvider] {
		errors = append(errors, fmt.Sprintf("MailProvider must be one of [smtp, gmail, log], got: %s", cfg.MailProvider))
	}
	if cfg.MailProvider == "smtp" && cfg.MailHost == "" {
		errors = append(errors, "MailHost is required when MailProvider is smtp")
	}
	if cfg.MailPort < 1 || cfg.MailPort > 65535 {
		errors = append(errors, fmt.Sprintf("MailPort must be between 1 and 65535, got: %d", cfg.MailPort))
	}

	if cfg.PendingRegistrationTTL <= 0 {
		errors = append(errors, fmt.Sprintf("PendingRegistrationTTL must be positive, got: %s", cfg.PendingRegistrationTTL))
	}
	if cfg.PasswordResetTTL <= 0 {
		errors = append(errors, fmt.Sprintf("PasswordResetTTL must be positive, got: %s", cfg.PasswordResetTTL))
	}
	if cfg.CatalogLatency < 0 {
		errors = append(errors, fmt.Sprintf("CatalogLatency cannot be negative, got: %s", cfg.CatalogLatency))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_addr", cfg.RedisAddr,
		"redis_db", cfg.RedisDB,
		"port", cfg.Port,
		"jwt_ttl", cfg.JWTTTL,
		"seal_key_set", cfg.SealKey != "",
		"frontend_origin", cfg.FrontendOrigin,
		"mail_provider", cfg.MailProvider,
		"mail_configured", cfg.MailConfigured(),
		"payment_base_url", cfg.PaymentBaseURL,
		"payment_client_set", cfg.PaymentClientID != "" && cfg.PaymentClientSecret != "",
		"payment_webhook_secret_set", cfg.PaymentWebhookSecret != "",
		"pending_registration_ttl", cfg.PendingRegistrationTTL,
		"password_reset_ttl", cfg.PasswordResetTTL,
		"catalog_latency", cfg.CatalogLatency,
		"events_enabled", cfg.EventsEnabled,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func (cfg *Config) GracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if cfg.Mongo != nil {
		if err := cfg.Mongo.Disconnect(ctx); err != nil {
			cfg.Log.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}
	if cfg.Redis != nil {
		if err := cfg.Redis.Close(); err != nil {
			cfg.Log.Error("Failed to close Redis client", "error", err)
		}
	}
}

func redactMongoURI(uri string) string {
	return mongoCredentialsRx.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
