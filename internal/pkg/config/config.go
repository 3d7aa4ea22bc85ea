package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/myreprise/payflow/internal/pkg/models"
)

// InitConfig loads configuration from an env file (local development) and
// the process environment.
func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		if err := godotenv.Load(configPath); err != nil {
			log.Println("error loading config from file", err)
		}
	}
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "payment-service")
	configs.App.Environment = GetEnv("APP_ENV", "")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", true)
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 9990)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 0)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 0)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30)

	// Database config
	configs.Database.Host = GetEnv("DB_HOST", "")
	configs.Database.Port = GetEnvAsInt("DB_PORT", 5432)
	configs.Database.Username = GetEnv("DB_USERNAME", "")
	configs.Database.Password = GetEnv("DB_PASSWORD", "")
	configs.Database.Database = GetEnv("DB_DATABASE", "")
	configs.Database.SSLMode = GetEnv("DB_SSL_MODE", "disable")
	configs.Database.MaxConns = GetEnvAsInt("DB_MAX_CONNS", 0)
	configs.Database.IdleConns = GetEnvAsInt("DB_IDLE_CONNS", 0)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 6379)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 0)

	// NATS / NSQ config
	configs.NATS.URL = GetEnv("NATS_URL", "")
	configs.NSQ.Address = GetEnv("NSQ_ADDRESS", "")

	// JWT config
	configs.JWT.Secret = GetEnv("JWT_SECRET", "")
	configs.JWT.Expiration = GetEnvAsInt("JWT_EXPIRATION", 60)
	configs.JWT.Issuer = GetEnv("JWT_ISSUER", "")

	// Provider gateways
	configs.Providers.Stripe.APIBaseURL = GetEnv("STRIPE_API_URL", "https://api.stripe.com")
	configs.Providers.Stripe.APIKey = GetEnv("STRIPE_API_KEY", "")
	configs.Providers.Stripe.WebhookSecret = GetEnv("STRIPE_WEBHOOK_SECRET", "")
	configs.Providers.Stripe.TimeoutSec = GetEnvAsInt("STRIPE_TIMEOUT_SEC", 10)
	configs.Providers.PayPal.APIBaseURL = GetEnv("PAYPAL_API_URL", "https://api.paypal.com")
	configs.Providers.PayPal.APIKey = GetEnv("PAYPAL_API_KEY", "")
	configs.Providers.PayPal.WebhookSecret = GetEnv("PAYPAL_WEBHOOK_SECRET", "")
	configs.Providers.PayPal.TimeoutSec = GetEnvAsInt("PAYPAL_TIMEOUT_SEC", 10)

	// Idempotency store
	configs.Idempotency.ReservationTTLSec = GetEnvAsInt("IDEMPOTENCY_RESERVATION_TTL_SEC", 120)
	configs.Idempotency.ResultTTLSec = GetEnvAsInt("IDEMPOTENCY_RESULT_TTL_SEC", 86400)

	// Reconciler
	configs.Reconciler.IntervalSec = GetEnvAsInt("RECONCILER_INTERVAL_SEC", 300)
	configs.Reconciler.GraceSec = GetEnvAsInt("RECONCILER_GRACE_SEC", 900)
	configs.Reconciler.BatchSize = GetEnvAsInt("RECONCILER_BATCH_SIZE", 100)
	configs.Reconciler.MaxConcurrency = GetEnvAsInt("RECONCILER_MAX_CONCURRENCY", 8)

	// Notification sink
	configs.Notification.Sink = GetEnv("NOTIFICATION_SINK", "nats")
	configs.Notification.Subject = GetEnv("NOTIFICATION_SUBJECT", "payments.transaction.state")

	// NewRelic config
	configs.NewRelic.LicenseKey = GetEnv("NEW_RELIC_LICENSE_KEY", "")
	configs.NewRelic.AppName = GetEnv("NEW_RELIC_APP_NAME", "")
	configs.NewRelic.Enabled = GetEnvAsBool("NEW_RELIC_ENABLED", false)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "logs/payflow.log")
	configs.Logger.MaxSize = GetEnvAsInt64("LOG_MAX_SIZE", 100)
	configs.Logger.MaxAge = GetEnvAsInt("LOG_MAX_AGE", 7)
	configs.Logger.MaxBackups = GetEnvAsInt("LOG_MAX_BACKUPS", 3)
	configs.Logger.Compress = GetEnvAsBool("LOG_COMPRESS", true)

	return configs
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Warning: Invalid int64 value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
