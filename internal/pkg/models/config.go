package models

// Config represents application configuration
type Config struct {
	App          AppConfig
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	NATS         NATSConfig
	NSQ          NSQConfig
	JWT          JWTConfig
	Providers    ProvidersConfig
	Idempotency  IdempotencyConfig
	Reconciler   ReconcilerConfig
	Notification NotificationConfig
	NewRelic     NewRelicConfig
	Logger       LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// NSQConfig contains NSQ producer configuration
type NSQConfig struct {
	Address string
}

// JWTConfig contains JWT authentication configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in minutes
	Issuer     string
}

// ProviderConfig contains the per-provider gateway settings
type ProviderConfig struct {
	APIBaseURL    string
	APIKey        string
	WebhookSecret string
	TimeoutSec    int
}

// ProvidersConfig contains configuration for each supported gateway
type ProvidersConfig struct {
	Stripe ProviderConfig
	PayPal ProviderConfig
}

// IdempotencyConfig controls the idempotency store
type IdempotencyConfig struct {
	ReservationTTLSec int // how long an in-progress reservation holds the key
	ResultTTLSec      int // how long completed results are replayed
}

// ReconcilerConfig controls the reconciliation sweep
type ReconcilerConfig struct {
	IntervalSec    int // sweep interval
	GraceSec       int // minimum age before a non-terminal transaction is checked
	BatchSize      int // max transactions per sweep
	MaxConcurrency int // parallel provider lookups per sweep
}

// NotificationConfig selects the terminal-state notification sink
type NotificationConfig struct {
	Sink    string // "nats" or "nsq"
	Subject string // NATS subject / NSQ topic
}

// NewRelicConfig contains New Relic APM configuration
type NewRelicConfig struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level      string
	FilePath   string
	MaxSize    int64
	MaxAge     int
	MaxBackups int
	Compress   bool
}
