package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Engine    EngineConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Queue     QueueConfig
	Metrics   MetricsConfig
	Tracing   TracingConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Batch     BatchConfig
	Webhook   WebhookConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// LoggingConfig mirrors logging.Config
type LoggingConfig struct {
	Level      string
	Format     string
	Output     string
	TimeFormat string
}

// EngineConfig locates the catalog the API and worker serve
type EngineConfig struct {
	InputPath  string
	OutputPath string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN returns the PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

// QueueConfig holds message queue configuration
type QueueConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Vhost    string
}

// URL returns the AMQP connection URL
func (q QueueConfig) URL() string {
	vhost := strings.TrimPrefix(q.Vhost, "/")
	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s", q.User, q.Password, q.Host, q.Port, vhost)
}

// MetricsConfig holds the Prometheus endpoint configuration
type MetricsConfig struct {
	Enabled bool
	Port    int
}

// TracingConfig holds Jaeger configuration. An empty endpoint disables export.
type TracingConfig struct {
	ServiceName string
	Endpoint    string
}

// AuthConfig holds JWT configuration. Auth is off when Secret is empty.
type AuthConfig struct {
	Secret string
}

// RateLimitConfig holds the in-process request limiter settings
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// BatchConfig controls batch run bookkeeping
type BatchConfig struct {
	ResultTTL time.Duration
}

// WebhookConfig holds the batch notification endpoint. Notifications are off
// when URL is empty.
type WebhookConfig struct {
	URL         string
	Secret      string
	Timeout     time.Duration
	MaxAttempts int
}

// Load reads configuration from file and environment variables. Environment
// variables use the VIDEOSDB prefix with underscores for nesting, for example
// VIDEOSDB_SERVER_PORT. An empty path loads defaults and environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("videosdb")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.readTimeout", "30s")
	v.SetDefault("server.writeTimeout", "30s")
	v.SetDefault("server.shutdownTimeout", "10s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.timeFormat", time.RFC3339)

	// Engine defaults
	v.SetDefault("engine.inputPath", "")
	v.SetDefault("engine.outputPath", "")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "videosdb")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxConns", 25)
	v.SetDefault("database.minConns", 5)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Storage defaults
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.accessKeyID", "minioadmin")
	v.SetDefault("storage.secretAccessKey", "minioadmin")
	v.SetDefault("storage.bucketName", "videosdb")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.useSSL", false)

	// Queue defaults
	v.SetDefault("queue.host", "localhost")
	v.SetDefault("queue.port", 5672)
	v.SetDefault("queue.user", "guest")
	v.SetDefault("queue.password", "guest")
	v.SetDefault("queue.vhost", "/")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	// Tracing defaults
	v.SetDefault("tracing.serviceName", "videosdb")
	v.SetDefault("tracing.endpoint", "")

	// Auth defaults
	v.SetDefault("auth.secret", "")

	// Rate limit defaults
	v.SetDefault("rateLimit.requestsPerSecond", 50)
	v.SetDefault("rateLimit.burst", 100)

	// Batch defaults
	v.SetDefault("batch.resultTTL", "24h")

	// Webhook defaults
	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.timeout", "10s")
	v.SetDefault("webhook.maxAttempts", 3)
}
