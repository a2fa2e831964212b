package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
}

type KafkaConfig struct {
	Brokers        []string
	ConsumerGroup  string
	ContractsTopic string
	EventsTopic    string
}

type BacenConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
}

type CacheConfig struct {
	Backend   string // "memory" or "redis"
	TTL       time.Duration
	RedisAddr string
	RedisDB   int
}

type RecalcConfig struct {
	ValidationTolerance decimal.Decimal
	DetectionTolerance  decimal.Decimal
	BatchConcurrency    int
	OutboxPollInterval  time.Duration
	OutboxBatchSize     int
}

type TelemetryConfig struct {
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
}

type AuthConfig struct {
	Issuer        string
	Secret        string
	PublicKey     string
	PublicKeyFile string
}

type GRPCConfig struct {
	TLSCertFile string
	TLSKeyFile  string
	Reflection  bool
}

type Config struct {
	ServiceName   string
	HTTPPort      int
	GRPCPort      int
	HTTPRateLimit float64 // requests per second across all clients, 0 disables limiting
	DB            DatabaseConfig
	Kafka         KafkaConfig
	Bacen         BacenConfig
	Cache         CacheConfig
	Recalc        RecalcConfig
	Telemetry     TelemetryConfig
	Auth          AuthConfig
	GRPC          GRPCConfig
}

// Load reads configuration from the environment. A .env file in the working
// directory, or the file named by ENV_FILE, is loaded first when present;
// variables already set in the environment win.
func Load() Config {
	envFile := getEnv("ENV_FILE", ".env")
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile) //nolint:errcheck // optional file
	}

	return Config{
		ServiceName:   getEnv("SERVICE_NAME", "recalc-service"),
		HTTPPort:      getEnvInt("HTTP_PORT", 8090),
		GRPCPort:      getEnvInt("GRPC_PORT", 9090),
		HTTPRateLimit: getEnvFloat("HTTP_RATE_LIMIT", 50),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "flex"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "flex_analise"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},
		Kafka: KafkaConfig{
			Brokers:        splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			ConsumerGroup:  getEnv("KAFKA_CONSUMER_GROUP", "recalc-service"),
			ContractsTopic: getEnv("KAFKA_CONTRACTS_TOPIC", "contracts.extracted"),
			EventsTopic:    getEnv("KAFKA_EVENTS_TOPIC", "contracts.analysis-events"),
		},
		Bacen: BacenConfig{
			BaseURL:   getEnv("BACEN_BASE_URL", "https://api.bcb.gov.br/dados/serie/bcdata.sgs"),
			Timeout:   getEnvDuration("BACEN_TIMEOUT", 10*time.Second),
			RateLimit: getEnvFloat("BACEN_RATE_LIMIT", 5),
		},
		Cache: CacheConfig{
			Backend:   strings.ToLower(getEnv("RATE_CACHE_BACKEND", "memory")),
			TTL:       getEnvDuration("RATE_CACHE_TTL", 6*time.Hour),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
			RedisDB:   getEnvInt("REDIS_DB", 0),
		},
		Recalc: RecalcConfig{
			ValidationTolerance: getEnvDecimal("VALIDATION_TOLERANCE", decimal.NewFromInt(1)),
			DetectionTolerance:  getEnvDecimal("DETECTION_TOLERANCE", decimal.NewFromFloat(0.01)),
			BatchConcurrency:    getEnvInt("BATCH_CONCURRENCY", 8),
			OutboxPollInterval:  getEnvDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
			OutboxBatchSize:     getEnvInt("OUTBOX_BATCH_SIZE", 100),
		},
		Telemetry: TelemetryConfig{
			LogLevel:     getEnv("LOG_LEVEL", "info"),
			LogFormat:    getEnv("LOG_FORMAT", "json"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		},
		Auth: AuthConfig{
			Issuer:        getEnv("JWT_ISSUER", "flex-analise"),
			Secret:        getEnv("JWT_SECRET", ""),
			PublicKey:     getEnv("JWT_PUBLIC_KEY", ""),
			PublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
		},
		GRPC: GRPCConfig{
			TLSCertFile: getEnv("GRPC_TLS_CERT_FILE", ""),
			TLSKeyFile:  getEnv("GRPC_TLS_KEY_FILE", ""),
			Reflection:  getEnv("GRPC_REFLECTION", "") == "true",
		},
	}
}

// Validate reports configuration that would make the service misbehave.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
	}
	if !c.Recalc.ValidationTolerance.IsPositive() {
		errs = append(errs, errors.New("VALIDATION_TOLERANCE must be positive"))
	}
	if !c.Recalc.DetectionTolerance.IsPositive() {
		errs = append(errs, errors.New("DETECTION_TOLERANCE must be positive"))
	}
	if c.Recalc.BatchConcurrency <= 0 {
		errs = append(errs, errors.New("BATCH_CONCURRENCY must be positive"))
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		errs = append(errs, fmt.Errorf("RATE_CACHE_BACKEND must be memory or redis, got %q", c.Cache.Backend))
	}
	if c.Auth.Secret == "" && c.Auth.PublicKey == "" && c.Auth.PublicKeyFile == "" {
		errs = append(errs, errors.New("one of JWT_SECRET, JWT_PUBLIC_KEY or JWT_PUBLIC_KEY_FILE is required"))
	}
	return errors.Join(errs...)
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
