package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the GORM postgres DSN for the configuration.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// GeoapifyConfig holds routing provider settings.
type GeoapifyConfig struct {
	APIKey          string
	BaseURL         string
	Timeout         time.Duration
	MaxAlternatives int
}

// PredictorConfig holds fuel prediction service settings.
type PredictorConfig struct {
	BaseURL string
	Timeout time.Duration
}

// KafkaConfig holds event publishing settings.
type KafkaConfig struct {
	Brokers []string
	Enabled bool
}

// RedisConfig holds estimate cache settings.
type RedisConfig struct {
	URL     string
	Enabled bool
	TTL     time.Duration
}

// ServiceConfig holds all configuration for the route tracker service.
type ServiceConfig struct {
	Port      string
	AppEnv    string
	JWTSecret string
	DB        DatabaseConfig
	Geoapify  GeoapifyConfig
	Predictor PredictorConfig
	Kafka     KafkaConfig
	Redis     RedisConfig
}

// Load reads configuration from environment variables, falling back to a
// local .env file when present.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		// A missing .env is fine; the environment is authoritative.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !strings.Contains(err.Error(), "no such file") {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "route_tracker")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("GEOAPIFY_BASE_URL", "https://api.geoapify.com")
	v.SetDefault("GEOAPIFY_TIMEOUT", "10s")
	v.SetDefault("GEOAPIFY_MAX_ALTERNATIVES", 3)
	v.SetDefault("PREDICTOR_TIMEOUT", "10s")
	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_TTL", "24h")

	cfg := &ServiceConfig{
		Port:      ":" + strings.TrimPrefix(v.GetString("PORT"), ":"),
		AppEnv:    v.GetString("APP_ENV"),
		JWTSecret: v.GetString("JWT_SECRET"),
		DB: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Geoapify: GeoapifyConfig{
			APIKey:          v.GetString("GEOAPIFY_API_KEY"),
			BaseURL:         v.GetString("GEOAPIFY_BASE_URL"),
			Timeout:         v.GetDuration("GEOAPIFY_TIMEOUT"),
			MaxAlternatives: v.GetInt("GEOAPIFY_MAX_ALTERNATIVES"),
		},
		Predictor: PredictorConfig{
			BaseURL: v.GetString("PREDICTOR_BASE_URL"),
			Timeout: v.GetDuration("PREDICTOR_TIMEOUT"),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(v.GetString("KAFKA_BROKERS")),
			Enabled: v.GetBool("KAFKA_ENABLED"),
		},
		Redis: RedisConfig{
			URL:     v.GetString("REDIS_URL"),
			Enabled: v.GetBool("REDIS_ENABLED"),
			TTL:     v.GetDuration("REDIS_TTL"),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Geoapify.APIKey == "" {
		return nil, fmt.Errorf("GEOAPIFY_API_KEY is required")
	}
	if cfg.Predictor.BaseURL == "" {
		return nil, fmt.Errorf("PREDICTOR_BASE_URL is required")
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.Redis.Enabled && cfg.Redis.URL == "" {
		return nil, fmt.Errorf("REDIS_URL is required when REDIS_ENABLED is true")
	}

	return cfg, nil
}

func splitNonEmpty(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
