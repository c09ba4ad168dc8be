package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// CasdoorConfig holds the identity provider settings used to verify bearer tokens.
type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
}

// Enabled reports whether enough settings are present to build a client.
func (c CasdoorConfig) Enabled() bool {
	return c.Endpoint != "" && c.ClientID != "" && c.Cert != ""
}

// S3Config configures the optional report archive bucket.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

type Config struct {
	AppName     string
	Environment string
	Port        string
	APIPrefix   string
	LogLevel    slog.Level

	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	RedisURL       string

	KafkaBrokers []string
	EventsTopic  string

	CORSOrigins []string
	Timezone    string
	Location    *time.Location

	AvailabilityCacheTTL time.Duration
	FinanceMockEnabled   bool

	Casdoor CasdoorConfig
	S3      S3Config
}

// LoadConfig reads .env.<GO_ENV> and .env (when present) and then the process
// environment. Variables already set in the environment take precedence.
func LoadConfig() (*Config, error) {
	env := getEnv("GO_ENV", "development")

	// Missing files are fine; deployments set variables directly.
	_ = godotenv.Load(fmt.Sprintf(".env.%s", env))
	_ = godotenv.Load()

	cfg := &Config{
		AppName:     getEnv("APP_NAME", "LESMS"),
		Environment: getEnv("GO_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		APIPrefix:   getEnv("API_PREFIX", "/api/v1"),
		LogLevel:    parseLevel(getEnv("LOG_LEVEL", "info")),

		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		RedisURL:       getEnv("REDIS_URL", ""),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		EventsTopic:  getEnv("EVENTS_TOPIC", "lab.reservations"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		Timezone:    getEnv("TIMEZONE", "Local"),

		AvailabilityCacheTTL: getEnvDuration("AVAILABILITY_CACHE_TTL", 30*time.Second),
		FinanceMockEnabled:   getEnvBool("FINANCE_MOCK_ENABLED", true),

		Casdoor: CasdoorConfig{
			Endpoint:     getEnv("CASDOOR_ENDPOINT", ""),
			ClientID:     getEnv("CASDOOR_CLIENT_ID", ""),
			ClientSecret: getEnv("CASDOOR_CLIENT_SECRET", ""),
			Cert:         getEnv("CASDOOR_CERT", ""),
			Organization: getEnv("CASDOOR_ORGANIZATION", ""),
			Application:  getEnv("CASDOOR_APPLICATION", ""),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("REPORT_S3_BUCKET", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required settings and resolves the timezone.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc

	if c.IsProduction() && !c.Casdoor.Enabled() {
		return fmt.Errorf("CASDOOR_ENDPOINT, CASDOOR_CLIENT_ID and CASDOOR_CERT are required in production")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
