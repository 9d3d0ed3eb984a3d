package cfg

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type Redis struct {
	Host string
	Port string
}

type Observability struct {
	// OTLPEndpoint is the gRPC endpoint logs and metrics are exported to.
	OTLPEndpoint string
	Enabled      bool
}

// Booking carries the booking policy knobs.
type Booking struct {
	// OverlapBufferMinutes is applied symmetrically around every open
	// booking window when checking for conflicts.
	OverlapBufferMinutes int
}

type Config struct {
	AppEnv        string
	HTTPAddr      string
	Postgres      Postgres
	Redis         Redis
	Observability Observability
	Booking       Booking
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Postgres: Postgres{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "mentorhub"),
			Password: getEnv("POSTGRES_PASSWORD", "mentorhub"),
			DBName:   getEnv("POSTGRES_DB", "mentorhub"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: Redis{
			Host: getEnv("REDIS_HOST", "localhost"),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		Observability: Observability{
			OTLPEndpoint: getEnv("OTLP_ENDPOINT", "localhost:4317"),
			Enabled:      getEnvBool("OTEL_ENABLED", false),
		},
		Booking: Booking{
			OverlapBufferMinutes: getEnvInt("BOOKING_OVERLAP_BUFFER_MINUTES", 0),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
