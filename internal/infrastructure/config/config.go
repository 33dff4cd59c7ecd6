// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreDynamoDB = "dynamodb"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion       string
	LogLevel         string
	MetricsNamespace string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	GinMode      string
	CORSOrigins  []string

	// Flight API
	APIBaseURL   string
	APITimeout   time.Duration
	APIRateLimit float64
	APIRateBurst int

	// Search form behaviour
	LookupDebounce      time.Duration
	LookupMinChars      int
	ResultsPageSize     int
	ReloadDelay         time.Duration
	SearchCurrency      string
	ReservationAmount   float64
	ReservationCurrency string

	// Session store
	StoreDriver string
	SessionID   string

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL
	PostgresURI string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// DynamoDB
	DynamoDBTable    string
	DynamoDBEndpoint string
	AWSRegion        string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:       getEnv("APP_VERSION", "1.0.0"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "flightdesk"),

		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		GinMode:      getEnv("GIN_MODE", "release"),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS", []string{"*"}),

		APIBaseURL:   getEnv("API_BASE_URL", "http://localhost:8000/api"),
		APITimeout:   time.Duration(getEnvAsInt("API_TIMEOUT", 30)) * time.Second,
		APIRateLimit: getEnvAsFloat("API_RATE_LIMIT", 10),
		APIRateBurst: getEnvAsInt("API_RATE_BURST", 5),

		LookupDebounce:      time.Duration(getEnvAsInt("LOOKUP_DEBOUNCE_MS", 500)) * time.Millisecond,
		LookupMinChars:      getEnvAsInt("LOOKUP_MIN_CHARS", 3),
		ResultsPageSize:     getEnvAsInt("RESULTS_PAGE_SIZE", 5),
		ReloadDelay:         time.Duration(getEnvAsInt("RELOAD_DELAY_MS", 2500)) * time.Millisecond,
		SearchCurrency:      getEnv("SEARCH_CURRENCY", "COP"),
		ReservationAmount:   getEnvAsFloat("RESERVATION_AMOUNT", 300.5),
		ReservationCurrency: getEnv("RESERVATION_CURRENCY", "USD"),

		StoreDriver: getEnv("STORE_DRIVER", StoreMemory),
		SessionID:   getEnv("SESSION_ID", "default"),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "flightdesk"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_URI", "host=localhost user=postgres dbname=flightdesk sslmode=disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		DynamoDBTable:    getEnv("DYNAMODB_TABLE", "flightdesk_session"),
		DynamoDBEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks values that would break the search form behaviour
func (c *Config) Validate() error {
	if c.ResultsPageSize <= 0 {
		return fmt.Errorf("RESULTS_PAGE_SIZE must be positive, got %d", c.ResultsPageSize)
	}
	if c.LookupMinChars <= 0 {
		return fmt.Errorf("LOOKUP_MIN_CHARS must be positive, got %d", c.LookupMinChars)
	}
	if c.APIRateLimit < 0 || c.APIRateBurst < 0 {
		return fmt.Errorf("API rate limit must not be negative")
	}
	if c.LookupDebounce < 0 || c.ReloadDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	switch c.StoreDriver {
	case StoreMemory, StoreMongo, StorePostgres, StoreRedis, StoreDynamoDB:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
