package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For duration parsing

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort      string        // Application port
	DBUser       string        // Database user
	DBPassword   string        // Database password
	DBHost       string        // Database host
	DBPort       string        // Database port
	DBName       string        // Database name
	JWTSecret    string        // Secret used to sign session tokens
	SessionTTL   time.Duration // How long a login session stays valid
	RedisAddr    string        // Redis server address
	RedisPass    string        // Redis password
	RedisDB      int           // Redis database number
	GatewayDelay time.Duration // Artificial delay of the payment gateway stub
	IsProd       bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	sessionTTL := 24 * time.Hour // Default session lifetime
	if v, err := strconv.Atoi(os.Getenv("SESSION_TTL_HOURS")); err == nil && v > 0 {
		sessionTTL = time.Duration(v) * time.Hour
	}
	gatewayDelay := 100 * time.Millisecond // Default stub gateway delay
	if v, err := strconv.Atoi(os.Getenv("GATEWAY_DELAY_MS")); err == nil && v >= 0 {
		gatewayDelay = time.Duration(v) * time.Millisecond
	}
	return &Config{
		AppPort:      os.Getenv("APP_PORT"),          // Application port
		DBUser:       os.Getenv("DB_USER"),           // Database user
		DBPassword:   os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:       os.Getenv("DB_HOST"),           // Database host
		DBPort:       os.Getenv("DB_PORT"),           // Database port
		DBName:       os.Getenv("DB_NAME"),           // Database name
		JWTSecret:    os.Getenv("JWT_SECRET"),        // Session token signing secret
		SessionTTL:   sessionTTL,                     // Session lifetime
		RedisAddr:    os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:    os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:      redisDB,                        // Redis database number
		GatewayDelay: gatewayDelay,                   // Payment gateway stub delay
		IsProd:       os.Getenv("IS_PROD") == "true", // Is production environment
	}
}

// DSN builds the MySQL Data Source Name from the configured parts
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}
