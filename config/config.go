package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port string
	Env  string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret    string
	MetricsToken string

	FirebaseCredentials string

	DispatchInterval time.Duration
	// MarkTokenlessSent controls what happens to a due reminder whose owner
	// has no registered delivery tokens: true marks it sent anyway (it was
	// "delivered to nobody"), false leaves it unsent so a later tick retries
	// once a token shows up.
	MarkTokenlessSent bool
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Load reads the configuration from environment variables, falling back to
// development defaults for everything except secrets.
func Load() Config {
	return Config{
		Port: getenv("APP_PORT", "8080"),
		Env:  getenv("APP_ENV", "dev"),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", "postgres"),
		DBName:     getenv("DB_NAME", "habitflow"),
		DBPort:     getenv("DB_PORT", "5432"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		MetricsToken: os.Getenv("METRICS_TOKEN"),

		FirebaseCredentials: getenv("FIREBASE_CREDENTIALS", "firebase-credentials.json"),

		DispatchInterval:  time.Duration(getenvInt("DISPATCH_INTERVAL_SECONDS", 10)) * time.Second,
		MarkTokenlessSent: getenvBool("DISPATCH_MARK_TOKENLESS", true),
	}
}

// Validate reports configuration that cannot be defaulted.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set in the environment")
	}
	if c.DispatchInterval <= 0 {
		return errors.New("dispatch interval must be positive")
	}
	return nil
}
