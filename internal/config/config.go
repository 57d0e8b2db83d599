package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. It is built once in main
// and handed to the components that need it; nothing changes it afterwards.
type Config struct {
	Env               string        // application environment (e.g. "dev", "prod")
	Port              string        // HTTP port to listen on
	BaseURL           string        // public URL used in e-mailed links
	DBUser            string        // database username
	DBPass            string        // database password (optional)
	DBHost            string        // database host address
	DBPort            string        // database port number
	DBName            string        // database name
	DBMaxOpenConns    int           // pool size
	DBConnMaxLifetime time.Duration // recycle pooled connections after this
	JWTSecret         string        // secret used to sign JWTs
	TokenPrefix       string        // prefix of the Authorization header value
	AccessTTL         time.Duration // access token lifetime
	RefreshTTL        time.Duration // refresh token lifetime
	VerificationTTL   time.Duration // activation / lost-password token lifetime
	BcryptCost        int           // bcrypt cost for password hashing
	CookieMaxAge      int           // max age in seconds of the login cookies
	SMTP              SMTPConfig
}

// SMTPConfig describes the outbound mail relay. An empty Host means mails
// are only logged.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Load reads configuration values from environment variables, after
// merging an optional .env file. Required variables are enforced by must()
// and missing values cause the program to exit with a fatal log message.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}
	return Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		BaseURL:           envStr("APP_BASE_URL", "http://localhost:8080"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"), // empty allowed
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		DBMaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
		DBConnMaxLifetime: envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		JWTSecret:         must("JWT_SECRET"),
		TokenPrefix:       envStr("TOKEN_PREFIX", "Bearer "),
		AccessTTL:         time.Duration(mustPositive("ACCESS_TOKEN_TTL_MIN")) * time.Minute,
		RefreshTTL:        time.Duration(mustPositive("REFRESH_TOKEN_TTL_DAYS")) * 24 * time.Hour,
		VerificationTTL:   time.Duration(envInt("VERIFICATION_TOKEN_TTL_MIN", 24*60)) * time.Minute,
		BcryptCost:        mustInt("BCRYPT_COST"),
		CookieMaxAge:      envInt("COOKIE_MAX_AGE", 24*60*60),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     envStr("SMTP_FROM", "no-reply@shop.local"),
		},
	}
}

// must retrieves the value of a required environment variable.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// mustPositive is mustInt for values that must be at least 1. Token
// lifetimes use it: a zero lifetime issues tokens that are already expired.
func mustPositive(key string) int {
	n := mustInt(key)
	if n < 1 {
		log.Fatalf("%s must be positive, got %d", key, n)
	}
	return n
}
