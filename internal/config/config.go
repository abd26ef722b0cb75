package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Email    EmailConfig
	Admin    AdminConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	TrustedProxies []string // CIDR ranges allowed to set forwarding headers
}

type AuthConfig struct {
	// SessionSecret signs manage-session tokens; OTPPepper is mixed into
	// access-code digests. Both fall back to AppSecret when unset.
	AppSecret     string
	SessionSecret string
	OTPPepper     string
	AdminSecret   string

	CodeTTL          time.Duration
	SessionTTL       time.Duration
	MaxCodeAttempts  int
	CodeLockout      time.Duration
	AdminTokenExpiry time.Duration
	CleanupInterval  time.Duration

	TimingDelayBaseMs   int
	TimingDelayRandomMs int
}

type EmailConfig struct {
	AWSRegion   string
	FromAddress string
	SiteBaseURL string
}

type AdminConfig struct {
	OwnerEmail        string
	OwnerPasswordHash string // bcrypt hash, not the password itself
	OwnerTOTPSecret   string // optional; enables the second factor when set
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	appSecret := getEnv("APP_SECRET", "")
	if appSecret == "" {
		return nil, fmt.Errorf("APP_SECRET is required")
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "vitae"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
			TrustedProxies: parseCommaSeparated(getEnv("TRUSTED_PROXIES", "")),
		},
		Auth: AuthConfig{
			AppSecret:           appSecret,
			SessionSecret:       getEnv("SESSION_SECRET", appSecret),
			OTPPepper:           getEnv("OTP_PEPPER", appSecret),
			AdminSecret:         getEnv("ADMIN_JWT_SECRET", appSecret),
			CodeTTL:             getEnvAsDuration("OTP_TTL", 10*time.Minute),
			SessionTTL:          getEnvAsDuration("SESSION_TTL", 30*time.Minute),
			MaxCodeAttempts:     getEnvAsInt("OTP_MAX_ATTEMPTS", 5),
			CodeLockout:         getEnvAsDuration("OTP_LOCKOUT", 15*time.Minute),
			AdminTokenExpiry:    getEnvAsDuration("ADMIN_TOKEN_EXPIRY", 12*time.Hour),
			CleanupInterval:     getEnvAsDuration("CHALLENGE_CLEANUP_INTERVAL", 1*time.Hour),
			TimingDelayBaseMs:   getEnvAsInt("TIMING_DELAY_BASE_MS", 200),
			TimingDelayRandomMs: getEnvAsInt("TIMING_DELAY_RANDOM_MS", 100),
		},
		Email: EmailConfig{
			AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
			FromAddress: getEnv("EMAIL_FROM", ""),
			SiteBaseURL: getEnv("SITE_BASE_URL", "http://localhost:3000"),
		},
		Admin: AdminConfig{
			OwnerEmail:        getEnv("OWNER_EMAIL", ""),
			OwnerPasswordHash: getEnv("OWNER_PASSWORD_HASH", ""),
			OwnerTOTPSecret:   getEnv("OWNER_TOTP_SECRET", ""),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	// The pepper and session secret guard the whole access-control subsystem;
	// refuse to start in production with missing or weak values.
	if err := validateSecret("APP_SECRET", appSecret, env); err != nil {
		return nil, err
	}
	if err := validateSecret("SESSION_SECRET", cfg.Auth.SessionSecret, env); err != nil {
		return nil, err
	}
	if err := validateSecret("OTP_PEPPER", cfg.Auth.OTPPepper, env); err != nil {
		return nil, err
	}

	if env == "production" && cfg.Email.FromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM is required in production")
	}

	return cfg, nil
}

// validateSecret enforces minimum security standards for signing secrets
func validateSecret(name, secret, env string) error {
	minLength := 16 // Development minimum
	if env == "production" {
		minLength = 32 // Production requires a 256-bit secret
	}

	if len(secret) < minLength {
		return fmt.Errorf("%s must be at least %d characters in %s environment (got %d)",
			name, minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("%s cannot be a common weak value", name)
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		originsStr := getEnv("ALLOWED_ORIGINS", "")
		if originsStr == "" {
			return []string{} // Default to no origins in production
		}
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://localhost:5173", // Vite default
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
		"http://127.0.0.1:5173",
	}
}
