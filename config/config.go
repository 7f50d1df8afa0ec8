package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Auth configuration
	JWTSecret     string
	JWTExpiry     time.Duration
	ResetTokenTTL time.Duration
	FrontendURL   string

	// Email configuration
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	EmailFrom     string
	EmailFromName string

	// Oracle configuration
	LLMProvider    string
	GeminiAPIKey   string
	GeminiModel    string
	DeepSeekAPIKey string
	DeepSeekAPIURL string
	DeepSeekModel  string
	OracleTimeout  time.Duration
	OCREngine      string

	// Document storage
	S3BucketName   string
	AWSRegion      string
	UploadMaxBytes int64

	CORSOrigins      []string
	RateLimitPerHour int
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ProviderGemini   = "gemini"
	ProviderDeepSeek = "deepseek"

	OCRGemini    = "gemini"
	OCRTesseract = "tesseract"
)

// LoadConfig builds a Config from environment variables, falling back to
// Docker secrets and then to defaults.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	if env == Development {
		// A missing .env is fine; real deployments use env vars or secrets.
		_ = godotenv.Load()
	}

	cfg := &Config{
		ServerPort: lookup("SERVER_PORT", "server_port", "8080"),
		ServerHost: lookup("SERVER_HOST", "server_host", "0.0.0.0"),

		DBDriver:   strings.ToLower(lookup("DB_DRIVER", "db_driver", DriverPostgres)),
		DBHost:     lookup("DB_HOST", "db_host", "localhost"),
		DBPort:     lookup("DB_PORT", "db_port", "5432"),
		DBUser:     lookup("DB_USER", "db_user", "postgres"),
		DBPassword: lookup("DB_PASSWORD", "db_password", ""),
		DBName:     lookup("DB_NAME", "db_name", "allertrack"),
		DBSSLMode:  lookup("DB_SSL_MODE", "db_ssl_mode", "disable"),
		DBPath:     lookup("DB_PATH", "db_path", "allertrack.db"),

		RedisHost:     lookup("REDIS_HOST", "redis_host", ""),
		RedisPort:     lookup("REDIS_PORT", "redis_port", "6379"),
		RedisPassword: lookup("REDIS_PASSWORD", "redis_password", ""),
		RedisURL:      lookup("REDIS_URL", "redis_url", ""),

		JWTSecret:   lookup("JWT_SECRET", "jwt_secret", ""),
		FrontendURL: strings.TrimRight(lookup("FRONTEND_URL", "frontend_url", "http://localhost:3000"), "/"),

		SMTPHost:      lookup("SMTP_HOST", "smtp_host", ""),
		SMTPPort:      lookup("SMTP_PORT", "smtp_port", ""),
		SMTPUsername:  lookup("SMTP_USERNAME", "smtp_username", ""),
		SMTPPassword:  lookup("SMTP_PASSWORD", "smtp_password", ""),
		EmailFrom:     lookup("EMAIL_FROM", "email_from", "no-reply@allertrack.local"),
		EmailFromName: lookup("EMAIL_FROM_NAME", "email_from_name", "Allertrack"),

		LLMProvider:    strings.ToLower(lookup("LLM_PROVIDER", "llm_provider", ProviderGemini)),
		GeminiAPIKey:   lookup("GEMINI_API_KEY", "gemini_api_key", ""),
		GeminiModel:    lookup("GEMINI_MODEL", "gemini_model", "gemini-1.5-flash"),
		DeepSeekAPIKey: lookup("DEEPSEEK_API_KEY", "deepseek_api_key", ""),
		DeepSeekAPIURL: lookup("DEEPSEEK_API_URL", "deepseek_api_url", "https://api.deepseek.com/v1/chat/completions"),
		DeepSeekModel:  lookup("DEEPSEEK_MODEL", "deepseek_model", "deepseek-chat"),
		OCREngine:      strings.ToLower(lookup("OCR_ENGINE", "ocr_engine", OCRGemini)),

		S3BucketName: lookup("S3_BUCKET_NAME", "s3_bucket_name", ""),
		AWSRegion:    lookup("AWS_REGION", "aws_region", ""),

		CORSOrigins: splitList(lookup("CORS_ORIGINS", "cors_origins", "http://localhost:3000")),
	}

	var err error
	if cfg.RedisDB, err = lookupInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerHour, err = lookupInt("RATE_LIMIT_PER_HOUR", 30); err != nil {
		return nil, err
	}
	maxBytes, err := lookupInt("UPLOAD_MAX_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	cfg.UploadMaxBytes = int64(maxBytes)

	if cfg.JWTExpiry, err = lookupDuration("JWT_EXPIRY", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ResetTokenTTL, err = lookupDuration("RESET_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.OracleTimeout, err = lookupDuration("ORACLE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// PostgresDSN returns the connection string for the postgres driver
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisConfigured reports whether a redis endpoint was provided
func (c *Config) RedisConfigured() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// SMTPConfigured reports whether outgoing mail can be delivered
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort != ""
}

func lookup(envKey, secretName, def string) string {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	if v := readSecret(secretName); v != "" {
		return v
	}
	return def
}

func lookupInt(envKey string, def int) (int, error) {
	raw := lookup(envKey, strings.ToLower(envKey), "")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ValidationError{Field: envKey, Message: "must be an integer"}
	}
	return n, nil
}

func lookupDuration(envKey string, def time.Duration) (time.Duration, error) {
	raw := lookup(envKey, strings.ToLower(envKey), "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, ValidationError{Field: envKey, Message: "must be a positive duration like 30s or 1h"}
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
