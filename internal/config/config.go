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

// Storage drivers
const (
	StorageDriverS3    = "s3"
	StorageDriverLocal = "local"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server
	APIPort       int
	PublicBaseURL string

	// Logging
	LogLevel string

	// Security
	JWTSecret      string
	AllowedOrigins string
	AppEnv         string

	// Rate Limiting
	RateLimitRequests float64
	RateLimitBurst    int

	// Storage
	StorageDriver       string
	LocalStoragePath    string
	S3Endpoint          string
	S3AccessKey         string
	S3SecretKey         string
	S3Bucket            string
	S3Region            string
	S3UseSSL            bool
	S3PublicBaseURL     string
	SignedURLTTL        time.Duration
	MaxAttachmentSize   int64
	MaxProductImageSize int64

	// Payments
	PaymentMerchantCode string
	PaymentSecretKey    string
	PaymentCheckoutURL  string
	PaymentReturnURL    string
	PaymentCancelURL    string
	PaymentHashAlgo     string

	// Events
	KafkaBrokers string
	KafkaTopic   string

	// Receipt mail
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPTLS      string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Required: DATABASE_URL
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	// Required: JWT_SECRET
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	var err error
	if cfg.APIPort, err = intEnv("API_PORT", 8080); err != nil {
		return nil, err
	}

	cfg.LogLevel = stringEnv("LOG_LEVEL", "info")

	cfg.AllowedOrigins = os.Getenv("ALLOWED_ORIGINS")
	cfg.AppEnv = stringEnv("APP_ENV", "development")
	cfg.PublicBaseURL = stringEnv("PUBLIC_BASE_URL", fmt.Sprintf("http://localhost:%d", cfg.APIPort))

	// Rate limiting configuration
	if rps := os.Getenv("RATE_LIMIT_REQUESTS"); rps != "" {
		if v, err := strconv.ParseFloat(rps, 64); err == nil {
			cfg.RateLimitRequests = v
		}
	} else {
		cfg.RateLimitRequests = 10.0
	}

	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if v, err := strconv.Atoi(burst); err == nil {
			cfg.RateLimitBurst = v
		}
	} else {
		cfg.RateLimitBurst = 20
	}

	// Storage configuration
	cfg.StorageDriver = strings.ToLower(stringEnv("STORAGE_DRIVER", StorageDriverS3))
	cfg.LocalStoragePath = stringEnv("LOCAL_STORAGE_PATH", "./uploads")
	cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.S3AccessKey = os.Getenv("S3_ACCESS_KEY")
	cfg.S3SecretKey = os.Getenv("S3_SECRET_KEY")
	cfg.S3Bucket = stringEnv("S3_BUCKET", "stitchdesk")
	cfg.S3Region = stringEnv("S3_REGION", "us-east-1")
	cfg.S3PublicBaseURL = os.Getenv("S3_PUBLIC_BASE_URL")
	if cfg.S3UseSSL, err = boolEnv("S3_USE_SSL", true); err != nil {
		return nil, err
	}

	ttl := stringEnv("SIGNED_URL_TTL", "1h")
	if cfg.SignedURLTTL, err = time.ParseDuration(ttl); err != nil {
		return nil, fmt.Errorf("SIGNED_URL_TTL must be a valid duration: %w", err)
	}

	maxAttachment, err := intEnv("MAX_ATTACHMENT_SIZE", 20*1024*1024)
	if err != nil {
		return nil, err
	}
	cfg.MaxAttachmentSize = int64(maxAttachment)

	maxImage, err := intEnv("MAX_PRODUCT_IMAGE_SIZE", 10*1024*1024)
	if err != nil {
		return nil, err
	}
	cfg.MaxProductImageSize = int64(maxImage)

	// Payment provider
	cfg.PaymentMerchantCode = os.Getenv("PAYMENT_MERCHANT_CODE")
	cfg.PaymentSecretKey = os.Getenv("PAYMENT_SECRET_KEY")
	cfg.PaymentCheckoutURL = stringEnv("PAYMENT_CHECKOUT_URL", "https://secure.2checkout.com/checkout/buy")
	cfg.PaymentReturnURL = os.Getenv("PAYMENT_RETURN_URL")
	cfg.PaymentCancelURL = os.Getenv("PAYMENT_CANCEL_URL")
	cfg.PaymentHashAlgo = strings.ToLower(stringEnv("PAYMENT_HASH_ALGORITHM", "sha256"))

	// Kafka
	cfg.KafkaBrokers = os.Getenv("KAFKA_BROKERS")
	cfg.KafkaTopic = stringEnv("KAFKA_TOPIC", "order-events")

	// SMTP
	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.SMTPPort, err = intEnv("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.SMTPFrom = stringEnv("SMTP_FROM", "orders@stitchdesk.local")
	cfg.SMTPTLS = strings.ToLower(stringEnv("SMTP_TLS", "starttls"))

	return cfg, nil
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a valid boolean: %w", key, err)
	}
	return b, nil
}

// LoadWithValidation loads and validates configuration, failing fast on errors
func LoadWithValidation() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Production-specific validation
	if cfg.IsProduction() {
		if err := cfg.ValidateProduction(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Brokers returns the Kafka broker list, empty when events are disabled
func (c *Config) Brokers() []string {
	if strings.TrimSpace(c.KafkaBrokers) == "" {
		return nil
	}
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DatabaseURL cannot be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWTSecret cannot be empty")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("APIPort must be between 1 and 65535")
	}
	switch c.StorageDriver {
	case StorageDriverS3:
		if c.S3Endpoint == "" {
			return fmt.Errorf("S3_ENDPOINT is required for the s3 storage driver")
		}
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET cannot be empty")
		}
	case StorageDriverLocal:
		if c.LocalStoragePath == "" {
			return fmt.Errorf("LocalStoragePath cannot be empty")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q", StorageDriverS3, StorageDriverLocal)
	}
	if c.SignedURLTTL <= 0 {
		return fmt.Errorf("SignedURLTTL must be positive")
	}
	if c.MaxAttachmentSize <= 0 || c.MaxProductImageSize <= 0 {
		return fmt.Errorf("upload size limits must be positive")
	}
	switch c.PaymentHashAlgo {
	case "sha256", "md5", "sha3-256":
	default:
		return fmt.Errorf("PAYMENT_HASH_ALGORITHM %q is not supported", c.PaymentHashAlgo)
	}
	switch c.SMTPTLS {
	case "starttls", "implicit", "none":
	default:
		return fmt.Errorf("SMTP_TLS must be starttls, implicit or none, got %q", c.SMTPTLS)
	}
	return nil
}

// ValidateProduction performs additional validation for production environment
func (c *Config) ValidateProduction() error {
	if c.AllowedOrigins == "" {
		return fmt.Errorf("ALLOWED_ORIGINS is required in production")
	}

	// Check for wildcard in production
	if strings.Contains(c.AllowedOrigins, "*") {
		return fmt.Errorf("wildcard (*) origins are not allowed in production")
	}

	// Check for sslmode=disable in database URL
	if strings.Contains(c.DatabaseURL, "sslmode=disable") {
		return fmt.Errorf("sslmode=disable is not allowed in production")
	}

	if c.StorageDriver != StorageDriverS3 {
		return fmt.Errorf("STORAGE_DRIVER must be s3 in production")
	}

	if c.PaymentMerchantCode == "" || c.PaymentSecretKey == "" {
		return fmt.Errorf("PAYMENT_MERCHANT_CODE and PAYMENT_SECRET_KEY are required in production")
	}

	return nil
}

// LogConfig logs configuration values (excluding secrets)
func (c *Config) LogConfig(logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.Int("api_port", c.APIPort),
		slog.String("log_level", c.LogLevel),
		slog.String("app_env", c.AppEnv),
		slog.Bool("jwt_secret_set", c.JWTSecret != ""),
		slog.Bool("allowed_origins_set", c.AllowedOrigins != ""),
		slog.Float64("rate_limit_rps", c.RateLimitRequests),
		slog.Int("rate_limit_burst", c.RateLimitBurst),
		slog.String("storage_driver", c.StorageDriver),
		slog.String("s3_endpoint", c.S3Endpoint),
		slog.String("s3_bucket", c.S3Bucket),
		slog.Duration("signed_url_ttl", c.SignedURLTTL),
		slog.Int64("max_attachment_size", c.MaxAttachmentSize),
		slog.Int64("max_product_image_size", c.MaxProductImageSize),
		slog.Bool("payment_configured", c.PaymentMerchantCode != "" && c.PaymentSecretKey != ""),
		slog.String("payment_hash_algorithm", c.PaymentHashAlgo),
		slog.Bool("kafka_enabled", len(c.Brokers()) > 0),
		slog.Bool("smtp_enabled", c.SMTPHost != ""),
		slog.String("smtp_tls", c.SMTPTLS),
	)
}
