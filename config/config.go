package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	aws_pkg "bookstore-web/pkg/aws"

	"github.com/joho/godotenv"
)

// Image store backends
const (
	ImageStoreBackend = "backend"
	ImageStoreS3      = "s3"
)

type Config struct {
	Port           string
	Env            string
	BackendURL     string
	BackendTimeout time.Duration

	SessionSecret string
	// CookieSecure is always on in production
	CookieSecure bool

	// Empty RedisURL keeps carts in memory and disables catalog caching
	RedisURL        string
	CartTTL         time.Duration
	CatalogCacheTTL time.Duration

	// JWTSecret enables signature checks on backend tokens
	JWTSecret string

	ImageStore      string
	S3Bucket        string
	S3PublicBaseURL string

	OrderEventsTopicARN   string
	CatalogEventsQueueURL string

	RateLimitPerMinute int
}

// LoadConfig reads configuration from the environment (and a .env file when
// present), with an optional Secrets Manager override for the session secret.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")
	cfg := &Config{
		Port:                  getEnv("PORT", "3000"),
		Env:                   env,
		BackendURL:            strings.TrimSuffix(getEnv("BACKEND_API_URL", "http://localhost:8080/api"), "/"),
		BackendTimeout:        getDuration("BACKEND_TIMEOUT", 10*time.Second),
		SessionSecret:         os.Getenv("SESSION_SECRET"),
		CookieSecure:          getBool("COOKIE_SECURE", env == "production"),
		RedisURL:              os.Getenv("REDIS_URL"),
		CartTTL:               getDuration("CART_TTL", 7*24*time.Hour),
		CatalogCacheTTL:       getDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		ImageStore:            getEnv("IMAGE_STORE", ImageStoreBackend),
		S3Bucket:              os.Getenv("S3_BUCKET"),
		S3PublicBaseURL:       strings.TrimSuffix(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
		OrderEventsTopicARN:   os.Getenv("ORDER_EVENTS_TOPIC_ARN"),
		CatalogEventsQueueURL: os.Getenv("CATALOG_EVENTS_QUEUE_URL"),
		RateLimitPerMinute:    getInt("RATE_LIMIT_PER_MINUTE", 20),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		name := getEnv("SESSION_SECRET_NAME", "bookstore-web/SESSION")
		if err := cfg.applySecrets(name); err != nil {
			if cfg.IsProduction() {
				return nil, err
			}
			log.Printf("secrets manager unavailable, using environment values: %v", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// secretSource fetches a JSON secret from Secrets Manager.
var secretSource = func(ctx context.Context, name string) (map[string]string, error) {
	awsCfg, err := aws_pkg.LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return aws_pkg.NewSecretsClient(awsCfg).SecretMap(ctx, name)
}

// applySecrets overrides the session and JWT secrets with the values stored
// in the named secret. Missing keys keep the environment values.
func (c *Config) applySecrets(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m, err := secretSource(ctx, name)
	if err != nil {
		return fmt.Errorf("load secret %s: %w", name, err)
	}
	if v := m["SESSION_SECRET"]; v != "" {
		c.SessionSecret = v
	}
	if v := m["JWT_SECRET"]; v != "" {
		c.JWTSecret = v
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.IsProduction() {
		c.CookieSecure = true
	}
	if c.SessionSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("SESSION_SECRET is required in production")
		}
		c.SessionSecret = "dev-session-secret-change-me-0123456789"
	}
	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes")
	}
	switch c.ImageStore {
	case ImageStoreBackend:
	case ImageStoreS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when IMAGE_STORE=s3")
		}
	default:
		return fmt.Errorf("unknown IMAGE_STORE %q", c.ImageStore)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}
