package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Email     EmailConfig
	Storage   StorageConfig
	Inference InferenceConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	Env             string        `env:"APP_ENV" envDefault:"dev"` // dev or prod
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"11m"` // must outlive the inference call
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	TrustedOrigins  []string      `env:"TRUSTED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
}

type DatabaseConfig struct {
	Host           string `env:"DB_HOST" envDefault:"localhost"`
	Port           string `env:"DB_PORT" envDefault:"5432"`
	User           string `env:"DB_USER" envDefault:"postgres"`
	Password       string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName         string `env:"DB_NAME" envDefault:"hirely"`
	SSLMode        string `env:"DB_SSLMODE" envDefault:"disable"`
	ChannelBinding string `env:"DB_CHANNEL_BINDING"` // "require" for Neon DB, empty for local
	MaxOpenConns   int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns   int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

const (
	TokenTypeJWT    = "jwt"
	TokenTypePaseto = "paseto"

	HashBcrypt   = "bcrypt"
	HashArgon2id = "argon2id"
)

type AuthConfig struct {
	TokenType string `env:"AUTH_TOKEN_TYPE" envDefault:"jwt"`
	JWTSecret string `env:"JWT_SECRET"`
	// PASETO symmetric key (must be 32 bytes for v4.local)
	PasetoKey           string        `env:"PASETO_KEY"`
	AccessTokenDuration time.Duration `env:"ACCESS_TOKEN_DURATION" envDefault:"60m"`
	HashAlgorithm       string        `env:"PASSWORD_HASH_ALGORITHM" envDefault:"bcrypt"`
	BcryptCost          int           `env:"BCRYPT_COST" envDefault:"12"`
}

type EmailConfig struct {
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASS"`
	From         string `env:"EMAIL_FROM"` // falls back to SMTP_USER
}

const (
	StorageS3    = "s3"
	StorageLocal = "local"
)

type StorageConfig struct {
	Driver        string `env:"STORAGE_DRIVER" envDefault:"local"`
	Endpoint      string `env:"S3_ENDPOINT"`
	Region        string `env:"S3_REGION" envDefault:"auto"`
	Bucket        string `env:"S3_BUCKET"`
	AccessKey     string `env:"S3_ACCESS_KEY"`
	SecretKey     string `env:"S3_SECRET_KEY"`
	PublicBaseURL string `env:"STORAGE_PUBLIC_BASE_URL" envDefault:"http://localhost:8080/uploads"`
	LocalDir      string `env:"STORAGE_LOCAL_DIR" envDefault:"./uploads"`
}

type InferenceConfig struct {
	BaseURL  string        `env:"INFERENCE_BASE_URL" envDefault:"https://shanias-hirelyjobmatchmaking.hf.space"`
	CallPath string        `env:"INFERENCE_CALL_PATH" envDefault:"/gradio_api/call"`
	APIName  string        `env:"INFERENCE_API_NAME" envDefault:"predict"`
	Token    string        `env:"INFERENCE_TOKEN"`
	Timeout  time.Duration `env:"INFERENCE_TIMEOUT" envDefault:"10m"`
}

type RateLimitConfig struct {
	MaxRequests   int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"10"`
	Window        time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	EmailCooldown time.Duration `env:"RATE_LIMIT_EMAIL_COOLDOWN" envDefault:"2m"`
	// wrong reset codes allowed per email before its codes are revoked
	MaxResetFailures   int           `env:"RATE_LIMIT_MAX_RESET_FAILURES" envDefault:"5"`
	ResetFailureWindow time.Duration `env:"RATE_LIMIT_RESET_FAILURE_WINDOW" envDefault:"15m"`
}

// Load reads configuration from environment variables, after loading a .env
// file when one is present.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	switch c.Auth.TokenType {
	case TokenTypeJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_TOKEN_TYPE=%s", TokenTypeJWT)
		}
	case TokenTypePaseto:
		if len(c.Auth.PasetoKey) != 32 {
			return fmt.Errorf("PASETO_KEY must be exactly 32 bytes, got %d", len(c.Auth.PasetoKey))
		}
	default:
		return fmt.Errorf("unsupported AUTH_TOKEN_TYPE %q", c.Auth.TokenType)
	}

	switch c.Auth.HashAlgorithm {
	case HashBcrypt:
		if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
			return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
		}
	case HashArgon2id:
	default:
		return fmt.Errorf("unsupported PASSWORD_HASH_ALGORITHM %q", c.Auth.HashAlgorithm)
	}

	if c.Auth.AccessTokenDuration <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_DURATION must be positive")
	}

	if c.RateLimit.MaxResetFailures < 1 {
		return fmt.Errorf("RATE_LIMIT_MAX_RESET_FAILURES must be at least 1")
	}

	switch c.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=%s", StorageS3)
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)

	// Add channel_binding if configured (required for Neon DB)
	if c.ChannelBinding != "" {
		connStr += fmt.Sprintf(" channel_binding=%s", c.ChannelBinding)
	}

	return connStr
}

// Address returns Redis connection address (host:port)
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}

// FromAddress returns the sender address for outbound mail.
func (c *EmailConfig) FromAddress() string {
	if c.From != "" {
		return c.From
	}
	return c.SMTPUser
}
