package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"studyflow/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   string

	Database DatabaseConfig

	// Security
	JWTSecret          string
	JWTIssuer          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	// Optional infrastructure; empty values disable the feature
	RedisURL     string
	AMQPURL      string
	AMQPExchange string

	// Generative AI
	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration
	AIRateLimit  int // requests per user per minute

	// Object storage for study material uploads
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration
	MaxUploadBytes  int64

	// Observability
	SentryDSN string
	LogFile   string

	CORSOrigins []string
}

func (c *Config) IsDev() bool {
	return c.AppEnv != "production"
}

func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppEnv:   utils.GetEnvAsString("APP_ENV", "development"),
		Port:     utils.GetEnvAsString("PORT", "8080"),
		Database: LoadDatabaseConfig(),

		JWTSecret:          utils.GetEnvAsString("JWT_SECRET_KEY", ""),
		JWTIssuer:          utils.GetEnvAsString("JWT_ISSUER", "studyflow"),
		AccessTokenExpiry:  utils.GetEnvAsDuration("JWT_EXPIRATION_TIME", time.Hour),
		RefreshTokenExpiry: utils.GetEnvAsDuration("REFRESH_TOKEN_EXPIRATION_TIME", 7*24*time.Hour),

		RedisURL:     utils.GetEnvAsString("REDIS_URL", ""),
		AMQPURL:      utils.GetEnvAsString("AMQP_URL", ""),
		AMQPExchange: utils.GetEnvAsString("AMQP_EXCHANGE", "studyflow.events"),

		GeminiAPIKey: utils.GetEnvAsString("GEMINI_API_KEY", ""),
		GeminiModel:  utils.GetEnvAsString("GEMINI_MODEL", "gemini-2.0-flash"),
		AITimeout:    utils.GetEnvAsDuration("AI_TIMEOUT", 30*time.Second),
		AIRateLimit:  utils.GetEnvAsInt("AI_RATE_LIMIT", 20),

		S3Region:        utils.GetEnvAsString("S3_REGION", "us-east-1"),
		S3Bucket:        utils.GetEnvAsString("S3_BUCKET", ""),
		S3AccessKey:     utils.GetEnvAsString("S3_ACCESS_KEY", ""),
		S3SecretKey:     utils.GetEnvAsString("S3_SECRET_KEY", ""),
		S3Endpoint:      utils.GetEnvAsString("S3_ENDPOINT", ""),
		S3PresignExpiry: utils.GetEnvAsDuration("S3_PRESIGN_EXPIRY", time.Hour),
		MaxUploadBytes:  int64(utils.GetEnvAsInt("MAX_UPLOAD_BYTES", 2<<20)),

		SentryDSN: utils.GetEnvAsString("SENTRY_DSN", ""),
		LogFile:   utils.GetEnvAsString("LOG_FILE", ""),

		CORSOrigins: utils.GetEnvAsSlice("CORS_ORIGINS", []string{"http://localhost:3000"}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Database.URI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if c.AccessTokenExpiry <= 0 || c.RefreshTokenExpiry <= 0 {
		errs = append(errs, errors.New("token expirations must be positive"))
	}
	if c.S3Bucket != "" && (c.S3AccessKey == "") != (c.S3SecretKey == "") {
		errs = append(errs, errors.New("S3_ACCESS_KEY and S3_SECRET_KEY must be set together"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
