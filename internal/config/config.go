package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	CORS   CORSConfig
	Queue  QueueConfig
	OCR    OCRConfig
	Assess AssessConfig
	Email  EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for receipt storage.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// QueueConfig holds analysis queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// OCRConfig holds settings for the external OCR engine.
type OCRConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	APIKey      string `mapstructure:"api_key"`
	Language    string `mapstructure:"language"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// AssessProviderConfig holds settings for a single AI assessment provider.
type AssessProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// AssessConfig holds AI assessment settings with multi-provider support.
type AssessConfig struct {
	Primary   AssessProviderConfig `mapstructure:"primary"`
	Secondary AssessProviderConfig `mapstructure:"secondary"`
}

// PrimaryConfig returns the primary assessment provider config, or nil if
// no provider is configured (assessment is optional).
func (a *AssessConfig) PrimaryConfig() *AssessProviderConfig {
	if a.Primary.Provider != "" {
		return &a.Primary
	}
	return nil
}

// SecondaryConfig returns the secondary assessment provider config, or nil
// if not configured.
func (a *AssessConfig) SecondaryConfig() *AssessProviderConfig {
	if a.Secondary.Provider != "" {
		return &a.Secondary
	}
	return nil
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	ReviewerTo  string `mapstructure:"reviewer_to"`
}

// Load reads configuration from environment variables with the DEKONTROL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DEKONTROL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "dekontrol")
	v.SetDefault("db.password", "dekontrol_secret")
	v.SetDefault("db.name", "dekontrol_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "dekontrol")

	// S3 defaults
	v.SetDefault("s3.region", "eu-central-1")
	v.SetDefault("s3.bucket", "dekontrol-receipts")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.concurrency", 4)

	// OCR defaults
	v.SetDefault("ocr.endpoint", "")
	v.SetDefault("ocr.api_key", "")
	v.SetDefault("ocr.language", "tur")
	v.SetDefault("ocr.timeout_secs", 60)

	// Assessment provider defaults
	v.SetDefault("assess.primary.provider", "")
	v.SetDefault("assess.primary.api_key", "")
	v.SetDefault("assess.primary.default_model", "")
	v.SetDefault("assess.primary.timeout_secs", 90)
	v.SetDefault("assess.secondary.provider", "")
	v.SetDefault("assess.secondary.api_key", "")
	v.SetDefault("assess.secondary.default_model", "")
	v.SetDefault("assess.secondary.timeout_secs", 90)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-central-1")
	v.SetDefault("email.from_address", "noreply@dekontrol.local")
	v.SetDefault("email.from_name", "Dekontrol")
	v.SetDefault("email.reviewer_to", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "DEKONTROL_SERVER_PORT",
		"server.read_timeout":            "DEKONTROL_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "DEKONTROL_SERVER_WRITE_TIMEOUT",
		"server.environment":             "DEKONTROL_SERVER_ENVIRONMENT",
		"db.host":                        "DEKONTROL_DB_HOST",
		"db.port":                        "DEKONTROL_DB_PORT",
		"db.user":                        "DEKONTROL_DB_USER",
		"db.password":                    "DEKONTROL_DB_PASSWORD",
		"db.name":                        "DEKONTROL_DB_NAME",
		"db.sslmode":                     "DEKONTROL_DB_SSLMODE",
		"db.max_open":                    "DEKONTROL_DB_MAX_OPEN",
		"db.max_idle":                    "DEKONTROL_DB_MAX_IDLE",
		"jwt.secret":                     "DEKONTROL_JWT_SECRET",
		"jwt.access_expiry":              "DEKONTROL_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":             "DEKONTROL_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                     "DEKONTROL_JWT_ISSUER",
		"s3.region":                      "DEKONTROL_S3_REGION",
		"s3.bucket":                      "DEKONTROL_S3_BUCKET",
		"s3.endpoint":                    "DEKONTROL_S3_ENDPOINT",
		"s3.access_key":                  "DEKONTROL_S3_ACCESS_KEY",
		"s3.secret_key":                  "DEKONTROL_S3_SECRET_KEY",
		"s3.max_file_size_mb":            "DEKONTROL_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":              "DEKONTROL_S3_PRESIGN_EXPIRY",
		"log.level":                      "DEKONTROL_LOG_LEVEL",
		"log.format":                     "DEKONTROL_LOG_FORMAT",
		"cors.allowed_origins":           "DEKONTROL_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs":       "DEKONTROL_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":              "DEKONTROL_QUEUE_MAX_RETRIES",
		"queue.concurrency":              "DEKONTROL_QUEUE_CONCURRENCY",
		"ocr.endpoint":                   "DEKONTROL_OCR_ENDPOINT",
		"ocr.api_key":                    "DEKONTROL_OCR_API_KEY",
		"ocr.language":                   "DEKONTROL_OCR_LANGUAGE",
		"ocr.timeout_secs":               "DEKONTROL_OCR_TIMEOUT_SECS",
		"assess.primary.provider":        "DEKONTROL_ASSESS_PRIMARY_PROVIDER",
		"assess.primary.api_key":         "DEKONTROL_ASSESS_PRIMARY_API_KEY",
		"assess.primary.default_model":   "DEKONTROL_ASSESS_PRIMARY_DEFAULT_MODEL",
		"assess.primary.timeout_secs":    "DEKONTROL_ASSESS_PRIMARY_TIMEOUT_SECS",
		"assess.secondary.provider":      "DEKONTROL_ASSESS_SECONDARY_PROVIDER",
		"assess.secondary.api_key":       "DEKONTROL_ASSESS_SECONDARY_API_KEY",
		"assess.secondary.default_model": "DEKONTROL_ASSESS_SECONDARY_DEFAULT_MODEL",
		"assess.secondary.timeout_secs":  "DEKONTROL_ASSESS_SECONDARY_TIMEOUT_SECS",
		"email.provider":                 "DEKONTROL_EMAIL_PROVIDER",
		"email.region":                   "DEKONTROL_EMAIL_REGION",
		"email.from_address":             "DEKONTROL_EMAIL_FROM_ADDRESS",
		"email.from_name":                "DEKONTROL_EMAIL_FROM_NAME",
		"email.reviewer_to":              "DEKONTROL_EMAIL_REVIEWER_TO",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// PaaS platforms set a PORT env var. Use it unless the port was set explicitly.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DEKONTROL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.OCR = OCRConfig{
		Endpoint:    v.GetString("ocr.endpoint"),
		APIKey:      v.GetString("ocr.api_key"),
		Language:    v.GetString("ocr.language"),
		TimeoutSecs: v.GetInt("ocr.timeout_secs"),
	}
	cfg.Assess = AssessConfig{
		Primary: AssessProviderConfig{
			Provider:     v.GetString("assess.primary.provider"),
			APIKey:       v.GetString("assess.primary.api_key"),
			DefaultModel: v.GetString("assess.primary.default_model"),
			TimeoutSecs:  v.GetInt("assess.primary.timeout_secs"),
		},
		Secondary: AssessProviderConfig{
			Provider:     v.GetString("assess.secondary.provider"),
			APIKey:       v.GetString("assess.secondary.api_key"),
			DefaultModel: v.GetString("assess.secondary.default_model"),
			TimeoutSecs:  v.GetInt("assess.secondary.timeout_secs"),
		},
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		ReviewerTo:  v.GetString("email.reviewer_to"),
	}

	return cfg, nil
}
