package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends selectable through DB_DRIVER.
const (
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"
	// DriverMemory keeps all data in process; local development only.
	DriverMemory = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Port      string `mapstructure:"PORT"`
	GinMode   string `mapstructure:"GIN_MODE"`
	ClientURL string `mapstructure:"CLIENT_URL"`

	DBDriver                         string `mapstructure:"DB_DRIVER"`
	MongoURI                         string `mapstructure:"MONGODB_URI"`
	MongoDatabase                    string `mapstructure:"MONGODB_DATABASE"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	JWTExpiresIn       time.Duration `mapstructure:"JWT_EXPIRES_IN"`
	JWTCookieExpiresIn time.Duration `mapstructure:"JWT_COOKIE_EXPIRES_IN"`
	PasswordResetTTL   time.Duration `mapstructure:"PASSWORD_RESET_TTL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	MailProvider   string `mapstructure:"MAIL_PROVIDER"` // smtp, sendgrid or log
	MailFrom       string `mapstructure:"MAIL_FROM"`
	SMTPHost       string `mapstructure:"SMTP_HOST"`
	SMTPPort       string `mapstructure:"SMTP_PORT"`
	SMTPUser       string `mapstructure:"SMTP_USER"`
	SMTPPass       string `mapstructure:"SMTP_PASS"`
	SendGridAPIKey string `mapstructure:"SENDGRID_API_KEY"`
}

var envKeys = []string{
	"PORT", "GIN_MODE", "CLIENT_URL",
	"DB_DRIVER", "MONGODB_URI", "MONGODB_DATABASE",
	"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"JWT_SECRET", "JWT_EXPIRES_IN", "JWT_COOKIE_EXPIRES_IN", "PASSWORD_RESET_TTL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"RABBITMQ_URL",
	"MAIL_PROVIDER", "MAIL_FROM", "SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SENDGRID_API_KEY",
}

// LoadConfig loads the API server configuration from environment variables
// using Viper.
func LoadConfig() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWorkerConfig loads the mail worker configuration. Only broker and mail
// settings are required.
func LoadWorkerConfig() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateWorker(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "5001")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("CLIENT_URL", "http://localhost:3000")
	v.SetDefault("DB_DRIVER", DriverMongo)
	v.SetDefault("MONGODB_DATABASE", "storefront")
	v.SetDefault("JWT_EXPIRES_IN", "24h")
	v.SetDefault("JWT_COOKIE_EXPIRES_IN", "24h")
	v.SetDefault("PASSWORD_RESET_TTL", "10m")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MAIL_PROVIDER", "log")
	v.SetDefault("MAIL_FROM", "no-reply@storefront.local")
	v.SetDefault("SMTP_PORT", "587")

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.New("failed to bind env " + key + ": " + err.Error())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}
	return &cfg, nil
}

// Validate checks the API server settings for the selected backends.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be a positive duration")
	}

	switch strings.ToLower(c.DBDriver) {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required when DB_DRIVER=mongo")
		}
	case DriverFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required when DB_DRIVER=firestore")
		}
	case DriverMemory:
	default:
		return errors.New("DB_DRIVER must be one of: mongo, firestore, memory")
	}
	return c.validateMail()
}

// ValidateWorker checks the settings the mail worker uses.
func (c *Config) ValidateWorker() error {
	if c.RabbitMQURL == "" {
		return errors.New("RABBITMQ_URL is required for the mail worker")
	}
	return c.validateMail()
}

// validateMail rejects the log provider in release mode, since it writes
// reset links to the log.
func (c *Config) validateMail() error {
	switch strings.ToLower(c.MailProvider) {
	case "smtp":
		if c.SMTPHost == "" || c.SMTPUser == "" || c.SMTPPass == "" {
			return errors.New("SMTP_HOST, SMTP_USER and SMTP_PASS are required when MAIL_PROVIDER=smtp")
		}
	case "sendgrid":
		if c.SendGridAPIKey == "" {
			return errors.New("SENDGRID_API_KEY is required when MAIL_PROVIDER=sendgrid")
		}
	case "log":
		if c.IsRelease() {
			return errors.New("MAIL_PROVIDER must be smtp or sendgrid when GIN_MODE=release")
		}
	default:
		return errors.New("MAIL_PROVIDER must be one of: smtp, sendgrid, log")
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return strings.EqualFold(c.GinMode, "release")
}
