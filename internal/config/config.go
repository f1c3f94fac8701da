package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	Sheets    SheetsConfig    `yaml:"sheets"`
	Reminders RemindersConfig `yaml:"reminders"`
	API       APIConfig       `yaml:"api"`
	Sentry    SentryConfig    `yaml:"sentry"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Env  string `yaml:"env"`
	// PublicURL is the externally visible base URL, used to reconstruct the
	// request URL during webhook signature validation.
	PublicURL string `yaml:"public_url"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	// FromNumber includes the whatsapp: prefix, e.g. "whatsapp:+14155238886".
	FromNumber        string `yaml:"from_number"`
	ValidateSignature bool   `yaml:"validate_signature"`
}

type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

type RemindersConfig struct {
	DailyTime string `yaml:"daily_time"` // "HH:MM", 24-hour
	Timezone  string `yaml:"timezone"`
}

type APIConfig struct {
	JWTSigningKey string `yaml:"jwt_signing_key"`
	JWTIssuer     string `yaml:"jwt_issuer"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

type SentryConfig struct {
	DSN string `yaml:"dsn"`
}

// Load reads configuration in three layers: an optional .env file, an
// optional YAML file (CONFIG_PATH, default config.yaml), then environment
// variable overrides. Missing required values fail the load.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	path := getEnv("CONFIG_PATH", "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	overrideString(&cfg.Server.Port, "PORT")
	overrideString(&cfg.Server.Env, "APP_ENV")
	overrideString(&cfg.Server.PublicURL, "PUBLIC_URL")
	overrideString(&cfg.Twilio.AccountSID, "TWILIO_ACCOUNT_SID")
	overrideString(&cfg.Twilio.AuthToken, "TWILIO_AUTH_TOKEN")
	overrideString(&cfg.Twilio.FromNumber, "TWILIO_FROM_NUMBER")
	overrideBool(&cfg.Twilio.ValidateSignature, "TWILIO_VALIDATE_SIGNATURE")
	overrideString(&cfg.Sheets.SpreadsheetID, "SPREADSHEET_ID")
	overrideString(&cfg.Sheets.CredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	overrideString(&cfg.Reminders.DailyTime, "REMINDER_DAILY_TIME")
	overrideString(&cfg.Reminders.Timezone, "REMINDER_TIMEZONE")
	overrideString(&cfg.API.JWTSigningKey, "JWT_SIGNING_KEY")
	overrideString(&cfg.API.JWTIssuer, "JWT_ISSUER")
	overrideInt(&cfg.API.TokenTTLHours, "TOKEN_TTL_HOURS")
	overrideString(&cfg.Sentry.DSN, "SENTRY_DSN")

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Twilio.FromNumber == "" {
		c.Twilio.FromNumber = "whatsapp:+14155238886"
	}
	if c.Reminders.DailyTime == "" {
		c.Reminders.DailyTime = "09:00"
	}
	if c.Reminders.Timezone == "" {
		c.Reminders.Timezone = "Asia/Kolkata"
	}
	if c.API.JWTIssuer == "" {
		c.API.JWTIssuer = "jobtrack"
	}
	if c.API.TokenTTLHours == 0 {
		c.API.TokenTTLHours = 720
	}
}

func (c *Config) validate() error {
	if c.Sheets.SpreadsheetID == "" {
		return errors.New("SPREADSHEET_ID is required")
	}
	if c.Sheets.CredentialsFile == "" {
		return errors.New("GOOGLE_CREDENTIALS_FILE is required")
	}
	if c.Twilio.AccountSID == "" {
		return errors.New("TWILIO_ACCOUNT_SID is required")
	}
	if c.Twilio.AuthToken == "" {
		return errors.New("TWILIO_AUTH_TOKEN is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func overrideString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func overrideInt(dst *int, key string) {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			*dst = intVal
		}
	}
}

func overrideBool(dst *bool, key string) {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			*dst = boolVal
		}
	}
}
