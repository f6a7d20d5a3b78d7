package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	MongoDB   MongoDBConfig
	Reporting ReportingConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI            string
	DBName         string
	ConnectRetries int
	RetryDelay     time.Duration
}

// ReportingConfig holds scheduler and bucketing settings.
type ReportingConfig struct {
	CronSchedule    string
	ScheduleEnabled bool
	// Timezone is an IANA name, or "Local" for the host's zone.
	Timezone string
}

// SheetsConfig contains configuration required to export summaries to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	Range           string
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API used to
// notify a manager about scheduled reports.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	Recipient     string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	retries, err := getenvInt("MONGODB_CONNECT_RETRIES", 5)
	if err != nil {
		return nil, err
	}
	retryDelay, err := getenvDuration("MONGODB_RETRY_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}
	scheduleEnabled, err := getenvBool("REPORT_SCHEDULE_ENABLED", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		MongoDB: MongoDBConfig{
			URI:            getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName:         getenvWithDefault("MONGODB_DB_NAME", "shop"),
			ConnectRetries: retries,
			RetryDelay:     retryDelay,
		},
		Reporting: ReportingConfig{
			CronSchedule:    getenvWithDefault("REPORT_CRON_SCHEDULE", "0 23 * * *"),
			ScheduleEnabled: scheduleEnabled,
			Timezone:        getenvWithDefault("TIMEZONE", "Local"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			Range:           getenvWithDefault("GOOGLE_SHEET_RANGE", "Reports!A:J"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			Recipient:     os.Getenv("WHATSAPP_REPORT_RECIPIENT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}
	if c.MongoDB.ConnectRetries < 1 {
		return errors.New("MONGODB_CONNECT_RETRIES must be at least 1")
	}

	if _, err := c.Reporting.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	if c.Reporting.ScheduleEnabled {
		if c.Reporting.CronSchedule == "" {
			return errors.New("REPORT_CRON_SCHEDULE must be provided")
		}
		if _, err := cron.ParseStandard(c.Reporting.CronSchedule); err != nil {
			return fmt.Errorf("REPORT_CRON_SCHEDULE is invalid: %w", err)
		}
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}
	if c.Sheets.Enabled() && c.Sheets.Range == "" {
		return errors.New("GOOGLE_SHEET_RANGE must not be empty")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.AccessToken == "":
			return errors.New("WHATSAPP_TOKEN must be provided")
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.Recipient == "":
			return errors.New("WHATSAPP_REPORT_RECIPIENT must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	return nil
}

// Location resolves the configured time zone.
func (r ReportingConfig) Location() (*time.Location, error) {
	if r.Timezone == "" || strings.EqualFold(r.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(r.Timezone)
}

// Enabled reports whether the Sheets export is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// Enabled reports whether any WhatsApp setting was provided.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != "" || w.PhoneNumberID != "" || w.Recipient != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return v, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
}
