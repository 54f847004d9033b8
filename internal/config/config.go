// Package config loads the invoicer configuration from a YAML file, a .env
// file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ModeLocal  = "local"
	ModeHosted = "hosted"

	DriverSQLite    = "sqlite"
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"

	// DefaultPath is the config file read when none is given.
	DefaultPath = "invoicer.yaml"
)

type Config struct {
	ListenAddr string         `yaml:"listen_addr"`
	Mode       string         `yaml:"mode"`
	StaticPath string         `yaml:"static_path"`
	Storage    StorageConfig  `yaml:"storage"`
	Auth       AuthConfig     `yaml:"auth"`
	Invoices   InvoicesConfig `yaml:"invoices"`
	Expenses   ExpensesConfig `yaml:"expenses"`
	Gmail      GmailConfig    `yaml:"gmail"`
	Sheets     SheetsConfig   `yaml:"sheets"`
	Log        LogConfig      `yaml:"log"`
	Metrics    MetricsConfig  `yaml:"metrics"`
}

type StorageConfig struct {
	Driver               string `yaml:"driver"`
	SQLitePath           string `yaml:"sqlite_path"`
	PostgresURL          string `yaml:"postgres_url"`
	FirestoreProject     string `yaml:"firestore_project"`
	FirestoreCredentials string `yaml:"firestore_credentials"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	// LoginRateLimit is the number of Register/Login calls allowed per client
	// per minute. Zero disables the limit.
	LoginRateLimit int `yaml:"login_rate_limit"`
}

type InvoicesConfig struct {
	// MaxLines caps the line-item editor. Zero means unlimited.
	MaxLines int `yaml:"max_lines"`
	DueDays  int `yaml:"due_days"`
}

type ExpensesConfig struct {
	MaxPhotoBytes int `yaml:"max_photo_bytes"`
}

type GmailConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

// Enabled reports whether Gmail delivery is configured.
func (g GmailConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

type SheetsConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when nothing is set: a local,
// single-user SQLite deployment.
func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		Mode:       ModeLocal,
		StaticPath: "./static",
		Storage: StorageConfig{
			Driver:     DriverSQLite,
			SQLitePath: "./data/invoicer.db",
		},
		Auth: AuthConfig{
			TokenTTL:       24 * time.Hour,
			LoginRateLimit: 10,
		},
		Invoices: InvoicesConfig{
			DueDays: 30,
		},
		Expenses: ExpensesConfig{
			MaxPhotoBytes: 900 * 1024,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load builds the configuration. A .env file in the working directory is
// loaded into the environment first. path may be empty; a missing file is
// only an error when explicit is true.
func Load(path string, explicit bool) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.expand()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) expand() {
	for _, s := range []*string{
		&c.ListenAddr, &c.StaticPath,
		&c.Storage.SQLitePath, &c.Storage.PostgresURL, &c.Storage.FirestoreProject, &c.Storage.FirestoreCredentials,
		&c.Auth.JWTSecret,
		&c.Gmail.ClientID, &c.Gmail.ClientSecret, &c.Gmail.RedirectURL,
		&c.Sheets.CredentialsFile,
	} {
		*s = expandEnv(*s)
	}
}

func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	return os.ExpandEnv(s)
}

// applyEnv overrides file settings with environment variables.
func (c *Config) applyEnv() {
	setString(&c.ListenAddr, "INVOICER_ADDR")
	setString(&c.Mode, "INVOICER_MODE")
	setString(&c.StaticPath, "STATIC_PATH")
	setString(&c.Storage.Driver, "STORAGE_DRIVER")
	setString(&c.Storage.SQLitePath, "DB_PATH")
	setString(&c.Storage.PostgresURL, "DATABASE_URL")
	setString(&c.Storage.FirestoreProject, "FIRESTORE_PROJECT")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Gmail.ClientID, "GMAIL_CLIENT_ID")
	setString(&c.Gmail.ClientSecret, "GMAIL_CLIENT_SECRET")
	setString(&c.Gmail.RedirectURL, "GMAIL_REDIRECT_URL")
	setString(&c.Sheets.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("INVOICES_MAX_LINES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Invoices.MaxLines = n
		}
	}
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeLocal, ModeHosted:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModeLocal, ModeHosted, c.Mode)
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.PostgresURL == "" {
			return errors.New("storage.postgres_url (or DATABASE_URL) is required for the postgres driver")
		}
	case DriverFirestore:
		if c.Storage.FirestoreProject == "" {
			return errors.New("storage.firestore_project is required for the firestore driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Mode == ModeHosted && len(c.Auth.JWTSecret) < 32 {
		return errors.New("auth.jwt_secret (or JWT_SECRET) of at least 32 bytes is required in hosted mode")
	}
	if c.Invoices.DueDays <= 0 {
		return fmt.Errorf("invoices.due_days must be positive, got %d", c.Invoices.DueDays)
	}
	if c.Invoices.MaxLines < 0 {
		return fmt.Errorf("invoices.max_lines must not be negative, got %d", c.Invoices.MaxLines)
	}
	return nil
}
