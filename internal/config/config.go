package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for bankfront
type Config struct {
	// Backend API
	API APIConfig `mapstructure:"api"`

	// Where the signed-in session is persisted
	Session SessionConfig `mapstructure:"session"`

	// Logging
	Log LogConfig `mapstructure:"log"`

	// Terminal output
	UI UIConfig `mapstructure:"ui"`

	// Local validation limits for the transaction wizards
	Wizard WizardConfig `mapstructure:"wizard"`
}

// APIConfig holds backend connection settings
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig selects and configures the session store
type SessionConfig struct {
	// Store is one of file, redis, mysql, memory
	Store   string `mapstructure:"store"`
	Profile string `mapstructure:"profile"`

	// File store
	Path string `mapstructure:"path"`

	// Redis store: redis:// URL or host:port
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`

	// MySQL store
	Database DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	// Format: user:password@tcp(host:port)/database
	DSN string `mapstructure:"dsn"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	Dev   bool   `mapstructure:"dev"`
}

// UIConfig holds terminal output settings
type UIConfig struct {
	NoColor bool `mapstructure:"no_color"`
}

// WizardConfig holds local validation limits. Amounts are decimal strings.
type WizardConfig struct {
	MaxTransactionAmount     string `mapstructure:"max_transaction_amount"`
	MinFixedDepositPrincipal string `mapstructure:"min_fixed_deposit_principal"`
}

// DefaultSessionPath returns the session file location under the user config dir
func DefaultSessionPath(profile string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, sessionDirName, "session-"+profile+".json")
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultRequestTimeout,
		},
		Session: SessionConfig{
			Store:   DefaultStore,
			Profile: DefaultProfile,
			TTL:     DefaultSessionTTL,
			Database: DatabaseConfig{
				MaxOpenConns:    2,
				MaxIdleConns:    1,
				ConnMaxLifetime: 5 * time.Minute,
			},
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Wizard: WizardConfig{
			MaxTransactionAmount:     DefaultMaxTransactionAmount,
			MinFixedDepositPrincipal: DefaultMinFixedDepositPrincipal,
		},
	}
}

// RegisterDefaults makes every key known to viper, so environment variables
// reach Unmarshal even when no config file sets the key.
func RegisterDefaults() {
	d := DefaultConfig()
	viper.SetDefault("api.base_url", d.API.BaseURL)
	viper.SetDefault("api.timeout", d.API.Timeout)
	viper.SetDefault("session.store", d.Session.Store)
	viper.SetDefault("session.profile", d.Session.Profile)
	viper.SetDefault("session.path", "")
	viper.SetDefault("session.redis_url", "")
	viper.SetDefault("session.ttl", d.Session.TTL)
	viper.SetDefault("session.database.dsn", "")
	viper.SetDefault("session.database.max_open_conns", d.Session.Database.MaxOpenConns)
	viper.SetDefault("session.database.max_idle_conns", d.Session.Database.MaxIdleConns)
	viper.SetDefault("session.database.conn_max_lifetime", d.Session.Database.ConnMaxLifetime)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.dev", d.Log.Dev)
	viper.SetDefault("ui.no_color", d.UI.NoColor)
	viper.SetDefault("wizard.max_transaction_amount", d.Wizard.MaxTransactionAmount)
	viper.SetDefault("wizard.min_fixed_deposit_principal", d.Wizard.MinFixedDepositPrincipal)
}

// Load reads configuration from viper into a Config struct
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Session.Path == "" {
		cfg.Session.Path = DefaultSessionPath(cfg.Session.Profile)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []string

	if c.API.BaseURL == "" {
		errs = append(errs, "api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, "api.timeout must be positive")
	}

	if c.Session.Profile == "" {
		errs = append(errs, "session.profile is required")
	}
	switch c.Session.Store {
	case StoreFile:
		if c.Session.Path == "" {
			errs = append(errs, "session.path is required for the file store")
		}
	case StoreRedis:
		if c.Session.RedisURL == "" {
			errs = append(errs, "session.redis_url is required for the redis store")
		}
		if c.Session.TTL < 0 {
			errs = append(errs, "session.ttl must be non-negative")
		}
	case StoreMySQL:
		if c.Session.Database.DSN == "" {
			errs = append(errs, "session.database.dsn is required for the mysql store")
		}
		if c.Session.Database.MaxIdleConns > c.Session.Database.MaxOpenConns {
			errs = append(errs, "session.database.max_idle_conns should not exceed max_open_conns")
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Sprintf("session.store must be one of file, redis, mysql, memory (got %q)", c.Session.Store))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}

	if _, err := c.Wizard.MaxAmount(); err != nil {
		errs = append(errs, "wizard.max_transaction_amount must be a positive decimal")
	}
	if _, err := c.Wizard.MinPrincipal(); err != nil {
		errs = append(errs, "wizard.min_fixed_deposit_principal must be a positive decimal")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", joinErrors(errs))
	}

	return nil
}

// MaxAmount parses MaxTransactionAmount
func (w WizardConfig) MaxAmount() (decimal.Decimal, error) {
	return positiveDecimal(w.MaxTransactionAmount)
}

// MinPrincipal parses MinFixedDepositPrincipal
func (w WizardConfig) MinPrincipal() (decimal.Decimal, error) {
	return positiveDecimal(w.MinFixedDepositPrincipal)
}

func positiveDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s is not positive", s)
	}
	return d, nil
}

// joinErrors joins error messages with newline and bullet points
func joinErrors(errs []string) string {
	result := errs[0]
	for i := 1; i < len(errs); i++ {
		result += "\n  - " + errs[i]
	}
	return result
}
