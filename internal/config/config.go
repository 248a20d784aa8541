package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string `mapstructure:"env" validate:"required"` // current application environment (local, dev, production etc)
	TelegramAPIToken string `mapstructure:"-"`                       // Telegram API token loaded from environment
	DB               DB     `mapstructure:"database"`                // database configuration section
	Study            Study  `mapstructure:"study"`                   // defaults for users without a saved policy
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                                // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections" validate:"min=1"` // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`                // maximum lifetime of a single connection
	HealthCheck     time.Duration `mapstructure:"health_check_period"`              // interval between idle connection checks
}

// Study contains the default selection policy settings and the idle
// session sweep.
type Study struct {
	WordCount      int           `mapstructure:"word_count" validate:"min=1,max=200"`
	Modes          []string      `mapstructure:"modes" validate:"min=1,dive,required"`
	RandomizeModes bool          `mapstructure:"randomize_modes"`
	RandomRelation bool          `mapstructure:"random_relation"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`     // sessions without an answer this long are quit
	SweepSchedule  string        `mapstructure:"sweep_schedule" validate:"required"` // standard cron expression
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// ParsedModes converts the configured mode names.
func (s Study) ParsedModes() ([]entities.Mode, error) {
	modes := make([]entities.Mode, 0, len(s.Modes))
	for _, name := range s.Modes {
		m, err := entities.ParseMode(name)
		if err != nil {
			return nil, fmt.Errorf("%w: study.modes: %v", ErrInvalidConfig, err)
		}
		modes = append(modes, m)
	}
	return modes, nil
}

// Load reads configuration from config files and environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("database.health_check_period", "1m")
	v.SetDefault("study.word_count", 10)
	v.SetDefault("study.modes", []string{"multiple_choice", "true_false", "typing"})
	v.SetDefault("study.randomize_modes", false)
	v.SetDefault("study.random_relation", true)
	v.SetDefault("study.idle_timeout", "6h")
	v.SetDefault("study.sweep_schedule", "0 * * * *")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges and mode names.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Study.ParsedModes(); err != nil {
		return err
	}
	if _, err := cron.ParseStandard(c.Study.SweepSchedule); err != nil {
		return fmt.Errorf("%w: study.sweep_schedule: %v", ErrInvalidConfig, err)
	}
	return nil
}
