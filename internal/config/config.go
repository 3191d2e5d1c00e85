package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teemow/calagent/internal/llm"
)

// Config represents the application configuration.
type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Calendar CalendarConfig `yaml:"calendar"`
	Resolver ResolverConfig `yaml:"resolver"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LLMConfig configures the reasoning provider.
type LLMConfig struct {
	// BaseURL is an OpenAI-compatible chat completions endpoint.
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
}

// CalendarConfig configures the calendar backend.
type CalendarConfig struct {
	// Account selects which stored OAuth token to use.
	Account string `yaml:"account"`

	// Timezone is the fixed event timezone for created and updated events.
	Timezone string `yaml:"timezone"`
}

// ResolverConfig holds the event resolution limits.
type ResolverConfig struct {
	// FetchLimit is the size of the candidate pool fetched for update
	// resolution.
	FetchLimit int64 `yaml:"fetch_limit"`

	// MaxAmbiguous is the number of candidates listed back when a query
	// matches more than one event.
	MaxAmbiguous int `yaml:"max_ambiguous"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL: llm.DefaultBaseURL,
			Model:   llm.DefaultModel,
		},
		Calendar: CalendarConfig{
			Account:  "default",
			Timezone: "Asia/Kolkata",
		},
		Resolver: ResolverConfig{
			FetchLimit:   50,
			MaxAmbiguous: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the platform-appropriate config file location.
func DefaultPath() string {
	var base string
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return ""
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, "calagent", "config.yaml")
}

// Load reads the configuration from path, falling back to defaults when the
// file does not exist, and applies environment overrides on top. An empty
// path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No config file is fine; env and defaults carry the day.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if url := os.Getenv("LLM_BASE_URL"); url != "" {
		cfg.LLM.BaseURL = url
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		cfg.LLM.Model = model
	}
	if account := os.Getenv("CALENDAR_ACCOUNT"); account != "" {
		cfg.Calendar.Account = account
	}
	if tz := os.Getenv("CALENDAR_TIMEZONE"); tz != "" {
		cfg.Calendar.Timezone = tz
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base_url is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.Resolver.FetchLimit <= 0 {
		return fmt.Errorf("resolver.fetch_limit must be positive")
	}
	if c.Resolver.MaxAmbiguous <= 0 {
		return fmt.Errorf("resolver.max_ambiguous must be positive")
	}
	if c.Calendar.Timezone != "" {
		if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
			return fmt.Errorf("calendar.timezone %q is not a valid IANA zone", c.Calendar.Timezone)
		}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	return nil
}
