// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Chat     ChatConfig     `toml:"chat"`
	Answerer AnswererConfig `toml:"answerer"`
	Store    StoreConfig    `toml:"store"`
}

// ServerConfig holds settings for the Q&A backend.
type ServerConfig struct {
	BaseURL        string   `toml:"base_url"`
	RequestTimeout Duration `toml:"request_timeout"`
	RateLimit      float64  `toml:"rate_limit"`
	RateBurst      int      `toml:"rate_burst"`
}

// ChatConfig holds conversation and rendering settings.
type ChatConfig struct {
	HistoryLimit    int      `toml:"history_limit"`
	Animate         bool     `toml:"animate"`
	CharDelay       Duration `toml:"char_delay"`
	TypingDelay     Duration `toml:"typing_delay"`
	ShakeDuration   Duration `toml:"shake_duration"`
	ScrollThreshold int      `toml:"scroll_threshold"`
}

// AnswererConfig selects where answers come from.
// Kind is "backend" (the /ask endpoint) or "llm" (an OpenAI-compatible endpoint).
type AnswererConfig struct {
	Kind        string  `toml:"kind"`
	Endpoint    string  `toml:"endpoint"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	APIKeyEnv   string  `toml:"api_key_env"`
}

// StoreConfig holds local store settings.
type StoreConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Duration wraps time.Duration so TOML values like "30s" decode.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:5000",
			RequestTimeout: Duration{30 * time.Second},
			RateLimit:      2.0,
			RateBurst:      4,
		},
		Chat: ChatConfig{
			HistoryLimit:    10,
			Animate:         true,
			CharDelay:       Duration{20 * time.Millisecond},
			TypingDelay:     Duration{600 * time.Millisecond},
			ShakeDuration:   Duration{400 * time.Millisecond},
			ScrollThreshold: 3,
		},
		Answerer: AnswererConfig{
			Kind:        "backend",
			Endpoint:    "http://localhost:11434/v1",
			Model:       "llama3",
			Temperature: 0.3,
			APIKeyEnv:   "TILAWA_LLM_API_KEY",
		},
		Store: StoreConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from a TOML file and applies environment variable overrides.
// A .env file in the working directory, if present, is loaded before overrides apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Load from file if it exists
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, err
			}
		}
	}

	// Missing .env is the common case
	_ = godotenv.Load()

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TILAWA_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}

	if v := os.Getenv("TILAWA_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.RequestTimeout = Duration{d}
		}
	}

	if v := os.Getenv("TILAWA_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Server.RateLimit = f
		}
	}

	if v := os.Getenv("TILAWA_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateBurst = n
		}
	}

	if v := os.Getenv("TILAWA_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Chat.HistoryLimit = n
		}
	}

	if v := os.Getenv("TILAWA_ANIMATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Chat.Animate = b
		}
	}

	if v := os.Getenv("TILAWA_CHAR_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Chat.CharDelay = Duration{d}
		}
	}

	if v := os.Getenv("TILAWA_ANSWERER"); v != "" {
		cfg.Answerer.Kind = v
	}

	if v := os.Getenv("TILAWA_LLM_ENDPOINT"); v != "" {
		cfg.Answerer.Endpoint = v
	}

	if v := os.Getenv("TILAWA_LLM_MODEL"); v != "" {
		cfg.Answerer.Model = v
	}

	if v := os.Getenv("TILAWA_STORE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Store.Enabled = b
		}
	}

	if v := os.Getenv("TILAWA_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
}

// APIKey returns the LLM API key from the configured environment variable.
func (c AnswererConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}

// DataDir returns the path to the Tilawa data directory (~/.tilawa).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tilawa"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
