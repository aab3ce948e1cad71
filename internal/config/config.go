// Package config loads arlab settings from an optional YAML file and
// ARLAB_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/arlab/arlab/internal/llm"
	"github.com/arlab/arlab/internal/store"
)

// Storage backends accepted in DB.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env     string  `yaml:"env" env:"ARLAB_ENV" env-default:"local"`
	UserID  string  `yaml:"user_id" env:"ARLAB_USER" env-default:"default_user"`
	DB      DB      `yaml:"db"`
	Catalog Catalog `yaml:"catalog"`
	Log     Log     `yaml:"log"`
	HTTP    HTTP    `yaml:"http"`
	Auth    Auth    `yaml:"auth"`
	LLM     LLM     `yaml:"llm"`
}

type DB struct {
	Driver string `yaml:"driver" env:"ARLAB_DB_DRIVER" env-default:"sqlite"`
	Path   string `yaml:"path" env:"ARLAB_DB"`
	DSN    string `yaml:"dsn" env:"ARLAB_DB_DSN"`
}

type Catalog struct {
	// Path of a lessons JSON file. Empty selects the built-in catalog.
	Path string `yaml:"path" env:"ARLAB_CATALOG"`
}

type Log struct {
	Level string `yaml:"level" env:"ARLAB_LOG_LEVEL"`
	File  string `yaml:"file" env:"ARLAB_LOG_FILE"`
}

type HTTP struct {
	Address     string        `yaml:"address" env:"ARLAB_HTTP_ADDRESS" env-default:"localhost:8081"`
	ReadTimeout time.Duration `yaml:"read_timeout" env:"ARLAB_HTTP_READ_TIMEOUT" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"ARLAB_HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Auth struct {
	JWTSecret string        `yaml:"jwt_secret" env:"ARLAB_JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"ARLAB_TOKEN_TTL" env-default:"24h"`
}

type LLM struct {
	// Provider is one of anthropic, openai, gemini, openrouter, mock.
	// Empty means probe the providers' standard API key variables.
	Provider   string   `yaml:"provider" env:"ARLAB_LLM_PROVIDER"`
	Anthropic  KeyModel `yaml:"anthropic"`
	OpenAI     KeyModel `yaml:"openai"`
	Gemini     KeyModel `yaml:"gemini"`
	OpenRouter KeyModel `yaml:"openrouter"`
}

type KeyModel struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// Load reads path when it names an existing file, then applies the
// environment. An empty path falls back to ARLAB_CONFIG. A missing file
// is only an error when the path was given explicitly.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv("ARLAB_CONFIG")
	}

	var cfg Config
	switch {
	case path == "":
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read config from env: %w", err)
		}
	default:
		if _, err := os.Stat(path); err != nil {
			if !explicit && errors.Is(err, os.ErrNotExist) {
				if err := cleanenv.ReadEnv(&cfg); err != nil {
					return nil, fmt.Errorf("read config from env: %w", err)
				}
				break
			}
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the loaders cannot.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DB.DSN == "" {
			return errors.New("db.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown db.driver %q", c.DB.Driver)
	}
	if c.UserID == "" {
		return errors.New("user_id must not be empty")
	}
	return nil
}

// DBPath returns db.path, or the default SQLite location when unset.
func (c *Config) DBPath() (string, error) {
	if c.DB.Path != "" {
		return c.DB.Path, store.EnsureDir(c.DB.Path)
	}
	return store.DefaultDBPath()
}

// IsProd reports whether env selects production behaviour.
func (c *Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// LLMConfig converts the llm section into a provider config. The second
// result is false when no provider is configured or discoverable.
func (c *Config) LLMConfig() (llm.Config, bool) {
	if c.LLM.Provider == "" {
		return llm.DiscoverConfig()
	}
	cfg := llm.DefaultConfig()
	cfg.Provider = c.LLM.Provider
	merge(&cfg.Anthropic, c.LLM.Anthropic)
	merge(&cfg.OpenAI, c.LLM.OpenAI)
	merge(&cfg.Gemini, c.LLM.Gemini)
	merge(&cfg.OpenRouter, c.LLM.OpenRouter)
	return cfg, true
}

func merge(dst *llm.KeyModel, src KeyModel) {
	if src.APIKey != "" {
		dst.APIKey = src.APIKey
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
}
