package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultSystemPrompt is the instruction sent ahead of every user message
const DefaultSystemPrompt = `
You are BayportBot, a helpful and friendly AI assistant for Bayport Botswana. You help users with:
- Downloading statements
- Booking settlements
- Requesting a callback
- Understanding loan products and services
- Performing loan calculations
You must respond concisely and accurately, guiding users step-by-step.
`

// PlaceholderAPIKey is used when no credential is configured
const PlaceholderAPIKey = "your_openai_key"

// Config represents the service configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Completion CompletionConfig `yaml:"completion"`
	Prompts    PromptsConfig    `yaml:"prompts"`
	Logging    LogConfig        `yaml:"logging"`
	CORS       CORSConfig       `yaml:"cors"`
	Docs       DocsConfig       `yaml:"docs"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr string `yaml:"addr" envconfig:"ADDR"`
	Mode string `yaml:"mode" envconfig:"GIN_MODE"`
}

// CompletionConfig describes the upstream chat-completion API
type CompletionConfig struct {
	APIBase     string        `yaml:"api_base" envconfig:"OPENAI_API_BASE"`
	APIKey      string        `yaml:"api_key" envconfig:"OPENAI_API_KEY"`
	Model       string        `yaml:"model" envconfig:"OPENAI_MODEL"`
	Temperature float32       `yaml:"temperature" envconfig:"OPENAI_TEMPERATURE"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"OPENAI_TIMEOUT"`
}

// PromptsConfig contains prompt templates
type PromptsConfig struct {
	System string `yaml:"system" envconfig:"SYSTEM_PROMPT"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Development bool   `yaml:"development" envconfig:"LOG_DEV"`
}

// CORSConfig lists origins allowed to call the API from a browser
type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins" envconfig:"CORS_ALLOW_ORIGINS"`
}

// DocsConfig points at the alternate documentation page
type DocsConfig struct {
	Path string `yaml:"path" envconfig:"DOCS_PATH"`
}

// ReservedPaths are GET routes the server registers itself; docs.path must
// not collide with them
var ReservedPaths = []string{"/", "/docs", "/download-statement", "/health", "/metrics"}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Completion: CompletionConfig{
			APIBase:     "https://api.openai.com/v1",
			APIKey:      PlaceholderAPIKey,
			Model:       "gpt-4",
			Temperature: 0.7,
		},
		Prompts: PromptsConfig{
			System: DefaultSystemPrompt,
		},
		Logging: LogConfig{
			Level: "info",
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
		Docs: DocsConfig{
			Path: "/redoc",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (skipped when empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}

	if cfg.Completion.APIKey == "" {
		cfg.Completion.APIKey = PlaceholderAPIKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	switch {
	case c.Completion.APIBase == "":
		return errors.New("completion.api_base is required")
	case c.Completion.Model == "":
		return errors.New("completion.model is required")
	case c.Completion.Temperature < 0 || c.Completion.Temperature > 2:
		return fmt.Errorf("completion.temperature %v out of range [0,2]", c.Completion.Temperature)
	case c.Completion.Timeout < 0:
		return errors.New("completion.timeout must not be negative")
	case c.Server.Addr == "":
		return errors.New("server.addr is required")
	case !strings.HasPrefix(c.Completion.APIBase, "http://") && !strings.HasPrefix(c.Completion.APIBase, "https://"):
		return fmt.Errorf("completion.api_base %q must start with http:// or https://", c.Completion.APIBase)
	case !strings.HasPrefix(c.Docs.Path, "/"):
		return fmt.Errorf("docs.path %q must start with /", c.Docs.Path)
	case strings.ContainsAny(c.Docs.Path, ":*"):
		return fmt.Errorf("docs.path %q must not contain route parameters", c.Docs.Path)
	}
	for _, reserved := range ReservedPaths {
		if strings.TrimRight(c.Docs.Path, "/") == strings.TrimRight(reserved, "/") {
			return fmt.Errorf("docs.path %q collides with a built-in route", c.Docs.Path)
		}
	}
	return nil
}
