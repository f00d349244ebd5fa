// Package config loads process configuration from an optional YAML file
// overlaid with environment variables.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	OpenRouter OpenRouterConfig `koanf:"openrouter"`
	Generation GenerationConfig `koanf:"generation"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type OpenRouterConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
}

type GenerationConfig struct {
	DefaultModel string        `koanf:"default_model"`
	Timeout      time.Duration `koanf:"timeout"`
}

// CredentialConfigured reports whether an upstream API key is present.
// Handlers use this as a precondition before starting a generation.
func (c *Config) CredentialConfigured() bool {
	return c.OpenRouter.APIKey != ""
}

// Load reads configuration from path (if the file exists) and then overlays
// COLLINSGPT_-prefixed environment variables, e.g. COLLINSGPT_SERVER_PORT=8080.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Keys are two levels deep, so only the first underscore separates the
	// section from the field: COLLINSGPT_OPENROUTER_API_KEY -> openrouter.api_key.
	if err := k.Load(env.Provider("COLLINSGPT_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "COLLINSGPT_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 5000)
	}
	if !k.Exists("openrouter.base_url") {
		k.Set("openrouter.base_url", "https://openrouter.ai/api/v1")
	}
	if !k.Exists("generation.default_model") {
		k.Set("generation.default_model", "anthropic/claude-sonnet-4.5")
	}
	if !k.Exists("generation.timeout") {
		k.Set("generation.timeout", "120s")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Deployment platforms inject a bare PORT variable; it wins so the same
	// image runs unmodified on Cloud Run.
	if p := os.Getenv("PORT"); p != "" {
		if port, err := strconv.Atoi(p); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}

	// The original deployment configured the key as a bare OPENROUTER_API_KEY
	// variable; keep honoring it so existing .env files work.
	if cfg.OpenRouter.APIKey == "" {
		cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}

	return &cfg, nil
}
