package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// placeholderKey is the credential value treated identically to "absent".
// The demo ships .env files with this literal so the mock path activates.
const placeholderKey = "dummy"

type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Chat         ChatConfig         `koanf:"chat"`
	Analytics    AnalyticsConfig    `koanf:"analytics"`
	Contentstack ContentstackConfig `koanf:"contentstack"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type ChatConfig struct {
	// DefaultProvider is used when the request names none.
	DefaultProvider string `koanf:"default_provider"`
	// FreeMode excludes paid providers (anthropic) from the registry's
	// accepted set.
	FreeMode bool `koanf:"free_mode"`
	// MockPacingMS is the artificial delay between mock words.
	MockPacingMS int `koanf:"mock_pacing_ms"`
	// RateLimitPerMinute caps chat requests per client IP. Zero disables.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`
}

type AnalyticsConfig struct {
	// Path is the sqlite database file backing the recorder.
	Path string `koanf:"path"`
	// QueueSize bounds the recorder's single-writer queue.
	QueueSize int `koanf:"queue_size"`
}

type ContentstackConfig struct {
	APIKey        string   `koanf:"api_key"`
	DeliveryToken string   `koanf:"delivery_token"`
	Environment   string   `koanf:"environment"`
	BaseURL       string   `koanf:"base_url"`
	ContentTypes  []string `koanf:"content_types"`
	Limit         int      `koanf:"limit"`
}

// Load reads config.yaml (if present) then CHAT_-prefixed environment
// variables, with env taking precedence. Double underscores in env names map
// to nesting: CHAT_SERVER__PORT=8080 sets server.port.
func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// File not found is fine, env vars can carry everything.
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("CHAT_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "CHAT_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 3006)
	}
	if !k.Exists("chat.default_provider") {
		k.Set("chat.default_provider", "openai")
	}
	if !k.Exists("chat.mock_pacing_ms") {
		k.Set("chat.mock_pacing_ms", 100)
	}
	if !k.Exists("chat.rate_limit_per_minute") {
		k.Set("chat.rate_limit_per_minute", 30)
	}
	if !k.Exists("analytics.path") {
		k.Set("analytics.path", "./data/analytics.db")
	}
	if !k.Exists("analytics.queue_size") {
		k.Set("analytics.queue_size", 256)
	}
	if !k.Exists("contentstack.environment") {
		k.Set("contentstack.environment", "production")
	}
	if !k.Exists("contentstack.limit") {
		k.Set("contentstack.limit", 3)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Contentstack credentials fall back to the conventional env vars used
	// by the frontend tooling.
	if cfg.Contentstack.APIKey == "" {
		cfg.Contentstack.APIKey = os.Getenv("CONTENTSTACK_API_KEY")
	}
	if cfg.Contentstack.DeliveryToken == "" {
		cfg.Contentstack.DeliveryToken = os.Getenv("CONTENTSTACK_DELIVERY_TOKEN")
	}

	return &cfg, nil
}

// Credential resolves a provider credential from its environment variable.
// The second return is false when the variable is unset, empty, or holds the
// recognized placeholder.
func Credential(envVar string) (string, bool) {
	v := os.Getenv(envVar)
	if !RealCredential(v) {
		return "", false
	}
	return v, true
}

// RealCredential reports whether a credential value is usable, i.e. neither
// empty nor the recognized placeholder.
func RealCredential(v string) bool {
	return v != "" && v != placeholderKey
}
