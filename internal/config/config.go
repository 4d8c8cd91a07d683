package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBolt   = "bolt"
)

// Config is the CLI and server configuration, usually read from arbor.yaml.
type Config struct {
	// Seed makes size decisions reproducible. Nil draws a random seed.
	Seed        *uint64   `yaml:"seed" json:"seed" mapstructure:"seed"`
	DefaultSize SizeRange `yaml:"default_size" json:"default_size" mapstructure:"default_size"`
	MaxDepth    int       `yaml:"max_depth" json:"max_depth" mapstructure:"max_depth"`
	MaxNodes    int       `yaml:"max_nodes" json:"max_nodes" mapstructure:"max_nodes"`
	LogLevel    string    `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
	LogFormat   string    `yaml:"log_format" json:"log_format" mapstructure:"log_format"`
	Store       Store     `yaml:"store" json:"store" mapstructure:"store"`
	HTTP        HTTP      `yaml:"http" json:"http" mapstructure:"http"`
}

// SizeRange is the default size range for unconstrained synthesized containers.
type SizeRange struct {
	Min int `yaml:"min" json:"min" mapstructure:"min"`
	Max int `yaml:"max" json:"max" mapstructure:"max"`
}

// Store selects and configures the snapshot store.
type Store struct {
	Backend string `yaml:"backend" json:"backend" mapstructure:"backend"`
	Redis   Redis  `yaml:"redis" json:"redis" mapstructure:"redis"`
	Bolt    Bolt   `yaml:"bolt" json:"bolt" mapstructure:"bolt"`
	// EncryptionKey is a base64 AES-256 key. When set, snapshots are sealed at rest.
	EncryptionKey string `yaml:"encryption_key" json:"encryption_key" mapstructure:"encryption_key"`
	// Redact lists path patterns whose recorded values are masked on save.
	Redact []string `yaml:"redact" json:"redact" mapstructure:"redact"`
}

// Redis configures the Redis snapshot store.
type Redis struct {
	Addr   string        `yaml:"addr" json:"addr" mapstructure:"addr"`
	Prefix string        `yaml:"prefix" json:"prefix" mapstructure:"prefix"`
	TTL    time.Duration `yaml:"ttl" json:"ttl" mapstructure:"ttl"`
}

// Bolt configures the bbolt snapshot store.
type Bolt struct {
	Path string `yaml:"path" json:"path" mapstructure:"path"`
}

// HTTP configures the HTTP adapter.
type HTTP struct {
	Addr string `yaml:"addr" json:"addr" mapstructure:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultSize: SizeRange{Min: 0, Max: 3},
		MaxDepth:    8,
		MaxNodes:    10000,
		LogLevel:    "info",
		LogFormat:   "text",
		Store: Store{
			Backend: BackendMemory,
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: "arbor:snapshot:",
			},
			Bolt: Bolt{Path: "arbor.db"},
		},
		HTTP: HTTP{Addr: ":8080"},
	}
}

// Load reads a configuration file (YAML or JSON) over the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	return cfg, cfg.Validate()
}

// envKeys maps environment variables to configuration paths.
var envKeys = map[string][]string{
	"ARBOR_SEED":         {"seed"},
	"ARBOR_MAX_DEPTH":    {"max_depth"},
	"ARBOR_MAX_NODES":    {"max_nodes"},
	"ARBOR_LOG_LEVEL":    {"log_level"},
	"ARBOR_LOG_FORMAT":   {"log_format"},
	"ARBOR_STORE":        {"store", "backend"},
	"ARBOR_REDIS_ADDR":   {"store", "redis", "addr"},
	"ARBOR_REDIS_PREFIX": {"store", "redis", "prefix"},
	"ARBOR_REDIS_TTL":    {"store", "redis", "ttl"},
	"ARBOR_BOLT_PATH":    {"store", "bolt", "path"},
	"ARBOR_STORE_KEY":    {"store", "encryption_key"},
	"ARBOR_HTTP_ADDR":    {"http", "addr"},
}

// EnvOverrides collects the ARBOR_* variables found in environ
// (as returned by os.Environ) into a nested override map.
func EnvOverrides(environ []string) map[string]any {
	out := map[string]any{}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		path, known := envKeys[key]
		if !known {
			continue
		}
		m := out
		for _, p := range path[:len(path)-1] {
			next, ok := m[p].(map[string]any)
			if !ok {
				next = map[string]any{}
				m[p] = next
			}
			m = next
		}
		m[path[len(path)-1]] = value
	}
	return out
}

// Apply merges loosely typed overrides (e.g., from EnvOverrides or CLI flags)
// into c. Strings are converted to the field types; durations accept "30s".
func (c *Config) Apply(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(overrides); err != nil {
		return fmt.Errorf("invalid configuration override: %w", err)
	}
	return c.Validate()
}

// Validate checks field combinations.
func (c *Config) Validate() error {
	if c.DefaultSize.Min < 0 || c.DefaultSize.Max < c.DefaultSize.Min {
		return fmt.Errorf("invalid default_size [%d, %d]", c.DefaultSize.Min, c.DefaultSize.Max)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("invalid max_depth %d", c.MaxDepth)
	}
	if c.MaxNodes < 0 {
		return fmt.Errorf("invalid max_nodes %d", c.MaxNodes)
	}
	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendBolt:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.EncryptionKey != "" {
		if _, err := c.Store.Key(); err != nil {
			return err
		}
	}
	for _, p := range c.Store.Redact {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
	}
	return nil
}

// Key decodes the encryption key. It returns nil when none is configured.
func (s Store) Key() ([]byte, error) {
	if s.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(s.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption_key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid encryption_key: want 32 bytes, got %d", len(key))
	}
	return key, nil
}
