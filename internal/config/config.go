// Package config loads the kitchen runtime configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// KITCHEN_* environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/kitchen/internal/logging"
	"github.com/aretw0/kitchen/pkg/persistence/middleware"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Shadow backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendHTTP   = "http"
)

// EnvConfigFile names the config file when --config is not given.
const EnvConfigFile = "KITCHEN_CONFIG"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full runtime configuration.
type Config struct {
	Addr        string `yaml:"addr"`
	LogLevel    string `yaml:"log_level"`
	CatalogPath string `yaml:"catalog"`
	SkillName   string `yaml:"skill_name"`
	ProjectURL  string `yaml:"project_url"`
	Simulation  bool   `yaml:"simulation"`

	Redis  RedisConfig  `yaml:"redis"`
	Shadow ShadowConfig `yaml:"shadow"`

	// SessionKey, when set, encrypts device ids at rest (base64, 32 bytes).
	SessionKey          string   `yaml:"session_key"`
	SessionKeyFallbacks []string `yaml:"session_key_fallbacks"`

	// Devices seeds the in-memory registry (user id → device id).
	Devices map[string]string `yaml:"devices"`
}

// RedisConfig configures the Redis session store, locker and registry.
// An empty URL keeps everything in memory.
type RedisConfig struct {
	URL        string        `yaml:"url"`
	Prefix     string        `yaml:"prefix"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// ShadowConfig selects the device shadow transport.
type ShadowConfig struct {
	Backend  string        `yaml:"backend"`
	Endpoint string        `yaml:"endpoint"`
	Token    string        `yaml:"token"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Addr:       ":8080",
		LogLevel:   "info",
		Simulation: true,
		Redis: RedisConfig{
			Prefix:     "kitchen:",
			SessionTTL: 24 * time.Hour,
		},
		Shadow: ShadowConfig{
			Backend: BackendMemory,
			Timeout: 5 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the file at path (if any)
// and the process environment.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path == "" {
		path, _ = lookup(EnvConfigFile)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

type stringBinding struct {
	env  string
	flag string
	dst  *string
	help string
}

func (c *Config) bindings() []stringBinding {
	return []stringBinding{
		{"KITCHEN_ADDR", "addr", &c.Addr, "HTTP listen address"},
		{"KITCHEN_LOG_LEVEL", "log-level", &c.LogLevel, "Log level (debug, info, warn, error)"},
		{"KITCHEN_CATALOG", "catalog", &c.CatalogPath, "Recipe catalog file (YAML or JSON); built-in recipes when empty"},
		{"KITCHEN_SKILL_NAME", "skill-name", &c.SkillName, "Name shown on companion app cards"},
		{"KITCHEN_PROJECT_URL", "project-url", &c.ProjectURL, "Link sent to users without a thermometer"},
		{"KITCHEN_REDIS_URL", "redis-url", &c.Redis.URL, "Redis URL for sessions, locks and devices"},
		{"KITCHEN_REDIS_PREFIX", "redis-prefix", &c.Redis.Prefix, "Redis key prefix"},
		{"KITCHEN_SHADOW", "shadow", &c.Shadow.Backend, "Device shadow backend (memory, redis, http)"},
		{"KITCHEN_SHADOW_ENDPOINT", "shadow-endpoint", &c.Shadow.Endpoint, "Base URL of the device shadow API"},
		{"KITCHEN_SHADOW_TOKEN", "shadow-token", &c.Shadow.Token, "Bearer token for the device shadow API"},
		{"KITCHEN_SESSION_KEY", "session-key", &c.SessionKey, "Base64 AES-256 key sealing device ids in stored sessions"},
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, b := range c.bindings() {
		if v, ok := lookup(b.env); ok && v != "" {
			*b.dst = v
		}
	}
	if v, ok := lookup("KITCHEN_SIMULATION"); ok && v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: KITCHEN_SIMULATION=%q", ErrInvalidConfig, v)
		}
		c.Simulation = on
	}
	if v, ok := lookup("KITCHEN_SESSION_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: KITCHEN_SESSION_TTL=%q", ErrInvalidConfig, v)
		}
		c.Redis.SessionTTL = ttl
	}
	return nil
}

// AddFlags registers one flag per setting. Flags start empty so that
// ApplyFlags only overrides what the user actually passed.
func AddFlags(fs *pflag.FlagSet) {
	var probe Config
	for _, b := range probe.bindings() {
		fs.String(b.flag, "", b.help)
	}
	fs.Bool("simulation", true, "Allow users without hardware to enable a simulated thermometer")
	fs.Duration("session-ttl", 0, "Expire idle sessions after this long (0 keeps them)")
}

// ApplyFlags copies every flag that was set on the command line.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	for _, b := range c.bindings() {
		if !fs.Changed(b.flag) {
			continue
		}
		v, err := fs.GetString(b.flag)
		if err != nil {
			return err
		}
		*b.dst = v
	}
	if fs.Changed("simulation") {
		v, err := fs.GetBool("simulation")
		if err != nil {
			return err
		}
		c.Simulation = v
	}
	if fs.Changed("session-ttl") {
		v, err := fs.GetDuration("session-ttl")
		if err != nil {
			return err
		}
		c.Redis.SessionTTL = v
	}
	return nil
}

// Validate checks the combination of settings.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Redis.SessionTTL < 0 {
		errs = append(errs, fmt.Errorf("session ttl must not be negative"))
	}

	if c.SessionKey != "" {
		if _, err := c.SessionKeys(); err != nil {
			errs = append(errs, err)
		}
	}

	c.Shadow.Backend = strings.ToLower(strings.TrimSpace(c.Shadow.Backend))
	switch c.Shadow.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, fmt.Errorf("shadow backend %q needs a redis url", c.Shadow.Backend))
		}
	case BackendHTTP:
		if c.Shadow.Endpoint == "" {
			errs = append(errs, fmt.Errorf("shadow backend %q needs an endpoint", c.Shadow.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown shadow backend %q", c.Shadow.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SessionKeys decodes the active key followed by the fallbacks.
func (c *Config) SessionKeys() ([][]byte, error) {
	var keys [][]byte
	for i, raw := range append([]string{c.SessionKey}, c.SessionKeyFallbacks...) {
		k, err := middleware.ParseKey(raw)
		if err != nil {
			return nil, fmt.Errorf("session key %d: %w", i, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}
