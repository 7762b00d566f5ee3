package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file location.
const ConfigPath = "config.yaml"

// Repository modes.
const (
	ModeRemote = "remote"
	ModeLocal  = "local"
	ModeHybrid = "hybrid"
)

// Cache backends.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
)

// FileConfig represents client configuration loaded from YAML.
// Durations are strings ("10s", "5m") parsed by the duration helpers below.
type FileConfig struct {
	BaseURL            string `yaml:"baseURL"`
	LogLevel           string `yaml:"logLevel"`
	AuthToken          string `yaml:"authToken"`
	RequestTimeout     string `yaml:"requestTimeout"`
	StreamTimeout      string `yaml:"streamTimeout"`
	// MaxRetries follows the transport convention: zero selects the
	// transport default, -1 disables retries.
	MaxRetries         int    `yaml:"maxRetries"`
	RetryDelay         string `yaml:"retryDelay"`
	Mode               string `yaml:"mode"`
	CacheBackend       string `yaml:"cacheBackend"`
	CacheDir           string `yaml:"cacheDir"`
	RedisAddr          string `yaml:"redisAddr"`
	RedisPassword      string `yaml:"redisPassword"`
	StrictStreamFrames bool   `yaml:"strictStreamFrames"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *FileConfig) {
	if v := os.Getenv("LITERATI_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv("LITERATI_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v := os.Getenv("LITERATI_AUTH_TOKEN"); v != "" {
		cfg.AuthToken = strings.TrimSpace(v)
	}
	if v := os.Getenv("LITERATI_REQUEST_TIMEOUT"); v != "" {
		cfg.RequestTimeout = strings.TrimSpace(v)
	}
	if v := os.Getenv("LITERATI_STREAM_TIMEOUT"); v != "" {
		cfg.StreamTimeout = strings.TrimSpace(v)
	}
	if v := os.Getenv("LITERATI_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("LITERATI_RETRY_DELAY"); v != "" {
		cfg.RetryDelay = strings.TrimSpace(v)
	}
	if v := os.Getenv("LITERATI_MODE"); v != "" {
		cfg.Mode = strings.TrimSpace(v)
	}
	if v := os.Getenv("LITERATI_CACHE_BACKEND"); v != "" {
		cfg.CacheBackend = strings.TrimSpace(v)
	}
	if v := os.Getenv("LITERATI_CACHE_DIR"); v != "" {
		cfg.CacheDir = strings.TrimSpace(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = strings.TrimSpace(v)
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("LITERATI_STRICT_STREAM_FRAMES"); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.StrictStreamFrames = b
		}
	}
}

func applyDefaults(cfg *FileConfig) {
	if cfg.RequestTimeout == "" {
		cfg.RequestTimeout = "10s"
	}
	if cfg.StreamTimeout == "" {
		cfg.StreamTimeout = "5m"
	}
	if cfg.RetryDelay == "" {
		cfg.RetryDelay = "1s"
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeHybrid
	}
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = CacheBackendFile
	}
}

func validateConfig(cfg FileConfig) error {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return errors.New("config: baseURL is required (set in config.yaml or LITERATI_BASE_URL)")
	}
	switch cfg.Mode {
	case ModeRemote, ModeLocal, ModeHybrid:
	default:
		return fmt.Errorf("config: unknown mode %q (want remote, local or hybrid)", cfg.Mode)
	}
	switch cfg.CacheBackend {
	case CacheBackendFile:
		if strings.TrimSpace(cfg.CacheDir) == "" {
			return errors.New("config: cacheDir is required for the file cache backend")
		}
	case CacheBackendRedis:
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return errors.New("config: redisAddr is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("config: unknown cacheBackend %q (want file or redis)", cfg.CacheBackend)
	}
	if cfg.MaxRetries < -1 {
		return errors.New("config: maxRetries must be >= -1 (-1 disables retries, 0 selects the default)")
	}
	for _, d := range []struct{ name, value string }{
		{"requestTimeout", cfg.RequestTimeout},
		{"streamTimeout", cfg.StreamTimeout},
		{"retryDelay", cfg.RetryDelay},
	} {
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("config: invalid %s duration: %w", d.name, err)
		}
	}
	return nil
}

// MustDuration parses a duration string already validated by Load.
func MustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(fmt.Sprintf("config: duration %q not validated: %v", s, err))
	}
	return d
}
