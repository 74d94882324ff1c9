package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/loan-amortization/internal/cache"
	"github.com/iwvelando/loan-amortization/internal/config"
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string               `yaml:"address"`
	MaxUploadSize   string               `yaml:"maxUploadSize"`
	MetricsPath     string               `yaml:"metricsPath"`
	Logging         config.LoggingConfig `yaml:"logging"`
	Cache           CacheConfig          `yaml:"cache"`
	uploadSizeBytes int64
	cacheTTL        time.Duration
}

// CacheConfig selects where computed schedules are cached.
type CacheConfig struct {
	Backend      string `yaml:"backend"` // memory, redis, none
	RedisAddress string `yaml:"redisAddress"`
	TTL          string `yaml:"ttl"` // Go duration, e.g. 10m
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	ttl, _ := time.ParseDuration(constants.DefaultCacheTTL)
	return &Config{
		Address:       constants.DefaultServerAddress,
		MaxUploadSize: fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes),
		MetricsPath:   constants.DefaultMetricsPath,
		Logging:       config.LoggingConfig{},
		Cache: CacheConfig{
			Backend: constants.DefaultCacheBackend,
			TTL:     constants.DefaultCacheTTL,
		},
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
		cacheTTL:        ttl,
	}
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// CacheTTL returns the parsed cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return c.cacheTTL
}

// NewCache builds the cache repository described by the configuration. It
// returns nil when caching is disabled.
func (c *Config) NewCache() (cache.Repository, error) {
	return cache.New(c.Cache.Backend, c.Cache.RedisAddress, c.cacheTTL)
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.MetricsPath == "" {
		c.MetricsPath = constants.DefaultMetricsPath
	}
	if !strings.HasPrefix(c.MetricsPath, "/") {
		c.MetricsPath = "/" + c.MetricsPath
	}

	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = constants.DefaultCacheBackend
	case cache.BackendMemory, cache.BackendRedis, cache.BackendNone:
	default:
		return fmt.Errorf("unsupported cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisAddress == "" {
		return fmt.Errorf("cache backend redis requires redisAddress")
	}
	if strings.TrimSpace(c.Cache.TTL) == "" {
		c.Cache.TTL = constants.DefaultCacheTTL
	}
	ttl, err := time.ParseDuration(strings.TrimSpace(c.Cache.TTL))
	if err != nil {
		return fmt.Errorf("invalid cache ttl %q: %w", c.Cache.TTL, err)
	}
	if ttl < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", c.Cache.TTL)
	}
	c.cacheTTL = ttl

	sizeStr := strings.TrimSpace(c.MaxUploadSize)
	if sizeStr == "" {
		c.uploadSizeBytes = constants.DefaultMaxUploadSizeBytes
		c.MaxUploadSize = fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(upper[:idx]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch strings.TrimSpace(upper[idx:]) {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", upper[idx:])
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
