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

	"github.com/fbts/job-offer/internal/config"
	"github.com/fbts/job-offer/pkg/constants"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address            string               `yaml:"address" envconfig:"ADDRESS" validate:"required"`
	MaxUploadSize      string               `yaml:"maxUploadSize" envconfig:"MAX_UPLOAD_SIZE"`
	RateLimitPerMinute int                  `yaml:"rateLimitPerMinute" envconfig:"RATE_LIMIT_PER_MINUTE" validate:"gte=0"`
	StructuresFile     string               `yaml:"structuresFile" envconfig:"STRUCTURES_FILE"`
	Frappe             FrappeConfig         `yaml:"frappe" envconfig:"FRAPPE"`
	Redis              RedisConfig          `yaml:"redis" envconfig:"REDIS"`
	Logging            config.LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	uploadSizeBytes    int64
}

// FrappeConfig points the server at a Frappe site serving salary structures.
type FrappeConfig struct {
	URL       string        `yaml:"url" envconfig:"URL" validate:"omitempty,url"`
	APIKey    string        `yaml:"apiKey" envconfig:"API_KEY" validate:"required_with=APISecret"`
	APISecret string        `yaml:"apiSecret" envconfig:"API_SECRET"`
	Method    string        `yaml:"method" envconfig:"METHOD"`
	Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gte=0"`
}

// RedisConfig enables the salary structure cache when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr" envconfig:"ADDR"`
	Password string        `yaml:"password" envconfig:"PASSWORD"`
	DB       int           `yaml:"db" envconfig:"DB" validate:"gte=0"`
	CacheTTL time.Duration `yaml:"cacheTTL" envconfig:"CACHE_TTL" validate:"gte=0"`
}

// LoadConfig loads the server configuration from YAML and applies
// JOBOFFER_* environment overrides. If the file does not exist, defaults
// are used.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:            constants.DefaultServerAddress,
		MaxUploadSize:      fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes),
		RateLimitPerMinute: constants.DefaultRateLimitPerMinute,
		Logging:            config.LoggingConfig{},
		uploadSizeBytes:    constants.DefaultMaxUploadSizeBytes,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	if err := envconfig.Process(constants.EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetMaxUploadSize overrides the configured upload size with a size string
// such as "512K". An empty value keeps the current size.
func (c *Config) SetMaxUploadSize(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	size, err := ParseSize(trimmed)
	if err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("invalid size: %s", value)
	}
	c.uploadSizeBytes = size
	c.MaxUploadSize = trimmed
	return nil
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = constants.DefaultRateLimitPerMinute
	}
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = constants.DefaultStructureCacheTTL
	}

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
	switch unit := strings.TrimSpace(upper[idx:]); unit {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unit)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
