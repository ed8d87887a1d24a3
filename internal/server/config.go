package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/RakeemAI/Rakeem/internal/config"
	"github.com/RakeemAI/Rakeem/pkg/constants"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address            string
	MaxRequestBodySize string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	requestBodyBytes   int64
}

// NewConfig builds the server configuration from the application's server
// section, applying defaults for empty values.
func NewConfig(sc config.ServerConfig) (*Config, error) {
	cfg := &Config{
		Address:            sc.Address,
		MaxRequestBodySize: sc.MaxRequestBodySize,
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequestBodyBytes returns the configured request body limit in bytes.
func (c *Config) RequestBodyBytes() int64 {
	return c.requestBodyBytes
}

// SetRequestBodyBytes overrides the configured request body limit.
func (c *Config) SetRequestBodyBytes(size int64) {
	if size > 0 {
		c.requestBodyBytes = size
		c.MaxRequestBodySize = fmt.Sprintf("%d", size)
	}
}

func (c *Config) normalize() error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}

	sizeStr := strings.TrimSpace(c.MaxRequestBodySize)
	if sizeStr == "" {
		c.requestBodyBytes = constants.DefaultMaxRequestBodySize
		c.MaxRequestBodySize = fmt.Sprintf("%d", constants.DefaultMaxRequestBodySize)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxRequestBodySize
	}
	c.requestBodyBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxRequestBodySize, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	if numPart == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
