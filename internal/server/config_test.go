package server

import (
	"testing"

	"github.com/RakeemAI/Rakeem/internal/config"
	"github.com/RakeemAI/Rakeem/pkg/constants"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig(config.ServerConfig{})
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.RequestBodyBytes() != constants.DefaultMaxRequestBodySize {
		t.Fatalf("expected default request body limit, got %d", cfg.RequestBodyBytes())
	}
	if cfg.ReadTimeout <= 0 || cfg.WriteTimeout <= 0 {
		t.Fatalf("expected positive timeouts, got %v/%v", cfg.ReadTimeout, cfg.WriteTimeout)
	}
}

func TestNewConfigOverrides(t *testing.T) {
	cfg, err := NewConfig(config.ServerConfig{Address: "127.0.0.1:9000", MaxRequestBodySize: "2M"})
	if err != nil {
		t.Fatalf("NewConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.RequestBodyBytes() != 2*1024*1024 {
		t.Fatalf("expected request body override, got %d", cfg.RequestBodyBytes())
	}

	cfg.SetRequestBodyBytes(4096)
	if cfg.RequestBodyBytes() != 4096 || cfg.MaxRequestBodySize != "4096" {
		t.Fatalf("SetRequestBodyBytes() = %d (%s)", cfg.RequestBodyBytes(), cfg.MaxRequestBodySize)
	}
	cfg.SetRequestBodyBytes(0)
	if cfg.RequestBodyBytes() != 4096 {
		t.Fatalf("SetRequestBodyBytes(0) should be ignored, got %d", cfg.RequestBodyBytes())
	}
}

func TestNewConfigInvalidSize(t *testing.T) {
	if _, err := NewConfig(config.ServerConfig{MaxRequestBodySize: "invalid"}); err == nil {
		t.Fatal("expected error for invalid size but got nil")
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxRequestBodySize,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"2G":        2 * 1024 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("ParseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("ParseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	if _, err := ParseSize("1TB"); err == nil {
		t.Fatal("expected error for unsupported unit")
	}
	if _, err := ParseSize("abc"); err == nil {
		t.Fatal("expected error for invalid number")
	}
}
