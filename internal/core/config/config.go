// Package config provides configuration management for SeedKeeper commands.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"
)

// Environment variables that carry secrets. Never read from config files.
const (
	EnvHMACSecret = "SK_HMAC_SECRET"
	EnvAPIKey     = "SK_API_KEY"
)

// Config is the full SeedKeeper configuration.
type Config struct {
	Server   ServerConfig
	Client   ClientConfig
	Log      LogConfig
	Database DatabaseConfig
}

// ServerConfig holds configuration for the gRPC chest service.
type ServerConfig struct {
	Host           string
	Port           int
	MaxConnections int
	RequestTimeout time.Duration
}

// ClientConfig holds configuration for commands that call a remote service.
type ClientConfig struct {
	Address string
	Timeout time.Duration
}

// LogConfig selects logger level and encoding.
type LogConfig struct {
	Level  string
	Format string
}

// DatabaseConfig locates the preset and API key store.
type DatabaseConfig struct {
	URL string
}

// Default returns configuration with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           50061,
			MaxConnections: 1000,
			RequestTimeout: 30 * time.Second,
		},
		Client: ClientConfig{
			Address: "127.0.0.1:50061",
			Timeout: 20 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			URL: "sqlite://./data/seedkeeper.db",
		},
	}
}

// APIKey returns the client API key from SK_API_KEY, or "" when unset.
func APIKey() string {
	return strings.TrimSpace(os.Getenv(EnvAPIKey))
}

// HMACSecrets extracts HMAC secrets from environment variables.
// Supports SK_HMAC_SECRET (single) and SK_HMAC_SECRET_N (rotation).
// Returns map of secret_id -> decoded secret bytes.
// Secret IDs are UUIDv7 (32 hex chars without hyphens) matching API key format.
func HMACSecrets() (map[string][]byte, error) {
	secrets := make(map[string][]byte)

	add := func(key, val string) error {
		secretID, decoded, err := ParseHMACSecretWithID(val)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if _, exists := secrets[secretID]; exists {
			return fmt.Errorf("duplicate secret_id '%s' found in environment variables (check %s and %s_* for conflicts)", secretID, EnvHMACSecret, EnvHMACSecret)
		}
		secrets[secretID] = decoded
		return nil
	}

	// Format: <secret_id>:<base64_secret>
	if val := os.Getenv(EnvHMACSecret); val != "" {
		if err := add(EnvHMACSecret, val); err != nil {
			return nil, err
		}
	}

	// Numbered secrets stop at the first gap
	for i := 1; ; i++ {
		key := fmt.Sprintf("%s_%d", EnvHMACSecret, i)
		val := os.Getenv(key)
		if val == "" {
			break
		}
		if err := add(key, val); err != nil {
			return nil, err
		}
	}

	return secrets, nil
}

// ParseHMACSecretWithID parses secret_id:base64_secret format.
// Secret ID must be 32 hex chars (UUIDv7 without hyphens).
func ParseHMACSecretWithID(envValue string) (secretID string, secret []byte, err error) {
	parts := strings.SplitN(strings.TrimSpace(envValue), ":", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("format must be <secret_id>:<base64_secret>")
	}

	secretID = parts[0]
	if !IsSecretID(secretID) {
		return "", nil, fmt.Errorf("secret_id must be 32 lowercase hex chars (UUIDv7 without hyphens)")
	}

	secret, err = base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 encoding: %w", err)
	}
	if len(secret) < 32 {
		return "", nil, fmt.Errorf("secret must be at least 32 bytes, got %d", len(secret))
	}

	return secretID, secret, nil
}

// IsSecretID reports whether s is 32 lowercase hex characters.
func IsSecretID(s string) bool {
	if len(s) != 32 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
