// Package config handles configuration for the CLI client: defaults plus an
// optional JSON file. Command-line flags are owned by the cobra commands and
// override both.
package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/asanchezr/bancoseguro/internal/timex"
)

// Config holds runtime settings for the bancoseguro CLI.
//
// Fields:
//   - ServerAddr: host:port of the banking server.
//   - SharedKeyB64: the pre-shared MAC key, base64. Never logged.
//   - SharedKeyFile: fallback path holding the raw key bytes.
//   - TokenFile: where the session token from login is kept.
//   - DialTimeout: per-request network deadline.
type Config struct {
	ServerAddr    string
	SharedKeyB64  string
	SharedKeyFile string
	TokenFile     string
	DialTimeout   time.Duration
}

// JsonConfig is the DTO for the JSON config file.
type JsonConfig struct {
	ServerAddr    string         `json:"server_addr"`
	SharedKeyB64  string         `json:"shared_key"`
	SharedKeyFile string         `json:"shared_key_file"`
	TokenFile     string         `json:"token_file"`
	DialTimeout   timex.Duration `json:"dial_timeout"`
}

// LoadDefaults populates c with sensible defaults. The token lands next to
// the config in the user's home directory.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "127.0.0.1:5000"
	c.DialTimeout = 10 * time.Second
	if home, err := os.UserHomeDir(); err == nil {
		c.TokenFile = filepath.Join(home, ".bancoseguro", "token")
	}
}

// Load builds a Config from defaults overlaid with the JSON file at path.
// An empty path skips the file; a missing file at an explicit path is an
// error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config read error: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(b, &jc); err != nil {
		return nil, fmt.Errorf("config parse error: %w", err)
	}

	if jc.ServerAddr != "" {
		cfg.ServerAddr = jc.ServerAddr
	}
	if jc.SharedKeyB64 != "" {
		cfg.SharedKeyB64 = jc.SharedKeyB64
	}
	if jc.SharedKeyFile != "" {
		cfg.SharedKeyFile = jc.SharedKeyFile
	}
	if jc.TokenFile != "" {
		cfg.TokenFile = jc.TokenFile
	}
	if jc.DialTimeout.Duration != 0 {
		cfg.DialTimeout = time.Duration(jc.DialTimeout.Duration)
	}
	return cfg, nil
}

// SharedKey returns the decoded pre-shared MAC key: the base64 value when
// set, otherwise the contents of the key file.
func (c *Config) SharedKey() ([]byte, error) {
	if c.SharedKeyB64 != "" {
		key, err := base64.StdEncoding.DecodeString(c.SharedKeyB64)
		if err != nil {
			return nil, fmt.Errorf("shared key decode error: %w", err)
		}
		return key, nil
	}
	if c.SharedKeyFile != "" {
		key, err := os.ReadFile(c.SharedKeyFile)
		if err != nil {
			return nil, fmt.Errorf("shared key file error: %w", err)
		}
		return key, nil
	}
	return nil, errors.New("no shared key configured")
}

// SaveToken writes the session token with owner-only permissions.
func (c *Config) SaveToken(token string) error {
	if c.TokenFile == "" {
		return errors.New("no token file configured")
	}
	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token), 0o600)
}

// ReadToken returns the saved session token, or "" when none exists.
func (c *Config) ReadToken() string {
	if c.TokenFile == "" {
		return ""
	}
	b, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return ""
	}
	return string(b)
}

// ClearToken removes the saved session token.
func (c *Config) ClearToken() error {
	if c.TokenFile == "" {
		return nil
	}
	err := os.Remove(c.TokenFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
