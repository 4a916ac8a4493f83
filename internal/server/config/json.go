package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/asanchezr/bancoseguro/internal/flagx"
	"github.com/asanchezr/bancoseguro/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "5m" and integer nanoseconds.
//
// This struct is an intermediate DTO (Data Transfer Object) used only for
// reading JSON configuration files. After unmarshalling, its fields are
// copied into the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	Addr            string         `json:"address"`
	DatabaseDSN     string         `json:"database_dsn"`
	SharedKeyB64    string         `json:"shared_key"`
	SharedKeyFile   string         `json:"shared_key_file"`
	SecurityLogFile string         `json:"security_log_file"`
	NonceTTL        timex.Duration `json:"nonce_ttl"`
	IdleTimeout     timex.Duration `json:"idle_timeout"`
	SweepInterval   timex.Duration `json:"sweep_interval"`
	TokenValidity   timex.Duration `json:"token_validity"`
	MaxConns        int            `json:"max_conns"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags. If
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
//
// Only fields present in the file override the current Config values, so
// the caller can merge them with defaults and command-line flags as part
// of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SharedKeyB64 != "" {
		config.SharedKeyB64 = c.SharedKeyB64
	}
	if c.SharedKeyFile != "" {
		config.SharedKeyFile = c.SharedKeyFile
	}
	if c.SecurityLogFile != "" {
		config.SecurityLogFile = c.SecurityLogFile
	}
	if c.NonceTTL.Duration != 0 {
		config.NonceTTL = time.Duration(c.NonceTTL.Duration)
	}
	if c.IdleTimeout.Duration != 0 {
		config.IdleTimeout = time.Duration(c.IdleTimeout.Duration)
	}
	if c.SweepInterval.Duration != 0 {
		config.SweepInterval = time.Duration(c.SweepInterval.Duration)
	}
	if c.TokenValidity.Duration != 0 {
		config.TokenValidity = time.Duration(c.TokenValidity.Duration)
	}
	if c.MaxConns != 0 {
		config.MaxConns = c.MaxConns
	}
}
