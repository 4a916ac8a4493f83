package config

import (
	"flag"
	"os"
	"time"

	"github.com/asanchezr/bancoseguro/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   TCP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-k string   pre-shared MAC key, base64
//	-f string   path to a raw key file (used when -k is absent)
//	-l string   security log file path (empty: stderr)
//	-n int      nonce retention window, minutes
//	-i int      connection/session idle timeout, seconds
//	-w int      janitor sweep interval, seconds
//	-t int      session token validity, minutes
//	-m int      max concurrent connections
//
// The function first filters os.Args to the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k", "-f", "-l", "-n", "-i", "-w", "-t", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SharedKeyB64, "k", config.SharedKeyB64, "pre-shared MAC key (base64)")
	fs.StringVar(&config.SharedKeyFile, "f", config.SharedKeyFile, "path to raw key file")
	fs.StringVar(&config.SecurityLogFile, "l", config.SecurityLogFile, "security log file path")

	nonceTTL := fs.Int("n", int(config.NonceTTL.Minutes()), "nonce retention window (in minutes)")
	idleTimeout := fs.Int("i", int(config.IdleTimeout.Seconds()), "idle timeout (in seconds)")
	sweepInterval := fs.Int("w", int(config.SweepInterval.Seconds()), "sweep interval (in seconds)")
	tokenValidity := fs.Int("t", int(config.TokenValidity.Minutes()), "session token validity (in minutes)")

	fs.IntVar(&config.MaxConns, "m", config.MaxConns, "max concurrent connections")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.NonceTTL = time.Duration(*nonceTTL) * time.Minute
	config.IdleTimeout = time.Duration(*idleTimeout) * time.Second
	config.SweepInterval = time.Duration(*sweepInterval) * time.Second
	config.TokenValidity = time.Duration(*tokenValidity) * time.Minute
}
