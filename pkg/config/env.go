package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names recognized as overrides
const (
	envMaxWorkers     = "WIKIMIRROR_MAX_WORKERS"
	envTimeoutSeconds = "WIKIMIRROR_TIMEOUT_SECONDS"
	envUserAgent      = "WIKIMIRROR_USER_AGENT"
	envBandwidthLimit = "WIKIMIRROR_BANDWIDTH_LIMIT"
	envLogFile        = "WIKIMIRROR_LOG_FILE"
)

// ApplyEnv overlays configuration from the environment. A .env file in
// the working directory is loaded first when present; a missing file is
// not an error.
func (c *Config) ApplyEnv() error {
	// Ignore the error: .env is optional
	godotenv.Load()

	if v := os.Getenv(envMaxWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envMaxWorkers, err)
		}
		c.Performance.MaxWorkers = n
	}

	if v := os.Getenv(envTimeoutSeconds); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envTimeoutSeconds, err)
		}
		c.Fetch.TimeoutSeconds = n
	}

	if v := os.Getenv(envUserAgent); v != "" {
		c.Fetch.UserAgent = v
	}

	if v := os.Getenv(envBandwidthLimit); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envBandwidthLimit, err)
		}
		c.Fetch.BandwidthLimit = n
	}

	if v := os.Getenv(envLogFile); v != "" {
		c.Logging.File = v
	}

	return c.Validate()
}
