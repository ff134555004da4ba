package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables read by Load.
const (
	EnvConfigPath   = "USAGETRACK_CONFIG"
	EnvPollInterval = "USAGETRACK_POLL_INTERVAL" // milliseconds
	EnvMaxIntervals = "USAGETRACK_MAX_INTERVALS"
	EnvQueryTimeout = "USAGETRACK_QUERY_TIMEOUT" // Go duration, e.g. "2s"
	EnvTimeZone     = "USAGETRACK_TIMEZONE"
	EnvLogFile      = "USAGETRACK_LOG_FILE"
)

// applyEnv copies environment overrides into cfg and returns the first
// malformed value as an error.
func applyEnv(cfg *Config) error {
	if pollInterval := os.Getenv(EnvPollInterval); pollInterval != "" {
		ms, err := strconv.Atoi(pollInterval)
		if err != nil || ms <= 0 {
			return fmt.Errorf("invalid %s %q: want positive milliseconds", EnvPollInterval, pollInterval)
		}
		interval := time.Duration(ms) * time.Millisecond
		if interval < cfg.Tracker.MinPollInterval || interval > cfg.Tracker.MaxPollInterval {
			return fmt.Errorf("%s %v outside [%v, %v]", EnvPollInterval,
				interval, cfg.Tracker.MinPollInterval, cfg.Tracker.MaxPollInterval)
		}
		cfg.Tracker.PollInterval = interval
	}

	if maxIntervals := os.Getenv(EnvMaxIntervals); maxIntervals != "" {
		n, err := strconv.Atoi(maxIntervals)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %s %q: want a non-negative integer", EnvMaxIntervals, maxIntervals)
		}
		cfg.Tracker.MaxIntervals = n
	}

	if queryTimeout := os.Getenv(EnvQueryTimeout); queryTimeout != "" {
		d, err := time.ParseDuration(queryTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid %s %q: want a positive duration", EnvQueryTimeout, queryTimeout)
		}
		cfg.Tracker.QueryTimeout = d
	}

	if timeZone := os.Getenv(EnvTimeZone); timeZone != "" {
		cfg.Display.TimeZone = timeZone
	}

	if logFile := os.Getenv(EnvLogFile); logFile != "" {
		cfg.Log.File = logFile
	}

	return nil
}
