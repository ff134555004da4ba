package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Tracker configuration
	Tracker TrackerConfig `yaml:"tracker"`

	// Display configuration
	Display DisplayConfig `yaml:"display"`

	// Log configuration
	Log LogConfig `yaml:"log"`
}

// TrackerConfig holds tracking behavior configuration
type TrackerConfig struct {
	PollInterval    time.Duration `yaml:"poll_interval"` // How often to check the focused window
	MinPollInterval time.Duration `yaml:"-"`             // Minimum allowed poll interval
	MaxPollInterval time.Duration `yaml:"-"`             // Maximum allowed poll interval
	MaxIntervals    int           `yaml:"max_intervals"` // Stored interval cap, 0 keeps everything
	QueryTimeout    time.Duration `yaml:"query_timeout"` // Deadline for one platform window query
}

// DisplayConfig holds table rendering configuration
type DisplayConfig struct {
	TimeZone string `yaml:"time_zone"`
}

// LogConfig holds diagnostic log configuration
type LogConfig struct {
	File string `yaml:"file"` // Empty discards logs in interactive mode, stderr otherwise
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Tracker: TrackerConfig{
			PollInterval:    500 * time.Millisecond,
			MinPollInterval: 50 * time.Millisecond,
			MaxPollInterval: 60 * time.Second,
			MaxIntervals:    20000,
			QueryTimeout:    2 * time.Second,
		},
		Display: DisplayConfig{
			TimeZone: "Local",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Tracker.PollInterval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Tracker.PollInterval, c.Tracker.MinPollInterval)
	}

	if c.Tracker.PollInterval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Tracker.PollInterval, c.Tracker.MaxPollInterval)
	}

	if c.Tracker.MaxIntervals < 0 {
		return fmt.Errorf("max intervals cannot be negative, got %d", c.Tracker.MaxIntervals)
	}

	if c.Tracker.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive, got %v", c.Tracker.QueryTimeout)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Tracker.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Tracker.MinPollInterval)
	}
	if interval > c.Tracker.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Tracker.MaxPollInterval)
	}
	c.Tracker.PollInterval = interval
	return nil
}

// SetMaxIntervals sets the stored interval cap; 0 disables eviction
func (c *Config) SetMaxIntervals(n int) error {
	if n < 0 {
		return fmt.Errorf("max intervals cannot be negative, got %d", n)
	}
	c.Tracker.MaxIntervals = n
	return nil
}

// Bounded reports whether old intervals are evicted
func (c *Config) Bounded() bool {
	return c.Tracker.MaxIntervals > 0
}

// Location resolves the configured display time zone
func (c *Config) Location() (*time.Location, error) {
	switch c.Display.TimeZone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Display.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.Display.TimeZone, err)
	}
	return loc, nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	maxIntervals := "unbounded"
	if c.Bounded() {
		maxIntervals = fmt.Sprintf("%d", c.Tracker.MaxIntervals)
	}
	logFile := c.Log.File
	if logFile == "" {
		logFile = "(none)"
	}
	return fmt.Sprintf(`Configuration:
  Tracker:
    Poll Interval: %v
    Min Interval: %v
    Max Interval: %v
    Max Intervals: %s
    Query Timeout: %v
  Display:
    Time Zone: %s
  Log:
    File: %s`,
		c.Tracker.PollInterval,
		c.Tracker.MinPollInterval,
		c.Tracker.MaxPollInterval,
		maxIntervals,
		c.Tracker.QueryTimeout,
		c.Display.TimeZone,
		logFile,
	)
}
