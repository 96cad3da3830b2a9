package config

import "time"

// TimeoutConfig holds the HTTP server timeouts. Each can be set with a CLI flag.
type TimeoutConfig struct {
	// Read bounds reading a request, headers and body included. Default: 15s
	Read time.Duration

	// Request is the deadline handed to every handler through its context.
	// Default: 30s
	Request time.Duration

	// Shutdown is how long in-flight requests get to finish after a stop
	// signal. Default: 10s
	Shutdown time.Duration
}

// DefaultTimeoutConfig returns the default timeout configuration
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Read:     15 * time.Second,
		Request:  30 * time.Second,
		Shutdown: 10 * time.Second,
	}
}

// WithDefaults replaces non-positive values with their defaults.
func (c TimeoutConfig) WithDefaults() TimeoutConfig {
	def := DefaultTimeoutConfig()
	if c.Read <= 0 {
		c.Read = def.Read
	}
	if c.Request <= 0 {
		c.Request = def.Request
	}
	if c.Shutdown <= 0 {
		c.Shutdown = def.Shutdown
	}
	return c
}
