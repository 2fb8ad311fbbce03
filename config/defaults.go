package config

import "time"

// DefaultConfig returns a Config with sensible default values: JSON
// logging at info, the in-memory backend, no rate limiting and an
// unbounded find depth.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Endpoint: EndpointConfig{
			Backend: "memory",
			Root:    "/",
			Timeout: 30 * time.Second,
		},
		Rate: RateConfig{
			Ops:   0,
			Burst: 1,
		},
		Find: FindConfig{
			Depth: 0,
		},
	}
}
