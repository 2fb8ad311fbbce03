// Package config provides configuration management for remote
// filesystem sessions: defaults, YAML or JSON files and environment
// variables, merged in that order.
package config

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"github.com/remotefs/remotefs"
)

// Config is the complete configuration for an application hosting
// remote filesystem sessions.
type Config struct {
	Log      LogConfig      `koanf:"log"`
	Endpoint EndpointConfig `koanf:"endpoint"`
	Rate     RateConfig     `koanf:"rate"`
	Find     FindConfig     `koanf:"find"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Build constructs the zap logger described by the section.
func (c LogConfig) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	switch c.Format {
	case "", "json":
		zc.Encoding = "json"
	case "console":
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q", c.Format)
	}
	return zc.Build()
}

// EndpointConfig holds the session parameters a driver needs to reach
// its remote side. Which fields matter depends on the backend: network
// protocols use host and credentials, object stores use bucket and
// region, and the memory backend needs nothing at all.
type EndpointConfig struct {
	// Backend names the driver scheme.
	Backend string `koanf:"backend"`

	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// Keyfile points at a private key for key-based authentication,
	// with an optional passphrase.
	Keyfile    string `koanf:"keyfile"`
	Passphrase string `koanf:"passphrase"`

	// Object-store backends.
	Bucket string `koanf:"bucket"`
	Region string `koanf:"region"`
	URL    string `koanf:"url"`

	// Container backends.
	Namespace string `koanf:"namespace"`
	Container string `koanf:"container"`

	// Root is the working directory to change into after connecting,
	// empty to stay wherever the server drops the session.
	Root string `koanf:"root"`

	// Timeout bounds the connect handshake.
	Timeout time.Duration `koanf:"timeout"`
}

// String renders the endpoint with secrets masked, so the section can go
// straight into a log field. Password and passphrase values never
// appear, only whether one is set; empty fields are left out entirely.
func (c EndpointConfig) String() string {
	parts := []string{"backend=" + c.Backend}
	if c.Host != "" {
		parts = append(parts, fmt.Sprintf("host=%s:%d", c.Host, c.Port))
	}
	if c.Username != "" {
		parts = append(parts, "username="+c.Username)
	}
	if c.Password != "" {
		parts = append(parts, "password=****")
	}
	if c.Keyfile != "" {
		parts = append(parts, "keyfile="+c.Keyfile)
	}
	if c.Passphrase != "" {
		parts = append(parts, "passphrase=****")
	}
	if c.Bucket != "" {
		parts = append(parts, "bucket="+c.Bucket)
	}
	if c.Region != "" {
		parts = append(parts, "region="+c.Region)
	}
	if c.URL != "" {
		parts = append(parts, "url="+c.URL)
	}
	if c.Namespace != "" {
		parts = append(parts, "namespace="+c.Namespace)
	}
	if c.Container != "" {
		parts = append(parts, "container="+c.Container)
	}
	if c.Root != "" {
		parts = append(parts, "root="+c.Root)
	}
	return strings.Join(parts, " ")
}

// RateConfig throttles remote operations through the rate-limiting
// middleware.
type RateConfig struct {
	// Ops is the sustained operations per second, 0 to disable.
	Ops float64 `koanf:"ops"`
	// Burst is the token bucket size.
	Burst int `koanf:"burst"`
}

// Limiter builds the token bucket described by the section, nil when
// rate limiting is disabled.
func (c RateConfig) Limiter() *rate.Limiter {
	if c.Ops <= 0 {
		return nil
	}
	burst := c.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(c.Ops), burst)
}

// FindConfig bounds the find engine.
type FindConfig struct {
	// Depth caps recursion below the start directory, 0 for unbounded.
	Depth int `koanf:"depth"`
}

// Options converts the section into finder options.
func (c FindConfig) Options() []remotefs.FinderOption {
	var opts []remotefs.FinderOption
	if c.Depth > 0 {
		opts = append(opts, remotefs.WithMaxDepth(c.Depth))
	}
	return opts
}
