package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"go.uber.org/multierr"
)

// Load loads configuration from multiple sources with strict priority:
// 1. Environment variables (highest priority)
// 2. Config file (remotefs.yaml or remotefs.json in the working directory)
// 3. Defaults (lowest priority)
func Load() (Config, error) {
	return LoadFromFile("")
}

// LoadFromFile loads configuration like Load but reads the given config
// file instead of probing the default locations. The file must exist.
func LoadFromFile(configFilePath string) (Config, error) {
	k := koanf.New(".")

	// Defaults first, so files and environment override them.
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load default config: %w", err)
	}

	if configFilePath != "" {
		if _, err := os.Stat(configFilePath); err != nil {
			return Config{}, fmt.Errorf("specified config file %s not found: %w", configFilePath, err)
		}
		if err := loadFile(k, configFilePath); err != nil {
			return Config{}, err
		}
	} else {
		for _, candidate := range []string{"remotefs.yaml", "remotefs.yml", "remotefs.json"} {
			if _, err := os.Stat(candidate); err == nil {
				if err := loadFile(k, candidate); err != nil {
					return Config{}, err
				}
				break
			}
		}
	}

	// Environment variables with a REMOTEFS_ prefix map onto config
	// keys, e.g. REMOTEFS_ENDPOINT_HOST sets endpoint.host.
	if err := k.Load(env.Provider("REMOTEFS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "REMOTEFS_")), "_", ".", -1)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		parser = yaml.Parser()
	case strings.HasSuffix(path, ".json"):
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config file format: %s", path)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return nil
}

// Backends a config may name. Drivers live outside this module, but the
// accepted schemes are fixed here so a typo fails at load time rather
// than at dial time.
var knownBackends = map[string]bool{
	"memory": true,
	"ftp":    true,
	"ftps":   true,
	"sftp":   true,
	"scp":    true,
	"s3":     true,
	"smb":    true,
	"kube":   true,
	"webdav": true,
}

func needsHost(backend string) bool {
	switch backend {
	case "ftp", "ftps", "sftp", "scp", "smb", "webdav":
		return true
	}
	return false
}

// validateConfig collects every problem instead of stopping at the
// first, so one failed load reports all misconfigured fields at once.
func validateConfig(cfg *Config) error {
	var errs error

	switch cfg.Log.Format {
	case "", "json", "console":
	default:
		errs = multierr.Append(errs, fmt.Errorf("log.format must be json or console, got %q", cfg.Log.Format))
	}

	if cfg.Endpoint.Backend == "" {
		errs = multierr.Append(errs, fmt.Errorf("endpoint.backend is required"))
	} else if !knownBackends[cfg.Endpoint.Backend] {
		errs = multierr.Append(errs, fmt.Errorf("endpoint.backend %q is not a known backend", cfg.Endpoint.Backend))
	}

	if needsHost(cfg.Endpoint.Backend) && cfg.Endpoint.Host == "" {
		errs = multierr.Append(errs, fmt.Errorf("endpoint.host is required for backend %q", cfg.Endpoint.Backend))
	}
	if cfg.Endpoint.Backend == "s3" && cfg.Endpoint.Bucket == "" {
		errs = multierr.Append(errs, fmt.Errorf("endpoint.bucket is required for backend s3"))
	}
	if cfg.Endpoint.Port < 0 || cfg.Endpoint.Port > 65535 {
		errs = multierr.Append(errs, fmt.Errorf("endpoint.port %d is out of range", cfg.Endpoint.Port))
	}
	if cfg.Endpoint.Root != "" && !strings.HasPrefix(cfg.Endpoint.Root, "/") {
		errs = multierr.Append(errs, fmt.Errorf("endpoint.root must be an absolute path, got %q", cfg.Endpoint.Root))
	}
	if cfg.Endpoint.Timeout < 0 {
		errs = multierr.Append(errs, fmt.Errorf("endpoint.timeout must not be negative"))
	}

	if cfg.Rate.Ops < 0 {
		errs = multierr.Append(errs, fmt.Errorf("rate.ops must not be negative"))
	}
	if cfg.Rate.Burst < 0 {
		errs = multierr.Append(errs, fmt.Errorf("rate.burst must not be negative"))
	}
	if cfg.Find.Depth < 0 {
		errs = multierr.Append(errs, fmt.Errorf("find.depth must not be negative"))
	}

	return errs
}
