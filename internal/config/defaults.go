package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Compiler defaults
	DefaultCompilerSrc   = "src"
	DefaultCompilerOut   = "out"
	DefaultOptimizerRuns = 200

	// Bindings defaults
	DefaultBindingsDir     = "src/contracts"
	DefaultBindingsPackage = "contracts"

	// Cache defaults
	DefaultCacheEnabled = true
	DefaultCacheTTL     = 24 * time.Hour

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".binder"
	}
	return filepath.Join(home, ".binder")
}

// DatabaseDir returns the default shared database root
func DatabaseDir() string {
	return filepath.Join(ConfigDir(), "db")
}

// CacheDir returns the resolution cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Directory: DatabaseDir(),
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Compiler: domainCompilerDefaults(),
		Bindings: BindingsConfig{
			Directory:  DefaultBindingsDir,
			Package:    DefaultBindingsPackage,
			Deployable: true,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
