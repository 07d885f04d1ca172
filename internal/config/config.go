package config

import (
	"fmt"
	"time"

	"github.com/dorucioclea/foundry/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig        `mapstructure:"database" yaml:"database"`
	Cache     CacheConfig           `mapstructure:"cache" yaml:"cache"`
	Compiler  domain.CompilerConfig `mapstructure:"compiler" yaml:"compiler"`
	Bindings  BindingsConfig        `mapstructure:"bindings" yaml:"bindings"`
	Artifacts ArtifactsConfig       `mapstructure:"artifacts" yaml:"artifacts"`
	Logging   LoggingConfig         `mapstructure:"logging" yaml:"logging"`
}

// DatabaseConfig contains git object database settings
type DatabaseConfig struct {
	// Directory is the root under which shared databases live. One
	// bare database is kept per repository name.
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// CacheConfig contains reference-resolution cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// BindingsConfig contains binding generation settings
type BindingsConfig struct {
	Directory  string `mapstructure:"directory" yaml:"directory"`
	Package    string `mapstructure:"package" yaml:"package"`
	Deployable bool   `mapstructure:"deployable" yaml:"deployable"`
}

// ArtifactsConfig contains compiler artifact retention settings
type ArtifactsConfig struct {
	Keep    string `mapstructure:"keep" yaml:"keep"`
	Archive bool   `mapstructure:"archive" yaml:"archive"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Bindings.Directory == "" {
		c.Bindings.Directory = DefaultBindingsDir
	}
	if c.Compiler.Src == "" {
		c.Compiler.Src = DefaultCompilerSrc
	}
	if c.Compiler.Out == "" {
		c.Compiler.Out = DefaultCompilerOut
	}
	if c.Compiler.OptimizerRuns < 0 {
		return fmt.Errorf("compiler.optimizer_runs must not be negative")
	}
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}
	return nil
}
