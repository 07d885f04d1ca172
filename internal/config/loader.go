package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/dorucioclea/foundry/internal/domain"
)

func domainCompilerDefaults() domain.CompilerConfig {
	return domain.DefaultCompilerConfig()
}

// Load loads configuration from file, environment, and defaults
// Uses the global viper instance to access CLI flag bindings
func Load() (*Config, error) {
	v := viper.GetViper()

	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (BINDER_*)
	v.SetEnvPrefix("BINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("database.directory", def.Database.Directory)

	v.SetDefault("cache.enabled", def.Cache.Enabled)
	v.SetDefault("cache.ttl", def.Cache.TTL)
	v.SetDefault("cache.directory", def.Cache.Directory)

	v.SetDefault("compiler.src", def.Compiler.Src)
	v.SetDefault("compiler.out", def.Compiler.Out)
	v.SetDefault("compiler.optimizer", def.Compiler.Optimizer)
	v.SetDefault("compiler.optimizer_runs", def.Compiler.OptimizerRuns)

	v.SetDefault("bindings.directory", def.Bindings.Directory)
	v.SetDefault("bindings.package", def.Bindings.Package)
	v.SetDefault("bindings.deployable", def.Bindings.Deployable)

	v.SetDefault("artifacts.keep", "")
	v.SetDefault("artifacts.archive", false)

	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}
