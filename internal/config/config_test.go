package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		check   func(*testing.T, *Config)
		wantErr bool
	}{
		{
			name:   "default config is valid",
			modify: func(c *Config) {},
		},
		{
			name: "cache TTL below minimum defaults to 24h",
			modify: func(c *Config) {
				c.Cache.TTL = 10 * time.Second
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultCacheTTL, c.Cache.TTL)
			},
		},
		{
			name: "empty bindings directory gets the default",
			modify: func(c *Config) {
				c.Bindings.Directory = ""
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultBindingsDir, c.Bindings.Directory)
			},
		},
		{
			name: "empty compiler layout gets the conventional one",
			modify: func(c *Config) {
				c.Compiler.Src = ""
				c.Compiler.Out = ""
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultCompilerSrc, c.Compiler.Src)
				assert.Equal(t, DefaultCompilerOut, c.Compiler.Out)
			},
		},
		{
			name: "negative optimizer runs rejected",
			modify: func(c *Config) {
				c.Compiler.OptimizerRuns = -1
			},
			wantErr: true,
		},
		{
			name: "invalid log level rejected",
			modify: func(c *Config) {
				c.Logging.Level = "loud"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "src", cfg.Compiler.Src)
	assert.Equal(t, "out", cfg.Compiler.Out)
	assert.True(t, cfg.Compiler.Optimizer)
	assert.Equal(t, DefaultOptimizerRuns, cfg.Compiler.OptimizerRuns)

	assert.Equal(t, DefaultBindingsDir, cfg.Bindings.Directory)
	assert.Equal(t, DefaultBindingsPackage, cfg.Bindings.Package)
	assert.True(t, cfg.Bindings.Deployable)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
compiler:
  src: contracts
  optimizer_runs: 999
bindings:
  package: mybindings
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	viper.Reset()
	defer viper.Reset()
	viper.SetConfigFile(configPath)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "contracts", cfg.Compiler.Src)
	assert.Equal(t, 999, cfg.Compiler.OptimizerRuns)
	assert.Equal(t, "mybindings", cfg.Bindings.Package)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched keys keep their defaults
	assert.Equal(t, "out", cfg.Compiler.Out)
	assert.Equal(t, DefaultBindingsDir, cfg.Bindings.Directory)
}

func TestLoad_EnvOverride(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Setenv("BINDER_COMPILER_SRC", "sol")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sol", cfg.Compiler.Src)
}
