package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/tempscore/internal/config"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2019, cfg.Projection.BaseYear)
	assert.Equal(t, 2050, cfg.Projection.TargetYear)
	assert.Len(t, cfg.Projection.Years(), 32)
	assert.InDelta(t, 2.2/3664.0, cfg.Scoring.TCREMultiplier(), 1e-15)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{
			name:    "target year before base year",
			mutate:  func(c *config.Config) { c.Projection.TargetYear = 2010 },
			wantErr: config.ErrYearRange,
		},
		{
			name:    "inverted percentiles",
			mutate:  func(c *config.Config) { c.Projection.LowerPercentile = 0.95 },
			wantErr: config.ErrPercentileRange,
		},
		{
			name:    "inverted deltas",
			mutate:  func(c *config.Config) { c.Projection.LowerDelta = 0.5 },
			wantErr: config.ErrDeltaRange,
		},
		{
			name:    "probability above one",
			mutate:  func(c *config.Config) { c.Scoring.TargetProbability = 1.5 },
			wantErr: config.ErrProbabilityRange,
		},
		{
			name:    "zero tcre",
			mutate:  func(c *config.Config) { c.Scoring.TCRE = 0 },
			wantErr: config.ErrNonPositiveControl,
		},
		{
			name:    "mid horizon not after short",
			mutate:  func(c *config.Config) { c.Scoring.MidHorizon = 5 },
			wantErr: config.ErrHorizonOrder,
		},
		{
			name:    "bad output format",
			mutate:  func(c *config.Config) { c.Output.DefaultFormat = "pdf" },
			wantErr: config.ErrInvalidOutputFormat,
		},
		{
			name:    "no workers",
			mutate:  func(c *config.Config) { c.Portfolio.Workers = 0 },
			wantErr: config.ErrNonPositiveControl,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "DEBUG")
	t.Setenv(config.EnvLogFormat, "json")

	cfg, err := config.Load(writeOverlay(t, "logging:\n  level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Path())
}

func TestLoad_InvalidFile(t *testing.T) {
	_, err := config.Load(writeOverlay(t, "scoring:\n  budget_scale: -1\n"))
	assert.ErrorIs(t, err, config.ErrNonPositiveControl)
}

func TestNew_UsesTempscoreHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "")

	dir, err := config.GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, home, dir)

	cfg := config.New()
	assert.Empty(t, cfg.Path())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "text", File: "/tmp/x.log"}
	got := lc.ToLoggingConfig()

	assert.Equal(t, "file", got.Output)
	assert.Equal(t, "console", got.Format)
	assert.Equal(t, "/tmp/x.log", got.File)
}

func TestEnsureLogDir_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogFile, "")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	path, err := config.DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "tempscore.log"), path)

	require.NoError(t, config.EnsureLogDir())
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
