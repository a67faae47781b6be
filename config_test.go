package referee

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-referee/flags"
	"github.com/ethereum-optimism/infra/op-referee/roster"
)

// newConfigFromArgs parses args with the real flag set and builds a Config from them
func newConfigFromArgs(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	var (
		cfg    *Config
		cfgErr error
	)
	app := &cli.App{
		Flags: flags.Flags,
		Action: func(ctx *cli.Context) error {
			cfg, cfgErr = NewConfig(ctx, log.New())
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"op-referee"}, args...)))
	return cfg, cfgErr
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := newConfigFromArgs(t)
	require.NoError(t, err)

	assert.Equal(t, "results/battle_results.json", cfg.ResultsFile)
	assert.Empty(t, cfg.RosterFile)
	assert.Equal(t, roster.Default(), cfg.Contestants)
	assert.False(t, cfg.RecordSkipped)
	assert.False(t, cfg.ShowOutput)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.True(t, cfg.RunOnce)
	assert.True(t, cfg.Color)
	assert.False(t, cfg.Metrics.Enabled)
	assert.NotNil(t, cfg.Console)
	assert.NotNil(t, cfg.Log)
}

func TestNewConfigFromFlags(t *testing.T) {
	rosterPath := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(rosterPath, []byte(`
contestants:
  - name: Zig
    cmd: [zig, run, main.zig]
    cwd: benchmarks/zig_test
`), 0644))

	cfg, err := newConfigFromArgs(t,
		"--results-file", "out/results.json",
		"--roster", rosterPath,
		"--record-skipped",
		"--show-output",
		"--no-color",
		"--timeout", "30s",
		"--run-interval", "1h",
	)
	require.NoError(t, err)

	assert.Equal(t, "out/results.json", cfg.ResultsFile)
	assert.Equal(t, rosterPath, cfg.RosterFile)
	require.Len(t, cfg.Contestants, 1)
	assert.Equal(t, "Zig", cfg.Contestants[0].Name)
	assert.Equal(t, []string{"zig", "run", "main.zig"}, cfg.Contestants[0].Command)
	assert.True(t, cfg.RecordSkipped)
	assert.True(t, cfg.ShowOutput)
	assert.False(t, cfg.Color)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, time.Hour, cfg.RunInterval)
	assert.False(t, cfg.RunOnce)
}

func TestNewConfigErrors(t *testing.T) {
	emptyRoster := filepath.Join(t.TempDir(), "empty.toml")
	require.NoError(t, os.WriteFile(emptyRoster, []byte(""), 0644))

	tests := []struct {
		name     string
		args     []string
		errorMsg string
	}{
		{"empty results file", []string{"--results-file", ""}, "results file path cannot be empty"},
		{"negative timeout", []string{"--timeout=-1s"}, "timeout cannot be negative"},
		{"negative run interval", []string{"--run-interval=-1m"}, "run interval cannot be negative"},
		{"missing roster", []string{"--roster", filepath.Join(t.TempDir(), "nope.yaml")}, "failed to read roster file"},
		{"empty roster", []string{"--roster", emptyRoster}, "roster has no contestants"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := newConfigFromArgs(t, tt.args...)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestNewConfigRequiresLogger(t *testing.T) {
	app := &cli.App{
		Flags: flags.Flags,
		Action: func(ctx *cli.Context) error {
			_, err := NewConfig(ctx, nil)
			assert.Error(t, err)
			return nil
		},
	}
	require.NoError(t, app.Run([]string{"op-referee"}))
}
