package flags

import (
	"testing"
	"time"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// TestOptionalFlagsDontSetRequired asserts that all flags deemed optional set
// the Required field to false.
func TestOptionalFlagsDontSetRequired(t *testing.T) {
	for _, flag := range optionalFlags {
		reqFlag, ok := flag.(cli.RequiredFlag)
		require.True(t, ok)
		require.False(t, reqFlag.IsRequired())
	}
}

// TestUniqueFlags asserts that all flag names are unique, to avoid accidental conflicts between the many flags.
func TestUniqueFlags(t *testing.T) {
	seenCLI := make(map[string]struct{})
	for _, flag := range Flags {
		name := flag.Names()[0]
		if _, ok := seenCLI[name]; ok {
			t.Errorf("duplicate flag %s", name)
			continue
		}
		seenCLI[name] = struct{}{}
	}
}

func TestEnvVarFormat(t *testing.T) {
	for _, flag := range Flags {
		flagName := flag.Names()[0]

		t.Run(flagName, func(t *testing.T) {
			envFlagGetter, ok := flag.(interface {
				GetEnvVars() []string
			})
			require.True(t, ok, "must be able to cast the flag to an EnvVar interface")
			envFlags := envFlagGetter.GetEnvVars()
			require.Equal(t, 1, len(envFlags), "flags should have exactly one env var")
			require.Equal(t, opservice.FlagNameToEnvVarName(flagName, EnvVarPrefix), envFlags[0])
		})
	}
}

func TestFlagDefaults(t *testing.T) {
	app := &cli.App{
		Flags: Flags,
		Action: func(ctx *cli.Context) error {
			assert.Equal(t, "results/battle_results.json", ctx.String(ResultsFile.Name))
			assert.Equal(t, "", ctx.String(Roster.Name))
			assert.False(t, ctx.Bool(RecordSkipped.Name))
			assert.Equal(t, time.Duration(0), ctx.Duration(Timeout.Name))
			assert.Equal(t, time.Duration(0), ctx.Duration(RunInterval.Name))
			assert.False(t, ctx.Bool(ShowOutput.Name))
			return nil
		},
	}
	require.NoError(t, app.Run([]string{"op-referee"}))
}

func TestFlagValues(t *testing.T) {
	testCases := []struct {
		name   string
		args   []string
		env    map[string]string
		verify func(t *testing.T, ctx *cli.Context)
	}{
		{
			name: "timeout from args",
			args: []string{"op-referee", "--timeout", "45s"},
			verify: func(t *testing.T, ctx *cli.Context) {
				assert.Equal(t, 45*time.Second, ctx.Duration(Timeout.Name))
			},
		},
		{
			name: "results file from env",
			args: []string{"op-referee"},
			env:  map[string]string{"OP_REFEREE_RESULTS_FILE": "/tmp/out.json"},
			verify: func(t *testing.T, ctx *cli.Context) {
				assert.Equal(t, "/tmp/out.json", ctx.String(ResultsFile.Name))
			},
		},
		{
			name: "record skipped and roster",
			args: []string{"op-referee", "--record-skipped", "--roster", "roster.yaml"},
			verify: func(t *testing.T, ctx *cli.Context) {
				assert.True(t, ctx.Bool(RecordSkipped.Name))
				assert.Equal(t, "roster.yaml", ctx.String(Roster.Name))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			app := &cli.App{
				Flags: Flags,
				Action: func(ctx *cli.Context) error {
					tc.verify(t, ctx)
					return nil
				},
			}
			require.NoError(t, app.Run(tc.args))
		})
	}
}
