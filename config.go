package referee

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-referee/flags"
	"github.com/ethereum-optimism/infra/op-referee/roster"
	"github.com/ethereum-optimism/infra/op-referee/types"
	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
)

// Config holds the application configuration
type Config struct {
	ResultsFile   string             // where each round's results are written
	RosterFile    string             // absolute path of the roster file, empty for the built-in roster
	Contestants   []types.Contestant // resolved roster, in run order
	RecordSkipped bool               // keep Skipped records for contestants whose directory is missing
	ShowOutput    bool               // echo stdout of successful contestants
	Timeout       time.Duration      // per-contestant deadline, zero waits forever
	RunInterval   time.Duration      // interval between rounds
	RunOnce       bool               // exit after a single round
	Color         bool               // colored results table
	Metrics       opmetrics.CLIConfig
	Console       io.Writer // progress and results table output
	Log           log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}

	resultsFile := ctx.String(flags.ResultsFile.Name)
	if resultsFile == "" {
		return nil, errors.New("results file path cannot be empty")
	}

	var rosterFile string
	if path := ctx.String(flags.Roster.Name); path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve absolute path for roster '%s': %w", path, err)
		}
		rosterFile = abs
	}
	contestants, err := roster.Resolve(rosterFile)
	if err != nil {
		return nil, err
	}

	timeout := ctx.Duration(flags.Timeout.Name)
	if timeout < 0 {
		return nil, fmt.Errorf("timeout cannot be negative: %s", timeout)
	}
	runInterval := ctx.Duration(flags.RunInterval.Name)
	if runInterval < 0 {
		return nil, fmt.Errorf("run interval cannot be negative: %s", runInterval)
	}

	metricsCfg := opmetrics.ReadCLIConfig(ctx)
	if err := metricsCfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid metrics config: %w", err)
	}

	var console io.Writer = os.Stdout
	if ctx.App != nil && ctx.App.Writer != nil {
		console = ctx.App.Writer
	}

	return &Config{
		ResultsFile:   resultsFile,
		RosterFile:    rosterFile,
		Contestants:   contestants,
		RecordSkipped: ctx.Bool(flags.RecordSkipped.Name),
		ShowOutput:    ctx.Bool(flags.ShowOutput.Name),
		Timeout:       timeout,
		RunInterval:   runInterval,
		RunOnce:       runInterval == 0,
		Color:         !ctx.Bool(flags.NoColor.Name),
		Metrics:       metricsCfg,
		Console:       console,
		Log:           log,
	}, nil
}
