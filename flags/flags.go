package flags

import (
	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
)

const EnvVarPrefix = "OP_REFEREE"

var (
	ResultsFile = &cli.StringFlag{
		Name:    "results-file",
		Value:   "results/battle_results.json",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RESULTS_FILE"),
		Usage:   "Path of the JSON file the round's results are written to. Any existing file is overwritten.",
	}
	Roster = &cli.StringFlag{
		Name:    "roster",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "ROSTER"),
		Usage:   "Path to a YAML or TOML roster of contestants. Omit to use the built-in roster.",
	}
	RecordSkipped = &cli.BoolFlag{
		Name:    "record-skipped",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RECORD_SKIPPED"),
		Usage:   "Write a Skipped record for contestants whose directory is missing instead of omitting them",
	}
	Timeout = &cli.DurationFlag{
		Name:    "timeout",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TIMEOUT"),
		Usage:   "Maximum run time per contestant (e.g. '30s'). Set to 0 or omit to wait indefinitely.",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RUN_INTERVAL"),
		Usage:   "Interval between rounds (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	ShowOutput = &cli.BoolFlag{
		Name:    "show-output",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SHOW_OUTPUT"),
		Usage:   "Print each successful contestant's stdout after its timing line",
	}
	NoColor = &cli.BoolFlag{
		Name:    "no-color",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "NO_COLOR"),
		Usage:   "Render the results table without colors",
	}
)

var optionalFlags = []cli.Flag{
	ResultsFile,
	Roster,
	RecordSkipped,
	Timeout,
	RunInterval,
	ShowOutput,
	NoColor,
}
var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)
	optionalFlags = append(optionalFlags, opmetrics.CLIFlags(EnvVarPrefix)...)

	Flags = optionalFlags
}
