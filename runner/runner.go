package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum-optimism/infra/op-referee/metrics"
	"github.com/ethereum-optimism/infra/op-referee/types"
)

const tracerName = "op-referee/runner"

// ContestRunner runs contestants one after another and collects their results
type ContestRunner interface {
	// ExecuteAll runs every contestant in order. The returned results keep the
	// input order; contestants whose directory is missing are left out unless
	// skipped records are enabled. Once ctx is done no further contestant is
	// started, and the interrupted one is left out.
	ExecuteAll(ctx context.Context, contestants []types.Contestant) []types.Result

	// Execute runs a single contestant. The bool is false when no record should be kept.
	Execute(ctx context.Context, contestant types.Contestant) (types.Result, bool)
}

// Config holds configuration for creating a new runner
type Config struct {
	Log           log.Logger
	Console       io.Writer     // progress output, defaults to stdout
	RecordSkipped bool          // keep a Skipped record for contestants whose directory is missing
	ShowOutput    bool          // echo stdout of successful contestants
	Timeout       time.Duration // per-contestant deadline; zero waits forever
	CmdBuilder    CmdBuilder    // optional, defaults to DefaultCmdBuilder
	Now           func() time.Time
}

// runner struct implements ContestRunner interface
type runner struct {
	log           log.Logger
	executor      ContestantExecutor
	progress      *ProgressPrinter
	recordSkipped bool
	showOutput    bool
	tracer        trace.Tracer
}

// NewContestRunner creates a new sequential contest runner
func NewContestRunner(cfg Config) (ContestRunner, error) {
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	if cfg.Console == nil {
		cfg.Console = os.Stdout
	}

	executor, err := NewContestantExecutor(cfg.Log, cfg.Timeout, cfg.CmdBuilder, cfg.Now)
	if err != nil {
		return nil, fmt.Errorf("failed to create contestant executor: %w", err)
	}

	return &runner{
		log:           cfg.Log,
		executor:      executor,
		progress:      NewProgressPrinter(cfg.Console),
		recordSkipped: cfg.RecordSkipped,
		showOutput:    cfg.ShowOutput,
		tracer:        otel.Tracer(tracerName),
	}, nil
}

// ExecuteAll implements ContestRunner
func (r *runner) ExecuteAll(ctx context.Context, contestants []types.Contestant) []types.Result {
	ctx, span := r.tracer.Start(ctx, "round")
	defer span.End()
	span.SetAttributes(attribute.Int("contestants", len(contestants)))

	r.progress.Banner()

	results := make([]types.Result, 0, len(contestants))
	for _, contestant := range contestants {
		if ctx.Err() != nil {
			break
		}
		if result, ok := r.Execute(ctx, contestant); ok {
			results = append(results, result)
		}
		r.progress.Separator()
	}

	if err := ctx.Err(); err != nil {
		r.log.Warn("Round interrupted", "err", err, "results", len(results))
		r.progress.Interrupted()
		span.SetAttributes(attribute.Bool("interrupted", true))
	}

	span.SetAttributes(attribute.Int("results", len(results)))
	r.log.Info("All contestants finished", "contestants", len(contestants), "results", len(results))
	return results
}

// Execute implements ContestRunner
func (r *runner) Execute(ctx context.Context, contestant types.Contestant) (types.Result, bool) {
	ctx, span := r.tracer.Start(ctx, "contestant "+contestant.Name)
	defer span.End()
	span.SetAttributes(
		attribute.String("language", contestant.Name),
		attribute.String("cmd", contestant.CommandLine()),
		attribute.String("dir", contestant.WorkDir),
	)

	r.progress.Starting(contestant.Name)
	r.log.Info("Starting contestant", "contestant", contestant.Name, "dir", contestant.WorkDir)

	if !isDir(contestant.WorkDir) {
		r.log.Warn("Working directory not found, skipping contestant", "contestant", contestant.Name, "dir", contestant.WorkDir)
		r.progress.DirectoryMissing(contestant.WorkDir)
		metrics.RecordContestant(contestant.Name, types.StatusSkipped, 0)
		span.SetAttributes(attribute.String("status", string(types.StatusSkipped)))
		if !r.recordSkipped {
			return types.Result{}, false
		}
		return types.NewSkippedResult(contestant.Name, fmt.Sprintf("directory %s not found", contestant.WorkDir)), true
	}

	outcome := r.executor.Execute(ctx, contestant)
	if outcome.Interrupted {
		span.SetAttributes(attribute.Bool("interrupted", true))
		return types.Result{}, false
	}
	result := outcome.Result

	switch result.Status {
	case types.StatusSuccess:
		r.progress.Finished(outcome.Elapsed)
		if r.showOutput {
			r.progress.Output(outcome.Stdout)
		}
		r.log.Info("Contestant finished", "contestant", contestant.Name, "duration", outcome.Elapsed)
	case types.StatusMissingToolchain:
		r.progress.MissingToolchain(contestant.Executable())
	default:
		r.progress.Failed(result.Error)
	}

	metrics.RecordContestant(contestant.Name, result.Status, outcome.Elapsed)
	span.SetAttributes(
		attribute.String("status", string(result.Status)),
		attribute.Float64("duration_seconds", result.DurationSeconds),
	)
	return result, true
}

// isDir reports whether path exists and is a directory
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
