package referee

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ethereum-optimism/infra/op-referee/exitcodes"
	"github.com/ethereum-optimism/infra/op-referee/metrics"
	"github.com/ethereum-optimism/infra/op-referee/reporting"
	"github.com/ethereum-optimism/infra/op-referee/runner"
	"github.com/ethereum-optimism/infra/op-referee/store"
	"github.com/ethereum-optimism/infra/op-referee/types"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
)

const (
	tableTitle       = "Battle Royale Results"
	roundInterrupted = "interrupted"
)

// referee implements the cliapp.Lifecycle interface.
var _ cliapp.Lifecycle = &referee{}

// referee runs rounds of the benchmark and persists their results.
type referee struct {
	ctx      context.Context
	cancel   context.CancelFunc
	config   *Config
	version  string
	runner   runner.ContestRunner
	reporter *reporting.TableReporter
	progress *runner.ProgressPrinter

	mu          sync.Mutex
	lastResults []types.Result
	lastSummary reporting.Summary

	running atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*referee, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if shutdownCallback == nil {
		return nil, errors.New("shutdown callback is required")
	}
	if config.Console == nil {
		config.Console = os.Stdout
	}

	config.Log.Debug("Creating referee with config",
		"resultsFile", config.ResultsFile,
		"roster", config.RosterFile,
		"contestants", len(config.Contestants),
		"timeout", config.Timeout,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce)

	contestRunner, err := runner.NewContestRunner(runner.Config{
		Log:           config.Log,
		Console:       config.Console,
		RecordSkipped: config.RecordSkipped,
		ShowOutput:    config.ShowOutput,
		Timeout:       config.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create contest runner: %w", err)
	}

	return &referee{
		ctx:              ctx,
		config:           config,
		version:          version,
		runner:           contestRunner,
		reporter:         reporting.NewTableReporter(tableTitle, config.Color),
		progress:         runner.NewProgressPrinter(config.Console),
		shutdownCallback: shutdownCallback,
	}, nil
}

func (r *referee) Start(ctx context.Context) error {
	// Set up panic recovery to ensure we exit with code 2 for runtime errors
	defer func() {
		if rec := recover(); rec != nil {
			r.config.Log.Error("Runtime error occurred", "error", rec)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	r.ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.running.Store(true)

	if r.config.RunOnce {
		r.config.Log.Info("Starting op-referee in run-once mode", "version", r.version)
	} else {
		r.config.Log.Info("Starting op-referee in continuous mode", "version", r.version, "interval", r.config.RunInterval)
	}

	// First round runs immediately
	if err := r.runRound(); err != nil {
		r.config.Log.Error("Runtime error running round", "error", err)
		return err
	}

	if r.config.RunOnce {
		r.config.Log.Info("Round completed, exiting (run-once mode)")
		go func() {
			r.shutdownCallback(nil)
		}()
		return nil
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.config.Log.Debug("Starting periodic round goroutine", "interval", r.config.RunInterval)

		for {
			select {
			case <-time.After(r.config.RunInterval):
				if !r.running.Load() {
					r.config.Log.Debug("Service stopped, exiting periodic rounds")
					return
				}

				r.config.Log.Info("Running periodic round")
				if err := r.runRound(); err != nil {
					r.config.Log.Error("Error running periodic round", "error", err)
					r.running.Store(false)
					r.shutdownCallback(err)
					return
				}

			case <-r.done:
				r.config.Log.Debug("Done signal received, stopping periodic rounds")
				return

			case <-r.ctx.Done():
				r.config.Log.Debug("Context canceled, stopping periodic rounds")
				r.running.Store(false)
				return
			}
		}
	}()

	return nil
}

// runRound runs every contestant once, reports, and persists the results.
// Only a persistence failure is returned; contestant failures are part of the results.
func (r *referee) runRound() error {
	runID := uuid.New().String()
	r.config.Log.Info("Starting round", "runID", runID, "contestants", len(r.config.Contestants))

	start := time.Now()
	results := r.runner.ExecuteAll(r.ctx, r.config.Contestants)
	wallTime := time.Since(start)

	summary := reporting.Summarize(runID, results, wallTime)
	r.config.Log.Info("Round finished", "runID", runID, "summary", summary.String())

	r.mu.Lock()
	r.lastResults = results
	r.lastSummary = summary
	r.mu.Unlock()

	if err := r.reporter.Print(r.config.Console, results, summary); err != nil {
		r.config.Log.Warn("Failed to print results table", "error", err)
	}
	fmt.Fprintln(r.config.Console, summary.String())

	// An interrupted round is incomplete; the previous results file stays in place
	if err := r.ctx.Err(); err != nil {
		r.config.Log.Warn("Round interrupted, results not saved", "runID", runID, "path", r.config.ResultsFile, "err", err)
		metrics.RecordRound(roundInterrupted, wallTime)
		return nil
	}

	if err := store.Persist(results, r.config.ResultsFile); err != nil {
		metrics.RecordErrorDetails("persist", err)
		return NewRuntimeError(fmt.Errorf("failed to persist results: %w", err))
	}
	r.progress.Complete(r.config.ResultsFile)
	r.config.Log.Info("Results saved", "runID", runID, "path", r.config.ResultsFile, "records", len(results))

	metrics.RecordRound(summary.Result(), wallTime)
	return nil
}

// LastResults returns the records and summary of the most recent round
func (r *referee) LastResults() ([]types.Result, reporting.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastResults, r.lastSummary
}

func (r *referee) Stop(ctx context.Context) error {
	r.config.Log.Info("Stopping op-referee")

	if !r.running.Load() {
		r.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}

	// Update running state first to prevent new rounds
	r.running.Store(false)
	close(r.done)
	if r.cancel != nil {
		r.cancel()
	}

	waited := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for round to stop: %w", ctx.Err())
	}

	r.config.Log.Info("op-referee stopped successfully")
	return nil
}

// Stopped returns true if the op-referee service is stopped.
// Stopped implements the cliapp.Lifecycle interface.
func (r *referee) Stopped() bool {
	return !r.running.Load()
}
