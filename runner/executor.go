package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-referee/types"
)

var _ ContestantExecutor = (*contestantExecutor)(nil)

// waitDelay bounds how long output is drained after a contestant is killed or exits
// while a leftover child still holds its pipes
const waitDelay = 2 * time.Second

// ContestantExecutor runs a single contestant's command and classifies the outcome.
type ContestantExecutor interface {
	Execute(ctx context.Context, contestant types.Contestant) *Outcome
}

// CmdBuilder creates the command for a contestant. The command must be bound to
// ctx (exec.CommandContext). The returned function is called once the command has finished.
type CmdBuilder func(ctx context.Context, name string, arg ...string) (*exec.Cmd, func())

// Outcome is what happened when a contestant ran: the persisted record plus
// the captured output, which is only shown on the console.
type Outcome struct {
	Result  types.Result
	Stdout  string
	Stderr  string
	Elapsed time.Duration // measured time, reported in Result only on success
	Err     error         // the error returned by the process, if any

	// Interrupted is set when the caller's context ended the run. Result is
	// left empty: the contestant did not get to finish and has no outcome.
	Interrupted bool
}

// contestantExecutor implements ContestantExecutor
type contestantExecutor struct {
	log        log.Logger
	timeout    time.Duration
	cmdBuilder CmdBuilder
	now        func() time.Time
}

// DefaultCmdBuilder builds a plain exec.Cmd bound to ctx
func DefaultCmdBuilder(ctx context.Context, name string, arg ...string) (*exec.Cmd, func()) {
	return exec.CommandContext(ctx, name, arg...), func() {}
}

// NewContestantExecutor creates a new executor. A zero timeout disables the deadline.
func NewContestantExecutor(logger log.Logger, timeout time.Duration, cmdBuilder CmdBuilder, now func() time.Time) (ContestantExecutor, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if timeout < 0 {
		return nil, fmt.Errorf("timeout cannot be negative: %s", timeout)
	}
	if cmdBuilder == nil {
		cmdBuilder = DefaultCmdBuilder
	}
	if now == nil {
		now = time.Now
	}
	return &contestantExecutor{
		log:        logger,
		timeout:    timeout,
		cmdBuilder: cmdBuilder,
		now:        now,
	}, nil
}

// Execute runs the contestant's command in its working directory and waits for it to exit
func (e *contestantExecutor) Execute(ctx context.Context, contestant types.Contestant) *Outcome {
	if err := ctx.Err(); err != nil {
		e.log.Warn("Contestant not started, run interrupted", "contestant", contestant.Name, "err", err)
		return &Outcome{Err: err, Interrupted: true}
	}

	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd, cleanup := e.cmdBuilder(runCtx, contestant.Executable(), contestant.Args()...)
	defer cleanup()
	cmd.Dir = contestant.WorkDir
	// Toolchains (cargo, go run) start the benchmark as a grandchild, which must die with them
	setProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	e.log.Debug("Launching contestant", "contestant", contestant.Name, "cmd", contestant.CommandLine(), "dir", contestant.WorkDir)

	// monotonic clock
	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	outcome := &Outcome{
		Stdout:  stdoutBuf.String(),
		Stderr:  stderrBuf.String(),
		Elapsed: elapsed,
		Err:     runErr,
	}
	if runErr != nil && ctx.Err() != nil {
		e.log.Warn("Contestant interrupted", "contestant", contestant.Name, "elapsed", elapsed, "err", ctx.Err())
		outcome.Interrupted = true
		return outcome
	}
	outcome.Result = e.classify(runCtx, contestant, outcome)
	return outcome
}

func (e *contestantExecutor) classify(runCtx context.Context, contestant types.Contestant, outcome *Outcome) types.Result {
	runErr := outcome.Err
	if runErr == nil {
		return types.NewSuccessResult(contestant.Name, outcome.Elapsed, e.now())
	}

	if e.timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		e.log.Error("Contestant timed out", "contestant", contestant.Name, "timeout", e.timeout)
		return types.NewFailedResult(contestant.Name, fmt.Sprintf("timed out after %s", e.timeout))
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		e.log.Error("Contestant exited with an error", "contestant", contestant.Name, "exit_code", exitErr.ExitCode())
		return types.NewFailedResult(contestant.Name, describeExit(contestant, exitErr, outcome.Stderr))
	}

	// Anything else means the process never started: the executable is missing or not runnable
	e.log.Warn("Contestant toolchain unavailable", "contestant", contestant.Name, "cmd", contestant.Executable(), "err", runErr)
	return types.NewMissingToolchainResult(contestant.Name)
}

// describeExit renders the diagnostic stored for a failed run
func describeExit(contestant types.Contestant, exitErr *exec.ExitError, stderr string) string {
	msg := fmt.Sprintf("command '%s' failed: %s", contestant.CommandLine(), exitErr.Error())
	if cleaned := cleanOutput(stderr); cleaned != "" {
		msg = fmt.Sprintf("%s\nstderr: %s", msg, cleaned)
	}
	return msg
}

// cleanOutput strips terminal escape sequences and surrounding whitespace
func cleanOutput(s string) string {
	return strings.TrimSpace(stripansi.Strip(s))
}
