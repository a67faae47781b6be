// Package exitcodes defines the exit codes used by op-referee.
package exitcodes

// A round's outcome never changes the exit code: contestants that fail are
// recorded, not reported as process failures.
//
// * Success (0): the round ran and its results were written
// * RuntimeErr (2): configuration errors, unwritable results file, panics
const (
	Success    = 0
	RuntimeErr = 2
)
