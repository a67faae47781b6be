package reporting

import (
	"fmt"
	"time"

	"github.com/ethereum-optimism/infra/op-referee/types"
)

// Summary aggregates the records of one round
type Summary struct {
	RunID            string
	Total            int
	Succeeded        int
	Failed           int
	MissingToolchain int
	Skipped          int
	WallTime         time.Duration
	Fastest          *types.Result
	Slowest          *types.Result
}

// Summarize counts the results per status and finds the fastest and slowest successful contestants
func Summarize(runID string, results []types.Result, wallTime time.Duration) Summary {
	s := Summary{RunID: runID, Total: len(results), WallTime: wallTime}
	for i := range results {
		r := &results[i]
		switch r.Status {
		case types.StatusSuccess:
			s.Succeeded++
			if s.Fastest == nil || r.DurationSeconds < s.Fastest.DurationSeconds {
				s.Fastest = r
			}
			if s.Slowest == nil || r.DurationSeconds > s.Slowest.DurationSeconds {
				s.Slowest = r
			}
		case types.StatusFailed:
			s.Failed++
		case types.StatusMissingToolchain:
			s.MissingToolchain++
		case types.StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// Result returns a one-word verdict for the round, used as a metric label
func (s Summary) Result() string {
	switch {
	case s.Total == 0:
		return "empty"
	case s.Succeeded == s.Total:
		return "clean"
	case s.Succeeded == 0:
		return "no_finishers"
	default:
		return "partial"
	}
}

// String implements fmt.Stringer
func (s Summary) String() string {
	out := fmt.Sprintf("%d recorded: %d succeeded, %d failed, %d missing toolchain, %d skipped (wall time %s)",
		s.Total, s.Succeeded, s.Failed, s.MissingToolchain, s.Skipped, formatDuration(s.WallTime))
	if s.Fastest != nil && s.Succeeded > 1 {
		out += fmt.Sprintf("; fastest %s (%s), slowest %s (%s)",
			s.Fastest.Language, formatSeconds(s.Fastest.DurationSeconds),
			s.Slowest.Language, formatSeconds(s.Slowest.DurationSeconds))
	}
	return out
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.6fs", seconds)
}

// formatDuration rounds to milliseconds for display
func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
