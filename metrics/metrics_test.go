package metrics

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ethereum-optimism/infra/op-referee/types"
)

func TestErrToLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "nil error",
			err:  nil,
		},
		{
			name: "simple error",
			err:  errors.New("persist error"),
		},
		{
			name: "error with special chars",
			err:  errors.New("open results/battle_results.json: permission denied"),
		},
		{
			name: "error with multiple spaces",
			err:  errors.New("persist   error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := errToLabel(tt.err)
			validLabelRegex := regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)
			if !validLabelRegex.MatchString(result) {
				t.Errorf("errLabel() = %v, is not a valid Prometheus label", result)
			}
		})
	}
}

func TestRecordError(t *testing.T) {
	// just test that it doesn't panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("RecordError panic'd")
		}
	}()

	RecordError("test_error")
}

func TestRecordErrorDetails(t *testing.T) {
	before := testutil.ToFloat64(errorsTotal.WithLabelValues("persist.disk_full"))
	RecordErrorDetails("persist", nil)
	RecordErrorDetails("persist", errors.New("disk full"))
	assert.Equal(t, before+1, testutil.ToFloat64(errorsTotal.WithLabelValues("persist.disk_full")))
}

func TestRecordContestant(t *testing.T) {
	before := testutil.ToFloat64(contestantRunsTotal.WithLabelValues("Zig", string(types.StatusSuccess)))

	RecordContestant("Zig", types.StatusSuccess, 1500*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(contestantRunsTotal.WithLabelValues("Zig", string(types.StatusSuccess))))
	assert.Equal(t, 1.5, testutil.ToFloat64(contestantDuration.WithLabelValues("Zig")))

	// failures count but leave the last successful duration in place
	RecordContestant("Zig", types.StatusFailed, 0)
	assert.Equal(t, 1.5, testutil.ToFloat64(contestantDuration.WithLabelValues("Zig")))
	assert.Equal(t, float64(1), testutil.ToFloat64(contestantRunsTotal.WithLabelValues("Zig", string(types.StatusFailed))))
}

func TestRecordContestantIgnoresInvalidStatus(t *testing.T) {
	RecordContestant("Zig", types.Status("bogus"), time.Second)
	assert.Equal(t, float64(0), testutil.ToFloat64(contestantRunsTotal.WithLabelValues("Zig", "bogus")))
}

func TestRecordRound(t *testing.T) {
	before := testutil.ToFloat64(roundsTotal.WithLabelValues("complete"))
	RecordRound("complete", 3*time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(roundsTotal.WithLabelValues("complete")))
	assert.Equal(t, float64(3), testutil.ToFloat64(roundWallSeconds))
}
