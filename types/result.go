package types

import (
	"fmt"
	"time"
)

// Status represents the outcome of running a single contestant
type Status string

const (
	StatusSuccess          Status = "Success"
	StatusFailed           Status = "Failed"
	StatusMissingToolchain Status = "MissingToolchain"
	StatusSkipped          Status = "Skipped"
)

// TimestampFormat is the ISO-8601 layout used for the completion timestamp of successful runs, always in UTC
const TimestampFormat = time.RFC3339Nano

var validStatuses = []Status{StatusSuccess, StatusFailed, StatusMissingToolchain, StatusSkipped}

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	for _, v := range validStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Result is the persisted outcome of running one contestant once.
// Timestamp is only set for successful runs, Error only for failed (or skipped) ones.
type Result struct {
	Language        string  `json:"language"`
	DurationSeconds float64 `json:"duration_seconds"`
	Status          Status  `json:"status"`
	Timestamp       string  `json:"timestamp,omitempty"`
	Error           string  `json:"error,omitempty"`
}

// NewSuccessResult creates a Success record for a run that took elapsed and finished at completedAt
func NewSuccessResult(language string, elapsed time.Duration, completedAt time.Time) Result {
	return Result{
		Language:        language,
		DurationSeconds: elapsed.Seconds(),
		Status:          StatusSuccess,
		Timestamp:       completedAt.UTC().Format(TimestampFormat),
	}
}

// NewFailedResult creates a Failed record. The measured duration is not reported for failed runs.
func NewFailedResult(language string, errMsg string) Result {
	return Result{
		Language:        language,
		DurationSeconds: 0,
		Status:          StatusFailed,
		Error:           errMsg,
	}
}

// NewMissingToolchainResult creates a MissingToolchain record
func NewMissingToolchainResult(language string) Result {
	return Result{
		Language:        language,
		DurationSeconds: 0,
		Status:          StatusMissingToolchain,
	}
}

// NewSkippedResult creates a Skipped record carrying the reason the contestant did not run
func NewSkippedResult(language string, reason string) Result {
	return Result{
		Language:        language,
		DurationSeconds: 0,
		Status:          StatusSkipped,
		Error:           reason,
	}
}

// Duration returns the reported duration as a time.Duration
func (r Result) Duration() time.Duration {
	return time.Duration(r.DurationSeconds * float64(time.Second))
}

// Validate checks that the record fields are consistent with its status
func (r Result) Validate() error {
	if r.Language == "" {
		return fmt.Errorf("language cannot be empty")
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("invalid status %q for %s", r.Status, r.Language)
	}
	if r.Status != StatusSuccess && r.DurationSeconds != 0 {
		return fmt.Errorf("%s: status %s must report a zero duration, got %f", r.Language, r.Status, r.DurationSeconds)
	}
	if r.Status == StatusSuccess && r.Timestamp == "" {
		return fmt.Errorf("%s: successful result is missing a timestamp", r.Language)
	}
	if r.Status == StatusFailed && r.Error == "" {
		return fmt.Errorf("%s: failed result is missing an error", r.Language)
	}
	return nil
}
