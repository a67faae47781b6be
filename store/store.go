// Package store persists result records as an indented JSON array.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum-optimism/infra/op-referee/types"
)

const (
	// DefaultResultsFile is where a round's results are written unless configured otherwise
	DefaultResultsFile = "results/battle_results.json"

	indent   = "    "
	dirPerm  = 0755
	filePerm = 0644
)

// Persist writes results to path as a JSON array, replacing any previous file.
// The parent directory is created if it does not exist.
func Persist(results []types.Result, path string) error {
	if path == "" {
		return fmt.Errorf("results path cannot be empty")
	}
	if results == nil {
		results = []types.Result{}
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create results directory for %s: %w", path, err)
	}

	data, err := json.MarshalIndent(results, "", indent)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write results file %s: %w", path, err)
	}
	return nil
}

// Load reads a results file written by Persist
func Load(path string) ([]types.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var results []types.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results file %s: %w", path, err)
	}
	for i, r := range results {
		if !r.Status.IsValid() {
			return nil, fmt.Errorf("results file %s: entry %d has unknown status %q", path, i, r.Status)
		}
	}
	return results, nil
}
