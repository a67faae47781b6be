package roster

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ethereum-optimism/infra/op-referee/types"
)

// File is the on-disk layout of a roster file
type File struct {
	Contestants []types.Contestant `yaml:"contestants" toml:"contestants"`
}

// Default returns the built-in contestants in the order they are run.
// A fresh slice is returned on every call so callers cannot alter the defaults.
func Default() []types.Contestant {
	return []types.Contestant{
		{
			Name:    "Python",
			Command: []string{"python", "main.py"},
			WorkDir: "benchmarks/python_test",
		},
		{
			Name:    "Node.js",
			Command: []string{"node", "index.js"},
			WorkDir: "benchmarks/node_test",
		},
		{
			Name:    "Go",
			Command: []string{"go", "run", "."},
			WorkDir: "benchmarks/go_test",
		},
		{
			// Builds on first run; later rounds reuse the cargo cache
			Name:    "Rust (Release)",
			Command: []string{"cargo", "run", "--release", "--quiet"},
			WorkDir: "benchmarks/rust_test",
		},
		{
			// Expects a prebuilt executable named 'app'
			Name:    "C++",
			Command: []string{"./app"},
			WorkDir: "benchmarks/cpp_test",
		},
	}
}

// Load reads a roster file. The format is picked from the file extension:
// .yaml/.yml for YAML and .toml for TOML.
func Load(path string) ([]types.Contestant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var file File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse YAML roster %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse TOML roster %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported roster file extension %q (expected .yaml, .yml or .toml)", ext)
	}

	if err := Validate(file.Contestants); err != nil {
		return nil, fmt.Errorf("invalid roster %s: %w", path, err)
	}
	return file.Contestants, nil
}

// Validate checks every contestant and rejects duplicate names.
// All problems are reported together.
func Validate(contestants []types.Contestant) error {
	if len(contestants) == 0 {
		return errors.New("roster has no contestants")
	}

	var errs []error
	seen := make(map[string]int, len(contestants))
	for i, c := range contestants {
		if err := c.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("contestant #%d: %w", i+1, err))
		}
		if c.Name == "" {
			continue
		}
		if first, ok := seen[c.Name]; ok {
			errs = append(errs, fmt.Errorf("contestant #%d: duplicate name %q (first defined as #%d)", i+1, c.Name, first))
			continue
		}
		seen[c.Name] = i + 1
	}
	return errors.Join(errs...)
}

// Resolve returns the built-in roster when path is empty, and the loaded file otherwise
func Resolve(path string) ([]types.Contestant, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
