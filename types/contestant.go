package types

import (
	"errors"
	"fmt"
	"strings"
)

// Contestant describes one language/runtime entry: the command to run and the
// directory to run it from. Contestants are defined once and never mutated.
type Contestant struct {
	Name    string   `yaml:"name" toml:"name"`
	Command []string `yaml:"cmd" toml:"cmd"`
	WorkDir string   `yaml:"cwd" toml:"cwd"`
}

// Executable returns the first token of the command, or "" if the command is empty
func (c Contestant) Executable() string {
	if len(c.Command) == 0 {
		return ""
	}
	return c.Command[0]
}

// Args returns the command tokens following the executable
func (c Contestant) Args() []string {
	if len(c.Command) <= 1 {
		return nil
	}
	return c.Command[1:]
}

// CommandLine renders the command for display
func (c Contestant) CommandLine() string {
	return strings.Join(c.Command, " ")
}

// Validate checks that the descriptor can be executed
func (c Contestant) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, errors.New("name cannot be empty"))
	}
	if len(c.Command) == 0 || strings.TrimSpace(c.Command[0]) == "" {
		errs = append(errs, fmt.Errorf("contestant %q: command cannot be empty", c.Name))
	}
	if strings.TrimSpace(c.WorkDir) == "" {
		errs = append(errs, fmt.Errorf("contestant %q: working directory cannot be empty", c.Name))
	}
	return errors.Join(errs...)
}
