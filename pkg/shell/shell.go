// pkg/shell/shell.go
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner is the boundary to external commands. Every component that
// shells out takes a Runner so tests can substitute a fake.
type Runner interface {
	// Run executes a command and returns its stdout. Stderr is captured
	// separately and folded into the error message on failure.
	Run(ctx context.Context, name string, args ...string) (string, error)

	// RunInput is Run with the given string supplied on stdin.
	RunInput(ctx context.Context, input, name string, args ...string) (string, error)

	// RunInteractive executes a command attached to the caller's
	// terminal. Used for commands that may prompt (sudo -v).
	RunInteractive(ctx context.Context, name string, args ...string) error

	// LookPath reports where a command resolves in PATH.
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// New returns a Runner backed by os/exec.
func New() *ExecRunner {
	return &ExecRunner{}
}

// Run executes a command and returns trimmed stdout.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	return r.RunInput(ctx, "", name, args...)
}

// RunInput executes a command with input on stdin and returns trimmed stdout.
func (r *ExecRunner) RunInput(ctx context.Context, input, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, name, args...)
	if input != "" {
		command.Stdin = strings.NewReader(input)
	}
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("%s %s: %w (stderr: %s)",
			name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// RunInteractive executes a command wired to the current terminal.
func (r *ExecRunner) RunInteractive(ctx context.Context, name string, args ...string) error {
	command := exec.CommandContext(ctx, name, args...)
	command.Stdin = os.Stdin
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr

	if err := command.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// LookPath checks if a command is available in PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
