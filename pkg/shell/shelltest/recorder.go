// pkg/shell/shelltest/recorder.go
package shelltest

import (
	"context"
	"strings"
	"sync"
)

// Call is one recorded command invocation.
type Call struct {
	Name  string
	Args  []string
	Input string
}

// String renders the call the way it would appear on a shell line.
func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Recorder is a shell.Runner fake. It records every invocation and
// answers via Handle; when Handle is nil every command succeeds with
// empty output.
type Recorder struct {
	mu    sync.Mutex
	calls []Call

	// Handle decides the outcome of a command.
	Handle func(name string, args []string) (string, error)

	// Missing lists commands LookPath should report as absent.
	Missing map[string]bool
}

// NewRecorder returns an empty Recorder where every command succeeds.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

// Calls returns a copy of all recorded invocations.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallLines returns every recorded invocation as a shell-style line.
func (r *Recorder) CallLines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// CountPrefix counts recorded invocations whose shell line starts with
// the given prefix.
func (r *Recorder) CountPrefix(prefix string) int {
	n := 0
	for _, line := range r.CallLines() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func (r *Recorder) dispatch(name string, args []string) (string, error) {
	if r.Handle != nil {
		return r.Handle(name, args)
	}
	return "", nil
}

// Run records the call and dispatches to Handle.
func (r *Recorder) Run(ctx context.Context, name string, args ...string) (string, error) {
	r.record(Call{Name: name, Args: args})
	return r.dispatch(name, args)
}

// RunInput records the call with its stdin payload and dispatches.
func (r *Recorder) RunInput(ctx context.Context, input, name string, args ...string) (string, error) {
	r.record(Call{Name: name, Args: args, Input: input})
	return r.dispatch(name, args)
}

// RunInteractive records the call and dispatches, discarding output.
func (r *Recorder) RunInteractive(ctx context.Context, name string, args ...string) error {
	r.record(Call{Name: name, Args: args})
	_, err := r.dispatch(name, args)
	return err
}

// LookPath resolves every command except those listed in Missing.
func (r *Recorder) LookPath(name string) (string, error) {
	if r.Missing[name] {
		return "", &notFoundError{name: name}
	}
	return "/usr/bin/" + name, nil
}

type notFoundError struct{ name string }

func (e *notFoundError) Error() string {
	return "exec: " + e.name + ": executable file not found in $PATH"
}
