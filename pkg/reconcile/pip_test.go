// pkg/reconcile/pip_test.go
package reconcile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrdesk/arsetup/pkg/shell/shelltest"
)

// pipFake simulates pip inside a venv: show answers from the installed
// set, install mutates it.
func pipFake(installed map[string]bool) *shelltest.Recorder {
	rec := shelltest.NewRecorder()
	rec.Handle = func(name string, args []string) (string, error) {
		if filepath.Base(name) != "pip" || len(args) < 2 {
			return "", nil
		}
		switch args[0] {
		case "show":
			if installed[args[1]] {
				return "Name: " + args[1], nil
			}
			return "", errors.New("WARNING: Package(s) not found: " + args[1])
		case "install":
			installed[args[1]] = true
		}
		return "", nil
	}
	return rec
}

// makeVenv lays down enough of a venv for ensureVenv to accept it.
func makeVenv(t *testing.T) string {
	t.Helper()
	venv := filepath.Join(t.TempDir(), "venv")
	require.NoError(t, os.MkdirAll(filepath.Join(venv, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(venv, "bin", "pip"), []byte("#!/bin/sh\n"), 0o755))
	return venv
}

func TestPipReconcileInstallsMissing(t *testing.T) {
	installed := map[string]bool{"numpy": true}
	runner := pipFake(installed)
	pip := NewPip(testReconciler(runner), makeVenv(t))

	report, err := pip.Reconcile(context.Background(), []string{"pygame", "pillow", "numpy"})
	require.NoError(t, err)
	assert.Equal(t, []string{"pygame", "pillow"}, report.Installed)
	assert.Equal(t, []string{"numpy"}, report.Present)

	// No venv creation: it already existed.
	assert.Equal(t, 0, runner.CountPrefix("python3 -m venv"))
}

func TestPipReconcileCreatesVenvWhenAbsent(t *testing.T) {
	runner := pipFake(map[string]bool{})
	venv := filepath.Join(t.TempDir(), "venv")
	pip := NewPip(testReconciler(runner), venv)

	_, err := pip.Reconcile(context.Background(), []string{"pygame"})
	require.NoError(t, err)
	assert.Equal(t, 1, runner.CountPrefix("python3 -m venv "+venv))
}

func TestPipReconcileSecondRunIsNoop(t *testing.T) {
	installed := map[string]bool{}
	venv := makeVenv(t)
	packages := []string{"pygame", "pillow", "numpy"}

	first := pipFake(installed)
	_, err := NewPip(testReconciler(first), venv).Reconcile(context.Background(), packages)
	require.NoError(t, err)

	second := pipFake(installed)
	report, err := NewPip(testReconciler(second), venv).Reconcile(context.Background(), packages)
	require.NoError(t, err)
	assert.Empty(t, report.Installed)
	for _, line := range second.CallLines() {
		assert.NotContains(t, line, " install ", "install on second run: %s", line)
	}
}

func TestPipReconcileInstallFailure(t *testing.T) {
	runner := shelltest.NewRecorder()
	runner.Handle = func(name string, args []string) (string, error) {
		return "", errors.New("no matching distribution")
	}
	pip := NewPip(testReconciler(runner), makeVenv(t))

	_, err := pip.Reconcile(context.Background(), []string{"pygame"})
	require.ErrorIs(t, err, ErrInstallFailed)

	var installErr *InstallError
	require.ErrorAs(t, err, &installErr)
	assert.Equal(t, "pygame", installErr.Package)
}
