// arsetup_test.go
package arsetup_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrdesk/arsetup"
	"github.com/xrdesk/arsetup/internal/ui"
	"github.com/xrdesk/arsetup/pkg/config"
	"github.com/xrdesk/arsetup/pkg/probe"
	"github.com/xrdesk/arsetup/pkg/shell/shelltest"
	"github.com/xrdesk/arsetup/pkg/usbdev"
)

type stubScanner struct{ devices []usbdev.Device }

func (s stubScanner) Scan(ctx context.Context) ([]usbdev.Device, error) {
	return s.devices, nil
}

// systemState is the simulated external state a run mutates: the
// package database, the pip environment, and (via the real temp
// filesystem) the source checkout and artifacts.
type systemState struct {
	packages map[string]bool
	pip      map[string]bool
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.SourceDir = filepath.Join(root, "src")
	cfg.InstallDir = filepath.Join(root, "bin")
	cfg.VenvPath = filepath.Join(root, "venv")
	cfg.FIFOPath = filepath.Join(root, "screen_capture")
	cfg.RetryInterval = config.Duration(time.Millisecond)

	// Venv already provisioned; the pip fake tracks its contents.
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.VenvPath, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.VenvPath, "bin", "pip"), []byte("#!/bin/sh\n"), 0o755))

	return cfg
}

// newRunner wires a recorder that behaves like a live system: package
// queries answer from state, installs mutate it, and git clone/pull
// leave a built driver binary behind.
func newRunner(t *testing.T, cfg *config.Config, state *systemState) *shelltest.Recorder {
	t.Helper()
	rec := shelltest.NewRecorder()
	rec.Handle = func(name string, args []string) (string, error) {
		switch {
		case name == "pacman" && len(args) == 2 && args[0] == "-Q":
			if state.packages[args[1]] {
				return args[1] + " 1.0-1", nil
			}
			return "", errors.New("package not found")
		case name == "sudo" && len(args) > 0 && args[0] == "pacman":
			state.packages[args[len(args)-1]] = true
		case filepath.Base(name) == "pip" && len(args) == 2 && args[0] == "show":
			if state.pip[args[1]] {
				return "Name: " + args[1], nil
			}
			return "", errors.New("package not found")
		case filepath.Base(name) == "pip" && len(args) == 2 && args[0] == "install":
			state.pip[args[1]] = true
		case name == "git" || name == "make":
			// Either sync path leaves a built binary in the build tree.
			buildDir := filepath.Join(cfg.SourceDir, "build")
			require.NoError(t, os.MkdirAll(buildDir, 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(buildDir, cfg.BinaryName), []byte("elf"), 0o644))
		}
		return "", nil
	}
	return rec
}

func newWorkflow(cfg *config.Config, runner *shelltest.Recorder) *arsetup.Workflow {
	w := arsetup.NewWorkflow(cfg, ui.NewPrinterTo(&bytes.Buffer{}, &bytes.Buffer{}))
	w.Runner = runner
	w.Prober = &probe.Prober{
		Runner: runner,
		Getenv: func(key string) string {
			return map[string]string{
				"XDG_SESSION_TYPE":    "wayland",
				"WAYLAND_DISPLAY":     "wayland-0",
				"XDG_CURRENT_DESKTOP": "Hyprland",
			}[key]
		},
		Geteuid:     func() int { return 1000 },
		Interactive: func() bool { return false },
		Disallowed:  cfg.DisallowedDesktops,
	}
	w.Scanner = stubScanner{devices: []usbdev.Device{
		{Bus: 3, Address: 7, VendorID: "3318", ProductID: "0424", Description: "MCS XREAL Air"},
	}}
	return w
}

func installCount(rec *shelltest.Recorder) int {
	n := rec.CountPrefix("sudo pacman -S")
	for _, line := range rec.CallLines() {
		if strings.Contains(line, "pip install") {
			n++
		}
	}
	return n
}

func TestWorkflowFullRun(t *testing.T) {
	cfg := testConfig(t)
	state := &systemState{packages: map[string]bool{}, pip: map[string]bool{}}
	runner := newRunner(t, cfg, state)

	w := newWorkflow(cfg, runner)
	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, arsetup.StageDone, w.Stage())

	// All three downstream artifacts exist: driver binary, udev rule
	// write, capture fifo.
	_, err := os.Stat(filepath.Join(cfg.InstallDir, cfg.BinaryName))
	assert.NoError(t, err)

	info, err := os.Stat(cfg.FIFOPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeNamedPipe)

	assert.Equal(t, 1, runner.CountPrefix("sudo tee "+cfg.UdevRulePath))
	assert.Positive(t, installCount(runner))

	// Fresh source means a recursive clone, then configure + compile.
	assert.Equal(t, 1, runner.CountPrefix("git clone --recursive"))
	assert.Equal(t, 1, runner.CountPrefix("cmake -S "+cfg.SourceDir))
	assert.Equal(t, 1, runner.CountPrefix("make -C "))
}

func TestWorkflowSecondRunInstallsNothing(t *testing.T) {
	cfg := testConfig(t)
	state := &systemState{packages: map[string]bool{}, pip: map[string]bool{}}

	first := newRunner(t, cfg, state)
	require.NoError(t, newWorkflow(cfg, first).Run(context.Background()))
	require.Positive(t, installCount(first))

	second := newRunner(t, cfg, state)
	w := newWorkflow(cfg, second)
	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, arsetup.StageDone, w.Stage())

	// No external state changed between runs, so the second run
	// performs zero installations and updates in place.
	assert.Zero(t, installCount(second))
	assert.Equal(t, 0, second.CountPrefix("git clone"))
	assert.Equal(t, 1, second.CountPrefix("git -C "+cfg.SourceDir+" pull"))
}

func TestWorkflowRootCallerFailsAtProbe(t *testing.T) {
	cfg := testConfig(t)
	state := &systemState{packages: map[string]bool{}, pip: map[string]bool{}}
	runner := newRunner(t, cfg, state)

	w := newWorkflow(cfg, runner)
	w.Prober.Geteuid = func() int { return 0 }

	err := w.Run(context.Background())
	require.ErrorIs(t, err, arsetup.ErrRunAsRoot)

	var stageErr *arsetup.Error
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, arsetup.StageProbed, stageErr.Stage)
	assert.Equal(t, arsetup.StageStart, w.Stage())

	// Nothing ran.
	assert.Empty(t, runner.Calls())
}

func TestWorkflowInstallFailureAborts(t *testing.T) {
	cfg := testConfig(t)
	state := &systemState{packages: map[string]bool{}, pip: map[string]bool{}}
	runner := newRunner(t, cfg, state)
	inner := runner.Handle
	runner.Handle = func(name string, args []string) (string, error) {
		if name == "sudo" && len(args) > 0 && args[0] == "pacman" {
			return "", errors.New("mirror unreachable")
		}
		return inner(name, args)
	}

	w := newWorkflow(cfg, runner)
	err := w.Run(context.Background())
	require.ErrorIs(t, err, arsetup.ErrInstallFailed)

	var stageErr *arsetup.Error
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, arsetup.StageDepsReconciled, stageErr.Stage)

	// The run never got to the build.
	assert.Equal(t, 0, runner.CountPrefix("git"))
}
