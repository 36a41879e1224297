// arsetup.go

// Package arsetup prepares a Linux Wayland desktop for an XREAL Air
// headset: it reconciles OS and Python dependencies, builds the
// external USB driver, grants device access through udev, and leaves
// the capture FIFO in place. Every stage is idempotent or
// overwrite-safe, so rerunning after any failure or interrupt simply
// finishes the remaining work.
package arsetup

import (
	"context"

	"github.com/xrdesk/arsetup/internal/ui"
	"github.com/xrdesk/arsetup/pkg/builder"
	"github.com/xrdesk/arsetup/pkg/config"
	"github.com/xrdesk/arsetup/pkg/fifo"
	"github.com/xrdesk/arsetup/pkg/probe"
	"github.com/xrdesk/arsetup/pkg/reconcile"
	"github.com/xrdesk/arsetup/pkg/shell"
	"github.com/xrdesk/arsetup/pkg/usbdev"
	"github.com/xrdesk/arsetup/pkg/verify"
)

// Stage names a point in the provisioning state machine. The chain is
// linear; a failed transition aborts the whole run.
type Stage string

const (
	StageStart            Stage = "start"
	StageProbed           Stage = "probed"
	StageDepsReconciled   Stage = "deps-reconciled"
	StageToolsReconciled  Stage = "tools-reconciled"
	StageRuntimeReady     Stage = "runtime-ready"
	StageBuilt            Stage = "built"
	StageDeviceRegistered Stage = "device-registered"
	StageVerified         Stage = "verified"
	StageDone             Stage = "done"
)

// Context re-exports the probed session context.
type Context = probe.Context

// Workflow runs the full provisioning chain.
type Workflow struct {
	Config  *config.Config
	Runner  shell.Runner
	Printer *ui.Printer

	// DryRun prints every mutating step instead of executing it.
	DryRun bool

	// FromRelease installs the driver from the configured release
	// tarball instead of building from source.
	FromRelease bool

	// Prober overrides the default environment prober when set.
	Prober *probe.Prober

	// Scanner overrides the default lsusb device scanner when set.
	Scanner usbdev.Scanner

	stage Stage
}

// NewWorkflow returns a Workflow using the real shell runner.
func NewWorkflow(cfg *config.Config, printer *ui.Printer) *Workflow {
	return &Workflow{
		Config:  cfg,
		Runner:  shell.New(),
		Printer: printer,
		stage:   StageStart,
	}
}

// Stage returns the last stage the workflow reached.
func (w *Workflow) Stage() Stage {
	return w.stage
}

// enter marks a stage transition as attempted and logs it.
func (w *Workflow) enter(next Stage) {
	w.Printer.Stepf("%s -> %s", w.stage, next)
}

// reached commits a completed transition.
func (w *Workflow) reached(next Stage) {
	w.stage = next
}

// fail wraps a component error with the stage that was being entered.
func fail(stage Stage, err error) error {
	return &Error{Stage: stage, Err: err}
}

// Run executes the whole chain: probe, three reconciliation passes,
// driver build, device registration plus FIFO, verification. Strictly
// sequential; the first error is fatal and returned as an *Error
// naming the failed stage.
func (w *Workflow) Run(ctx context.Context) error {
	cfg := w.Config

	w.enter(StageProbed)
	prober := w.Prober
	if prober == nil {
		prober = probe.New(w.Runner, cfg.DisallowedDesktops)
	}
	session, err := prober.Probe(ctx)
	if err != nil {
		return fail(StageProbed, err)
	}
	w.reached(StageProbed)
	w.Printer.Okf("environment: %s on %s, package manager %s",
		session.DisplayServer, desktopOrUnknown(session.DesktopEnv), session.Manager)

	rec := reconcile.New(w.Runner, w.Printer)
	rec.DryRun = w.DryRun

	w.enter(StageDepsReconciled)
	if err := w.reconcileStage(ctx, rec, session, cfg.SystemPackages, "system dependencies"); err != nil {
		return fail(StageDepsReconciled, err)
	}
	w.reached(StageDepsReconciled)

	w.enter(StageToolsReconciled)
	if err := w.reconcileStage(ctx, rec, session, cfg.DisplayPackages, "display tools"); err != nil {
		return fail(StageToolsReconciled, err)
	}
	w.reached(StageToolsReconciled)

	w.enter(StageRuntimeReady)
	if err := w.reconcileStage(ctx, rec, session, cfg.RuntimePackages, "python runtime"); err != nil {
		return fail(StageRuntimeReady, err)
	}
	pip := reconcile.NewPip(rec, cfg.VenvPath)
	if _, err := pip.Reconcile(ctx, cfg.PipPackages); err != nil {
		return fail(StageRuntimeReady, err)
	}
	w.reached(StageRuntimeReady)

	w.enter(StageBuilt)
	bld := builder.New(w.Runner, w.Printer, cfg.DriverRepo, cfg.SourceDir, cfg.InstallDir, cfg.BinaryName)
	bld.DryRun = w.DryRun
	var artifact string
	if w.FromRelease && cfg.ReleaseURL != "" {
		artifact, err = bld.InstallFromRelease(cfg.ReleaseURL)
	} else {
		artifact, err = bld.SyncAndBuild(ctx)
	}
	if err != nil {
		return fail(StageBuilt, err)
	}
	w.reached(StageBuilt)

	w.enter(StageDeviceRegistered)
	reg := usbdev.NewRegistrar(w.Runner, w.Printer, cfg.UdevRulePath, cfg.MaxAttempts, cfg.RetryInterval.Std())
	reg.DryRun = w.DryRun
	if w.Scanner != nil {
		reg.Scanner = w.Scanner
	}
	if _, err := reg.Register(ctx, cfg.DeviceFilter); err != nil {
		return fail(StageDeviceRegistered, err)
	}
	w.reached(StageDeviceRegistered)

	w.enter(StageVerified)
	if !w.DryRun {
		if err := fifo.Ensure(cfg.FIFOPath); err != nil {
			return fail(StageVerified, err)
		}
		w.Printer.Infof("capture fifo ready at %s", cfg.FIFOPath)
		if err := verify.New(w.Runner).Verify(ctx, artifact); err != nil {
			return fail(StageVerified, err)
		}
	}
	w.reached(StageVerified)

	w.reached(StageDone)
	w.Printer.Okf("setup complete: driver at %s, rule at %s, fifo at %s",
		artifact, cfg.UdevRulePath, cfg.FIFOPath)
	return nil
}

// reconcileStage runs one reconciliation pass and reports its delta.
func (w *Workflow) reconcileStage(ctx context.Context, rec *reconcile.Reconciler, session *Context, specs []config.PackageSpec, what string) error {
	w.Printer.Infof("reconciling %s (%d packages)", what, len(specs))
	report, err := rec.Reconcile(ctx, session.Manager, specs)
	if err != nil {
		return err
	}
	w.Printer.Okf("%s: %d already present, %d installed", what, len(report.Present), len(report.Installed))
	return nil
}

func desktopOrUnknown(desktop string) string {
	if desktop == "" {
		return "unknown desktop"
	}
	return desktop
}
