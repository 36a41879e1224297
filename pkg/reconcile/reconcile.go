// pkg/reconcile/reconcile.go

// Package reconcile compares a declared set of required packages
// against the actual installed state and installs only the delta. The
// installed check always consults the live package database, never a
// cache, so a rerun after manual installs or an interrupted run does
// exactly the remaining work.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/xrdesk/arsetup/internal/ui"
	"github.com/xrdesk/arsetup/pkg/config"
	"github.com/xrdesk/arsetup/pkg/manager"
	"github.com/xrdesk/arsetup/pkg/shell"
)

// ErrInstallFailed means a package install invocation failed.
var ErrInstallFailed = errors.New("package installation failed")

// InstallError names the package whose install failed.
type InstallError struct {
	Package string
	Err     error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("installing %s: %v", e.Package, e.Err)
}

func (e *InstallError) Unwrap() error {
	return ErrInstallFailed
}

// Report summarizes one reconciliation pass.
type Report struct {
	// Present are packages that were already installed.
	Present []string
	// Installed are packages installed by this pass, in order.
	Installed []string
}

// Reconciler installs missing packages one by one through a detected
// package manager.
type Reconciler struct {
	Runner  shell.Runner
	Printer *ui.Printer

	// DryRun reports what would be installed without installing.
	DryRun bool
}

// New returns a Reconciler.
func New(runner shell.Runner, printer *ui.Printer) *Reconciler {
	return &Reconciler{Runner: runner, Printer: printer}
}

// Reconcile brings every spec to installed state under the given
// manager. Names are resolved per manager before the installed check.
// Packages are checked and installed strictly one at a time, in order;
// the first failed install aborts with an InstallError and already
// installed packages stay installed.
func (r *Reconciler) Reconcile(ctx context.Context, mgr manager.Manager, specs []config.PackageSpec) (*Report, error) {
	report := &Report{}

	for _, spec := range specs {
		name := spec.Resolve(mgr.Kind)

		if mgr.Installed(ctx, r.Runner, name) {
			report.Present = append(report.Present, name)
			r.Printer.Detailf("%s already installed", name)
			continue
		}

		if r.DryRun {
			r.Printer.Infof("would install %s", name)
			report.Installed = append(report.Installed, name)
			continue
		}

		r.Printer.Infof("installing %s", name)
		if err := mgr.InstallPackage(ctx, r.Runner, name); err != nil {
			return report, &InstallError{Package: name, Err: err}
		}
		report.Installed = append(report.Installed, name)
	}

	return report, nil
}
