// pkg/reconcile/pip.go
package reconcile

import (
	"context"
	"os"
	"path/filepath"
)

// PipReconciler brings a Python virtualenv and its packages to the
// declared state with the same check-then-install strategy as the
// system reconciler. The venv's own pip is used so nothing leaks into
// the system interpreter.
type PipReconciler struct {
	*Reconciler

	// VenvPath is the virtualenv root, created if absent.
	VenvPath string

	// Python is the interpreter used to create the venv.
	Python string
}

// NewPip returns a PipReconciler on top of a Reconciler.
func NewPip(r *Reconciler, venvPath string) *PipReconciler {
	return &PipReconciler{Reconciler: r, VenvPath: venvPath, Python: "python3"}
}

// pip returns the venv's pip path.
func (p *PipReconciler) pip() string {
	return filepath.Join(p.VenvPath, "bin", "pip")
}

// Reconcile ensures the venv exists and every pip package is
// installed. Membership is queried with "pip show"; only missing
// packages are installed, one at a time.
func (p *PipReconciler) Reconcile(ctx context.Context, packages []string) (*Report, error) {
	if err := p.ensureVenv(ctx); err != nil {
		return nil, err
	}

	report := &Report{}
	for _, name := range packages {
		if _, err := p.Runner.Run(ctx, p.pip(), "show", name); err == nil {
			report.Present = append(report.Present, name)
			p.Printer.Detailf("%s already installed", name)
			continue
		}

		if p.DryRun {
			p.Printer.Infof("would install %s into %s", name, p.VenvPath)
			report.Installed = append(report.Installed, name)
			continue
		}

		p.Printer.Infof("installing %s into venv", name)
		if _, err := p.Runner.Run(ctx, p.pip(), "install", name); err != nil {
			return report, &InstallError{Package: name, Err: err}
		}
		report.Installed = append(report.Installed, name)
	}

	return report, nil
}

// ensureVenv creates the virtualenv if its pip is not present yet.
// An existing venv is reused as-is.
func (p *PipReconciler) ensureVenv(ctx context.Context) error {
	if _, err := os.Stat(p.pip()); err == nil {
		p.Printer.Detailf("venv present at %s", p.VenvPath)
		return nil
	}

	if p.DryRun {
		p.Printer.Infof("would create venv at %s", p.VenvPath)
		return nil
	}

	p.Printer.Infof("creating venv at %s", p.VenvPath)
	if _, err := p.Runner.Run(ctx, p.Python, "-m", "venv", p.VenvPath); err != nil {
		return &InstallError{Package: "venv", Err: err}
	}
	return nil
}
