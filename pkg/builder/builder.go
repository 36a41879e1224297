// pkg/builder/builder.go

// Package builder syncs the external driver source and produces the
// installed driver binary at a stable path. The source checkout is
// updated in place across runs; the build is out-of-source so an
// update never clobbers previous build state, and a failed build tree
// is left behind for inspection.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/xrdesk/arsetup/internal/ui"
	"github.com/xrdesk/arsetup/pkg/shell"
)

// ErrBuildFailed means a clone, update, compile, or artifact install
// step failed.
var ErrBuildFailed = errors.New("driver build failed")

// buildSubdir is the out-of-source build directory inside the checkout.
const buildSubdir = "build"

// Builder clones/updates and builds the driver repository.
type Builder struct {
	Runner  shell.Runner
	Printer *ui.Printer

	// RepoURL is the driver's git remote.
	RepoURL string
	// SourceDir is the local checkout path.
	SourceDir string
	// InstallDir receives the built binary.
	InstallDir string
	// BinaryName is the artifact's file name.
	BinaryName string

	// Jobs is the compile parallelism; 0 means all cores.
	Jobs int

	// DryRun prints the steps without executing them.
	DryRun bool
}

// New returns a Builder.
func New(runner shell.Runner, printer *ui.Printer, repoURL, sourceDir, installDir, binaryName string) *Builder {
	return &Builder{
		Runner:     runner,
		Printer:    printer,
		RepoURL:    repoURL,
		SourceDir:  sourceDir,
		InstallDir: installDir,
		BinaryName: binaryName,
	}
}

// ArtifactPath is the stable path downstream consumers load the
// driver from, independent of repository layout.
func (b *Builder) ArtifactPath() string {
	return filepath.Join(b.InstallDir, b.BinaryName)
}

// SyncAndBuild updates or clones the source, compiles it, and installs
// the binary. Returns the installed artifact path.
func (b *Builder) SyncAndBuild(ctx context.Context) (string, error) {
	if err := b.sync(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	if err := b.build(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	if b.DryRun {
		return b.ArtifactPath(), nil
	}
	path, err := b.install()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	return path, nil
}

// sync brings the checkout up to date. An existing checkout is pulled
// in place, never deleted or re-cloned, so its build directory
// survives; a missing one is cloned recursively.
func (b *Builder) sync(ctx context.Context) error {
	if _, err := os.Stat(b.SourceDir); err == nil {
		b.Printer.Infof("updating driver source in %s", b.SourceDir)
		if b.DryRun {
			return nil
		}
		if _, err := b.Runner.Run(ctx, "git", "-C", b.SourceDir, "pull"); err != nil {
			return err
		}
		_, err := b.Runner.Run(ctx, "git", "-C", b.SourceDir, "submodule", "update", "--init", "--recursive")
		return err
	}

	b.Printer.Infof("cloning %s", b.RepoURL)
	if b.DryRun {
		return nil
	}
	_, err := b.Runner.Run(ctx, "git", "clone", "--recursive", b.RepoURL, b.SourceDir)
	return err
}

// build runs the out-of-source configure and parallel compile. The
// compile fans out to all cores but is observed as a single blocking
// step with one aggregate outcome.
func (b *Builder) build(ctx context.Context) error {
	jobs := b.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	buildDir := filepath.Join(b.SourceDir, buildSubdir)
	b.Printer.Infof("building driver with %d jobs", jobs)
	if b.DryRun {
		return nil
	}

	if _, err := b.Runner.Run(ctx, "cmake", "-S", b.SourceDir, "-B", buildDir); err != nil {
		return err
	}
	_, err := b.Runner.Run(ctx, "make", "-C", buildDir, "-j"+strconv.Itoa(jobs))
	return err
}

// install copies the built binary to the stable install path,
// overwriting any previous artifact.
func (b *Builder) install() (string, error) {
	built := filepath.Join(b.SourceDir, buildSubdir, b.BinaryName)
	dest := b.ArtifactPath()

	if err := os.MkdirAll(b.InstallDir, 0o755); err != nil {
		return "", err
	}
	if err := copyFile(built, dest); err != nil {
		return "", err
	}
	if err := os.Chmod(dest, 0o755); err != nil {
		return "", err
	}

	b.Printer.Okf("driver installed at %s", dest)
	return dest, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
