// pkg/manager/manager.go

// Package manager models the system package managers arsetup knows how
// to drive. The set is closed: pacman and apt. Each manager carries its
// query and install invocations as data, so adding a third manager is a
// matter of declaring another value, not another branch.
package manager

import (
	"context"

	"github.com/xrdesk/arsetup/pkg/shell"
)

// Kind identifies a supported package manager.
type Kind string

const (
	// Pacman is the Arch Linux package manager.
	Pacman Kind = "pacman"
	// Apt is the Debian/Ubuntu package manager.
	Apt Kind = "apt"
	// Unsupported means no known manager was found.
	Unsupported Kind = "unsupported"
)

// Manager is one package manager with its command templates. The query
// argv asks the real package database whether a single package is
// installed; the install argv installs a single package without
// prompting. The package name is appended to either template.
type Manager struct {
	Kind    Kind
	Query   []string
	Install []string
}

var (
	pacman = Manager{
		Kind:    Pacman,
		Query:   []string{"pacman", "-Q"},
		Install: []string{"sudo", "pacman", "-S", "--needed", "--noconfirm"},
	}

	apt = Manager{
		Kind:    Apt,
		Query:   []string{"dpkg-query", "-W"},
		Install: []string{"sudo", "apt-get", "install", "-y"},
	}
)

// ByKind returns the manager for a kind.
func ByKind(kind Kind) (Manager, bool) {
	switch kind {
	case Pacman:
		return pacman, true
	case Apt:
		return apt, true
	default:
		return Manager{}, false
	}
}

// Detect finds the first supported package manager present in PATH.
// Pacman wins over apt when both are present (apt exists on some Arch
// derivatives as a wrapper).
func Detect(lookPath func(string) (string, error)) (Manager, bool) {
	if _, err := lookPath("pacman"); err == nil {
		return pacman, true
	}
	if _, err := lookPath("apt-get"); err == nil {
		return apt, true
	}
	return Manager{Kind: Unsupported}, false
}

// Installed reports whether the package is present according to the
// manager's own database. The database is consulted on every call;
// nothing is cached, so the answer tracks external state.
func (m Manager) Installed(ctx context.Context, runner shell.Runner, pkg string) bool {
	argv := append(append([]string{}, m.Query...), pkg)
	_, err := runner.Run(ctx, argv[0], argv[1:]...)
	return err == nil
}

// InstallPackage installs one package non-interactively.
func (m Manager) InstallPackage(ctx context.Context, runner shell.Runner, pkg string) error {
	argv := append(append([]string{}, m.Install...), pkg)
	_, err := runner.Run(ctx, argv[0], argv[1:]...)
	return err
}

// String returns the manager kind name.
func (m Manager) String() string {
	return string(m.Kind)
}
