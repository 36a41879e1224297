// pkg/probe/probe.go

// Package probe inspects the environment a provisioning run starts in:
// caller identity, sudo availability, display server, desktop
// environment, and package manager. The result is an immutable Context
// threaded through the rest of the workflow; no later component reads
// ambient environment state.
package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/xrdesk/arsetup/pkg/manager"
	"github.com/xrdesk/arsetup/pkg/shell"
)

var (
	// ErrRunAsRoot means the tool was invoked by the superuser. The
	// workflow builds and installs as a regular user and elevates only
	// for the few steps that need it.
	ErrRunAsRoot = errors.New("must not run as root")

	// ErrPrivilege means sudo credentials could not be acquired.
	ErrPrivilege = errors.New("cannot acquire elevated privileges")

	// ErrUnsupportedPlatform means a required platform facility is
	// missing: no Wayland session, or no supported package manager.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrUnsupportedDesktop means the desktop environment cannot drive
	// the virtual-output tooling.
	ErrUnsupportedDesktop = errors.New("unsupported desktop environment")
)

// DisplayServer classifies the session's display protocol.
type DisplayServer string

const (
	// Wayland is the only supported display server.
	Wayland DisplayServer = "wayland"
	// Other covers X11 and everything else.
	Other DisplayServer = "other"
)

// Context is the capability record of the running session. Built once
// by Probe and immutable afterward.
type Context struct {
	UserIsRoot    bool
	HasSudo       bool
	DisplayServer DisplayServer
	DesktopEnv    string
	Manager       manager.Manager
}

// Prober detects the session context. The function fields exist so
// tests can simulate identities and environments; New wires the real
// ones.
type Prober struct {
	Runner  shell.Runner
	Getenv  func(string) string
	Geteuid func() int

	// Interactive reports whether stdin is a terminal; when false the
	// sudo check runs non-interactively instead of prompting.
	Interactive func() bool

	// Disallowed is the lowercase desktop environment deny list.
	Disallowed []string
}

// New returns a Prober wired to the real process environment.
func New(runner shell.Runner, disallowed []string) *Prober {
	return &Prober{
		Runner:  runner,
		Getenv:  os.Getenv,
		Geteuid: os.Geteuid,
		Interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		Disallowed: disallowed,
	}
}

// Probe builds the session Context. The identity check runs first and
// rejects a superuser caller before any other side effect. Acquiring
// sudo may prompt once; the credential is cached by sudo itself for
// the remainder of the run.
func (p *Prober) Probe(ctx context.Context) (*Context, error) {
	if p.Geteuid() == 0 {
		return nil, fmt.Errorf("%w: run arsetup as a regular user", ErrRunAsRoot)
	}

	sc := &Context{UserIsRoot: false}

	sc.DisplayServer = p.displayServer()
	if sc.DisplayServer != Wayland {
		return nil, fmt.Errorf("%w: a Wayland session is required (XDG_SESSION_TYPE=%q)",
			ErrUnsupportedPlatform, p.Getenv("XDG_SESSION_TYPE"))
	}

	sc.DesktopEnv = strings.ToLower(p.Getenv("XDG_CURRENT_DESKTOP"))
	for _, deny := range p.Disallowed {
		if sc.DesktopEnv == strings.ToLower(deny) {
			return nil, fmt.Errorf("%w: %s lacks virtual output support",
				ErrUnsupportedDesktop, sc.DesktopEnv)
		}
	}

	mgr, ok := manager.Detect(p.Runner.LookPath)
	if !ok {
		return nil, fmt.Errorf("%w: neither pacman nor apt found", ErrUnsupportedPlatform)
	}
	sc.Manager = mgr

	if err := p.elevate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrivilege, err)
	}
	sc.HasSudo = true

	return sc, nil
}

// displayServer checks the session environment for Wayland. Either a
// live WAYLAND_DISPLAY socket or a wayland session type counts.
func (p *Prober) displayServer() DisplayServer {
	if p.Getenv("WAYLAND_DISPLAY") != "" || p.Getenv("XDG_SESSION_TYPE") == "wayland" {
		return Wayland
	}
	return Other
}

// elevate validates sudo credentials once. Interactive sessions get the
// normal password prompt; non-interactive ones require cached
// credentials or NOPASSWD.
func (p *Prober) elevate(ctx context.Context) error {
	if p.Interactive() {
		return p.Runner.RunInteractive(ctx, "sudo", "-v")
	}
	_, err := p.Runner.Run(ctx, "sudo", "-n", "-v")
	return err
}
