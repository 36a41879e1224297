// pkg/usbdev/registrar.go
package usbdev

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xrdesk/arsetup/internal/ui"
	"github.com/xrdesk/arsetup/pkg/shell"
)

// ErrDeviceNotFound means the headset never showed up on the bus
// within the bounded retry budget.
var ErrDeviceNotFound = errors.New("device not found")

// Scanner enumerates USB devices. The live implementation shells out
// to lsusb; tests substitute canned scans.
type Scanner interface {
	Scan(ctx context.Context) ([]Device, error)
}

// LsusbScanner enumerates devices via lsusb.
type LsusbScanner struct {
	Runner shell.Runner
}

// Scan runs lsusb and parses its output.
func (s *LsusbScanner) Scan(ctx context.Context) ([]Device, error) {
	out, err := s.Runner.Run(ctx, "lsusb")
	if err != nil {
		return nil, err
	}
	return ParseOutput(strings.NewReader(out))
}

// Registrar finds the headset and writes its udev permission rule.
type Registrar struct {
	Scanner Scanner
	Runner  shell.Runner
	Printer *ui.Printer

	// RulePath is the rules file, overwritten on every registration.
	RulePath string
	// MaxAttempts bounds the scan retry loop.
	MaxAttempts int
	// Interval is the fixed backoff between scans.
	Interval time.Duration

	// Sleep waits between attempts; injectable for tests.
	Sleep func(ctx context.Context, d time.Duration) error

	// DryRun reports the rule without writing it.
	DryRun bool
}

// NewRegistrar returns a Registrar scanning with lsusb.
func NewRegistrar(runner shell.Runner, printer *ui.Printer, rulePath string, maxAttempts int, interval time.Duration) *Registrar {
	return &Registrar{
		Scanner:     &LsusbScanner{Runner: runner},
		Runner:      runner,
		Printer:     printer,
		RulePath:    rulePath,
		MaxAttempts: maxAttempts,
		Interval:    interval,
		Sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Register scans for a device whose description matches the filter,
// retrying up to MaxAttempts with a fixed backoff, then writes the
// udev rule for the first match and reloads udev. No rule file is
// touched unless a device was found. A physical replug is still the
// surest way to get the node re-created under the new rule.
func (r *Registrar) Register(ctx context.Context, filter string) (*Rule, error) {
	dev, err := r.find(ctx, filter)
	if err != nil {
		return nil, err
	}

	r.Printer.Infof("found %s (%s)", dev.Description, dev.ID())
	rule := &Rule{VendorID: dev.VendorID, ProductID: dev.ProductID}

	if r.DryRun {
		r.Printer.Infof("would write %s: %s", r.RulePath, rule.Line())
		return rule, nil
	}

	if err := r.writeRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("writing udev rule: %w", err)
	}
	if err := r.reload(ctx); err != nil {
		return nil, fmt.Errorf("reloading udev: %w", err)
	}

	r.Printer.Okf("udev rule written to %s", r.RulePath)
	r.Printer.Warnf("replug the headset so the node is re-created under the new rule")
	return rule, nil
}

// find retries the scan up to MaxAttempts and returns the first match.
func (r *Registrar) find(ctx context.Context, filter string) (*Device, error) {
	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		devices, err := r.Scanner.Scan(ctx)
		if err == nil {
			for i := range devices {
				if devices[i].Matches(filter) {
					return &devices[i], nil
				}
			}
		}

		if attempt == r.MaxAttempts {
			break
		}
		r.Printer.Infof("device %q not found, retrying (%d/%d)", filter, attempt, r.MaxAttempts)
		if err := r.Sleep(ctx, r.Interval); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: no USB device matching %q after %d attempts",
		ErrDeviceNotFound, filter, r.MaxAttempts)
}

// writeRule overwrites the rules file through sudo tee, since the
// rules directory is root-owned.
func (r *Registrar) writeRule(ctx context.Context, rule *Rule) error {
	_, err := r.Runner.RunInput(ctx, rule.Line()+"\n", "sudo", "tee", r.RulePath)
	return err
}

// reload asks udev to re-read rules and re-evaluate devices.
func (r *Registrar) reload(ctx context.Context) error {
	if _, err := r.Runner.Run(ctx, "sudo", "udevadm", "control", "--reload-rules"); err != nil {
		return err
	}
	_, err := r.Runner.Run(ctx, "sudo", "udevadm", "trigger")
	return err
}
