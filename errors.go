// errors.go
package arsetup

import (
	"fmt"

	"github.com/xrdesk/arsetup/pkg/builder"
	"github.com/xrdesk/arsetup/pkg/probe"
	"github.com/xrdesk/arsetup/pkg/reconcile"
	"github.com/xrdesk/arsetup/pkg/usbdev"
	"github.com/xrdesk/arsetup/pkg/verify"
)

// Re-export the component error kinds so callers can match any failure
// with a single import.
var (
	// ErrRunAsRoot indicates the tool was invoked by the superuser.
	ErrRunAsRoot = probe.ErrRunAsRoot

	// ErrPrivilege indicates sudo credentials could not be acquired.
	ErrPrivilege = probe.ErrPrivilege

	// ErrUnsupportedPlatform indicates a missing platform facility
	// (no Wayland session or no supported package manager).
	ErrUnsupportedPlatform = probe.ErrUnsupportedPlatform

	// ErrUnsupportedDesktop indicates a desktop environment in the
	// disallowed set.
	ErrUnsupportedDesktop = probe.ErrUnsupportedDesktop

	// ErrInstallFailed indicates a package install invocation failed.
	ErrInstallFailed = reconcile.ErrInstallFailed

	// ErrBuildFailed indicates a clone, build, or artifact install failure.
	ErrBuildFailed = builder.ErrBuildFailed

	// ErrDeviceNotFound indicates the bounded device scan was exhausted.
	ErrDeviceNotFound = usbdev.ErrDeviceNotFound

	// ErrVerifyFailed indicates the driver self-check failed.
	ErrVerifyFailed = verify.ErrVerifyFailed
)

// Error wraps a component failure with the workflow stage that was
// being entered when it happened.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
