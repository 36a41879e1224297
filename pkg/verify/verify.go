// pkg/verify/verify.go

// Package verify runs the installed driver's self-check. It is the
// terminal, human-in-the-loop stage: a failure here gets reported with
// manual-retry guidance, never remediated automatically.
package verify

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/xrdesk/arsetup/pkg/shell"
)

// ErrVerifyFailed means the driver self-check did not pass.
var ErrVerifyFailed = errors.New("driver verification failed")

// Verifier checks an installed binary.
type Verifier struct {
	Runner shell.Runner
}

// New returns a Verifier.
func New(runner shell.Runner) *Verifier {
	return &Verifier{Runner: runner}
}

// Verify invokes the binary's help output and judges solely by exit
// status: exit 0 means installed correctly.
func (v *Verifier) Verify(ctx context.Context, binaryPath string) error {
	if _, err := os.Stat(binaryPath); err != nil {
		return fmt.Errorf("%w: binary missing at %s; rerun arsetup build", ErrVerifyFailed, binaryPath)
	}

	if _, err := v.Runner.Run(ctx, binaryPath, "--help"); err != nil {
		return fmt.Errorf("%w: self-check failed (%v); rerun arsetup build or inspect the binary manually", ErrVerifyFailed, err)
	}
	return nil
}
