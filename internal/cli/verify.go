// internal/cli/verify.go
package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xrdesk/arsetup/pkg/shell"
	"github.com/xrdesk/arsetup/pkg/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the installed driver binary",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	binary := filepath.Join(cfg.InstallDir, cfg.BinaryName)

	if err := verify.New(shell.New()).Verify(cmd.Context(), binary); err != nil {
		printer.Failf("%v", err)
		return err
	}
	printer.Okf("driver at %s responds to --help", binary)
	return nil
}
