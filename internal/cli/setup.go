// internal/cli/setup.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/xrdesk/arsetup"
)

var setupFromRelease bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run the full provisioning workflow",
	Long: `Run the full provisioning chain: probe the environment, reconcile
system, display, and Python dependencies, build and install the USB
driver, register the headset with udev, create the capture pipe, and
verify the result.

Examples:
  arsetup setup
  arsetup setup --dry-run
  arsetup setup --from-release`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVar(&setupFromRelease, "from-release", false, "install the driver from the configured release tarball instead of building")
}

func runSetup(cmd *cobra.Command, args []string) error {
	w := arsetup.NewWorkflow(cfg, printer)
	w.DryRun = dryRun
	w.FromRelease = setupFromRelease

	if err := w.Run(cmd.Context()); err != nil {
		printer.Failf("%v", err)
		return err
	}
	return nil
}
