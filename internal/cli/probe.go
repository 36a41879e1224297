// internal/cli/probe.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/xrdesk/arsetup/pkg/probe"
	"github.com/xrdesk/arsetup/pkg/shell"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Detect the session environment and print the result",
	Args:  cobra.NoArgs,
	RunE:  runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	prober := probe.New(shell.New(), cfg.DisallowedDesktops)
	session, err := prober.Probe(cmd.Context())
	if err != nil {
		printer.Failf("%v", err)
		return err
	}

	printer.Okf("display server: %s", session.DisplayServer)
	printer.Okf("desktop: %s", session.DesktopEnv)
	printer.Okf("package manager: %s", session.Manager)
	printer.Okf("sudo: available")
	return nil
}
