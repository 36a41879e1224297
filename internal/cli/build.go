// internal/cli/build.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xrdesk/arsetup/pkg/builder"
	"github.com/xrdesk/arsetup/pkg/shell"
)

var buildFromRelease bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Sync and build the USB driver",
	Long: `Clone or update the driver source, build it out-of-source, and
install the binary to its stable path. With --from-release, download
the configured prebuilt tarball instead.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().BoolVar(&buildFromRelease, "from-release", false, "install from the configured release tarball instead of building")
}

func runBuild(cmd *cobra.Command, args []string) error {
	b := builder.New(shell.New(), printer, cfg.DriverRepo, cfg.SourceDir, cfg.InstallDir, cfg.BinaryName)
	b.DryRun = dryRun

	var err error
	if buildFromRelease {
		if cfg.ReleaseURL == "" {
			err = fmt.Errorf("no release_url configured")
		} else {
			_, err = b.InstallFromRelease(cfg.ReleaseURL)
		}
	} else {
		_, err = b.SyncAndBuild(cmd.Context())
	}
	if err != nil {
		printer.Failf("%v", err)
		return err
	}
	return nil
}
