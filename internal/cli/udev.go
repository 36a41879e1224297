// internal/cli/udev.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/xrdesk/arsetup/pkg/shell"
	"github.com/xrdesk/arsetup/pkg/usbdev"
)

var (
	udevFilter   string
	udevAttempts int
)

var udevCmd = &cobra.Command{
	Use:   "udev",
	Short: "Find the headset and write its udev permission rule",
	Long: `Scan the USB bus for the headset, retrying with a fixed backoff,
then write the permission rule and reload udev. Replug the headset
afterwards so the device node is re-created under the new rule.`,
	Args: cobra.NoArgs,
	RunE: runUdev,
}

func init() {
	udevCmd.Flags().StringVar(&udevFilter, "filter", "", "device description filter (default from config)")
	udevCmd.Flags().IntVar(&udevAttempts, "attempts", 0, "max scan attempts (default from config)")
}

func runUdev(cmd *cobra.Command, args []string) error {
	filter := cfg.DeviceFilter
	if udevFilter != "" {
		filter = udevFilter
	}
	attempts := cfg.MaxAttempts
	if udevAttempts > 0 {
		attempts = udevAttempts
	}

	reg := usbdev.NewRegistrar(shell.New(), printer, cfg.UdevRulePath, attempts, cfg.RetryInterval.Std())
	reg.DryRun = dryRun

	if _, err := reg.Register(cmd.Context(), filter); err != nil {
		printer.Failf("%v", err)
		return err
	}
	return nil
}
