// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xrdesk/arsetup/internal/ui"
	"github.com/xrdesk/arsetup/pkg/config"
)

var (
	cfgFile string
	debug   bool
	dryRun  bool

	cfg     *config.Config
	printer *ui.Printer
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "arsetup",
	Short: "XREAL Air setup for Linux Wayland desktops",
	Long: `arsetup - XREAL Air setup for Linux Wayland desktops

Prepares a Wayland session for the XREAL Air headset: installs the OS
and Python dependencies, builds the external USB driver, grants device
access via udev, and creates the screen-capture pipe. Every step checks
actual system state first, so rerunning is always safe.`,
	Version:       "0.2.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext executes the root command under a context. The
// context carries interrupt cancellation down to every exec call.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/arsetup/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "print mutating steps without executing them")

	// Add commands
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(udevCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	printer = ui.NewPrinter()

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if debug {
		cfg.Debug = true
	}
	printer.Verbose = cfg.Debug
}
