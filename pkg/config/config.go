// pkg/config/config.go

// Package config holds the declarative inputs of a provisioning run:
// required package sets, the driver source location, retry parameters,
// and the desktop compatibility list. Everything here is data a user
// may override from a YAML file; the compiled-in defaults describe a
// stock XREAL Air setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xrdesk/arsetup/pkg/manager"
)

// PackageSpec names a required package. The name may differ per
// manager (e.g. the gcc toolchain is the base-devel group on Arch and
// build-essential on Debian); Names carries those overrides.
type PackageSpec struct {
	Name  string                  `yaml:"name"`
	Names map[manager.Kind]string `yaml:"names,omitempty"`
}

// Resolve returns the package name to use under the given manager.
// Resolution happens before any installed/missing check.
func (s PackageSpec) Resolve(kind manager.Kind) string {
	if name, ok := s.Names[kind]; ok {
		return name
	}
	return s.Name
}

// Duration is a time.Duration that unmarshals from YAML strings like
// "2s" or "500ms".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full configuration for a provisioning run.
type Config struct {
	// SystemPackages are the build and driver dependencies installed
	// with the system package manager.
	SystemPackages []PackageSpec `yaml:"system_packages"`

	// DisplayPackages are the Wayland capture and output tools.
	DisplayPackages []PackageSpec `yaml:"display_packages"`

	// RuntimePackages are the Python interpreter and tooling.
	RuntimePackages []PackageSpec `yaml:"runtime_packages"`

	// PipPackages are installed into the virtualenv at VenvPath.
	PipPackages []string `yaml:"pip_packages"`

	// VenvPath is where the Python virtualenv lives.
	VenvPath string `yaml:"venv_path"`

	// DriverRepo is the git URL of the external USB driver.
	DriverRepo string `yaml:"driver_repo"`

	// SourceDir is where the driver source is cloned and updated.
	SourceDir string `yaml:"source_dir"`

	// InstallDir is the stable directory the built binary is copied to.
	InstallDir string `yaml:"install_dir"`

	// BinaryName is the driver binary's file name.
	BinaryName string `yaml:"binary_name"`

	// ReleaseURL optionally points at a prebuilt .tar.xz driver release
	// used instead of building from source.
	ReleaseURL string `yaml:"release_url,omitempty"`

	// UdevRulePath is where the device permission rule is written.
	UdevRulePath string `yaml:"udev_rule_path"`

	// DeviceFilter is matched case-insensitively against USB device
	// descriptions when looking for the headset.
	DeviceFilter string `yaml:"device_filter"`

	// MaxAttempts bounds the device scan retry loop.
	MaxAttempts int `yaml:"max_attempts"`

	// RetryInterval is the fixed backoff between device scans.
	RetryInterval Duration `yaml:"retry_interval"`

	// FIFOPath is the named pipe the capture pipeline writes to.
	FIFOPath string `yaml:"fifo_path"`

	// DisallowedDesktops lists desktop environments the virtual-output
	// tooling cannot drive. Compatibility data, not logic.
	DisallowedDesktops []string `yaml:"disallowed_desktops"`

	// Debug enables verbose logging.
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the stock XREAL Air provisioning inputs.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".local", "share", "arsetup")

	return &Config{
		SystemPackages: []PackageSpec{
			{Name: "git"},
			{Name: "cmake"},
			{Name: "make", Names: map[manager.Kind]string{manager.Apt: "build-essential"}},
			{Name: "gcc", Names: map[manager.Kind]string{manager.Pacman: "base-devel", manager.Apt: "build-essential"}},
			{Name: "libusb", Names: map[manager.Kind]string{manager.Apt: "libusb-1.0-0-dev"}},
			{Name: "json-c", Names: map[manager.Kind]string{manager.Apt: "libjson-c-dev"}},
			{Name: "hidapi", Names: map[manager.Kind]string{manager.Apt: "libhidapi-dev"}},
			{Name: "usbutils"},
		},
		DisplayPackages: []PackageSpec{
			{Name: "wlr-randr"},
			{Name: "wf-recorder"},
		},
		RuntimePackages: []PackageSpec{
			{Name: "python", Names: map[manager.Kind]string{manager.Apt: "python3"}},
			{Name: "python-pip", Names: map[manager.Kind]string{manager.Apt: "python3-pip"}},
			{Name: "python-venv", Names: map[manager.Kind]string{manager.Pacman: "python", manager.Apt: "python3-venv"}},
		},
		PipPackages: []string{"pygame", "pillow", "numpy"},
		VenvPath:    filepath.Join(dataDir, "venv"),

		DriverRepo: "https://github.com/abls/nrealAirLinuxDriver.git",
		SourceDir:  filepath.Join(dataDir, "nrealAirLinuxDriver"),
		InstallDir: filepath.Join(home, ".local", "bin"),
		BinaryName: "nrealAirLinuxDriver",

		UdevRulePath:  "/etc/udev/rules.d/50-xreal-air.rules",
		DeviceFilter:  "air",
		MaxAttempts:   5,
		RetryInterval: Duration(2 * time.Second),

		FIFOPath: "/tmp/screen_capture",

		// GNOME's Mutter has no wlr-output-management, so wlr-randr
		// cannot place the virtual screens there.
		DisallowedDesktops: []string{"gnome"},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "arsetup", "config.yaml")
}

// Load reads a YAML config file over the defaults. An empty path means
// the default location; a missing file at the default location is not
// an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
