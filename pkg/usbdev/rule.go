// pkg/usbdev/rule.go
package usbdev

import "fmt"

// Rule is a udev permission record for one (vendor, product) pair.
// Mode 0666 opens the device node to any session; restricting to a
// group would need session/group management this tool stays out of.
type Rule struct {
	VendorID  string
	ProductID string
}

// Line renders the exact rule text udev consumes.
func (r Rule) Line() string {
	return fmt.Sprintf(`SUBSYSTEM=="usb", ATTR{idVendor}=="%s", ATTR{idProduct}=="%s", MODE="0666"`,
		r.VendorID, r.ProductID)
}
