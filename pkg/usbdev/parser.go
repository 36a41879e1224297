// pkg/usbdev/parser.go

// Package usbdev discovers the headset on the USB bus and grants it
// device-node access through a udev rule.
package usbdev

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Device is one enumerated USB device as reported by lsusb.
type Device struct {
	Bus         int
	Address     int
	VendorID    string // four lowercase hex digits
	ProductID   string // four lowercase hex digits
	Description string
}

// ID returns the vendor:product pair.
func (d Device) ID() string {
	return d.VendorID + ":" + d.ProductID
}

// Matches reports whether the device description contains the filter,
// case-insensitively.
func (d Device) Matches(filter string) bool {
	return strings.Contains(strings.ToLower(d.Description), strings.ToLower(filter))
}

// ParseLine parses one lsusb line. The grammar is fixed:
//
//	Bus <NNN> Device <NNN>: ID <vvvv>:<pppp> <description...>
//
// with space-delimited fields, a colon terminating the device number,
// and four hex digits on each side of the ID pair. The description may
// be empty.
func ParseLine(line string) (*Device, error) {
	fields := strings.Fields(line)
	if len(fields) < 6 || fields[0] != "Bus" || fields[2] != "Device" || fields[4] != "ID" {
		return nil, fmt.Errorf("malformed lsusb line: %q", line)
	}

	bus, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("bad bus number in %q: %w", line, err)
	}

	addr, err := strconv.Atoi(strings.TrimSuffix(fields[3], ":"))
	if err != nil {
		return nil, fmt.Errorf("bad device number in %q: %w", line, err)
	}

	vendor, product, ok := strings.Cut(fields[5], ":")
	if !ok || !isHex4(vendor) || !isHex4(product) {
		return nil, fmt.Errorf("bad ID pair in %q", line)
	}

	return &Device{
		Bus:         bus,
		Address:     addr,
		VendorID:    strings.ToLower(vendor),
		ProductID:   strings.ToLower(product),
		Description: strings.Join(fields[6:], " "),
	}, nil
}

// ParseOutput parses full lsusb output. Blank lines are skipped;
// a malformed line fails the whole parse.
func ParseOutput(r io.Reader) ([]Device, error) {
	var devices []Device
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		dev, err := ParseLine(line)
		if err != nil {
			return nil, err
		}
		devices = append(devices, *dev)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return devices, nil
}

func isHex4(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
