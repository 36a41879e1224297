// pkg/usbdev/parser_test.go
package usbdev

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	dev, err := ParseLine("Bus 003 Device 007: ID 3318:0424 MCS XREAL Air")
	require.NoError(t, err)
	assert.Equal(t, 3, dev.Bus)
	assert.Equal(t, 7, dev.Address)
	assert.Equal(t, "3318", dev.VendorID)
	assert.Equal(t, "0424", dev.ProductID)
	assert.Equal(t, "MCS XREAL Air", dev.Description)
	assert.Equal(t, "3318:0424", dev.ID())
}

func TestParseLineUppercaseHex(t *testing.T) {
	dev, err := ParseLine("Bus 001 Device 002: ID 04B4:00F1 Cypress Semiconductor")
	require.NoError(t, err)
	assert.Equal(t, "04b4", dev.VendorID)
	assert.Equal(t, "00f1", dev.ProductID)
}

func TestParseLineEmptyDescription(t *testing.T) {
	dev, err := ParseLine("Bus 002 Device 003: ID abcd:1234")
	require.NoError(t, err)
	assert.Equal(t, "", dev.Description)
}

func TestParseLineMalformed(t *testing.T) {
	cases := []string{
		"",
		"garbage",
		"Bus 001 Device 002: 3318:0424 no ID keyword",
		"Bus 001 Device 002: ID 33180424 missing colon",
		"Bus 001 Device 002: ID zz18:0424 bad hex",
		"Bus 001 Device 002: ID 318:0424 short vendor",
		"Bus xx Device 002: ID 3318:0424 bad bus",
		"Bus 001 Device yy: ID 3318:0424 bad address",
	}
	for _, line := range cases {
		_, err := ParseLine(line)
		assert.Error(t, err, "line %q", line)
	}
}

func TestParseOutput(t *testing.T) {
	out := `Bus 001 Device 001: ID 1d6b:0002 Linux Foundation 2.0 root hub
Bus 003 Device 007: ID 3318:0424 MCS XREAL Air

Bus 001 Device 004: ID 8087:0026 Intel Corp. AX201 Bluetooth
`
	devices, err := ParseOutput(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, devices, 3)
	assert.Equal(t, "1d6b", devices[0].VendorID)
	assert.Equal(t, "MCS XREAL Air", devices[1].Description)
}

func TestParseOutputMalformedLineFails(t *testing.T) {
	_, err := ParseOutput(strings.NewReader("Bus 001 Device 001: ID 1d6b:0002 hub\nnot a device line\n"))
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	dev := Device{Description: "MCS XREAL Air"}
	assert.True(t, dev.Matches("air"))
	assert.True(t, dev.Matches("XREAL"))
	assert.True(t, dev.Matches("xreal air"))
	assert.False(t, dev.Matches("quest"))
}
