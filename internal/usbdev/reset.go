package usbdev

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/allbin/pandad"
)

// ResetBySerial performs a USB-level reset of the board with the given
// serial. This can recover hardware that is hung or unresponsive
// without physically unplugging it.
//
// Requires the usbreset utility (from usbutils) and permissions to
// reset USB devices, typically root.
func (d *Driver) ResetBySerial(serial string) error {
	node, err := d.findBySerial(serial)
	if err != nil {
		return err
	}
	return d.resetByAddress(node.bus, node.dev)
}

// resetByAddress invokes usbreset on a bus/device address.
func (d *Driver) resetByAddress(bus, dev int) error {
	if !IsUSBResetAvailable() {
		return pandad.ErrUSBResetNotAvailable
	}

	// usbreset expects zero-padded 3-digit bus and device numbers.
	usbPath := fmt.Sprintf("%03d/%03d", bus, dev)
	cmd := exec.Command("usbreset", usbPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("usbreset failed: %w (output: %s)", err, string(output))
	}

	// Give the device time to re-enumerate before anyone reopens it.
	d.sleep(2 * time.Second)
	return nil
}

// IsUSBResetAvailable checks if the usbreset utility is available in
// PATH.
func IsUSBResetAvailable() bool {
	_, err := exec.LookPath("usbreset")
	return err == nil
}
