// Package usbdev is the Linux implementation of the pandad board
// driver. Boards are enumerated through sysfs and driven through the
// usbfs character devices; DFU-mode programming and last-resort resets
// shell out to the dfu-util and usbreset utilities from the host.
package usbdev

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/allbin/pandad"
)

// USB identities of the supported boards.
const (
	boardVendorID   = 0xbbaa
	productApp      = 0xddcc // running application firmware
	productBootstub = 0xddee // running the recovery bootstub

	dfuVendorID  = 0x0483 // ST system bootloader
	dfuProductID = 0xdf11
)

// Driver enumerates and opens boards over sysfs and usbfs.
type Driver struct {
	fw  *pandad.FirmwareResolver
	log *slog.Logger

	// Overridable roots so tests can run against a fake tree.
	sysfsRoot string
	devRoot   string

	// MCU family assumed for boards found in DFU mode; a board that far
	// gone cannot report its own type.
	dfuMcu pandad.McuType

	sleep func(time.Duration)
}

// NewDriver returns a driver flashing images resolved by fw.
func NewDriver(fw *pandad.FirmwareResolver, log *slog.Logger) *Driver {
	return &Driver{
		fw:        fw,
		log:       log,
		sysfsRoot: "/sys/bus/usb/devices",
		devRoot:   "/dev/bus/usb",
		dfuMcu:    pandad.McuF4,
		sleep:     time.Sleep,
	}
}

// SetDFUMcu sets the MCU family assumed when programming DFU-mode
// boards.
func (d *Driver) SetDFUMcu(mcu pandad.McuType) { d.dfuMcu = mcu }

// ListNormal returns the serials of boards enumerable in app or
// bootstub mode, sorted for consistent ordering.
func (d *Driver) ListNormal() ([]string, error) {
	nodes, err := d.scan()
	if err != nil {
		return nil, err
	}
	var serials []string
	for _, n := range nodes {
		if n.vendor == boardVendorID && n.serial != "" {
			serials = append(serials, n.serial)
		}
	}
	sort.Strings(serials)
	return serials, nil
}

// ListDFU returns handles for boards stuck in the ST system bootloader.
// The handle is the bus/device address, since DFU mode reports the chip
// UID rather than the board serial.
func (d *Driver) ListDFU() ([]string, error) {
	nodes, err := d.scan()
	if err != nil {
		return nil, err
	}
	var handles []string
	for _, n := range nodes {
		if n.vendor == dfuVendorID && n.product == dfuProductID {
			handles = append(handles, fmt.Sprintf("%03d:%03d", n.bus, n.dev))
		}
	}
	sort.Strings(handles)
	return handles, nil
}

// Open opens the board with the given serial.
func (d *Driver) Open(serial string) (pandad.Device, error) {
	node, err := d.findBySerial(serial)
	if err != nil {
		return nil, err
	}
	return d.openNode(node)
}

func (d *Driver) findBySerial(serial string) (devNode, error) {
	nodes, err := d.scan()
	if err != nil {
		return devNode{}, err
	}
	for _, n := range nodes {
		if n.vendor == boardVendorID && n.serial == serial {
			return n, nil
		}
	}
	return devNode{}, fmt.Errorf("board %s: %w", serial, pandad.ErrBoardNotFound)
}
