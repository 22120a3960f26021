package usbdev

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/allbin/pandad"
)

// Flash memory layout of the supported MCU families. The bootstub
// lives at the start of flash; the application starts at the first
// sector boundary after it.
const (
	flashBase = 0x08000000

	appOffsetF4 = 0x4000
	appOffsetH7 = 0x20000
)

// RecoverDFU programs the bootstub and application onto a board stuck
// in the ST system bootloader, using the dfu-util utility (the same
// shell-out approach as the usbreset fallback). The handle is a
// "bus:dev" address from ListDFU.
func (d *Driver) RecoverDFU(handle string) error {
	if _, err := exec.LookPath("dfu-util"); err != nil {
		return pandad.ErrDFUUtilNotAvailable
	}

	bus, devNum, ok := strings.Cut(handle, ":")
	if !ok {
		return fmt.Errorf("malformed DFU handle %q", handle)
	}

	appOffset := uint32(appOffsetF4)
	if d.dfuMcu == pandad.McuH7 {
		appOffset = appOffsetH7
	}
	bootstubPath := d.fw.BootstubPath(d.dfuMcu)
	appPath := d.fw.ImagePath(d.dfuMcu)

	// Bootstub first; the app download ends with :leave so the board
	// reboots out of DFU mode.
	if err := d.dfuDownload(bus, devNum, flashBase, bootstubPath, false); err != nil {
		return fmt.Errorf("programming bootstub: %w", err)
	}
	if err := d.dfuDownload(bus, devNum, flashBase+appOffset, appPath, true); err != nil {
		return fmt.Errorf("programming application: %w", err)
	}
	return nil
}

func (d *Driver) dfuDownload(bus, devNum string, address uint32, image string, leave bool) error {
	addr := fmt.Sprintf("0x%08X", address)
	if leave {
		addr += ":leave"
	}
	cmd := exec.Command("dfu-util",
		"--device", fmt.Sprintf("%04x:%04x", dfuVendorID, dfuProductID),
		"--path", bus+"-"+devNum,
		"--alt", "0",
		"--dfuse-address", addr,
		"--download", image,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("dfu-util failed: %w (output: %s)", err, string(output))
	}
	return nil
}
