package usbdev

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/allbin/pandad"
	"golang.org/x/sys/unix"
)

// Vendor control requests understood by the board firmware and
// bootstub.
const (
	reqHardwareType uint8 = 0xc1
	reqHealth       uint8 = 0xd2
	reqSignatureLo  uint8 = 0xd3 // first half of the signature
	reqSignatureHi  uint8 = 0xd4 // second half
	reqVersion      uint8 = 0xd6
	reqSystemReset  uint8 = 0xd8

	reqFlashErase uint8 = 0xb1 // bootstub only: erase the app sectors
)

// wValue arguments for reqSystemReset.
const (
	resetToApp uint16 = iota
	resetToBootstub
	resetToDFU
)

// flashEndpoint is the bulk OUT endpoint the bootstub accepts firmware
// on.
const flashEndpoint = 2

// reEnumerateAttempts bounds how long open/flash waits for a board to
// come back after a reset, at one poll per second.
const reEnumerateAttempts = 15

type device struct {
	drv      *Driver
	fd       int
	node     devNode
	bootstub bool
	closed   bool
}

func (d *Driver) openNode(node devNode) (*device, error) {
	path := filepath.Join(d.devRoot, fmt.Sprintf("%03d", node.bus), fmt.Sprintf("%03d", node.dev))
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := claimInterface(fd, 0); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &device{
		drv:      d,
		fd:       fd,
		node:     node,
		bootstub: node.bootstub(),
	}, nil
}

func (dev *device) Serial() string { return dev.node.serial }

func (dev *device) Bootstub() bool { return dev.bootstub }

func (dev *device) HardwareType() (pandad.HardwareType, error) {
	if dev.closed {
		return pandad.HardwareUnknown, pandad.ErrDeviceClosed
	}
	buf, err := controlRead(dev.fd, reqHardwareType, 0, 0, 1)
	if err != nil {
		return pandad.HardwareUnknown, err
	}
	if len(buf) < 1 {
		return pandad.HardwareUnknown, fmt.Errorf("hardware type: empty response")
	}
	return pandad.HardwareType(buf[0]), nil
}

// McuType derives the MCU family from the hardware variant: the red
// board generation moved to the H7 family, everything earlier is F4.
func (dev *device) McuType() (pandad.McuType, error) {
	hw, err := dev.HardwareType()
	if err != nil {
		return pandad.McuF4, err
	}
	if hw == pandad.HardwareRed {
		return pandad.McuH7, nil
	}
	return pandad.McuF4, nil
}

func (dev *device) Version() (string, error) {
	if dev.closed {
		return "", pandad.ErrDeviceClosed
	}
	buf, err := controlRead(dev.fd, reqVersion, 0, 0, 64)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf, "\x00")), nil
}

func (dev *device) Signature() ([]byte, error) {
	if dev.closed {
		return nil, pandad.ErrDeviceClosed
	}
	lo, err := controlRead(dev.fd, reqSignatureLo, 0, 0, 64)
	if err != nil {
		return nil, err
	}
	hi, err := controlRead(dev.fd, reqSignatureHi, 0, 0, 64)
	if err != nil {
		return nil, err
	}
	return append(lo, hi...), nil
}

// healthPacket is the wire layout of the health record, little endian.
type healthPacket struct {
	Uptime        uint32
	Voltage       uint32
	Current       uint32
	FaultStatus   uint8
	HeartbeatLost uint8
}

func (dev *device) Health() (pandad.Health, error) {
	if dev.closed {
		return pandad.Health{}, pandad.ErrDeviceClosed
	}
	buf, err := controlRead(dev.fd, reqHealth, 0, 0, int(binary.Size(healthPacket{})))
	if err != nil {
		return pandad.Health{}, err
	}
	var pkt healthPacket
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &pkt); err != nil {
		return pandad.Health{}, fmt.Errorf("decoding health packet: %w", err)
	}
	return pandad.Health{
		Uptime:        pkt.Uptime,
		Voltage:       pkt.Voltage,
		Current:       pkt.Current,
		FaultStatus:   pkt.FaultStatus,
		HeartbeatLost: pkt.HeartbeatLost != 0,
	}, nil
}

// Flash writes the firmware image for this board's MCU family. If the
// board is running application firmware it is first reset into the
// bootstub, which accepts the image over the flash endpoint.
func (dev *device) Flash() error {
	if dev.closed {
		return pandad.ErrDeviceClosed
	}
	mcu, err := dev.McuType()
	if err != nil {
		return err
	}
	image, err := os.ReadFile(dev.drv.fw.ImagePath(mcu))
	if err != nil {
		return fmt.Errorf("reading firmware image: %w", err)
	}

	if !dev.bootstub {
		if err := controlWrite(dev.fd, reqSystemReset, resetToBootstub, 0); err != nil {
			return err
		}
		if err := dev.reopen(); err != nil {
			return err
		}
		if !dev.bootstub {
			return fmt.Errorf("board %s did not enter bootstub", dev.node.serial)
		}
	}

	if err := controlWrite(dev.fd, reqFlashErase, 0, 0); err != nil {
		return err
	}
	if err := bulkWrite(dev.fd, flashEndpoint, image); err != nil {
		return err
	}
	if err := controlWrite(dev.fd, reqSystemReset, resetToApp, 0); err != nil {
		return err
	}
	return dev.reopen()
}

// Recover resets the board into DFU mode and programs the development
// bootloader plus application there, then waits for it to come back.
func (dev *device) Recover() error {
	if dev.closed {
		return pandad.ErrDeviceClosed
	}
	if err := controlWrite(dev.fd, reqSystemReset, resetToDFU, 0); err != nil {
		return err
	}
	dev.release()

	var handles []string
	for i := 0; i < reEnumerateAttempts; i++ {
		dev.drv.sleep(time.Second)
		var err error
		if handles, err = dev.drv.ListDFU(); err != nil {
			return err
		}
		if len(handles) > 0 {
			break
		}
	}
	if len(handles) == 0 {
		return fmt.Errorf("board %s never appeared in DFU mode", dev.node.serial)
	}
	if err := dev.drv.RecoverDFU(handles[0]); err != nil {
		return err
	}
	return dev.reopen()
}

// Reset issues a hardware reset. The handle stays usable only until the
// board drops off the bus, so callers close it right after.
func (dev *device) Reset() error {
	if dev.closed {
		return pandad.ErrDeviceClosed
	}
	if err := controlWrite(dev.fd, reqSystemReset, resetToApp, 0); err != nil {
		// The control path may be wedged; fall back to a port-level
		// reset, then to the usbreset utility.
		if perr := portReset(dev.fd); perr != nil {
			return dev.drv.resetByAddress(dev.node.bus, dev.node.dev)
		}
	}
	return nil
}

func (dev *device) Close() error {
	if dev.closed {
		return nil
	}
	dev.release()
	return nil
}

func (dev *device) release() {
	releaseInterface(dev.fd, 0)
	unix.Close(dev.fd)
	dev.closed = true
}

// reopen waits for the board to re-enumerate under its serial after a
// reset and swaps the underlying handle, refreshing the bootstub state.
func (dev *device) reopen() error {
	dev.release()

	var node devNode
	found := false
	for i := 0; i < reEnumerateAttempts; i++ {
		dev.drv.sleep(time.Second)
		n, err := dev.drv.findBySerial(dev.node.serial)
		if err == nil {
			node, found = n, true
			break
		}
	}
	if !found {
		return fmt.Errorf("board %s did not re-enumerate", dev.node.serial)
	}

	fresh, err := dev.drv.openNode(node)
	if err != nil {
		return err
	}
	*dev = *fresh
	return nil
}
