package usbdev

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// usbfs ioctl numbers for 64-bit Linux. x/sys/unix does not export the
// USBDEVFS set, so they are defined here the same way the kernel uapi
// headers lay them out.
const (
	usbdevfsControl          = 0xc0185500
	usbdevfsBulk             = 0xc0185502
	usbdevfsClaimInterface   = 0x8004550f
	usbdevfsReleaseInterface = 0x80045510
	usbdevfsReset            = 0x5514
)

// Vendor request directions.
const (
	requestTypeIn  = 0xc0 // device-to-host, vendor, device
	requestTypeOut = 0x40 // host-to-device, vendor, device
)

// ctrlTransfer mirrors struct usbdevfs_ctrltransfer.
type ctrlTransfer struct {
	bRequestType uint8
	bRequest     uint8
	wValue       uint16
	wIndex       uint16
	wLength      uint16
	timeout      uint32 // milliseconds
	_            uint32 // padding to 8-byte data alignment
	data         unsafe.Pointer
}

// bulkTransfer mirrors struct usbdevfs_bulktransfer.
type bulkTransfer struct {
	endpoint uint32
	length   uint32
	timeout  uint32 // milliseconds
	_        uint32
	data     unsafe.Pointer
}

const transferTimeoutMs = 3000

func ioctl(fd int, req uintptr, arg unsafe.Pointer) (int, error) {
	r, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return 0, errno
	}
	return int(r), nil
}

// controlRead issues a vendor IN control transfer and returns the bytes
// the device produced.
func controlRead(fd int, request uint8, value, index uint16, length int) ([]byte, error) {
	buf := make([]byte, length)
	xfer := ctrlTransfer{
		bRequestType: requestTypeIn,
		bRequest:     request,
		wValue:       value,
		wIndex:       index,
		wLength:      uint16(length),
		timeout:      transferTimeoutMs,
		data:         unsafe.Pointer(&buf[0]),
	}
	n, err := ioctl(fd, usbdevfsControl, unsafe.Pointer(&xfer))
	if err != nil {
		return nil, fmt.Errorf("control read 0x%02x: %w", request, err)
	}
	return buf[:n], nil
}

// controlWrite issues a vendor OUT control transfer with no payload.
func controlWrite(fd int, request uint8, value, index uint16) error {
	xfer := ctrlTransfer{
		bRequestType: requestTypeOut,
		bRequest:     request,
		wValue:       value,
		wIndex:       index,
		timeout:      transferTimeoutMs,
	}
	if _, err := ioctl(fd, usbdevfsControl, unsafe.Pointer(&xfer)); err != nil {
		return fmt.Errorf("control write 0x%02x: %w", request, err)
	}
	return nil
}

// bulkWrite sends data to an OUT endpoint, chunked to the usbfs
// per-transfer limit.
func bulkWrite(fd int, endpoint uint32, data []byte) error {
	const chunkSize = 16 * 1024
	for off := 0; off < len(data); off += chunkSize {
		end := off + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[off:end]
		xfer := bulkTransfer{
			endpoint: endpoint,
			length:   uint32(len(chunk)),
			timeout:  transferTimeoutMs,
			data:     unsafe.Pointer(&chunk[0]),
		}
		n, err := ioctl(fd, usbdevfsBulk, unsafe.Pointer(&xfer))
		if err != nil {
			return fmt.Errorf("bulk write to endpoint %d: %w", endpoint, err)
		}
		if n != len(chunk) {
			return fmt.Errorf("bulk write to endpoint %d: short transfer (%d of %d)", endpoint, n, len(chunk))
		}
	}
	return nil
}

func claimInterface(fd int, iface uint32) error {
	if _, err := ioctl(fd, usbdevfsClaimInterface, unsafe.Pointer(&iface)); err != nil {
		return fmt.Errorf("claiming interface %d: %w", iface, err)
	}
	return nil
}

func releaseInterface(fd int, iface uint32) error {
	_, err := ioctl(fd, usbdevfsReleaseInterface, unsafe.Pointer(&iface))
	return err
}

// portReset asks the kernel to reset the port the device is on.
func portReset(fd int) error {
	_, err := ioctl(fd, usbdevfsReset, nil)
	return err
}
