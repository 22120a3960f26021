package pandad

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Firmware image filenames under the firmware directory. The H7 family
// has its own image; every other MCU uses the default one.
const (
	DefaultFirmwareFile = "panda.bin.signed"
	H7FirmwareFile      = "panda_h7.bin.signed"

	DefaultBootstubFile = "bootstub.panda.bin"
	H7BootstubFile      = "bootstub.panda_h7.bin"
)

// signatureLength is the size of the signature block at the tail of a
// signed firmware image.
const signatureLength = 128

// FirmwareResolver selects the firmware image for an MCU family and
// extracts the signature embedded in it.
type FirmwareResolver struct {
	dir string
	log *slog.Logger
}

// NewFirmwareResolver returns a resolver reading images from dir.
func NewFirmwareResolver(dir string, log *slog.Logger) *FirmwareResolver {
	return &FirmwareResolver{dir: dir, log: log}
}

// ImagePath returns the on-disk path of the image for the given MCU
// family.
func (r *FirmwareResolver) ImagePath(mcu McuType) string {
	name := DefaultFirmwareFile
	if mcu == McuH7 {
		name = H7FirmwareFile
	}
	return filepath.Join(r.dir, name)
}

// BootstubPath returns the on-disk path of the bootstub image for the
// given MCU family.
func (r *FirmwareResolver) BootstubPath(mcu McuType) string {
	name := DefaultBootstubFile
	if mcu == McuH7 {
		name = H7BootstubFile
	}
	return filepath.Join(r.dir, name)
}

// ExpectedSignature returns the signature embedded in the firmware
// image for the given MCU family. On any failure it logs and returns an
// empty signature instead of an error: an empty expectation never
// matches a real on-device signature, so the flash pipeline treats the
// board as needing an update.
func (r *FirmwareResolver) ExpectedSignature(mcu McuType) []byte {
	sig, err := SignatureFromImage(r.ImagePath(mcu))
	if err != nil {
		r.log.Error("computing expected firmware signature", "mcu", mcu.String(), "err", err)
		return nil
	}
	return sig
}

// SignatureFromImage extracts the trailing signature block from a
// signed firmware image file.
func SignatureFromImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading firmware image: %w", err)
	}
	if len(data) < signatureLength {
		return nil, fmt.Errorf("firmware image %s too short: %d bytes", filepath.Base(path), len(data))
	}
	return data[len(data)-signatureLength:], nil
}
