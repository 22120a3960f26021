package pandad

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// Shared fakes for the bring-up pipeline tests. The fake device records
// every call in order so tests can assert on call sequences, and flash
// and recover mutate its state the way real hardware would.

type fakeDevice struct {
	serial   string
	hwType   HardwareType
	mcu      McuType
	bootstub bool
	sig      []byte
	version  string
	health   Health

	// Behavior knobs
	flashClearsBootstub   bool
	flashSig              []byte // signature after a successful flash
	recoverClearsBootstub bool
	flashErr              error
	recoverErr            error
	resetErr              error
	healthErr             error
	sigErr                error

	calls []string
}

func (d *fakeDevice) record(name string) { d.calls = append(d.calls, name) }

func (d *fakeDevice) Serial() string { return d.serial }

func (d *fakeDevice) HardwareType() (HardwareType, error) { return d.hwType, nil }

func (d *fakeDevice) McuType() (McuType, error) { return d.mcu, nil }

func (d *fakeDevice) Bootstub() bool { return d.bootstub }

func (d *fakeDevice) Version() (string, error) {
	if d.version == "" {
		return "v1.0.0", nil
	}
	return d.version, nil
}

func (d *fakeDevice) Signature() ([]byte, error) {
	if d.sigErr != nil {
		return nil, d.sigErr
	}
	return d.sig, nil
}

func (d *fakeDevice) Flash() error {
	d.record("flash")
	if d.flashErr != nil {
		return d.flashErr
	}
	if d.flashClearsBootstub {
		d.bootstub = false
	}
	if d.flashSig != nil {
		d.sig = d.flashSig
	}
	return nil
}

func (d *fakeDevice) Recover() error {
	d.record("recover")
	if d.recoverErr != nil {
		return d.recoverErr
	}
	if d.recoverClearsBootstub {
		d.bootstub = false
	}
	return nil
}

func (d *fakeDevice) Reset() error {
	d.record("reset")
	return d.resetErr
}

func (d *fakeDevice) Health() (Health, error) {
	d.record("health")
	return d.health, d.healthErr
}

func (d *fakeDevice) Close() error {
	d.record("close")
	return nil
}

func (d *fakeDevice) callCount(name string) int {
	n := 0
	for _, c := range d.calls {
		if c == name {
			n++
		}
	}
	return n
}

type fakeDriver struct {
	// Successive ListNormal results; the last entry repeats.
	normal  [][]string
	dfu     []string
	devices map[string]*fakeDevice

	listCalls    int
	recoveredDFU []string
	listErr      error
	openErr      error
}

func (f *fakeDriver) ListNormal() ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	idx := f.listCalls
	if idx >= len(f.normal) {
		idx = len(f.normal) - 1
	}
	f.listCalls++
	if len(f.normal) == 0 {
		return nil, nil
	}
	return f.normal[idx], nil
}

func (f *fakeDriver) ListDFU() ([]string, error) { return f.dfu, nil }

func (f *fakeDriver) Open(serial string) (Device, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	dev, ok := f.devices[serial]
	if !ok {
		return nil, ErrBoardNotFound
	}
	return dev, nil
}

func (f *fakeDriver) RecoverDFU(handle string) error {
	f.recoveredDFU = append(f.recoveredDFU, handle)
	return nil
}

type fakeStore struct {
	bools map[string]bool
}

func (s *fakeStore) PutBool(key string, value bool) error {
	if s.bools == nil {
		s.bools = make(map[string]bool)
	}
	s.bools[key] = value
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testResolver writes both firmware images into a temp dir and returns
// a resolver over them along with the embedded signatures.
func testResolver(t *testing.T) (fw *FirmwareResolver, defaultSig, h7Sig []byte) {
	t.Helper()
	dir := t.TempDir()
	defaultSig = writeImage(t, dir, DefaultFirmwareFile, 0xAA)
	h7Sig = writeImage(t, dir, H7FirmwareFile, 0xBB)
	return NewFirmwareResolver(dir, discardLogger()), defaultSig, h7Sig
}

// writeImage creates a signed firmware image whose trailing signature
// block is filled with the given byte.
func writeImage(t *testing.T, dir, name string, fill byte) []byte {
	t.Helper()
	sig := sigBytes(fill)
	data := append(make([]byte, 4096), sig...)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("writing firmware image: %v", err)
	}
	return sig
}

// sigBytes returns a signature block filled with one byte value.
func sigBytes(fill byte) []byte {
	sig := make([]byte, signatureLength)
	for i := range sig {
		sig[i] = fill
	}
	return sig
}

// errTransport stands in for a driver transport failure.
var errTransport = errors.New("transport failure")
