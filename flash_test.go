package pandad

import (
	"bytes"
	"errors"
	"testing"
)

func TestFlashBoardAlreadyVerified(t *testing.T) {
	fw, defaultSig, _ := testResolver(t)

	dev := &fakeDevice{
		serial: "AAA111",
		hwType: HardwareUno,
		mcu:    McuF4,
		sig:    defaultSig,
	}

	board, err := FlashBoard(dev, fw, discardLogger())
	if err != nil {
		t.Fatalf("FlashBoard failed: %v", err)
	}

	if dev.callCount("flash") != 0 {
		t.Errorf("Expected no flash calls for verified board, got %d", dev.callCount("flash"))
	}
	if dev.callCount("recover") != 0 {
		t.Errorf("Expected no recover calls for verified board, got %d", dev.callCount("recover"))
	}
	if board.Bootstub {
		t.Error("Expected board not in bootstub")
	}
	if !bytes.Equal(board.Signature, board.Expected) {
		t.Error("Expected observed signature to match expected")
	}
}

func TestFlashBoardSignatureMismatchTriggersFlash(t *testing.T) {
	fw, defaultSig, _ := testResolver(t)

	dev := &fakeDevice{
		serial:   "AAA111",
		hwType:   HardwareRed,
		mcu:      McuF4,
		sig:      []byte("stale signature"),
		flashSig: defaultSig,
	}

	board, err := FlashBoard(dev, fw, discardLogger())
	if err != nil {
		t.Fatalf("FlashBoard failed: %v", err)
	}

	if dev.callCount("flash") != 1 {
		t.Errorf("Expected 1 flash call, got %d", dev.callCount("flash"))
	}
	if dev.callCount("recover") != 0 {
		t.Errorf("Expected no recover calls, got %d", dev.callCount("recover"))
	}
	if !bytes.Equal(board.Signature, defaultSig) {
		t.Error("Expected signature refreshed after flash")
	}
}

func TestFlashBoardH7UsesH7Image(t *testing.T) {
	fw, _, h7Sig := testResolver(t)

	dev := &fakeDevice{
		serial: "AAA111",
		hwType: HardwareRed,
		mcu:    McuH7,
		sig:    h7Sig,
	}

	if _, err := FlashBoard(dev, fw, discardLogger()); err != nil {
		t.Fatalf("FlashBoard failed: %v", err)
	}
	if dev.callCount("flash") != 0 {
		t.Errorf("Expected H7 board matching H7 image to skip flashing, got %d flash calls", dev.callCount("flash"))
	}
}

func TestFlashBoardBootstubFlashesBeforeRecover(t *testing.T) {
	fw, defaultSig, _ := testResolver(t)

	// Flash alone does not fix the bootstub; recover does.
	dev := &fakeDevice{
		serial:                "BBB222",
		hwType:                HardwareBlack,
		mcu:                   McuF4,
		bootstub:              true,
		flashSig:              defaultSig,
		recoverClearsBootstub: true,
	}

	board, err := FlashBoard(dev, fw, discardLogger())
	if err != nil {
		t.Fatalf("FlashBoard failed: %v", err)
	}

	var flashIdx, recoverIdx int = -1, -1
	for i, c := range dev.calls {
		switch c {
		case "flash":
			flashIdx = i
		case "recover":
			recoverIdx = i
		}
	}
	if flashIdx == -1 || recoverIdx == -1 {
		t.Fatalf("Expected both flash and recover calls, got %v", dev.calls)
	}
	if flashIdx > recoverIdx {
		t.Errorf("Expected flash before recover, got %v", dev.calls)
	}
	if board.Bootstub {
		t.Error("Expected board out of bootstub after recovery")
	}
}

func TestFlashBoardBootstubFixedByFlashSkipsRecover(t *testing.T) {
	fw, defaultSig, _ := testResolver(t)

	dev := &fakeDevice{
		serial:              "BBB222",
		hwType:              HardwareBlack,
		mcu:                 McuF4,
		bootstub:            true,
		flashClearsBootstub: true,
		flashSig:            defaultSig,
	}

	if _, err := FlashBoard(dev, fw, discardLogger()); err != nil {
		t.Fatalf("FlashBoard failed: %v", err)
	}
	if dev.callCount("flash") != 1 {
		t.Errorf("Expected 1 flash call, got %d", dev.callCount("flash"))
	}
	if dev.callCount("recover") != 0 {
		t.Errorf("Expected no recover call when flash fixes the bootstub, got %d", dev.callCount("recover"))
	}
}

func TestFlashBoardStillInBootstubIsFatal(t *testing.T) {
	fw, _, _ := testResolver(t)

	dev := &fakeDevice{
		serial:   "CCC333",
		hwType:   HardwareBlack,
		mcu:      McuF4,
		bootstub: true,
		// Neither flash nor recover clears the bootstub.
	}

	_, err := FlashBoard(dev, fw, discardLogger())
	if !errors.Is(err, ErrStillInBootstub) {
		t.Fatalf("Expected ErrStillInBootstub, got %v", err)
	}

	// No further device calls after the fatal condition.
	last := dev.calls[len(dev.calls)-1]
	if last != "recover" {
		t.Errorf("Expected recover to be the final device call, got %v", dev.calls)
	}
}

func TestFlashBoardMismatchAfterFlashIsFatal(t *testing.T) {
	fw, _, _ := testResolver(t)

	dev := &fakeDevice{
		serial:   "DDD444",
		hwType:   HardwareRed,
		mcu:      McuF4,
		sig:      []byte("stale signature"),
		flashSig: []byte("still wrong"),
	}

	_, err := FlashBoard(dev, fw, discardLogger())
	if !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("Expected ErrSignatureMismatch, got %v", err)
	}
}

func TestFlashBoardEmptyExpectedSignatureForcesFlash(t *testing.T) {
	// Resolver over an empty dir: every lookup fails and degrades to an
	// empty expected signature.
	fw := NewFirmwareResolver(t.TempDir(), discardLogger())

	dev := &fakeDevice{
		serial: "EEE555",
		hwType: HardwareRed,
		mcu:    McuF4,
		sig:    []byte("some running firmware"),
	}

	_, err := FlashBoard(dev, fw, discardLogger())

	// The non-empty observed signature can never match the empty
	// expectation, so a flash attempt must have been made and the final
	// re-verification must fail.
	if dev.callCount("flash") != 1 {
		t.Errorf("Expected 1 flash call, got %d", dev.callCount("flash"))
	}
	if !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("Expected ErrSignatureMismatch, got %v", err)
	}
}

func TestFlashBoardTransportErrors(t *testing.T) {
	fw, defaultSig, _ := testResolver(t)

	tests := []struct {
		name string
		dev  *fakeDevice
	}{
		{"signature read", &fakeDevice{serial: "S", hwType: HardwareUno, mcu: McuF4, sigErr: errTransport}},
		{"flash", &fakeDevice{serial: "S", hwType: HardwareUno, mcu: McuF4, sig: []byte("stale"), flashErr: errTransport}},
		{"recover", &fakeDevice{serial: "S", hwType: HardwareUno, mcu: McuF4, bootstub: true, flashSig: defaultSig, recoverErr: errTransport}},
	}

	for _, test := range tests {
		_, err := FlashBoard(test.dev, fw, discardLogger())
		if !errors.Is(err, errTransport) {
			t.Errorf("%s: Expected transport error to propagate, got %v", test.name, err)
		}
	}
}
