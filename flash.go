package pandad

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"log/slog"
)

// FlashBoard drives one board through the verify/flash/recover pipeline
// and returns its snapshot once the running firmware matches the
// expected signature.
//
// The pipeline is a single pass: verify, flash if the board is in
// bootstub or the signature differs, recover the bootloader if flashing
// left it in bootstub, then re-verify. There is no retry here; the
// supervision loop restarting from discovery is the only retry
// mechanism.
func FlashBoard(dev Device, fw *FirmwareResolver, log *slog.Logger) (*Board, error) {
	serial := dev.Serial()

	hwType, err := dev.HardwareType()
	if err != nil {
		return nil, fmt.Errorf("board %s: reading hardware type: %w", serial, err)
	}
	mcu, err := dev.McuType()
	if err != nil {
		return nil, fmt.Errorf("board %s: reading mcu type: %w", serial, err)
	}

	expected := fw.ExpectedSignature(mcu)

	version := "bootstub"
	var observed []byte
	if !dev.Bootstub() {
		if version, err = dev.Version(); err != nil {
			return nil, fmt.Errorf("board %s: reading version: %w", serial, err)
		}
		if observed, err = dev.Signature(); err != nil {
			return nil, fmt.Errorf("board %s: reading signature: %w", serial, err)
		}
	}

	log.Warn("board connected",
		"serial", serial,
		"type", hwType.String(),
		"version", version,
		"signature", shortHex(observed),
		"expected", shortHex(expected),
	)

	if dev.Bootstub() || !bytes.Equal(observed, expected) {
		log.Info("board firmware out of date, update required", "serial", serial)
		if err := dev.Flash(); err != nil {
			return nil, fmt.Errorf("board %s: flashing: %w", serial, err)
		}
		log.Info("done flashing", "serial", serial)
	}

	if dev.Bootstub() {
		bootstubVersion, err := dev.Version()
		if err != nil {
			return nil, fmt.Errorf("board %s: reading bootstub version: %w", serial, err)
		}
		log.Info("flashed firmware not booting, flashing development bootloader",
			"serial", serial, "bootstubVersion", bootstubVersion)
		if err := dev.Recover(); err != nil {
			return nil, fmt.Errorf("board %s: recovering: %w", serial, err)
		}
		log.Info("done flashing bootloader", "serial", serial)
	}

	if dev.Bootstub() {
		log.Error("board still not booting", "serial", serial)
		return nil, fmt.Errorf("board %s: %w", serial, ErrStillInBootstub)
	}

	observed, err = dev.Signature()
	if err != nil {
		return nil, fmt.Errorf("board %s: re-reading signature: %w", serial, err)
	}
	if !bytes.Equal(observed, expected) {
		log.Error("signature mismatch after flashing", "serial", serial)
		return nil, fmt.Errorf("board %s: %w", serial, ErrSignatureMismatch)
	}

	return &Board{
		Serial:    serial,
		Type:      hwType,
		Mcu:       mcu,
		Bootstub:  false,
		Signature: observed,
		Expected:  expected,
		dev:       dev,
	}, nil
}

// shortHex renders the leading bytes of a signature for log output.
func shortHex(sig []byte) string {
	s := hex.EncodeToString(sig)
	if len(s) > 16 {
		s = s[:16]
	}
	return s
}
