package pandad

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestExpectedSignatureSelectsImage(t *testing.T) {
	fw, defaultSig, h7Sig := testResolver(t)

	tests := []struct {
		mcu      McuType
		expected []byte
	}{
		{McuF4, defaultSig},
		{McuH7, h7Sig},
	}

	for _, test := range tests {
		got := fw.ExpectedSignature(test.mcu)
		if !bytes.Equal(got, test.expected) {
			t.Errorf("ExpectedSignature(%v) returned wrong signature", test.mcu)
		}
	}
}

func TestExpectedSignatureMissingImage(t *testing.T) {
	fw := NewFirmwareResolver(t.TempDir(), discardLogger())

	// Resolution failure must degrade to an empty signature, not an
	// error: the flash pipeline relies on this to force an update.
	if sig := fw.ExpectedSignature(McuF4); len(sig) != 0 {
		t.Errorf("Expected empty signature for missing image, got %d bytes", len(sig))
	}
}

func TestExpectedSignatureTruncatedImage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DefaultFirmwareFile), []byte("short"), 0o644); err != nil {
		t.Fatalf("writing image: %v", err)
	}

	fw := NewFirmwareResolver(dir, discardLogger())
	if sig := fw.ExpectedSignature(McuF4); len(sig) != 0 {
		t.Errorf("Expected empty signature for truncated image, got %d bytes", len(sig))
	}
}

func TestSignatureFromImage(t *testing.T) {
	dir := t.TempDir()
	want := writeImage(t, dir, "fw.bin.signed", 0x5A)

	got, err := SignatureFromImage(filepath.Join(dir, "fw.bin.signed"))
	if err != nil {
		t.Fatalf("SignatureFromImage failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Error("Expected trailing signature block")
	}
	if len(got) != signatureLength {
		t.Errorf("Expected %d-byte signature, got %d", signatureLength, len(got))
	}
}

func TestImagePath(t *testing.T) {
	fw := NewFirmwareResolver("/usr/share/panda", discardLogger())

	if got := fw.ImagePath(McuF4); filepath.Base(got) != DefaultFirmwareFile {
		t.Errorf("Expected default image for F4, got %s", got)
	}
	if got := fw.ImagePath(McuH7); filepath.Base(got) != H7FirmwareFile {
		t.Errorf("Expected H7 image for H7, got %s", got)
	}
}
