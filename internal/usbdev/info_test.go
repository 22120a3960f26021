package usbdev

import (
	"testing"
)

func TestDescribe(t *testing.T) {
	d, root := newTestDriver(t)

	addSysfsDevice(t, root, "1-2", "bbaa", "ddcc", "ZZZ999", 1, 4)
	addSysfsDevice(t, root, "1-3", "bbaa", "ddee", "AAA111", 1, 5)
	addSysfsDevice(t, root, "1-4", "0483", "df11", "", 1, 6)
	addSysfsDevice(t, root, "1-1", "1d6b", "0002", "", 1, 1) // root hub, ignored

	boards, err := d.Describe()
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if len(boards) != 3 {
		t.Fatalf("Expected 3 boards, got %d", len(boards))
	}

	tests := []struct {
		serial string
		mode   Mode
		addr   string
	}{
		{"ZZZ999", ModeApp, "001:004"},
		{"AAA111", ModeBootstub, "001:005"},
		{"", ModeDFU, "001:006"},
	}

	for i, test := range tests {
		if boards[i].Serial != test.serial {
			t.Errorf("Board %d: expected serial %q, got %q", i, test.serial, boards[i].Serial)
		}
		if boards[i].Mode != test.mode {
			t.Errorf("Board %d: expected mode %s, got %s", i, test.mode, boards[i].Mode)
		}
		if boards[i].Address() != test.addr {
			t.Errorf("Board %d: expected address %s, got %s", i, test.addr, boards[i].Address())
		}
	}
}
