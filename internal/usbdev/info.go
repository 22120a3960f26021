package usbdev

import (
	"fmt"
	"sort"
)

// Mode is the boot state a board was enumerated in.
type Mode string

const (
	ModeApp      Mode = "app"
	ModeBootstub Mode = "bootstub"
	ModeDFU      Mode = "dfu"
)

// BoardInfo describes one attached board without opening it. Used by
// the list and monitor commands.
type BoardInfo struct {
	Serial string // empty in DFU mode
	Mode   Mode
	Bus    int
	Dev    int
}

// Address returns the zero-padded bus/device address.
func (b BoardInfo) Address() string {
	return fmt.Sprintf("%03d:%03d", b.Bus, b.Dev)
}

// Describe returns every attached board across all enumeration
// namespaces, ordered by mode then serial then address.
func (d *Driver) Describe() ([]BoardInfo, error) {
	nodes, err := d.scan()
	if err != nil {
		return nil, err
	}

	var boards []BoardInfo
	for _, n := range nodes {
		switch {
		case n.vendor == boardVendorID:
			mode := ModeApp
			if n.bootstub() {
				mode = ModeBootstub
			}
			boards = append(boards, BoardInfo{Serial: n.serial, Mode: mode, Bus: n.bus, Dev: n.dev})
		case n.vendor == dfuVendorID && n.product == dfuProductID:
			boards = append(boards, BoardInfo{Mode: ModeDFU, Bus: n.bus, Dev: n.dev})
		}
	}

	sort.Slice(boards, func(i, j int) bool {
		if boards[i].Mode != boards[j].Mode {
			return boards[i].Mode < boards[j].Mode
		}
		if boards[i].Serial != boards[j].Serial {
			return boards[i].Serial < boards[j].Serial
		}
		return boards[i].Address() < boards[j].Address()
	})
	return boards, nil
}
