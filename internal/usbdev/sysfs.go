package usbdev

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// devNode is one USB device as described by sysfs.
type devNode struct {
	name    string // sysfs entry name, e.g. "1-2.4"
	vendor  uint16
	product uint16
	serial  string
	bus     int
	dev     int
}

// scan walks the sysfs USB device tree and returns every device that
// exposes the attributes we need. Interface entries (names containing a
// colon) and hubs without ids are skipped.
func (d *Driver) scan() ([]devNode, error) {
	entries, err := os.ReadDir(d.sysfsRoot)
	if err != nil {
		return nil, err
	}

	var nodes []devNode
	for _, entry := range entries {
		name := entry.Name()
		if strings.ContainsRune(name, ':') {
			continue
		}
		dir := filepath.Join(d.sysfsRoot, name)

		vendor, err := readHex16(filepath.Join(dir, "idVendor"))
		if err != nil {
			continue
		}
		product, err := readHex16(filepath.Join(dir, "idProduct"))
		if err != nil {
			continue
		}
		bus, err := readInt(filepath.Join(dir, "busnum"))
		if err != nil {
			continue
		}
		dev, err := readInt(filepath.Join(dir, "devnum"))
		if err != nil {
			continue
		}

		nodes = append(nodes, devNode{
			name:    name,
			vendor:  vendor,
			product: product,
			serial:  readString(filepath.Join(dir, "serial")),
			bus:     bus,
			dev:     dev,
		})
	}
	return nodes, nil
}

// bootstub reports whether the node enumerated with the bootstub
// product id.
func (n devNode) bootstub() bool {
	return n.product == productBootstub
}

func readString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func readHex16(path string) (uint16, error) {
	v, err := strconv.ParseUint(readString(path), 16, 16)
	return uint16(v), err
}

func readInt(path string) (int, error) {
	return strconv.Atoi(readString(path))
}
