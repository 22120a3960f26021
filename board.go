package pandad

// HardwareType identifies the board variant reported by the firmware.
type HardwareType int

const (
	HardwareUnknown HardwareType = iota
	HardwareWhite
	HardwareGrey
	HardwareBlack
	HardwarePedal
	HardwareUno
	HardwareDos
	HardwareRed
)

func (t HardwareType) String() string {
	switch t {
	case HardwareWhite:
		return "white"
	case HardwareGrey:
		return "grey"
	case HardwareBlack:
		return "black"
	case HardwarePedal:
		return "pedal"
	case HardwareUno:
		return "uno"
	case HardwareDos:
		return "dos"
	case HardwareRed:
		return "red"
	default:
		return "unknown"
	}
}

// Internal reports whether the board is a built-in interface rather than
// an externally attached one. Internal boards always sort first in the
// argument list handed to the daemon.
func (t HardwareType) Internal() bool {
	return t == HardwareUno || t == HardwareDos
}

// McuType identifies the microcontroller family and therefore which
// firmware image applies.
type McuType int

const (
	McuF4 McuType = iota
	McuH7         // high-performance family, uses the dedicated image
)

func (m McuType) String() string {
	if m == McuH7 {
		return "H7"
	}
	return "F4"
}

// Health is the status record a board reports over its health endpoint.
// The orchestrator only acts on HeartbeatLost; the remaining fields are
// attached to the heartbeat-lost event for diagnostics.
type Health struct {
	Uptime        uint32
	Voltage       uint32 // millivolts
	Current       uint32 // milliamps
	FaultStatus   uint8
	HeartbeatLost bool
}

// Device is an open handle to a single board, as exposed by the driver
// layer. Every method may fail at the transport level; such failures are
// fatal for the current bring-up cycle.
type Device interface {
	Serial() string
	HardwareType() (HardwareType, error)
	McuType() (McuType, error)
	Bootstub() bool
	Version() (string, error)
	Signature() ([]byte, error)
	Flash() error
	Recover() error
	Reset() error
	Health() (Health, error)
	Close() error
}

// Driver enumerates and opens boards. ListNormal and ListDFU are
// distinct namespaces: a board in DFU mode does not appear in normal
// enumeration until recovered.
type Driver interface {
	// ListNormal returns the serials of boards enumerable in normal
	// (app or bootstub) mode.
	ListNormal() ([]string, error)

	// ListDFU returns opaque handles for boards stuck in pre-bootloader
	// DFU mode.
	ListDFU() ([]string, error)

	// Open opens a board by serial.
	Open(serial string) (Device, error)

	// RecoverDFU flashes the recovery bootloader onto a DFU-mode board
	// so it re-enumerates normally.
	RecoverDFU(handle string) error
}

// Board is the per-cycle snapshot of one verified device. It is created
// at discovery, refreshed through the flash pipeline and discarded
// before the serial list is handed to the daemon; no Board survives a
// supervision-loop iteration.
type Board struct {
	Serial    string
	Type      HardwareType
	Mcu       McuType
	Bootstub  bool
	Signature []byte // observed, empty while in bootstub
	Expected  []byte // from the resolved firmware image, empty on resolution failure

	dev Device
}

// Device returns the underlying open handle.
func (b *Board) Device() Device { return b.dev }

// Close releases the transport-level connection.
func (b *Board) Close() error { return b.dev.Close() }
