package pandad

import "errors"

// Predefined error types for robust error handling
var (
	// Fatal bring-up failures. Both abort the current supervision cycle;
	// the host process manager is responsible for restarting the daemon.
	ErrStillInBootstub   = errors.New("board still in bootstub after recovery")
	ErrSignatureMismatch = errors.New("firmware signature mismatch after flashing")

	ErrBoardNotFound       = errors.New("board not found")
	ErrNoDaemon            = errors.New("daemon executable not configured")
	ErrInvalidPollInterval = errors.New("poll interval must be positive")

	// Driver-level errors surfaced by the bundled usbdev implementation
	ErrDeviceClosed         = errors.New("board handle is closed")
	ErrUSBResetNotAvailable = errors.New("usbreset utility not available")
	ErrDFUUtilNotAvailable  = errors.New("dfu-util utility not available")
)
