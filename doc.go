// Package pandad brings USB-attached interface boards into a known-good,
// firmware-verified state and supervises the downstream communication
// daemon.
//
// The orchestrator discovers boards in any boot state (including
// pre-bootloader DFU recovery mode), verifies the running firmware
// against the signature embedded in the on-disk image, flashes and
// recovers boards as needed, orders them deterministically and hands the
// serial list to the daemon. When the daemon exits the whole pipeline
// restarts from discovery.
//
// # Basic Usage
//
// Construct an orchestrator from a board driver, a firmware resolver and
// a daemon launcher, then run it:
//
//	fw := pandad.NewFirmwareResolver("/usr/share/panda", logger)
//	orch, err := pandad.New(driver, fw,
//	    pandad.ProcessLauncher("./boardd", "/data/openpilot/selfdrive/boardd"),
//	    pandad.WithLogger(logger),
//	    pandad.WithStore(store),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = orch.Run(ctx)
//
// Run blocks for the life of the process: it only returns on context
// cancellation or a fatal bring-up failure, and the host process
// supervisor is expected to restart it.
//
// # Bring-Up Pipeline
//
// Each supervision iteration performs, strictly in order:
//
//  1. Recover any boards stuck in DFU mode, then poll normal
//     enumeration (no timeout) until at least one board appears.
//  2. Flash/recover every board until its firmware signature matches
//     the expected one. A board still in bootstub after recovery, or
//     still mismatched after flashing, is fatal for the iteration.
//  3. Check health on every board; a lost heartbeat persists the
//     PandaHeartbeatLost flag and emits a structured event. Advisory
//     only.
//  4. Hardware-reset every board, sort them (internal boards first,
//     then hardware type, then serial), close all handles and launch
//     the daemon with the ordered serials.
//
// # Dependency Injection
//
// The driver, settings store, log sink, sleep function and daemon
// launcher are all injected, so tests run the full pipeline against
// in-memory fakes:
//
//	orch, err := pandad.New(fakeDriver, fw, fakeLaunch,
//	    pandad.WithSleep(func(time.Duration) {}),
//	    pandad.WithStore(fakeStore),
//	)
//
// # Error Handling
//
// Fatal bring-up conditions are sentinel errors checked with errors.Is:
//
//	var (
//	    ErrStillInBootstub   // board did not boot after flash+recover
//	    ErrSignatureMismatch // firmware still mismatched after flashing
//	)
//
// Transport-level driver failures are wrapped and, like the sentinels
// above, abort the current iteration rather than being retried.
//
// # Concrete Driver
//
// internal/usbdev provides the Linux implementation of the Driver
// interface (sysfs enumeration, usbfs transfers); the pandad CLI under
// cmd/pandad wires it together with the firmware resolver and the
// settings store in internal/params.
package pandad
