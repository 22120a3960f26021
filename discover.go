package pandad

import (
	"context"
	"fmt"
)

// discover performs the DFU recovery pass, waits for at least one board
// to enumerate normally, then runs every discovered board through the
// flash pipeline. The enumeration poll has no timeout: when no hardware
// is visible the correct action is to keep waiting for it.
func (o *Orchestrator) discover(ctx context.Context) ([]*Board, error) {
	o.log.Info("connecting to boards")

	dfus, err := o.driver.ListDFU()
	if err != nil {
		return nil, fmt.Errorf("listing DFU devices: %w", err)
	}
	for _, handle := range dfus {
		o.log.Info("board in DFU mode found, flashing recovery", "handle", handle)
		if err := o.driver.RecoverDFU(handle); err != nil {
			return nil, fmt.Errorf("recovering DFU device %s: %w", handle, err)
		}
		// Give the device time to drop off the DFU bus and
		// re-enumerate as a normal board.
		o.sleep(o.pollInterval)
	}

	var serials []string
	for len(serials) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		serials, err = o.driver.ListNormal()
		if err != nil {
			return nil, fmt.Errorf("listing boards: %w", err)
		}
		if len(serials) == 0 {
			o.sleep(o.pollInterval)
		}
	}

	o.log.Info("boards found, connecting", "count", len(serials), "serials", serials)

	boards := make([]*Board, 0, len(serials))
	for _, serial := range serials {
		dev, err := o.driver.Open(serial)
		if err != nil {
			closeAll(boards, o.log)
			return nil, fmt.Errorf("opening board %s: %w", serial, err)
		}
		board, err := FlashBoard(dev, o.fw, o.log)
		if err != nil {
			dev.Close()
			closeAll(boards, o.log)
			return nil, err
		}
		boards = append(boards, board)
	}
	return boards, nil
}
