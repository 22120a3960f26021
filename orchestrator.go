package pandad

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Launcher starts the downstream daemon with the ordered board serials
// as its arguments and blocks until it exits. A non-nil error reports a
// non-zero exit or a spawn failure.
type Launcher func(ctx context.Context, serials []string) error

// Orchestrator brings every attached board into a verified firmware
// state and supervises the downstream daemon. All collaborators are
// injected so tests can substitute fakes; see the With* options.
type Orchestrator struct {
	driver Driver
	fw     *FirmwareResolver
	launch Launcher

	store        Store
	log          *slog.Logger
	sleep        func(time.Duration)
	pollInterval time.Duration
}

// New creates an orchestrator over the given driver, firmware resolver
// and daemon launcher.
func New(driver Driver, fw *FirmwareResolver, launch Launcher, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		driver:       driver,
		fw:           fw,
		launch:       launch,
		store:        nopStore{},
		log:          slog.Default(),
		sleep:        time.Sleep,
		pollInterval: time.Second,
	}
	if launch == nil {
		return nil, ErrNoDaemon
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Run executes the supervision loop until ctx is cancelled or a fatal
// bring-up error occurs: discover and flash every board, check health,
// reset, sort, close all handles, then launch the daemon and block for
// its lifetime. Any daemon exit restarts the loop from discovery.
//
// Fatal errors propagate out rather than being retried here; the host
// process supervisor owns the restart policy.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		boards, err := o.discover(ctx)
		if err != nil {
			return err
		}

		for _, b := range boards {
			health, err := b.dev.Health()
			if err != nil {
				closeAll(boards, o.log)
				return fmt.Errorf("board %s: reading health: %w", b.Serial, err)
			}
			if health.HeartbeatLost {
				// Advisory telemetry, never fatal.
				if err := o.store.PutBool(HeartbeatLostKey, true); err != nil {
					o.log.Error("persisting heartbeat-lost flag", "err", err)
				}
				o.log.Warn("heartbeat lost",
					"serial", b.Serial,
					slog.Group("deviceState",
						"uptime", health.Uptime,
						"voltage", health.Voltage,
						"current", health.Current,
						"faultStatus", health.FaultStatus,
					),
				)
			}
		}

		for _, b := range boards {
			o.log.Info("resetting board", "serial", b.Serial)
			if err := b.dev.Reset(); err != nil {
				closeAll(boards, o.log)
				return fmt.Errorf("board %s: resetting: %w", b.Serial, err)
			}
		}

		SortBoards(boards)
		serials := Serials(boards)

		// The daemon reopens every board itself, so release the
		// transport-level handles before handing off.
		closeAll(boards, o.log)

		o.log.Info("starting daemon", "serials", serials)
		if err := o.launch(ctx, serials); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			o.log.Error("daemon exited", "err", err)
		} else {
			o.log.Info("daemon exited cleanly")
		}
	}
}

func closeAll(boards []*Board, log *slog.Logger) {
	for _, b := range boards {
		if err := b.Close(); err != nil {
			log.Error("closing board", "serial", b.Serial, "err", err)
		}
	}
}
