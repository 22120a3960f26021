package pandad

import (
	"log/slog"
	"time"
)

// HeartbeatLostKey is the settings-store key persisted when a board
// reports a lost heartbeat.
const HeartbeatLostKey = "PandaHeartbeatLost"

// Store is the durable key-value settings store consumed by the
// orchestrator. Only boolean flags are written.
type Store interface {
	PutBool(key string, value bool) error
}

// nopStore discards writes. Used when no store is configured.
type nopStore struct{}

func (nopStore) PutBool(string, bool) error { return nil }

// Option is a functional option for configuring an Orchestrator
type Option func(*Orchestrator) error

// WithLogger sets the structured log sink. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) error {
		o.log = log
		return nil
	}
}

// WithStore sets the durable settings store used for the heartbeat-lost
// flag. Defaults to a no-op store.
func WithStore(store Store) Option {
	return func(o *Orchestrator) error {
		o.store = store
		return nil
	}
}

// WithPollInterval sets the fixed delay between discovery polls and
// after DFU recovery. Must be positive. Defaults to one second.
func WithPollInterval(d time.Duration) Option {
	return func(o *Orchestrator) error {
		if d <= 0 {
			return ErrInvalidPollInterval
		}
		o.pollInterval = d
		return nil
	}
}

// WithSleep replaces the sleep function used by the discovery polling
// loops. Tests inject a fake to simulate a board appearing after N
// polls without real delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(o *Orchestrator) error {
		o.sleep = sleep
		return nil
	}
}
