package livesync

import (
	"fmt"
	"time"

	"github.com/harunnryd/planboard/internal/config"
)

// Options controls recovery after the push channel is lost. The zero value
// keeps the view degraded until it is reactivated.
type Options struct {
	Reconnect         bool
	ReconnectInitial  time.Duration
	ReconnectMax      time.Duration
	ReconnectAttempts int
	PollInterval      time.Duration
}

func OptionsFrom(cfg config.SyncConfig) (Options, error) {
	initial, err := config.DurationOrDefault(cfg.ReconnectInitial, config.DefaultSyncReconnectInitial)
	if err != nil {
		return Options{}, fmt.Errorf("sync.reconnect_initial: %w", err)
	}
	maxInterval, err := config.DurationOrDefault(cfg.ReconnectMax, config.DefaultSyncReconnectMax)
	if err != nil {
		return Options{}, fmt.Errorf("sync.reconnect_max: %w", err)
	}
	poll, err := config.DurationOrDefault(cfg.PollInterval, config.DefaultSyncPollInterval)
	if err != nil {
		return Options{}, fmt.Errorf("sync.poll_interval: %w", err)
	}

	attempts := cfg.ReconnectAttempts
	if attempts <= 0 {
		attempts = config.DefaultSyncReconnectAttempts
	}
	if maxInterval < initial {
		maxInterval = initial
	}

	return Options{
		Reconnect:         cfg.Reconnect,
		ReconnectInitial:  initial,
		ReconnectMax:      maxInterval,
		ReconnectAttempts: attempts,
		PollInterval:      poll,
	}, nil
}
