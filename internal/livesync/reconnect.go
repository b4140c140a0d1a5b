package livesync

import (
	"context"
	"time"

	perrors "github.com/harunnryd/planboard/internal/errors"
	"github.com/harunnryd/planboard/internal/logger"

	"github.com/cenkalti/backoff/v5"
)

// reconnect redials with capped exponential backoff. Authorization failures
// stop it immediately since retrying cannot fix them.
func (v *View) reconnect(ctx context.Context, act uint64) (Channel, error) {
	log := logger.From(ctx)
	v.setLink(act, Reconnecting)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = v.opts.ReconnectInitial
	b.MaxInterval = v.opts.ReconnectMax

	attempt := 0
	op := func() (Channel, error) {
		attempt++
		ch, err := v.dialer.Dial(ctx)
		if err == nil {
			return ch, nil
		}
		if !perrors.IsRetryable(err) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	ch, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(v.opts.ReconnectAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Debug("Live channel reconnect failed", "attempt", attempt, "retry_in", next, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	log.Info("Live channel reconnected", "attempts", attempt)
	return ch, nil
}
