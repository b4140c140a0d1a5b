// Package livesync keeps a production view's copy of the published schedule
// current. It fetches once on activation and again for every message on the
// push channel; message content is never read.
package livesync

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/harunnryd/planboard/internal/api"
	"github.com/harunnryd/planboard/internal/concurrency"
	perrors "github.com/harunnryd/planboard/internal/errors"
	"github.com/harunnryd/planboard/internal/logger"

	"github.com/oklog/ulid/v2"
	"github.com/robfig/cron/v3"
)

var (
	ErrAlreadyActive = errors.New("live view is already active")
	ErrInactive      = errors.New("live view is not active")
)

type Fetcher interface {
	FetchCurrent(ctx context.Context) (api.ScheduleDraft, bool, error)
}

// Channel is a push connection owned by one activation.
type Channel interface {
	Signals() <-chan struct{}
	Done() <-chan struct{}
	Err() error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context) (Channel, error)
}

type DialerFunc func(ctx context.Context) (Channel, error)

func (f DialerFunc) Dial(ctx context.Context) (Channel, error) {
	return f(ctx)
}

// Current is the committed copy of the published schedule.
type Current struct {
	Schedule api.Schedule
	Items    []api.ScheduleItem
	// Seq is the fetch sequence number that produced this value.
	Seq uint64
}

type WorkcenterGroup struct {
	WorkcenterID int
	Items        []api.ScheduleItem
}

type View struct {
	fetcher Fetcher
	dialer  Dialer
	opts    Options

	mu         sync.Mutex
	active     bool
	activation uint64
	issued     uint64
	committed  uint64
	current    *Current
	status     Status
	cancel     context.CancelFunc
	channel    Channel
	poller     *cron.Cron
	routines   *concurrency.Group

	updates chan struct{}
}

func New(fetcher Fetcher, dialer Dialer, opts Options) *View {
	return &View{
		fetcher: fetcher,
		dialer:  dialer,
		opts:    opts,
		status:  Status{Plan: Loading, Link: Offline},
		updates: make(chan struct{}, 1),
	}
}

// Activate starts one view lifetime: it opens the push channel in the
// background and performs the initial fetch before returning. Fetch and
// channel failures are reported through Status, not as errors.
func (v *View) Activate(ctx context.Context) error {
	v.mu.Lock()
	if v.active {
		v.mu.Unlock()
		return ErrAlreadyActive
	}
	v.activation++
	act := v.activation

	ctx = logger.WithViewID(ctx, ulid.Make().String())
	ctx, cancel := context.WithCancel(ctx)

	v.active = true
	v.cancel = cancel
	v.current = nil
	v.status = Status{Plan: Loading, Link: Connecting}
	routines := &concurrency.Group{}
	v.routines = routines
	v.mu.Unlock()
	v.notify()

	logger.From(ctx).Info("Production view activated")

	routines.Go("livesync-link", func() { v.runLink(ctx, act) })
	_ = v.refresh(ctx, act)
	return nil
}

// Deactivate closes the push channel and stops every background routine of
// the current activation. Results of fetches still in flight are discarded.
// It must not be called from an Updates observer that blocks the view.
func (v *View) Deactivate() {
	v.mu.Lock()
	if !v.active {
		v.mu.Unlock()
		return
	}
	v.active = false
	cancel, ch, poller, routines := v.cancel, v.channel, v.poller, v.routines
	v.cancel, v.channel, v.poller, v.routines = nil, nil, nil, nil
	v.status.Link = Offline
	v.status.PollEvery = 0
	v.mu.Unlock()

	cancel()
	if ch != nil {
		_ = ch.Close()
	}
	if poller != nil {
		<-poller.Stop().Done()
	}
	routines.Wait()
	v.notify()
}

// Refresh fetches the current schedule once for the active view.
func (v *View) Refresh(ctx context.Context) error {
	v.mu.Lock()
	if !v.active {
		v.mu.Unlock()
		return ErrInactive
	}
	act := v.activation
	v.mu.Unlock()
	return v.refresh(ctx, act)
}

// refresh commits a fetch result only if the activation that issued it is
// still running and no later-issued fetch has committed first.
func (v *View) refresh(ctx context.Context, act uint64) error {
	v.mu.Lock()
	if !v.active || v.activation != act {
		v.mu.Unlock()
		return ErrInactive
	}
	v.issued++
	seq := v.issued
	v.mu.Unlock()

	log := logger.From(ctx)
	draft, ok, err := v.fetcher.FetchCurrent(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.active || v.activation != act {
		log.Debug("Discarding fetch result after deactivation", "seq", seq)
		return nil
	}
	if seq <= v.committed {
		log.Debug("Discarding stale fetch result", "seq", seq, "committed", v.committed)
		return nil
	}
	v.committed = seq

	switch {
	case err != nil:
		v.status.Plan = FetchFailed
		log.Warn("Schedule fetch failed", "error", err, "category", perrors.Category(err))
	case !ok:
		v.current = nil
		v.status.Plan = NoPlan
		v.status.Version = 0
	default:
		v.current = &Current{
			Schedule: draft.Schedule,
			Items:    slices.Clone(draft.Items),
			Seq:      seq,
		}
		v.status.Plan = Published
		v.status.Version = draft.Schedule.Version
		log.Debug("Schedule committed", "version", draft.Schedule.Version, "seq", seq)
	}
	v.notify()
	return err
}

func (v *View) runLink(ctx context.Context, act uint64) {
	log := logger.From(ctx)

	ch, err := v.dialer.Dial(ctx)
	for {
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn("Live channel unavailable", "error", err)
			v.setLink(act, LiveUnavailable)
			if !v.opts.Reconnect {
				return
			}
			if ch, err = v.reconnect(ctx, act); err != nil {
				if ctx.Err() == nil {
					log.Warn("Reconnect attempts exhausted, falling back to polling", "error", err)
					v.startPolling(ctx, act)
				}
				return
			}
		}

		if !v.attach(act, ch) {
			_ = ch.Close()
			return
		}
		err = v.pump(ctx, act, ch)
		v.detach(ch)
		_ = ch.Close()
	}
}

// pump turns every signal into one refresh until the channel or the
// activation ends. It returns the reason the channel stopped.
func (v *View) pump(ctx context.Context, act uint64, ch Channel) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch.Signals():
			v.onSignal(ctx, act)
		case <-ch.Done():
			for {
				select {
				case <-ch.Signals():
					v.onSignal(ctx, act)
				default:
					if err := ch.Err(); err != nil {
						return err
					}
					return perrors.Transient("live channel stopped")
				}
			}
		}
	}
}

func (v *View) onSignal(ctx context.Context, act uint64) {
	v.mu.Lock()
	routines := v.routines
	current := v.active && v.activation == act
	v.mu.Unlock()
	if !current {
		return
	}
	routines.Go("livesync-refresh", func() { _ = v.refresh(ctx, act) })
}

func (v *View) attach(act uint64, ch Channel) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.active || v.activation != act {
		return false
	}
	v.channel = ch
	v.status.Link = Live
	v.notify()
	return true
}

func (v *View) detach(ch Channel) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.channel == ch {
		v.channel = nil
	}
}

func (v *View) setLink(act uint64, link LinkState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.active || v.activation != act {
		return
	}
	v.status.Link = link
	v.notify()
}

func (v *View) startPolling(ctx context.Context, act uint64) {
	c := cron.New()
	if _, err := c.AddFunc("@every "+v.opts.PollInterval.String(), func() {
		_ = v.refresh(ctx, act)
	}); err != nil {
		logger.From(ctx).Error("Failed to schedule polling", "interval", v.opts.PollInterval, "error", err)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.active || v.activation != act {
		return
	}
	v.poller = c
	v.status.Link = Polling
	v.status.PollEvery = v.opts.PollInterval
	c.Start()
	v.notify()
}

func (v *View) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

func (v *View) StatusText() string {
	return v.Status().Text()
}

func (v *View) Active() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// Current returns a copy of the committed schedule.
func (v *View) Current() (Current, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return Current{}, false
	}
	c := *v.current
	c.Items = slices.Clone(c.Items)
	return c, true
}

// Grouped partitions the committed items by workcenter, in order of first
// appearance, each group sorted by sequence number. It is recomputed on
// every call.
func (v *View) Grouped() []WorkcenterGroup {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == nil {
		return nil
	}
	return groupItems(v.current.Items)
}

func groupItems(items []api.ScheduleItem) []WorkcenterGroup {
	var groups []WorkcenterGroup
	index := make(map[int]int)
	for _, it := range items {
		i, ok := index[it.WorkcenterID]
		if !ok {
			i = len(groups)
			index[it.WorkcenterID] = i
			groups = append(groups, WorkcenterGroup{WorkcenterID: it.WorkcenterID})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	for i := range groups {
		slices.SortStableFunc(groups[i].Items, func(a, b api.ScheduleItem) int {
			return cmp.Compare(a.SequenceNo, b.SequenceNo)
		})
	}
	return groups
}

// Updates receives a value after each commit or status change. Bursts are
// coalesced; observers should re-read Status and Current.
func (v *View) Updates() <-chan struct{} {
	return v.updates
}

func (v *View) notify() {
	select {
	case v.updates <- struct{}{}:
	default:
	}
}
