// Package workflow holds the planner's draft between "generate" and
// "publish". The draft lives only in memory and belongs to one board view.
package workflow

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/harunnryd/planboard/internal/api"
	perrors "github.com/harunnryd/planboard/internal/errors"
	"github.com/harunnryd/planboard/internal/logger"
)

const (
	MsgDraftCreated  = "Draft created."
	MsgDraftFailed   = "Draft could not be generated."
	MsgPublished     = "Plan published."
	MsgPublishFailed = "Publish failed."
)

type State int

const (
	Idle State = iota
	Generating
	Held
	Publishing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Held:
		return "held"
	case Publishing:
		return "publishing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Proposer is the part of the boundary client the board uses.
type Proposer interface {
	GenerateProposal(ctx context.Context) (api.ScheduleDraft, api.KPI, error)
	PublishProposal(ctx context.Context, scheduleID int) error
}

// Draft is a generated, unpublished schedule with its KPIs.
type Draft struct {
	Schedule api.Schedule
	Items    []api.ScheduleItem
	KPI      api.KPI
}

func (d Draft) clone() Draft {
	d.Items = slices.Clone(d.Items)
	return d
}

type Level int

const (
	LevelNone Level = iota
	LevelSuccess
	LevelError
)

// Notice is the transient message shown after an action completes.
type Notice struct {
	Level Level
	Text  string
}

type Workflow struct {
	proposer Proposer

	mu     sync.Mutex
	state  State
	draft  *Draft
	notice Notice
}

func New(p Proposer) *Workflow {
	return &Workflow{proposer: p}
}

// Generate requests a new proposal. A successful result replaces any held
// draft wholesale; a failure leaves the previous draft in place.
func (w *Workflow) Generate(ctx context.Context) error {
	w.mu.Lock()
	if w.busyLocked() {
		w.mu.Unlock()
		return fmt.Errorf("generate: %w", perrors.ErrBusy)
	}
	w.state = Generating
	w.mu.Unlock()

	log := logger.From(ctx)
	proposal, kpi, err := w.proposer.GenerateProposal(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.state = w.restingLocked()
		w.notice = Notice{Level: LevelError, Text: MsgDraftFailed}
		log.Warn("Draft generation failed", "error", err, "category", perrors.Category(err))
		return perrors.Wrap(err, "generate")
	}

	w.draft = &Draft{
		Schedule: proposal.Schedule,
		Items:    slices.Clone(proposal.Items),
		KPI:      kpi,
	}
	w.state = Held
	w.notice = Notice{Level: LevelSuccess, Text: MsgDraftCreated}
	log.Info("Draft created", "schedule_id", proposal.Schedule.ID, "items", len(proposal.Items))
	return nil
}

// Publish promotes the held draft. On success the draft is cleared; on
// failure it stays held so the planner can retry.
func (w *Workflow) Publish(ctx context.Context) error {
	w.mu.Lock()
	if w.busyLocked() {
		w.mu.Unlock()
		return fmt.Errorf("publish: %w", perrors.ErrBusy)
	}
	if w.draft == nil {
		w.mu.Unlock()
		return fmt.Errorf("publish: %w", perrors.ErrNoDraft)
	}
	scheduleID := w.draft.Schedule.ID
	w.state = Publishing
	w.mu.Unlock()

	log := logger.From(ctx)
	err := w.proposer.PublishProposal(ctx, scheduleID)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.state = Held
		w.notice = Notice{Level: LevelError, Text: MsgPublishFailed}
		log.Warn("Publish failed", "schedule_id", scheduleID, "error", err, "category", perrors.Category(err))
		return perrors.Wrap(err, "publish")
	}

	w.draft = nil
	w.state = Idle
	w.notice = Notice{Level: LevelSuccess, Text: MsgPublished}
	log.Info("Plan published", "schedule_id", scheduleID)
	return nil
}

// Discard drops the held draft when the planner leaves the board. It does
// nothing while a call is outstanding.
func (w *Workflow) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busyLocked() {
		return
	}
	w.draft = nil
	w.state = Idle
	w.notice = Notice{}
}

func (w *Workflow) busyLocked() bool {
	return w.state == Generating || w.state == Publishing
}

func (w *Workflow) restingLocked() State {
	if w.draft != nil {
		return Held
	}
	return Idle
}

func (w *Workflow) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busyLocked()
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Draft returns a copy of the held draft.
func (w *Workflow) Draft() (Draft, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return Draft{}, false
	}
	return w.draft.clone(), true
}

func (w *Workflow) Notice() Notice {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.notice
}

func (w *Workflow) CanGenerate() bool {
	return !w.Busy()
}

func (w *Workflow) CanPublish() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.busyLocked() && w.draft != nil
}

// DisplayItems returns the held draft's items ordered by sequence number.
// Items with equal sequence numbers keep their server order.
func (w *Workflow) DisplayItems() []api.ScheduleItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return nil
	}
	return SortBySequence(w.draft.Items)
}

// SortBySequence returns a copy of items stable-sorted by SequenceNo.
func SortBySequence(items []api.ScheduleItem) []api.ScheduleItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b api.ScheduleItem) int {
		return cmp.Compare(a.SequenceNo, b.SequenceNo)
	})
	return sorted
}
