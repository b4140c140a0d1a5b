package livesync

import (
	"fmt"
	"strings"
	"time"
)

// PlanState describes what the view knows about the published schedule.
type PlanState int

const (
	Loading PlanState = iota
	Published
	NoPlan
	FetchFailed
)

func (p PlanState) String() string {
	switch p {
	case Loading:
		return "loading"
	case Published:
		return "published"
	case NoPlan:
		return "no_plan"
	case FetchFailed:
		return "fetch_failed"
	default:
		return fmt.Sprintf("plan(%d)", int(p))
	}
}

// LinkState describes the push channel.
type LinkState int

const (
	Offline LinkState = iota
	Connecting
	Live
	LiveUnavailable
	Reconnecting
	Polling
)

func (l LinkState) String() string {
	switch l {
	case Offline:
		return "offline"
	case Connecting:
		return "connecting"
	case Live:
		return "live"
	case LiveUnavailable:
		return "live_unavailable"
	case Reconnecting:
		return "reconnecting"
	case Polling:
		return "polling"
	default:
		return fmt.Sprintf("link(%d)", int(l))
	}
}

type Status struct {
	Plan PlanState
	// Version of the committed schedule; zero when none is held.
	Version int
	Link    LinkState
	// PollEvery is set while Link is Polling.
	PollEvery time.Duration
}

const (
	TextLoading         = "Loading schedule..."
	TextNoPlan          = "No published plan yet"
	TextFetchFailed     = "Schedule could not be loaded"
	TextLiveUnavailable = "Live connection unavailable"
)

// Text composes the user-facing status line. A missing plan and a failed
// fetch always read differently.
func (s Status) Text() string {
	var parts []string
	switch s.Plan {
	case Loading:
		parts = append(parts, TextLoading)
	case Published:
		parts = append(parts, fmt.Sprintf("Version %d", s.Version))
	case NoPlan:
		parts = append(parts, TextNoPlan)
	case FetchFailed:
		if s.Version > 0 {
			parts = append(parts, fmt.Sprintf("%s, showing version %d", TextFetchFailed, s.Version))
		} else {
			parts = append(parts, TextFetchFailed)
		}
	}

	switch s.Link {
	case LiveUnavailable:
		parts = append(parts, TextLiveUnavailable)
	case Reconnecting:
		parts = append(parts, "Reconnecting live updates")
	case Polling:
		parts = append(parts, fmt.Sprintf("%s, refreshing every %s", TextLiveUnavailable, s.PollEvery))
	}
	return strings.Join(parts, " | ")
}
