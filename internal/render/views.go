package render

import (
	"time"

	"github.com/harunnryd/planboard/internal/api"
	"github.com/harunnryd/planboard/internal/gate"
	"github.com/harunnryd/planboard/internal/livesync"
	"github.com/harunnryd/planboard/internal/session"
	"github.com/harunnryd/planboard/internal/workflow"
)

type ItemView struct {
	Sequence   int       `json:"sequence" yaml:"sequence"`
	Workcenter int       `json:"workcenter" yaml:"workcenter"`
	Order      int       `json:"order" yaml:"order"`
	Start      time.Time `json:"start" yaml:"start"`
	End        time.Time `json:"end" yaml:"end"`
}

type KPIView struct {
	TotalLatenessMin int     `json:"total_lateness_min" yaml:"total_lateness_min"`
	TotalSetupMin    int     `json:"total_setup_min" yaml:"total_setup_min"`
	ChangeCount      int     `json:"change_count" yaml:"change_count"`
	AvgUtilization   float64 `json:"avg_utilization" yaml:"avg_utilization"`
}

type DraftView struct {
	ScheduleID int        `json:"schedule_id" yaml:"schedule_id"`
	Version    int        `json:"version" yaml:"version"`
	Items      []ItemView `json:"items" yaml:"items"`
	KPI        KPIView    `json:"kpi" yaml:"kpi"`
}

type ScheduleView struct {
	ScheduleID int        `json:"schedule_id" yaml:"schedule_id"`
	Version    int        `json:"version" yaml:"version"`
	Status     string     `json:"status" yaml:"status"`
	Items      []ItemView `json:"items" yaml:"items"`
}

type WorkcenterView struct {
	Workcenter int        `json:"workcenter" yaml:"workcenter"`
	Items      []ItemView `json:"items" yaml:"items"`
}

type ProductionView struct {
	Status      string           `json:"status" yaml:"status"`
	Version     int              `json:"version,omitempty" yaml:"version,omitempty"`
	Workcenters []WorkcenterView `json:"workcenters" yaml:"workcenters"`
}

type RouteView struct {
	Path     string   `json:"path" yaml:"path"`
	Name     string   `json:"name" yaml:"name"`
	Roles    []string `json:"roles,omitempty" yaml:"roles,omitempty"`
	Decision string   `json:"decision" yaml:"decision"`
}

func itemViews(items []api.ScheduleItem) []ItemView {
	views := make([]ItemView, 0, len(items))
	for _, it := range items {
		views = append(views, ItemView{
			Sequence:   it.SequenceNo,
			Workcenter: it.WorkcenterID,
			Order:      it.OrderID,
			Start:      it.Start,
			End:        it.End,
		})
	}
	return views
}

func NewKPIView(k api.KPI) KPIView {
	return KPIView{
		TotalLatenessMin: k.TotalLatenessMin,
		TotalSetupMin:    k.TotalSetupMin,
		ChangeCount:      k.ChangeCount,
		AvgUtilization:   k.AvgUtilization,
	}
}

// NewDraftView uses display, which callers obtain from the workflow already
// in presentation order.
func NewDraftView(d workflow.Draft, display []api.ScheduleItem) DraftView {
	return DraftView{
		ScheduleID: d.Schedule.ID,
		Version:    d.Schedule.Version,
		Items:      itemViews(display),
		KPI:        NewKPIView(d.KPI),
	}
}

func NewScheduleView(s api.ScheduleDraft) ScheduleView {
	return ScheduleView{
		ScheduleID: s.Schedule.ID,
		Version:    s.Schedule.Version,
		Status:     string(s.Schedule.Status),
		Items:      itemViews(workflow.SortBySequence(s.Items)),
	}
}

func NewProductionView(st livesync.Status, groups []livesync.WorkcenterGroup) ProductionView {
	view := ProductionView{
		Status:      st.Text(),
		Version:     st.Version,
		Workcenters: make([]WorkcenterView, 0, len(groups)),
	}
	for _, g := range groups {
		view.Workcenters = append(view.Workcenters, WorkcenterView{
			Workcenter: g.WorkcenterID,
			Items:      itemViews(g.Items),
		})
	}
	return view
}

// NewRouteViews lists every route with the decision the gate makes for snap.
func NewRouteViews(snap session.Snapshot, routes []gate.Route) []RouteView {
	views := make([]RouteView, 0, len(routes))
	for _, r := range routes {
		var roles []string
		for _, role := range r.Allow.Roles() {
			roles = append(roles, role.String())
		}
		views = append(views, RouteView{
			Path:     r.Path,
			Name:     r.Name,
			Roles:    roles,
			Decision: gate.Evaluate(snap, r.Allow).String(),
		})
	}
	return views
}
