package render

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harunnryd/planboard/internal/api"
	"github.com/harunnryd/planboard/internal/gate"
	"github.com/harunnryd/planboard/internal/livesync"
	"github.com/harunnryd/planboard/internal/session"
	"github.com/harunnryd/planboard/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDraft() (workflow.Draft, []api.ScheduleItem) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	items := []api.ScheduleItem{
		{WorkcenterID: 1, OrderID: 7, SequenceNo: 2, Start: start.Add(time.Hour), End: start.Add(2 * time.Hour)},
		{WorkcenterID: 1, OrderID: 5, SequenceNo: 1, Start: start, End: start.Add(time.Hour)},
	}
	d := workflow.Draft{
		Schedule: api.Schedule{ID: 12, Version: 3, Status: api.StatusDraft},
		Items:    items,
		KPI:      api.KPI{TotalLatenessMin: 30, TotalSetupMin: 45, ChangeCount: 2, AvgUtilization: 0.755},
	}
	return d, workflow.SortBySequence(items)
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{"table", OutputFormatTable, false},
		{"JSON", OutputFormatJSON, false},
		{" yaml ", OutputFormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	for _, f := range []OutputFormat{OutputFormatTable, OutputFormatJSON, OutputFormatYAML} {
		r, err := New(f)
		require.NoError(t, err)
		assert.NotNil(t, r)
	}
	_, err := New("invalid")
	assert.Error(t, err)
}

func TestTableRenderer_Draft(t *testing.T) {
	d, display := sampleDraft()
	out, err := NewTableRenderer().Draft(NewDraftView(d, display))
	require.NoError(t, err)

	assert.Contains(t, out, "Draft schedule 12 (version 3)")
	assert.Contains(t, out, "#5")
	assert.Contains(t, out, "75.5%")
	assert.Less(t, strings.Index(out, "#5"), strings.Index(out, "#7"), "sequence 1 renders before sequence 2")
}

func TestTableRenderer_ProductionAndRoutes(t *testing.T) {
	r := NewTableRenderer()
	groups := []livesync.WorkcenterGroup{
		{WorkcenterID: 3, Items: []api.ScheduleItem{{WorkcenterID: 3, OrderID: 9, SequenceNo: 1}}},
	}
	out, err := r.Production(NewProductionView(livesync.Status{Plan: livesync.Published, Version: 4, Link: livesync.Live}, groups))
	require.NoError(t, err)
	assert.Contains(t, out, "Version 4")
	assert.Contains(t, out, "Line 3")
	assert.Contains(t, out, "#9")

	snap := session.Snapshot{Hydrated: true, Session: session.Session{Credential: "t", Role: session.RoleSales}}
	routes, err := r.Routes(NewRouteViews(snap, gate.Routes()))
	require.NoError(t, err)
	assert.Contains(t, routes, "/board")
	assert.Contains(t, routes, "forbidden")
	assert.Contains(t, routes, "any")

	empty, err := r.Routes(nil)
	require.NoError(t, err)
	assert.Equal(t, "No routes available", empty)
}

func TestJSONRenderer_Draft(t *testing.T) {
	d, display := sampleDraft()
	out, err := NewJSONRenderer().Draft(NewDraftView(d, display))
	require.NoError(t, err)

	var decoded DraftView
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 12, decoded.ScheduleID)
	require.Len(t, decoded.Items, 2)
	assert.Equal(t, 1, decoded.Items[0].Sequence)
	assert.Equal(t, 2, decoded.KPI.ChangeCount)
}

func TestYAMLRenderer_Routes(t *testing.T) {
	snap := session.Snapshot{Hydrated: true, Session: session.Session{Credential: "t", Role: session.RoleAdmin}}
	out, err := NewYAMLRenderer().Routes(NewRouteViews(snap, gate.Routes()))
	require.NoError(t, err)
	assert.Contains(t, out, "path: /settings")
	assert.Contains(t, out, "decision: authorized")
	assert.NotContains(t, out, "forbidden")
}

func TestNewScheduleView_SortsBySequence(t *testing.T) {
	v := NewScheduleView(api.ScheduleDraft{
		Schedule: api.Schedule{ID: 2, Version: 2, Status: api.StatusPublished},
		Items: []api.ScheduleItem{
			{OrderID: 1, SequenceNo: 3},
			{OrderID: 2, SequenceNo: 1},
		},
	})
	assert.Equal(t, "published", v.Status)
	assert.Equal(t, 2, v.Items[0].Order)
}
