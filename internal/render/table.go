package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

const timeLayout = "Jan 02 15:04"

type TableRenderer struct {
	headerStyle  lipgloss.Style
	keyStyle     lipgloss.Style
	cellStyle    lipgloss.Style
	oddRowStyle  lipgloss.Style
	evenRowStyle lipgloss.Style
	borderStyle  lipgloss.Style
	titleStyle   lipgloss.Style
}

func NewTableRenderer() *TableRenderer {
	purple := lipgloss.Color("99")
	gray := lipgloss.Color("245")
	lightGray := lipgloss.Color("241")

	return &TableRenderer{
		headerStyle: lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Align(lipgloss.Center).
			Padding(0, 1),
		keyStyle: lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Padding(0, 1),
		cellStyle: lipgloss.NewStyle().
			Padding(0, 1),
		oddRowStyle: lipgloss.NewStyle().
			Foreground(gray).
			Padding(0, 1),
		evenRowStyle: lipgloss.NewStyle().
			Foreground(lightGray).
			Padding(0, 1),
		borderStyle: lipgloss.NewStyle().
			Foreground(purple),
		titleStyle: lipgloss.NewStyle().
			Bold(true),
	}
}

func (r *TableRenderer) striped(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.headerStyle
			case row%2 == 0:
				return r.evenRowStyle
			default:
				return r.oddRowStyle
			}
		}).
		Headers(headers...)
}

func (r *TableRenderer) items(items []ItemView) string {
	t := r.striped("Seq", "Workcenter", "Order", "Start", "End")
	for _, it := range items {
		t.Row(
			strconv.Itoa(it.Sequence),
			strconv.Itoa(it.Workcenter),
			"#"+strconv.Itoa(it.Order),
			formatTime(it.Start),
			formatTime(it.End),
		)
	}
	return t.String()
}

func (r *TableRenderer) Draft(d DraftView) (string, error) {
	var b strings.Builder
	b.WriteString(r.titleStyle.Render(fmt.Sprintf("Draft schedule %d (version %d)", d.ScheduleID, d.Version)))
	b.WriteString("\n")
	if len(d.Items) == 0 {
		b.WriteString("No items in draft\n")
	} else {
		b.WriteString(r.items(d.Items))
		b.WriteString("\n")
	}
	kpi, err := r.KPI(d.KPI)
	if err != nil {
		return "", err
	}
	b.WriteString(kpi)
	return b.String(), nil
}

func (r *TableRenderer) Schedule(s ScheduleView) (string, error) {
	var b strings.Builder
	b.WriteString(r.titleStyle.Render(fmt.Sprintf("Schedule %d, version %d (%s)", s.ScheduleID, s.Version, s.Status)))
	b.WriteString("\n")
	if len(s.Items) == 0 {
		b.WriteString("No items")
		return b.String(), nil
	}
	b.WriteString(r.items(s.Items))
	return b.String(), nil
}

func (r *TableRenderer) KPI(k KPIView) (string, error) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return r.keyStyle
			}
			return r.cellStyle
		})

	t.Row("Total lateness", fmt.Sprintf("%d min", k.TotalLatenessMin))
	t.Row("Total setup", fmt.Sprintf("%d min", k.TotalSetupMin))
	t.Row("Changeovers", strconv.Itoa(k.ChangeCount))
	t.Row("Avg utilization", fmt.Sprintf("%.1f%%", k.AvgUtilization*100))

	return t.String(), nil
}

func (r *TableRenderer) Production(p ProductionView) (string, error) {
	var b strings.Builder
	b.WriteString(r.titleStyle.Render("Production sequence"))
	b.WriteString("\n")
	b.WriteString(Muted(p.Status))
	b.WriteString("\n")

	for _, wc := range p.Workcenters {
		t := r.striped("Seq", "Order", "Start", "End")
		for _, it := range wc.Items {
			t.Row(strconv.Itoa(it.Sequence), "#"+strconv.Itoa(it.Order), formatTime(it.Start), formatTime(it.End))
		}
		b.WriteString(r.keyStyle.Render(fmt.Sprintf("Line %d", wc.Workcenter)))
		b.WriteString("\n")
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (r *TableRenderer) Routes(routes []RouteView) (string, error) {
	if len(routes) == 0 {
		return "No routes available", nil
	}

	t := r.striped("Path", "Name", "Roles", "Access")
	for _, rt := range routes {
		roles := "any"
		if len(rt.Roles) > 0 {
			roles = strings.Join(rt.Roles, ", ")
		}
		t.Row(rt.Path, rt.Name, roles, rt.Decision)
	}
	return t.String(), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
