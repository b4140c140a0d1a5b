// Package render turns drafts, production boards and route menus into text
// for the terminal, as lipgloss tables or as JSON/YAML for scripting.
package render

import (
	"fmt"
	"strings"
)

type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

type Renderer interface {
	Draft(DraftView) (string, error)
	Schedule(ScheduleView) (string, error)
	Production(ProductionView) (string, error)
	KPI(KPIView) (string, error)
	Routes([]RouteView) (string, error)
}

func New(format OutputFormat) (Renderer, error) {
	switch format {
	case OutputFormatTable:
		return NewTableRenderer(), nil
	case OutputFormatJSON:
		return NewJSONRenderer(), nil
	case OutputFormatYAML:
		return NewYAMLRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, json, yaml)", format)
	}
}

func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (supported: table, json, yaml)", s)
	}
}
