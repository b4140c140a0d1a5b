package render

import (
	"encoding/json"
)

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

func marshalJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *JSONRenderer) Draft(d DraftView) (string, error)           { return marshalJSON(d) }
func (r *JSONRenderer) Schedule(s ScheduleView) (string, error)     { return marshalJSON(s) }
func (r *JSONRenderer) Production(p ProductionView) (string, error) { return marshalJSON(p) }
func (r *JSONRenderer) KPI(k KPIView) (string, error)               { return marshalJSON(k) }
func (r *JSONRenderer) Routes(routes []RouteView) (string, error)   { return marshalJSON(routes) }
