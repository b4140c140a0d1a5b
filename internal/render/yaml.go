package render

import (
	"strings"

	"gopkg.in/yaml.v3"
)

type YAMLRenderer struct{}

func NewYAMLRenderer() *YAMLRenderer {
	return &YAMLRenderer{}
}

func marshalYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (r *YAMLRenderer) Draft(d DraftView) (string, error)           { return marshalYAML(d) }
func (r *YAMLRenderer) Schedule(s ScheduleView) (string, error)     { return marshalYAML(s) }
func (r *YAMLRenderer) Production(p ProductionView) (string, error) { return marshalYAML(p) }
func (r *YAMLRenderer) KPI(k KPIView) (string, error)               { return marshalYAML(k) }
func (r *YAMLRenderer) Routes(routes []RouteView) (string, error)   { return marshalYAML(routes) }
