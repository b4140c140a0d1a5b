package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// The backend writes naive UTC datetimes ("2024-05-01T08:00:00.123456").
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// wireTime decodes RFC 3339 timestamps and zone-less ones, read as UTC.
type wireTime struct {
	time.Time
}

func (w *wireTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t, err := parseTimestamp(raw)
	if err != nil {
		return err
	}
	w.Time = t
	return nil
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q is neither RFC 3339 nor a UTC datetime", raw)
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	type plain Schedule
	aux := struct {
		*plain
		CreatedAt wireTime `json:"created_at"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.CreatedAt = aux.CreatedAt.Time
	return nil
}

func (it *ScheduleItem) UnmarshalJSON(data []byte) error {
	type plain ScheduleItem
	aux := struct {
		*plain
		Start wireTime `json:"start_ts"`
		End   wireTime `json:"end_ts"`
	}{plain: (*plain)(it)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	it.Start = aux.Start.Time
	it.End = aux.End.Time
	return nil
}
