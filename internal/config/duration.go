package config

import (
	"fmt"
	"strings"
	"time"
)

// DurationOrDefault parses a timeout or interval setting, falling back to
// defaultValue when value is blank. Every duration planboard reads is a wait
// or a period, so zero and negative values are rejected.
func DurationOrDefault(value string, defaultValue string) (time.Duration, error) {
	candidate := strings.TrimSpace(value)
	if candidate == "" {
		candidate = strings.TrimSpace(defaultValue)
	}
	if candidate == "" {
		return 0, fmt.Errorf("duration value is empty")
	}

	d, err := time.ParseDuration(candidate)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", candidate, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", candidate)
	}
	return d, nil
}
