package schedule

import (
	"fmt"
	"strings"
)

// ParseRushWindows parses daily "HH:MM-HH:MM" spans, e.g.
// "08:00-09:00". Used to build scheduler options from configuration.
func ParseRushWindows(specs []string) ([]RushWindow, error) {
	out := make([]RushWindow, 0, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(strings.TrimSpace(spec), "-", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid rush window %q: want HH:MM-HH:MM", spec)
		}
		start, err := parseMinute(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid rush window %q: %w", spec, err)
		}
		end, err := parseMinute(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid rush window %q: %w", spec, err)
		}
		if end <= start {
			return nil, fmt.Errorf("invalid rush window %q: end before start", spec)
		}
		out = append(out, RushWindow{StartMin: start, EndMin: end})
	}
	return out, nil
}

func parseMinute(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse time %q: %w", s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || h*60+m > minutesPerDay {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}
