// Package when turns user-supplied date strings into instants.
package when

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Parse resolves s relative to now, interpreting zone-less dates in loc.
//
// Accepted forms: an empty string or "now" (now itself), "today" and
// "tomorrow" (midnight in loc), offsets such as "+3d", "+2h30m" or "-1w", and
// any absolute date dateparse understands ("2024-03-01", "2024-03-01 14:00",
// RFC 3339, "March 1, 2024", ...).
func Parse(s string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "now":
		return now, nil
	case "today":
		return midnight(now.In(loc)), nil
	case "tomorrow":
		return midnight(now.In(loc)).AddDate(0, 0, 1), nil
	}

	if s[0] == '+' || s[0] == '-' {
		d, err := parseOffset(s)
		if err != nil {
			return time.Time{}, err
		}
		return now.Add(d), nil
	}

	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q. Expected format: YYYY-MM-DD [HH:MM:SS]: %w", s, err)
	}
	return t, nil
}

// Optional parses s when non-empty and returns nil otherwise.
func Optional(s string, now time.Time, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := Parse(s, now, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// parseOffset accepts time.ParseDuration syntax plus a single leading day
// ("d") or week ("w") component: "+3d", "-1w", "+1d12h".
func parseOffset(s string) (time.Duration, error) {
	sign := time.Duration(1)
	if s[0] == '-' {
		sign = -1
	}
	rest := s[1:]

	var total time.Duration
	if i := strings.IndexAny(rest, "dw"); i > 0 {
		n, err := strconv.Atoi(rest[:i])
		if err != nil {
			return 0, fmt.Errorf("invalid offset %q", s)
		}
		unit := 24 * time.Hour
		if rest[i] == 'w' {
			unit *= 7
		}
		total = time.Duration(n) * unit
		rest = rest[i+1:]
	}
	if rest != "" {
		d, err := time.ParseDuration(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid offset %q", s)
		}
		total += d
	}
	if total == 0 && rest == "" && !strings.ContainsAny(s, "dw") {
		return 0, fmt.Errorf("invalid offset %q", s)
	}
	return sign * total, nil
}
