// Package timeexpr parses the human-friendly time expressions accepted by
// list filters such as 'orders list --since'.
package timeexpr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matches "2h", "3d ago", "1mo", "2w ago". Durations always count back from now.
var relativeRegex = regexp.MustCompile(`^(\d+)\s*(mo|w|d|h|m)(\s+ago)?$`)

// ParsePast resolves s to an instant at or before now.
// Supports: "2h", "3d ago", "1mo", "today", "yesterday", "monday", "last fri",
// "2024-03-01" and RFC3339.
func ParsePast(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}
	input := strings.ToLower(raw)

	switch input {
	case "now":
		return now, nil
	case "today":
		return startOfDay(now), nil
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), nil
	}

	if t, ok := parseWeekday(input, now); ok {
		return t, nil
	}

	if m := relativeRegex.FindStringSubmatch(input); m != nil {
		value, err := strconv.Atoi(m[1])
		if err != nil || value < 1 {
			return time.Time{}, fmt.Errorf("invalid relative time %q", raw)
		}
		return subtract(now, value, m[2]), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", raw, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		if t.After(now) {
			return time.Time{}, fmt.Errorf("time %q is in the future", raw)
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid time expression %q", raw)
}

// Format renders t the way the Revolut APIs expect date-time query values.
func Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseWeekday resolves "friday" or "last friday" to the most recent such day
// before today.
func parseWeekday(expr string, now time.Time) (time.Time, bool) {
	input := strings.TrimSpace(strings.TrimPrefix(expr, "last "))
	weekday, ok := weekdays[input]
	if !ok {
		return time.Time{}, false
	}
	base := startOfDay(now)
	delta := (int(base.Weekday()) - int(weekday) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return base.AddDate(0, 0, -delta), true
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "weds": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

func subtract(now time.Time, value int, unit string) time.Time {
	switch unit {
	case "mo":
		return now.AddDate(0, -value, 0)
	case "w":
		return now.AddDate(0, 0, -7*value)
	case "d":
		return now.AddDate(0, 0, -value)
	case "h":
		return now.Add(-time.Duration(value) * time.Hour)
	default:
		return now.Add(-time.Duration(value) * time.Minute)
	}
}
