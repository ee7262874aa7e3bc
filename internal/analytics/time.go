package analytics

import (
	"fmt"
	"time"

	"github.com/PratikDhanave/lightscan-service/internal/models"
)

// Offset-bearing layouts. Fractional seconds are accepted after any seconds
// field even when the layout omits them.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04Z07:00",
}

// Layouts without an offset; read in the display location.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Date-only values are midnight UTC.
const dateLayout = "2006-01-02"

// parseTimestamp accepts ISO-8601 forms. Values with a time but no offset
// are read in loc.
func parseTimestamp(v string, loc *time.Location) (time.Time, bool) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// flatten returns every parseable timestamp of the given scans.
func flatten(scans []models.Scan, loc *time.Location) []time.Time {
	var out []time.Time
	for _, s := range scans {
		for _, d := range s.Date {
			if t, ok := parseTimestamp(d, loc); ok {
				out = append(out, t)
			}
		}
	}
	return out
}

// truncateHour drops minutes and below in loc, keeping the offset in effect
// at t so repeated wall-clock hours stay distinct.
func truncateHour(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return t.Add(-(time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())))
}

// HourLabel renders an hour of day on a 12-hour clock: 12am, 1am, ... 12pm, 1pm.
func HourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12am"
	case hour < 12:
		return fmt.Sprintf("%dam", hour)
	case hour == 12:
		return "12pm"
	default:
		return fmt.Sprintf("%dpm", hour-12)
	}
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
