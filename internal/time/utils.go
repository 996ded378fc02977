package timeutils

import (
	"fmt"
	"strings"
	"time"
)

// SyncTimeLayout is ISO-8601 with a numeric offset, never "Z".
const SyncTimeLayout = "2006-01-02T15:04:05-07:00"

// DisplayLayout is the date-time format used in human readable output.
const DisplayLayout = "2006-01-02 15:04:05"

const DefaultSyncTimezone = "Europe/Moscow"

// Moscow has stayed on UTC+3 without DST since 2014.
var moscowFallback = time.FixedZone("MSK", 3*60*60)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	DisplayLayout,
}

// LoadLocation resolves a timezone name, falling back to a fixed offset for
// the default zone when the host has no tz database.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultSyncTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		if name == DefaultSyncTimezone {
			return moscowFallback, nil
		}
		return nil, fmt.Errorf("unsupported timezone: %s", name)
	}
	return loc, nil
}

// SyncTime formats t, truncated to the second, in loc.
func SyncTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = moscowFallback
	}
	return t.Truncate(time.Second).In(loc).Format(SyncTimeLayout)
}

// ParseTimestamp parses a backend timestamp. Timestamps without an offset are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp format: %s", value)
}

// FormatDateTime renders t for display, keeping its own offset. Zero times render empty.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DisplayLayout)
}
