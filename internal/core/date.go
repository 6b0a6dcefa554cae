package core

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the label format of the weekly buckets.
const DayLayout = "2006-01-02"

// Layouts carrying their own zone offset. Fractional seconds are accepted by
// time.Parse even when the layout does not spell them out.
var zonedLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02T15:04:05-07",
}

// Layouts without a zone; they are read in the caller's location.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	DayLayout,
}

// ParseDate parses the date_changed column. Values carrying an offset keep it;
// naive values are interpreted in loc (UTC when loc is nil).
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// MonthLabel returns the three-letter English abbreviation ("Jan".."Dec").
func MonthLabel(m time.Month) string {
	return m.String()[:3]
}
