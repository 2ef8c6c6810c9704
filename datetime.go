package zschema

import (
	"errors"
	"strings"
	"time"
)

// dateLayouts are tried in order. Fractional seconds are accepted after the
// seconds field of any layout.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.UnixDate,
	time.ANSIC,
	time.RubyDate,
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.RFC822,
	time.RFC822Z,
	"Jan _2 2006 15:04:05 MST",
	"Jan _2 2006",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// zoneOffsets resolves the North American abbreviations seen in scan data to
// fixed offsets in seconds east of UTC.
var zoneOffsets = map[string]int{
	"EDT": -4 * 3600,
	"EST": -5 * 3600,
	"CDT": -5 * 3600,
	"CST": -6 * 3600,
	"MDT": -6 * 3600,
	"MST": -7 * 3600,
	"PDT": -7 * 3600,
	"PST": -8 * 3600,
	"UTC": 0,
	"GMT": 0,
}

var errBadTimestamp = errors.New("not a valid timestamp")

// parseDateTime reads a timestamp in one of dateLayouts. Values without a zone
// are taken as UTC.
func parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errBadTimestamp
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}
		return fixZone(t), nil
	}
	return time.Time{}, errBadTimestamp
}

// fixZone replaces the zero-offset zone the time package fabricates for an
// unknown abbreviation with its real offset.
func fixZone(t time.Time) time.Time {
	name, off := t.Zone()
	if off != 0 {
		return t
	}
	want, ok := zoneOffsets[name]
	if !ok || want == 0 {
		return t
	}
	y, mo, d := t.Date()
	h, mi, sec := t.Clock()
	return time.Date(y, mo, d, h, mi, sec, t.Nanosecond(), time.FixedZone(name, want))
}
