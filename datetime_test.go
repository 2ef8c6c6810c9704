package zschema

import (
	"testing"
	"time"
)

func TestParseDateTime_ZoneAbbreviations(t *testing.T) {
	got, err := parseDateTime("Wed Dec  5 01:23:45 CST 1956")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(1956, 12, 5, 7, 23, 45, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got.UTC(), want)
	}

	got, err = parseDateTime("Wed Jul  8 08:52:01 EDT 2015")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, off := got.Zone(); off != -4*3600 {
		t.Fatalf("EDT offset = %d", off)
	}
}

func TestParseDateTime_Layouts(t *testing.T) {
	for _, s := range []string{
		"2015-07-08T08:52:01Z",
		"2015-07-08T08:52:01.123456+02:00",
		"1753-01-01 00:00:00.000000+00:00",
		"9999-12-31 23:59:59.999999+00:00",
		"2015-07-08 08:52:01",
		"2015-07-08",
		"Mon, 02 Jan 2006 15:04:05 MST",
	} {
		if _, err := parseDateTime(s); err != nil {
			t.Fatalf("%q: %v", s, err)
		}
	}
}

func TestParseDateTime_Rejects(t *testing.T) {
	for _, s := range []string{"", "Wed DNE  35 08:52:01 EDT 2015", "yesterday", "2015-13-45"} {
		if _, err := parseDateTime(s); err == nil {
			t.Fatalf("%q: expected error", s)
		}
	}
}

func TestDefaultBoundsParse(t *testing.T) {
	lo, err := parseDateTime("1753-01-01 00:00:00.000000+00:00")
	if err != nil || !lo.Equal(defaultMinTime) {
		t.Fatalf("min bound %v %v", lo, err)
	}
	hi, err := parseDateTime("9999-12-31 23:59:59.999999+00:00")
	if err != nil || !hi.Equal(defaultMaxTime) {
		t.Fatalf("max bound %v %v", hi, err)
	}
}
