package dateutil

import (
	"testing"
	"time"
)

// A fixed negative-offset zone exercises the historical bug class of
// UTC-midnight strings displaying one day early.
var minusFive = time.FixedZone("UTC-5", -5*3600)

type tsWrapper struct{ t time.Time }

func (w tsWrapper) ToDate() time.Time { return w.t }

func TestNormalizeDayStringPassthrough(t *testing.T) {
	n := New(minusFive)
	if got := n.Normalize("2025-12-14"); got != "2025-12-14" {
		t.Errorf("Normalize(day string) = %q, want 2025-12-14", got)
	}
}

func TestNormalizeTimeValue(t *testing.T) {
	n := New(minusFive)
	// 23:00 local on Dec 14 must stay Dec 14 even though it is Dec 15 UTC.
	late := time.Date(2025, 12, 14, 23, 0, 0, 0, minusFive)
	if got := n.Normalize(late); got != "2025-12-14" {
		t.Errorf("Normalize(local 23:00) = %q, want 2025-12-14", got)
	}
}

func TestNormalizeUTCStringConvertsToLocalDay(t *testing.T) {
	n := New(minusFive)
	// 02:00Z on Dec 15 is still Dec 14 at UTC-5.
	if got := n.Normalize("2025-12-15T02:00:00Z"); got != "2025-12-14" {
		t.Errorf("Normalize(UTC string) = %q, want 2025-12-14", got)
	}
}

func TestNormalizeTimestampWrapper(t *testing.T) {
	n := New(minusFive)
	w := tsWrapper{t: time.Date(2025, 3, 15, 14, 0, 0, 0, time.UTC)}
	if got := n.Normalize(w); got != "2025-03-15" {
		t.Errorf("Normalize(wrapper) = %q, want 2025-03-15", got)
	}
}

func TestNormalizeUnparseable(t *testing.T) {
	n := New(minusFive)
	for _, in := range []any{nil, "", "not-a-date", "2025-13-45T99:99", 42} {
		if got := n.Normalize(in); got != "" {
			t.Errorf("Normalize(%v) = %q, want empty sentinel", in, got)
		}
	}
}

func TestNormalizeZeroTime(t *testing.T) {
	n := New(minusFive)
	if got := n.Normalize(time.Time{}); got != "" {
		t.Errorf("Normalize(zero time) = %q, want empty", got)
	}
	var p *time.Time
	if got := n.Normalize(p); got != "" {
		t.Errorf("Normalize(nil *time.Time) = %q, want empty", got)
	}
}

// Timezone independence: a UTC-midnight string and a local-noon string for
// the same calendar day must normalize identically in a negative-offset
// zone. The UTC-midnight variant carries the explicit local offset, which
// is how wall-clock-equal instants arrive from a backend storing UTC.
func TestNormalizeTimezoneIndependence(t *testing.T) {
	n := New(minusFive)
	localMidnightAsUTC := "2025-07-04T00:00:00-05:00"
	localNoon := "2025-07-04T12:00"

	a, b := n.Normalize(localMidnightAsUTC), n.Normalize(localNoon)
	if a != b || a != "2025-07-04" {
		t.Errorf("got %q and %q, want both 2025-07-04", a, b)
	}
}

// Round-trip stability across the local-noon convention:
// Normalize(d) == FormatLocal(ParseLocalDateTime(Normalize(d) + "T12:00")).
func TestNormalizeRoundTrip(t *testing.T) {
	n := New(minusFive)
	inputs := []any{
		"2025-12-14",
		"2025-12-15T02:00:00Z",
		time.Date(2024, 2, 29, 18, 30, 0, 0, minusFive),
		tsWrapper{t: time.Date(2025, 1, 1, 0, 0, 0, 0, minusFive)},
	}
	for _, in := range inputs {
		day := n.Normalize(in)
		if day == "" {
			t.Fatalf("Normalize(%v) unexpectedly empty", in)
		}
		parsed, err := n.ParseLocalDateTime(day + "T12:00")
		if err != nil {
			t.Fatalf("ParseLocalDateTime: %v", err)
		}
		if got := n.FormatLocal(parsed); got != day {
			t.Errorf("round trip of %v: got %q, want %q", in, got, day)
		}
	}
}

func TestParseLocalDateTimeNoonDefault(t *testing.T) {
	n := New(minusFive)
	got, err := n.ParseLocalDateTime("2025-03-15")
	if err != nil {
		t.Fatalf("ParseLocalDateTime: %v", err)
	}
	want := time.Date(2025, 3, 15, 12, 0, 0, 0, minusFive)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseLocalDateTimeWithClock(t *testing.T) {
	n := New(minusFive)
	got, err := n.ParseLocalDateTime("2025-03-15T09:00")
	if err != nil {
		t.Fatalf("ParseLocalDateTime: %v", err)
	}
	if got.Hour() != 9 || got.Minute() != 0 {
		t.Errorf("clock = %02d:%02d, want 09:00", got.Hour(), got.Minute())
	}
	if n.FormatLocal(got) != "2025-03-15" {
		t.Errorf("day = %q, want 2025-03-15", n.FormatLocal(got))
	}
}

func TestSameDay(t *testing.T) {
	n := New(minusFive)
	if !n.SameDay("2025-12-14", time.Date(2025, 12, 14, 23, 0, 0, 0, minusFive)) {
		t.Error("string vs late-evening time should be same day")
	}
	if n.SameDay("", "") {
		t.Error("empty sentinels must never match, even each other")
	}
	if n.SameDay("garbage", "2025-12-14") {
		t.Error("unparseable input must not match any day")
	}
}

func TestStartOfDay(t *testing.T) {
	n := New(minusFive)
	got := n.StartOfDay(time.Date(2025, 6, 1, 17, 45, 12, 0, minusFive))
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, minusFive)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}
