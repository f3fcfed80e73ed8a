package dateutil

import (
	"fmt"
	"regexp"
	"time"
)

// DayFormat is the canonical local calendar-day layout. All day-level
// comparisons in the calendar are string equality on this format; raw
// time.Time values must never be compared across events without
// normalizing both sides first.
const DayFormat = "2006-01-02"

var dayOnlyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// TimeSource mirrors database timestamp wrapper objects that expose the
// underlying instant via ToDate().
type TimeSource interface {
	ToDate() time.Time
}

// Normalizer converts heterogeneous date representations into canonical
// local-calendar-day strings for a fixed display timezone. The zone is
// injected so the whole application agrees on what "day" means regardless
// of the host's local zone.
type Normalizer struct {
	loc *time.Location
}

func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{loc: loc}
}

// Location returns the normalizer's display timezone.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize returns the YYYY-MM-DD local calendar day for any supported
// date representation: time.Time, *time.Time, wrapper objects with
// ToDate(), ISO strings with or without time/offset, and bare day strings.
// Unparseable or empty input yields "" — the sentinel callers must treat
// as "excluded from every day bucket".
func (n *Normalizer) Normalize(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return n.FormatLocal(d)
	case *time.Time:
		if d == nil || d.IsZero() {
			return ""
		}
		return n.FormatLocal(*d)
	case TimeSource:
		return n.FormatLocal(d.ToDate())
	case string:
		if d == "" {
			return ""
		}
		// Already a bare day string: pass through untouched. Parsing it
		// would re-interpret it as UTC midnight in some layouts and shift
		// the day in negative-offset zones.
		if dayOnlyRe.MatchString(d) {
			return d
		}
		t, err := parseFlexible(d, n.loc)
		if err != nil {
			return ""
		}
		return n.FormatLocal(t)
	default:
		return ""
	}
}

// FormatLocal formats an instant as its calendar day in the display zone.
func (n *Normalizer) FormatLocal(t time.Time) string {
	return t.In(n.loc).Format(DayFormat)
}

// FormatClock returns the HH:MM wall-clock time of an instant in the
// display zone.
func (n *Normalizer) FormatClock(t time.Time) string {
	return t.In(n.loc).Format("15:04")
}

// ParseLocalDateTime parses "YYYY-MM-DDTHH:MM" as display-zone wall-clock
// time. A bare "YYYY-MM-DD" defaults to noon so DST transitions and zone
// offsets can never push the instant across a day boundary.
func (n *Normalizer) ParseLocalDateTime(s string) (time.Time, error) {
	if dayOnlyRe.MatchString(s) {
		t, err := time.ParseInLocation(DayFormat, s, n.loc)
		if err != nil {
			return time.Time{}, err
		}
		return t.Add(12 * time.Hour), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", s, n.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse local datetime %q: %w", s, err)
	}
	return t, nil
}

// SameDay reports whether two date representations fall on the same local
// calendar day. Inputs that normalize to the empty sentinel never match
// anything, including each other.
func (n *Normalizer) SameDay(a, b any) bool {
	as, bs := n.Normalize(a), n.Normalize(b)
	return as != "" && bs != "" && as == bs
}

// StartOfDay truncates an instant to local midnight in the display zone.
func (n *Normalizer) StartOfDay(t time.Time) time.Time {
	t = t.In(n.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, n.loc)
}

// ParseDay parses a canonical day string into local midnight.
func (n *Normalizer) ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayFormat, s, n.loc)
}

func parseFlexible(s string, loc *time.Location) (time.Time, error) {
	// Offset-carrying layouts fix the instant; zone-less layouts are
	// wall-clock in the display zone.
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
