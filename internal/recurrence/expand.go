package recurrence

import (
	"fmt"
	"time"
)

// MaxCount bounds how many occurrences a single create may expand into.
// There is no open-ended recurrence: the count is always finite and
// caller-supplied.
const MaxCount = 52

// Expand produces exactly count occurrence instants, starting at and
// including base, strictly increasing, stepping by the rule. Monthly and
// yearly steps are anchored to base's day-of-month: a step landing in a
// shorter month clamps to that month's last day, and later steps return to
// the anchor day (Jan 31 -> Feb 28 -> Mar 31). Time-of-day and zone are
// carried over from base unchanged.
func Expand(base time.Time, rule Rule, count int) ([]time.Time, error) {
	if count < 1 || count > MaxCount {
		return nil, fmt.Errorf("occurrence count %d out of range [1, %d]", count, MaxCount)
	}

	dates := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, occurrence(base, rule, i))
	}
	return dates, nil
}

func occurrence(base time.Time, rule Rule, step int) time.Time {
	switch rule {
	case Daily:
		return base.AddDate(0, 0, step)
	case Weekly:
		return base.AddDate(0, 0, 7*step)
	case Monthly:
		return anchoredMonthStep(base, step)
	case Yearly:
		return anchoredYearStep(base, step)
	}
	return base
}

// anchoredMonthStep advances by whole calendar months, clamping the anchor
// day to the target month's length. time.AddDate is avoided here: it
// normalizes Jan 31 + 1 month into Mar 2/3 instead of clamping.
func anchoredMonthStep(base time.Time, step int) time.Time {
	year, month, _ := base.AddDate(0, step, -base.Day()+1).Date()
	day := base.Day()
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day,
		base.Hour(), base.Minute(), base.Second(), base.Nanosecond(), base.Location())
}

func anchoredYearStep(base time.Time, step int) time.Time {
	year := base.Year() + step
	day := base.Day()
	if last := daysInMonth(year, base.Month()); day > last {
		day = last // Feb 29 in a non-leap year
	}
	return time.Date(year, base.Month(), day,
		base.Hour(), base.Minute(), base.Second(), base.Nanosecond(), base.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
