// Package caldate handles floating calendar dates: a year, month and day with
// no time-of-day and no zone. Deadline dates are stored this way so that a
// device's UTC offset can never move them by a day.
package caldate

import (
	"fmt"
	"strings"
	"time"
)

const layout = "2006-01-02"

// Date is a floating calendar date. The zero value is not a valid date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseServerDateOnly reads the literal year, month and day of a date-only
// string such as "2025-11-30". A full timestamp is accepted too; only its
// leading date part is used and its offset is ignored. Malformed input
// returns ok=false.
func ParseServerDateOnly(value string) (Date, bool) {
	value = strings.TrimSpace(value)
	if len(value) < len(layout) {
		return Date{}, false
	}
	if len(value) > len(layout) {
		switch value[len(layout)] {
		case 'T', 't', ' ':
		default:
			return Date{}, false
		}
	}
	parsed, err := time.Parse(layout, value[:len(layout)])
	if err != nil {
		return Date{}, false
	}
	return Date{Year: parsed.Year(), Month: parsed.Month(), Day: parsed.Day()}, true
}

// MustParse is ParseServerDateOnly for literals known to be valid.
func MustParse(value string) Date {
	d, ok := ParseServerDateOnly(value)
	if !ok {
		panic(fmt.Sprintf("caldate: invalid date %q", value))
	}
	return d
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999Z07",
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// NormalizeServerDate converts a full server timestamp into wall-clock time
// in loc. Timestamps without an offset are taken as UTC. A nil loc means
// time.Local.
func NormalizeServerDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, l := range timestampLayouts {
		if t, err := time.Parse(l, value); err == nil {
			return t.In(loc), true
		}
	}
	for _, l := range zonelessLayouts {
		if t, err := time.ParseInLocation(l, value, time.UTC); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// DateOf returns the calendar date t falls on in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today is the calendar date of now in now's location.
func Today(now time.Time) Date {
	return DateOf(now)
}

// LocalDaysLeft is the number of whole calendar days from today (in now's
// location) to the date in value. It is negative once the date has passed.
// ok is false when value is not a date.
func LocalDaysLeft(value string, now time.Time) (int, bool) {
	target, ok := ParseServerDateOnly(value)
	if !ok {
		return 0, false
	}
	return target.DaysSince(Today(now)), true
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// DaysSince returns d - other in calendar days.
func (d Date) DaysSince(other Date) int {
	return d.civil() - other.civil()
}

// AddDays moves d by n calendar days.
func (d Date) AddDays(n int) Date {
	return fromCivil(d.civil() + n)
}

func (d Date) Before(other Date) bool { return d.civil() < other.civil() }

func (d Date) After(other Date) bool { return d.civil() > other.civil() }

// civil is the day number relative to 1970-01-01, counted on the proleptic
// Gregorian calendar without any clock arithmetic.
func (d Date) civil() int {
	y := d.Year
	m := int(d.Month)
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d.Day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func fromCivil(z int) Date {
	z += 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day := doy - (153*mp+2)/5 + 1
	month := mp + 3
	if month > 12 {
		month -= 12
	}
	if month <= 2 {
		y++
	}
	return Date{Year: y, Month: time.Month(month), Day: day}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
