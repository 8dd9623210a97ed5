package lvdate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date is a point on the timeline at month resolution.
type Date struct {
	months  int
	ongoing bool
}

// FromMonths builds a Date from a raw month count.
func FromMonths(months int) Date {
	return Date{months: months}
}

// FromTime returns the Date for the calendar month containing t.
func FromTime(t time.Time) Date {
	return Date{months: t.Year()*12 + int(t.Month()) - 1}
}

// Months returns the month count since the epoch.
func (d Date) Months() int { return d.months }

// Ongoing reports whether the date marks an open-ended end.
func (d Date) Ongoing() bool { return d.ongoing }

// AsOngoing returns a copy of d flagged as ongoing.
func (d Date) AsOngoing() Date {
	d.ongoing = true
	return d
}

// Add offsets the date by the given number of months. The ongoing flag is
// dropped because the result is a computed date.
func (d Date) Add(months int) Date {
	return Date{months: d.months + months}
}

// Sub returns the number of months between d and other.
func (d Date) Sub(other Date) int {
	return d.months - other.months
}

// Compare returns -1, 0 or +1 ordering d relative to other.
func (d Date) Compare(other Date) int {
	switch {
	case d.months < other.months:
		return -1
	case d.months > other.months:
		return 1
	default:
		return 0
	}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.months < other.months }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.months > other.months }

// Equal compares month counts and ignores the ongoing flag.
func (d Date) Equal(other Date) bool { return d.months == other.months }

// Min returns the earlier of two dates.
func Min(a, b Date) Date {
	if b.months < a.months {
		return b
	}
	return a
}

// Max returns the later of two dates.
func Max(a, b Date) Date {
	if b.months > a.months {
		return b
	}
	return a
}

// ErrInvalidDate is returned (wrapped) for strings that are not dates.
var ErrInvalidDate = errors.New("invalid date")

var datePattern = regexp.MustCompile(`(?i)^(\d+)?(?:/(\d+))?(\s?B\.?C\.?E?\.?)?$`)

// Parse reads a date in "YYYY", "YYYY/M" or "YYYY[/M] BC" form. Any of the
// BC spellings "BC", "B.C.", "BCE" and "B.C.E." are accepted, with or
// without a leading space.
func Parse(value string) (Date, error) {
	trimmed := strings.TrimSpace(value)
	match := datePattern.FindStringSubmatch(trimmed)
	if match == nil || (match[1] == "" && match[2] == "") {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}

	months := 0
	if match[1] != "" {
		year, err := strconv.Atoi(match[1])
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, value, err)
		}
		months = year * 12
	}
	if match[2] != "" {
		month, err := strconv.Atoi(match[2])
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, value, err)
		}
		if month < 1 || month > 12 {
			return Date{}, fmt.Errorf("%w: %q: month %d out of range", ErrInvalidDate, value, month)
		}
		months += month - 1
	}
	if match[3] != "" {
		months = -months
	}
	return Date{months: months}, nil
}

// MustParse is Parse for literals in tests and defaults.
func MustParse(value string) Date {
	d, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return d
}
