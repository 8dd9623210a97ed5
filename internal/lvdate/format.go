package lvdate

import (
	"fmt"
	"strconv"
	"strings"
)

// Style controls how a Date is rendered.
type Style struct {
	// FiveDigitYears zero pads years to five digits ("02004").
	FiveDigitYears bool
	// WithMonth appends the month after MonthSeparator.
	WithMonth bool
	// MonthSeparator defaults to "/".
	MonthSeparator string
	// SpaceBeforeBC inserts a space between the number and the era.
	SpaceBeforeBC bool
	// Periods renders the era as "B.C." instead of "BC".
	Periods bool
}

// DefaultStyle is the long-now style: five-digit years, no months.
var DefaultStyle = Style{FiveDigitYears: true, MonthSeparator: "/"}

// WithSeparator returns a copy of s using sep between year and month.
func (s Style) WithSeparator(sep string) Style {
	s.MonthSeparator = sep
	return s
}

// Format renders d according to style. Ongoing dates render as "?".
func (d Date) Format(style Style) string {
	if d.ongoing {
		return "?"
	}

	months := d.months
	bc := months < 0
	if bc {
		months = -months
	}
	year := months / 12

	var b strings.Builder
	if style.FiveDigitYears {
		fmt.Fprintf(&b, "%05d", year)
	} else {
		b.WriteString(strconv.Itoa(year))
	}
	if style.WithMonth {
		sep := style.MonthSeparator
		if sep == "" {
			sep = "/"
		}
		b.WriteString(sep)
		b.WriteString(strconv.Itoa(months%12 + 1))
	}
	if bc {
		if style.SpaceBeforeBC {
			b.WriteByte(' ')
		}
		if style.Periods {
			b.WriteString("B.C.")
		} else {
			b.WriteString("BC")
		}
	}
	return b.String()
}

// String renders d in DefaultStyle with the month included.
func (d Date) String() string {
	style := DefaultStyle
	style.WithMonth = true
	return d.Format(style)
}
