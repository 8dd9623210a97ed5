package layout

import (
	"fmt"

	"longview/internal/lvdate"
)

// DateOutOfRangeError reports a date that no section contains.
type DateOutOfRangeError struct {
	Date lvdate.Date
}

func (e *DateOutOfRangeError) Error() string {
	return fmt.Sprintf("date %s is not contained in any timeline section", e.Date)
}

// ErrorKind classifies the failure for workflow reporting.
func (e *DateOutOfRangeError) ErrorKind() string { return "validation" }

// InvalidLayoutError reports a section list that cannot produce a timeline.
type InvalidLayoutError struct {
	Reason string
}

func (e *InvalidLayoutError) Error() string {
	return "invalid timeline layout: " + e.Reason
}

// ErrorKind classifies the failure for workflow reporting.
func (e *InvalidLayoutError) ErrorKind() string { return "configuration" }
