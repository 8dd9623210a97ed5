package dataset

import "fmt"

// RecordError reports a malformed record in a delimited input file.
type RecordError struct {
	Source string
	Line   int
	Reason string
}

func (e *RecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

// ErrorKind classifies the failure for workflow reporting.
func (e *RecordError) ErrorKind() string { return "validation" }
