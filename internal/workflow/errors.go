package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInput         = errors.New("input error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotify        = errors.New("notification error")
	ErrRender        = errors.New("render error")
	ErrPublish       = errors.New("publish error")
)

// Wrap builds an error message that includes step context while tagging it
// with marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, step, operation, message string, err error) error {
	detail := buildDetail(step, operation, message)
	if marker == nil {
		marker = ErrRender
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitHint returns an operator-facing hint for a failed build.
func ExitHint(err error) string {
	switch {
	case errors.Is(err, ErrInput):
		return "fix the reported record in the input file and rebuild"
	case errors.Is(err, ErrConfiguration):
		return "check the timeline sections and paths in the config file"
	case errors.Is(err, ErrNotify):
		return "check notify.data_file permissions; the ledger was not updated"
	case errors.Is(err, ErrPublish):
		return "check output_dir permissions and whether another build is running"
	default:
		return "rerun with logging.level = \"debug\" for details"
	}
}

func buildDetail(step, operation, message string) string {
	parts := make([]string, 0, 3)
	if step = strings.TrimSpace(step); step != "" {
		parts = append(parts, step)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "build failure"
	}
	return strings.Join(parts, ": ")
}
