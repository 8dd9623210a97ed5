package navcells

import (
	"fmt"

	"longview/internal/layout"
)

// ConfigWarning describes a non-fatal problem with configured nav cells.
type ConfigWarning struct {
	Reason string
}

func (w ConfigWarning) Error() string {
	return "nav cell configuration: " + w.Reason
}

// Manual validates configured cells. Exactly one cell should be marked now;
// when several are, only the first keeps the mark. Cells dated outside the
// timeline are dropped with a warning. Cells without a location are
// classified the same way Auto classifies them.
func Manual(l *layout.Layout, rows []Span, configured []Cell) (Plan, error) {
	if l == nil {
		return Plan{}, &layout.InvalidLayoutError{Reason: "no layout to plan navigation for"}
	}

	var warnings []ConfigWarning
	cells := make([]Cell, 0, len(configured))
	for _, cell := range configured {
		if _, err := l.PixelForDate(cell.Date); err != nil {
			warnings = append(warnings, ConfigWarning{Reason: fmt.Sprintf("nav cell %s is outside the timeline; dropped", cell.Date)})
			continue
		}
		cells = append(cells, cell)
	}

	nowCount := 0
	for i := range cells {
		if !cells[i].Now {
			continue
		}
		nowCount++
		if nowCount > 1 {
			cells[i].Now = false
		}
	}
	switch {
	case nowCount == 0:
		warnings = append(warnings, ConfigWarning{Reason: "no nav cell is marked now"})
	case nowCount > 1:
		warnings = append(warnings, ConfigWarning{Reason: fmt.Sprintf("%d nav cells are marked now; using the first", nowCount)})
	}

	classify(cells, rows, l)

	spacing := 0
	if len(cells) > 0 {
		spacing = l.TotalWidth() / len(cells)
	}
	return Plan{Cells: cells, Spacing: spacing, Warnings: warnings}, nil
}
