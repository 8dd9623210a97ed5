package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"longview/internal/lvdate"
)

// OngoingMarker is the end date value meaning "still running".
const OngoingMarker = "?"

// Subitem is a dated marker drawn as a diamond on its row's bar.
type Subitem struct {
	Date         lvdate.Date
	Link         string
	Args         []string
	Notification bool
}

// Row is one horizontal bar on the timeline.
type Row struct {
	ID       string
	Start    lvdate.Date
	End      lvdate.Date
	Link     string
	Title    string
	Args     []string
	Subitems []Subitem
}

// SingleDate reports whether the row starts and ends in the same month.
func (r Row) SingleDate() bool { return r.Start.Equal(r.End) }

// Rows is the ordered row list with lookup by id.
type Rows []Row

// Find returns the index of the row with the given id, or -1.
func (rs Rows) Find(id string) int {
	for i := range rs {
		if rs[i].ID == id {
			return i
		}
	}
	return -1
}

// ErrUnknownRow is returned when a reference names a row that does not exist.
var ErrUnknownRow = errors.New("unknown row")

// AttachNotification appends a notification subitem to the row with rowID.
// The subitem arguments are the row id, the notification text and its
// delivery status, in that order.
func (rs Rows) AttachNotification(rowID string, date lvdate.Date, text, status string) error {
	i := rs.Find(rowID)
	if i < 0 {
		return fmt.Errorf("notification for %q: %w", rowID, ErrUnknownRow)
	}
	rs[i].Subitems = append(rs[i].Subitems, Subitem{
		Date:         date,
		Args:         []string{rs[i].ID, text, status},
		Notification: true,
	})
	return nil
}

// LoadFile reads the data file at path.
func LoadFile(path string, now lvdate.Date) (Rows, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()
	return Load(f, path, now)
}

// Load parses rows from r. source names the input in errors.
func Load(r io.Reader, source string, now lvdate.Date) (Rows, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows Rows
	seen := make(map[string]struct{})
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &RecordError{Source: source, Line: parseErr.Line, Reason: parseErr.Err.Error()}
			}
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		line, _ := reader.FieldPos(0)
		recErr := func(format string, args ...any) error {
			return &RecordError{Source: source, Line: line, Reason: fmt.Sprintf(format, args...)}
		}

		id := strings.TrimSpace(record[0])
		if id == "" {
			if len(rows) == 0 {
				return nil, recErr("subitem before any row")
			}
			if len(record) < 3 {
				return nil, recErr("subitem needs date and link, got %d fields", len(record))
			}
			date, err := lvdate.Parse(record[1])
			if err != nil {
				return nil, recErr("subitem date: %v", err)
			}
			last := &rows[len(rows)-1]
			last.Subitems = append(last.Subitems, Subitem{
				Date: date,
				Link: strings.TrimSpace(record[2]),
				Args: record[3:],
			})
			continue
		}

		if len(record) < 5 {
			return nil, recErr("row %q needs id, start, end, link and title, got %d fields", id, len(record))
		}
		if _, dup := seen[id]; dup {
			return nil, recErr("duplicate row id %q", id)
		}
		seen[id] = struct{}{}

		start, err := lvdate.Parse(record[1])
		if err != nil {
			return nil, recErr("row %q start: %v", id, err)
		}
		var end lvdate.Date
		if strings.TrimSpace(record[2]) == OngoingMarker {
			// A row that has not started yet runs from its start only.
			end = lvdate.Max(start, now).AsOngoing()
		} else {
			end, err = lvdate.Parse(record[2])
			if err != nil {
				return nil, recErr("row %q end: %v", id, err)
			}
		}
		if end.Before(start) {
			return nil, recErr("row %q ends (%s) before it starts (%s)", id, end, start)
		}
		rows = append(rows, Row{
			ID:    id,
			Start: start,
			End:   end,
			Link:  strings.TrimSpace(record[3]),
			Title: record[4],
			Args:  record[5:],
		})
	}
	return rows, nil
}
