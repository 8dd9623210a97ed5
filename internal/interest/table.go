package interest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"longview/internal/dataset"
	"longview/internal/lvdate"
)

// RecordError reports a malformed interest record.
type RecordError = dataset.RecordError

// Record is the statistics for one row in one month.
type Record struct {
	Yes      int
	No       int
	Posts    int
	HasPosts bool
}

// Table holds interest records keyed by row id and month.
type Table struct {
	rows     map[string]map[int]Record
	maxPosts int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[string]map[int]Record)}
}

// Set stores a record, updating the post maximum.
func (t *Table) Set(rowID string, month lvdate.Date, rec Record) {
	byMonth, ok := t.rows[rowID]
	if !ok {
		byMonth = make(map[int]Record)
		t.rows[rowID] = byMonth
	}
	byMonth[month.Months()] = rec
	if rec.HasPosts && rec.Posts > t.maxPosts {
		t.maxPosts = rec.Posts
	}
}

// Has reports whether any record exists for rowID.
func (t *Table) Has(rowID string) bool {
	if t == nil {
		return false
	}
	_, ok := t.rows[rowID]
	return ok
}

// Lookup returns the record for rowID in month.
func (t *Table) Lookup(rowID string, month lvdate.Date) (Record, bool) {
	if t == nil {
		return Record{}, false
	}
	rec, ok := t.rows[rowID][month.Months()]
	return rec, ok
}

// MaxPosts is the largest discussion post count across all rows and months.
func (t *Table) MaxPosts() int {
	if t == nil {
		return 0
	}
	return t.maxPosts
}

// RowIDs lists the rows that have interest data, sorted.
func (t *Table) RowIDs() []string {
	if t == nil {
		return nil
	}
	ids := make([]string, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadFile reads the interest file at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open interest file: %w", err)
	}
	defer f.Close()
	return Load(f, path)
}

// Load parses "row,date,yes,no[,posts]" records from r.
func Load(r io.Reader, source string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	table := NewTable()
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
		if len(record) != 4 && len(record) != 5 {
			return nil, &RecordError{Source: source, Line: line, Reason: fmt.Sprintf("expected 4 or 5 fields, got %d", len(record))}
		}
		rowID := strings.TrimSpace(record[0])
		if rowID == "" {
			return nil, &RecordError{Source: source, Line: line, Reason: "missing row id"}
		}
		month, err := lvdate.Parse(record[1])
		if err != nil {
			return nil, &RecordError{Source: source, Line: line, Reason: err.Error()}
		}

		counts := make([]int, 0, 3)
		for i, field := range record[2:] {
			n, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil || n < 0 {
				return nil, &RecordError{Source: source, Line: line, Reason: fmt.Sprintf("field %d: %q is not a non-negative count", i+3, field)}
			}
			counts = append(counts, n)
		}
		rec := Record{Yes: counts[0], No: counts[1]}
		if len(counts) == 3 {
			rec.Posts = counts[2]
			rec.HasPosts = true
		}
		table.Set(rowID, month, rec)
	}
	return table, nil
}
