package notify

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"longview/internal/dataset"
	"longview/internal/lvdate"
)

// noRow is how the CSV ledger spells "not attached to a row".
const noRow = "None"

// CSVLedger keeps notifications in a CSV file with the columns
// row,date,whom,text[,status]. Save replaces the file and keeps the
// previous version next to it with an ".old" suffix.
type CSVLedger struct {
	Path           string
	FiveDigitYears bool
}

// NewCSVLedger returns a ledger backed by path.
func NewCSVLedger(path string, fiveDigitYears bool) *CSVLedger {
	return &CSVLedger{Path: path, FiveDigitYears: fiveDigitYears}
}

// Load reads every entry. A missing status column means StatusUnsent.
func (l *CSVLedger) Load(_ context.Context) ([]Notification, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("open notification ledger: %w", err)
	}
	defer f.Close()
	return readCSV(f, l.Path)
}

func readCSV(r io.Reader, source string) ([]Notification, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var out []Notification
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &dataset.RecordError{Source: source, Line: parseErr.Line, Reason: parseErr.Err.Error()}
			}
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < 4 || len(record) > 5 {
			return nil, &dataset.RecordError{Source: source, Line: line, Reason: fmt.Sprintf("expected 4 or 5 fields, got %d", len(record))}
		}
		date, err := lvdate.Parse(record[1])
		if err != nil {
			return nil, &dataset.RecordError{Source: source, Line: line, Reason: err.Error()}
		}
		status := StatusUnsent
		if len(record) == 5 && strings.TrimSpace(record[4]) != "" {
			status = strings.TrimSpace(record[4])
		}
		out = append(out, Notification{
			Index:  len(out),
			Row:    decodeRow(record[0]),
			Date:   date,
			Whom:   strings.TrimSpace(record[2]),
			Text:   record[3],
			Status: status,
		})
	}
	return out, nil
}

// Save writes notifications to a temporary file in the ledger directory and
// swaps it in. When the final rename fails the previous file is restored.
func (l *CSVLedger) Save(_ context.Context, notifications []Notification) error {
	tmp, err := os.CreateTemp(filepath.Dir(l.Path), "notify*.tmp")
	if err != nil {
		return fmt.Errorf("create ledger temp file: %w", err)
	}
	tmpName := tmp.Name()

	style := lvdate.Style{FiveDigitYears: l.FiveDigitYears, WithMonth: true}
	writer := csv.NewWriter(tmp)
	for _, n := range notifications {
		record := []string{encodeRow(n.Row), n.Date.Format(style), n.Whom, n.Text, n.Status}
		if err := writer.Write(record); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
			return fmt.Errorf("write ledger: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close ledger temp file: %w", err)
	}

	backup := l.Path + ".old"
	hadOriginal := true
	if err := os.Rename(l.Path, backup); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			_ = os.Remove(tmpName)
			return fmt.Errorf("keep previous ledger: %w", err)
		}
		hadOriginal = false
	}
	if err := os.Rename(tmpName, l.Path); err != nil {
		if hadOriginal {
			_ = os.Rename(backup, l.Path)
		}
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (l *CSVLedger) Close() error { return nil }

func decodeRow(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || value == noRow {
		return ""
	}
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '\'' || first == '"') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func encodeRow(row string) string {
	if row == "" {
		return noRow
	}
	return "'" + row + "'"
}
