package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"longview/internal/lvdate"
)

var testNow = lvdate.MustParse("2026/10")

func TestLoadRowsAndSubitems(t *testing.T) {
	input := strings.Join([]string{
		`1,2000,2010/6,http://example.com/1,"First bet",Alice,Bob`,
		`,2004/3,http://example.com/1a,"argued"`,
		`,2005,,`,
		`2,1990 BC,?,,Second`,
	}, "\n")
	rows, err := Load(strings.NewReader(input), "data.csv", testNow)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	first := rows[0]
	if first.ID != "1" || first.Title != "First bet" || first.Link != "http://example.com/1" {
		t.Fatalf("unexpected first row %+v", first)
	}
	if len(first.Args) != 2 || first.Args[0] != "Alice" || first.Args[1] != "Bob" {
		t.Fatalf("args = %v", first.Args)
	}
	if len(first.Subitems) != 2 {
		t.Fatalf("subitems = %d", len(first.Subitems))
	}
	if first.Subitems[0].Date.Months() != 2004*12+2 || first.Subitems[0].Args[0] != "argued" {
		t.Fatalf("subitem = %+v", first.Subitems[0])
	}

	second := rows[1]
	if second.Start.Months() != -1990*12 {
		t.Fatalf("BC start = %d", second.Start.Months())
	}
	if !second.End.Ongoing() || !second.End.Equal(testNow) {
		t.Fatalf("ongoing end = %v", second.End)
	}
	if rows.Find("2") != 1 || rows.Find("nope") != -1 {
		t.Fatal("Find mismatch")
	}
}

func TestLoadOngoingRowStartingAfterNow(t *testing.T) {
	rows, err := Load(strings.NewReader("9,2030,?,,Not yet started\n"), "data.csv", testNow)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	row := rows[0]
	if !row.End.Ongoing() || !row.End.Equal(row.Start) {
		t.Fatalf("end = %v, want ongoing at start %v", row.End, row.Start)
	}
}

func TestLoadRejectsMalformedRecords(t *testing.T) {
	cases := map[string]string{
		"short row":        "1,2000,2001,link",
		"bad start":        "1,twothousand,2001,,t",
		"bad end":          "1,2000,2001/13,,t",
		"orphan subitem":   ",2000,link",
		"short subitem":    "1,2000,2001,,t\n,2000",
		"bad subitem date": "1,2000,2001,,t\n,xx,link",
		"duplicate id":     "1,2000,2001,,t\n1,2002,2003,,u",
		"reversed":         "1,2005,2001,,t",
		"bad quoting":      "1,2000,2001,,\"t",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(input), "data.csv", testNow)
			var recErr *RecordError
			if !errors.As(err, &recErr) {
				t.Fatalf("expected RecordError, got %v", err)
			}
			if recErr.Source != "data.csv" || recErr.Line < 1 {
				t.Fatalf("error lacks position: %+v", recErr)
			}
		})
	}
}

func TestRecordErrorLineNumber(t *testing.T) {
	input := "1,2000,2001,,t\n2,2000,2001,,u\n3,bad,2001,,v\n"
	_, err := Load(strings.NewReader(input), "data.csv", testNow)
	var recErr *RecordError
	if !errors.As(err, &recErr) || recErr.Line != 3 {
		t.Fatalf("expected error on line 3, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "data.csv:3:") {
		t.Fatalf("error string = %q", err.Error())
	}
}

func TestAttachNotification(t *testing.T) {
	rows := Rows{{ID: "7", Start: testNow, End: testNow}}
	if err := rows.AttachNotification("7", testNow, "vote opens", "Sent October 16, 02026"); err != nil {
		t.Fatalf("AttachNotification: %v", err)
	}
	sub := rows[0].Subitems[0]
	if !sub.Notification || sub.Args[0] != "7" || sub.Args[1] != "vote opens" || sub.Args[2] != "Sent October 16, 02026" {
		t.Fatalf("subitem = %+v", sub)
	}
	if err := rows.AttachNotification("8", testNow, "x", ""); !errors.Is(err, ErrUnknownRow) {
		t.Fatalf("expected ErrUnknownRow, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("1,2000,2001,,t\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := LoadFile(path, testNow)
	if err != nil || len(rows) != 1 {
		t.Fatalf("LoadFile = %v, %v", rows, err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv"), testNow); err == nil {
		t.Fatal("expected error for missing file")
	}
}
