package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"longview/internal/config"
	"longview/internal/dataset"
	"longview/internal/layout"
	"longview/internal/lvdate"
	"longview/internal/navcells"
	"longview/internal/publish"
	"longview/internal/render"
	"longview/internal/testsupport"
	"longview/internal/workflow"
)

var fixedClock = func() time.Time { return time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC) }

var standardRows = []string{
	`1,2000,2010,http://example.com/1,"First bet",Alice,Bob`,
	`,2005,http://example.com/1a,argued`,
	`2,1990,2005,,Too early`,
	`3,2015,?,,Still running`,
	`,2050,,too late`,
}

func TestRunPublishesTimeline(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithRows(standardRows...),
		testsupport.WithNotifications(`3,2020,a@example.org,Settle bet 3,`),
	)

	result, err := workflow.New(cfg, workflow.WithClock(fixedClock)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Rows != 2 {
		t.Fatalf("Rows = %d, want 2", result.Rows)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].ID != "2" {
		t.Fatalf("Skipped = %+v", result.Skipped)
	}
	if result.Notifications.Sent != 1 || result.Notifications.Failed != 0 {
		t.Fatalf("Notifications = %+v", result.Notifications)
	}
	if result.Changes.Added == 0 || result.Changes.Removed != 0 {
		t.Fatalf("first publish should only add entries: %+v", result.Changes)
	}
	if !result.Now.Equal(lvdate.MustParse("2020")) {
		t.Fatalf("Now = %v", result.Now)
	}

	out := cfg.Paths.OutputDir
	testsupport.AssertExists(t, out,
		"index.html", "header.html", "timeline.html", "styles.css", "overview.svg",
		"timeline.js", "rollover.js",
		filepath.Join(render.GeneratedDir, "1.png"),
		filepath.Join(render.GeneratedDir, "3.png"),
		filepath.Join(render.GeneratedDir, render.BackgroundFile),
		filepath.Join(render.StaticDir, "no.gif"),
	)
	timeline := testsupport.ReadFile(t, filepath.Join(out, "timeline.html"))
	if strings.Contains(timeline, "Too early") {
		t.Fatal("out-of-range row should not be rendered")
	}
	if !strings.Contains(timeline, "Settle bet 3") {
		t.Fatal("notification popup missing from timeline")
	}
	if ledger := testsupport.ReadFile(t, cfg.Notify.DataFile); !strings.Contains(ledger, "Sent") {
		t.Fatalf("ledger not stamped: %q", ledger)
	}

	entries, err := os.ReadDir(filepath.Dir(out))
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), publish.StagePrefix) {
			t.Fatalf("stage %s left behind", entry.Name())
		}
	}

	again, err := workflow.New(cfg, workflow.WithClock(fixedClock)).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if again.Notifications.Sent != 0 {
		t.Fatalf("notification sent twice: %+v", again.Notifications)
	}
	if again.Changes.Added != 0 || again.Changes.Removed != 0 {
		t.Fatalf("unchanged inputs changed the tree: %+v", again.Changes)
	}
}

func TestRunKeepsPrototypeFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRows(standardRows[0]))
	proto := filepath.Join(testsupport.BaseDir(cfg), "proto")
	testsupport.WriteLines(t, filepath.Join(proto, "timeline.js"), "// custom")
	testsupport.WriteLines(t, filepath.Join(proto, "about.html"), "<p>about</p>")
	logo := filepath.Join(testsupport.BaseDir(cfg), "logo.jpg")
	testsupport.WriteLines(t, logo, "jpeg")
	cfg.Paths.PrototypeDir = proto
	cfg.Timeline.StaticImages = []config.StaticImage{{Src: logo, Dest: "ff-logo.jpg"}}

	if _, err := workflow.New(cfg, workflow.WithClock(fixedClock)).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := cfg.Paths.OutputDir
	testsupport.AssertExists(t, out, "about.html", filepath.Join(render.StaticDir, "ff-logo.jpg"))
	if got := testsupport.ReadFile(t, filepath.Join(out, "timeline.js")); got != "// custom\n" {
		t.Fatalf("prototype script replaced: %q", got)
	}
}

func TestRunFailsOnMalformedInputWithoutPublishing(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRows(`1,notadate,2000`))

	_, err := workflow.New(cfg, workflow.WithClock(fixedClock)).Run(context.Background())
	if !errors.Is(err, workflow.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
	var recordErr *dataset.RecordError
	if !errors.As(err, &recordErr) {
		t.Fatalf("expected a RecordError in the chain, got %v", err)
	}
	if _, statErr := os.Stat(cfg.Paths.OutputDir); !os.IsNotExist(statErr) {
		t.Fatalf("output directory should not exist, stat err=%v", statErr)
	}
}

func TestRunRejectsNotificationForUnknownRow(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithRows(standardRows[0]),
		testsupport.WithNotifications(`9,2030,a@example.org,Nobody home,`),
	)
	_, err := workflow.New(cfg, workflow.WithClock(fixedClock)).Run(context.Background())
	if !errors.Is(err, workflow.ErrInput) || !errors.Is(err, dataset.ErrUnknownRow) {
		t.Fatalf("expected unknown row input error, got %v", err)
	}
}

func TestRunHonoursLock(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRows(standardRows[0]))
	if err := os.MkdirAll(filepath.Dir(cfg.Paths.OutputDir), 0o755); err != nil {
		t.Fatal(err)
	}
	held := publish.NewLock(cfg.Paths.OutputDir)
	if err := held.TryLock(); err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	defer held.Unlock()

	_, err := workflow.New(cfg, workflow.WithClock(fixedClock)).Run(context.Background())
	if !errors.Is(err, workflow.ErrPublish) || !errors.Is(err, publish.ErrLocked) {
		t.Fatalf("expected lock error, got %v", err)
	}
}

func TestRunFailsPreflight(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	_, err := workflow.New(cfg).Run(context.Background())
	if !errors.Is(err, workflow.ErrConfiguration) || !strings.Contains(err.Error(), "Data file") {
		t.Fatalf("expected preflight failure naming the data file, got %v", err)
	}
}

func TestPrepareNowOutsideSections(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRows(standardRows[0]), testsupport.WithNow("2100"))
	_, err := workflow.New(cfg).Prepare(context.Background())
	var rangeErr *layout.DateOutOfRangeError
	if !errors.Is(err, workflow.ErrConfiguration) || !errors.As(err, &rangeErr) {
		t.Fatalf("expected configuration error wrapping DateOutOfRangeError, got %v", err)
	}
}

func TestPrepareManualNavCells(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRows(standardRows...))
	cfg.Timeline.NavCells = []config.NavCell{
		{Date: "2000", Now: true},
		{Date: "2020", Now: true},
		{Date: "2040", Location: "bottom"},
		{Date: "2100"},
	}
	plan, err := workflow.New(cfg).Prepare(context.Background())
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if len(plan.Nav.Cells) != 3 || len(plan.Nav.Warnings) != 2 {
		t.Fatalf("nav = %+v", plan.Nav)
	}
	if cell, ok := plan.Nav.NowCell(); !ok || !cell.Date.Equal(lvdate.MustParse("2000")) {
		t.Fatalf("now cell = %+v, %v", cell, ok)
	}
	if plan.Nav.Cells[2].Location != navcells.LocationBottom {
		t.Fatalf("configured location lost: %+v", plan.Nav.Cells[2])
	}
	if len(plan.Rows[0].Subitems) != 1 || len(plan.Rows[1].Subitems) != 0 {
		t.Fatal("out-of-range subitem should be dropped")
	}
}

func TestPrepareAutoNavCells(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRows(standardRows...))
	plan, err := workflow.New(cfg).Prepare(context.Background())
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	cells := plan.Nav.Cells
	if len(cells) != 2 {
		t.Fatalf("cells = %+v", cells)
	}
	if !cells[len(cells)-1].Date.Equal(plan.Layout.FinalAnchor()) {
		t.Fatalf("last cell %v is not the final anchor", cells[len(cells)-1].Date)
	}
	if plan.Notifications.Pending != 0 {
		t.Fatal("Prepare must not deliver notifications")
	}
}

func TestSectionsResolveOngoing(t *testing.T) {
	cfg := config.Default()
	cfg.Timeline.Sections = []config.Section{
		{Start: "2000", End: "2010", MonthsPerAnchor: 12},
		{Start: "2011", End: "ongoing", MonthsPerAnchor: 60},
	}
	now := lvdate.MustParse("2026")
	sections, err := workflow.Sections(&cfg, now)
	if err != nil {
		t.Fatalf("Sections: %v", err)
	}
	if !sections[1].End.Equal(now.Add(120)) {
		t.Fatalf("ongoing end = %v", sections[1].End)
	}

	cfg.Timeline.Sections[0].Start = "soon"
	if _, err := workflow.Sections(&cfg, now); err == nil || !strings.Contains(err.Error(), "sections[0].start") {
		t.Fatalf("expected key-named error, got %v", err)
	}
}

func TestStyleConversion(t *testing.T) {
	cfg := config.Default()
	cfg.Timeline.LabelResolution = config.LabelMonths
	cfg.EventBar.Color1 = "#010203"
	style, err := workflow.Style(&cfg)
	if err != nil {
		t.Fatalf("Style: %v", err)
	}
	if style.Color1.R != 1 || style.Color1.G != 2 || style.Color1.B != 3 {
		t.Fatalf("Color1 = %+v", style.Color1)
	}
	if !style.Dates.WithMonth || !style.Dates.FiveDigitYears {
		t.Fatalf("Dates = %+v", style.Dates)
	}

	cfg.EventBar.NoColor = "#zz0000"
	if _, err := workflow.Style(&cfg); err == nil || !strings.Contains(err.Error(), "event_bar.no_color") {
		t.Fatalf("expected key-named colour error, got %v", err)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := workflow.Wrap(workflow.ErrPublish, "publish", "update output", "/srv/html", cause)
	if !errors.Is(err, workflow.ErrPublish) || !errors.Is(err, cause) {
		t.Fatalf("wrapped error lost its markers: %v", err)
	}
	if got := err.Error(); got != "publish error: publish: update output: /srv/html: disk full" {
		t.Fatalf("message = %q", got)
	}
	if workflow.ExitHint(err) == "" {
		t.Fatal("expected a hint")
	}
}
