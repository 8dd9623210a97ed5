package render

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"longview/internal/dataset"
	"longview/internal/interest"
	"longview/internal/layout"
	"longview/internal/navcells"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Output layout of a published timeline.
const (
	GeneratedDir = "img-generated"
	StaticDir    = "img-static"
)

const (
	pastArrowWidth   = 56
	futureArrowWidth = 67
)

// Site is everything needed to render one timeline.
type Site struct {
	Layout    *layout.Layout
	Rows      dataset.Rows
	Interest  *interest.Table
	Policy    interest.Policy
	Nav       navcells.Plan
	Style     Style
	Templates TemplatePack
}

// NowAnchor is the fragment the frameset opens the timeline at: the now
// cell's anchor, or the first cell's when none is marked.
func (s *Site) NowAnchor() string {
	cell, ok := s.Nav.NowCell()
	if !ok {
		if len(s.Nav.Cells) == 0 {
			return s.Layout.Start().Format(s.Style.Dates.WithSeparator("_"))
		}
		cell = s.Nav.Cells[0]
	}
	return navcells.AnchorName(cell, s.Style.Dates)
}

func (s *Site) title() string {
	return s.Style.PageTitle(s.Layout.Start(), s.Layout.End())
}

type indexPage struct {
	Title          string
	TopFrameHeight int
	NowAnchor      string
}

// WriteIndex renders the frameset page.
func (s *Site) WriteIndex(w io.Writer) error {
	return pages.ExecuteTemplate(w, "index.html.tmpl", indexPage{
		Title:          s.title(),
		TopFrameHeight: s.Style.TopFrameHeight,
		NowAnchor:      s.NowAnchor(),
	})
}

type navLink struct {
	Anchor string
	Name   string
	On     string
	Off    string
}

type headerPage struct {
	Title         string
	TimelineTitle string
	Start         string
	End           string
	Cells         []navLink
	CellWidth     int
	CellHeight    int
	Keys          bool
}

// WriteHeader renders the header frame with the navigation strip.
func (s *Site) WriteHeader(w io.Writer) error {
	page := headerPage{
		Title:         s.title(),
		TimelineTitle: s.Style.Title,
		Start:         s.Layout.Start().Format(s.Style.Dates),
		End:           s.Layout.End().Format(s.Style.Dates),
		CellWidth:     s.Style.NavCellWidth,
		CellHeight:    s.Style.NavCellHeight,
		Keys:          len(s.Interest.RowIDs()) > 0,
	}
	for i, cell := range s.Nav.Cells {
		link := navLink{
			Anchor: navcells.AnchorName(cell, s.Style.Dates),
			Name:   fmt.Sprintf("nav%d", i+1),
			On:     StaticDir + "/nav-on.gif",
			Off:    StaticDir + "/nav-off.gif",
		}
		if cell.Now {
			link.Name = "navnow"
			link.On = GeneratedDir + "/" + NowOnFile
			link.Off = GeneratedDir + "/" + NowOffFile
		}
		page.Cells = append(page.Cells, link)
	}
	return pages.ExecuteTemplate(w, "header.html.tmpl", page)
}

type dateCell struct {
	Name  string
	Label string
}

type dateTable struct {
	Class          string
	Dates          []dateCell
	IntervalPixels int
}

type label struct {
	NodeID string
	Title  string
	Link   string
}

type timelinePage struct {
	Title            string
	Popups           []template.HTML
	TopDates         dateTable
	BottomDates      dateTable
	PastNowOffset    int
	PastArrowWidth   int
	FutureArrowWidth int
	TableWidth       int
	Bars             []Bar
	Labels           []label
}

// WriteTimeline renders the timeline frame from already planned bars.
func (s *Site) WriteTimeline(w io.Writer, bars []Bar) error {
	nowStart, err := s.Layout.NowBarStart()
	if err != nil {
		return err
	}
	nowWidth, err := s.Layout.NowBarWidth()
	if err != nil {
		return err
	}
	tableWidth, err := s.Layout.BarWidth(s.Layout.Start(), s.Layout.End())
	if err != nil {
		return err
	}

	page := timelinePage{
		Title:            s.title(),
		Popups:           s.popups(),
		TopDates:         s.dateTable("ytabletop", ""),
		BottomDates:      s.dateTable("ytablebottom", navcells.BottomPrefix),
		PastNowOffset:    nowStart + int(math.Round(float64(nowWidth)/2)) - pastArrowWidth,
		PastArrowWidth:   pastArrowWidth,
		FutureArrowWidth: futureArrowWidth,
		TableWidth:       tableWidth + s.Layout.Params().LeftMargin,
		Bars:             bars,
	}
	for _, row := range s.Rows {
		page.Labels = append(page.Labels, label{NodeID: row.ID, Title: row.Title, Link: row.Link})
	}
	return pages.ExecuteTemplate(w, "timeline.html.tmpl", page)
}

func (s *Site) dateTable(class, prefix string) dateTable {
	table := dateTable{Class: class, IntervalPixels: s.Layout.Params().IntervalPixels}
	for _, anchor := range s.Layout.Anchors() {
		table.Dates = append(table.Dates, dateCell{
			Name:  prefix + anchor.Format(s.Style.Dates.WithSeparator("_")),
			Label: anchor.Format(s.Style.Dates.WithSeparator("/")),
		})
	}
	return table
}

// popups expands one popup per row followed by one per subitem.
func (s *Site) popups() []template.HTML {
	dateStyle := s.Style.popupDateStyle()
	var out []template.HTML
	for _, row := range s.Rows {
		dates := row.Start.Format(dateStyle)
		if !row.SingleDate() {
			dates += " - " + row.End.Format(dateStyle)
		}
		out = append(out, template.HTML(ExpandPopup(s.Templates.Popup, row.ID, dates, row.Title, row.Args)))
		for i, sub := range row.Subitems {
			tmpl := s.Templates.Popup
			if sub.Notification {
				tmpl = s.Templates.Notify
			}
			out = append(out, template.HTML(ExpandPopup(tmpl, SubitemNode(row.ID, i), sub.Date.Format(dateStyle), row.Title, sub.Args)))
		}
	}
	return out
}

// Write renders the complete site into dir: pages, stylesheet, scripts and
// every generated image. Scripts already present in dir are kept.
func (s *Site) Write(dir string) error {
	genDir := filepath.Join(dir, GeneratedDir)
	if err := os.MkdirAll(genDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", genDir, err)
	}

	bars, err := PlanBars(s.Layout, s.Rows, s.Interest, s.Policy, s.Style)
	if err != nil {
		return err
	}
	if err := WriteBarImages(genDir, bars); err != nil {
		return err
	}
	nowStart, err := s.Layout.NowBarStart()
	if err != nil {
		return err
	}
	offset := navcells.NowMarkerOffset(nowStart, s.Layout.Params().LeftMargin, s.Nav.Spacing, s.Style.NavCellWidth)
	if err := WriteStaticImages(genDir, s.Layout, s.Style, offset); err != nil {
		return err
	}

	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"index.html", s.WriteIndex},
		{"header.html", s.WriteHeader},
		{"timeline.html", func(w io.Writer) error { return s.WriteTimeline(w, bars) }},
		{"styles.css", func(w io.Writer) error {
			_, err := io.WriteString(w, s.Templates.Stylesheet)
			return err
		}},
		{"overview.svg", func(w io.Writer) error { return WriteOverview(w, s.Layout, s.Rows, s.Style) }},
	}
	for _, page := range writers {
		if err := writeFile(filepath.Join(dir, page.name), page.write); err != nil {
			return err
		}
	}
	if err := writeScripts(dir); err != nil {
		return err
	}
	return WriteStaticAssets(dir)
}

func writeScripts(dir string) error {
	for _, name := range []string{"timeline.js", "rollover.js"} {
		dst := filepath.Join(dir, name)
		if _, err := os.Stat(dst); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", dst, err)
		}
		data, err := assetFS.ReadFile("assets/" + name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
