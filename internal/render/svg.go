package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"longview/internal/dataset"
	"longview/internal/layout"
)

const (
	svgAxisHeight = 20
	svgRowGap     = 3
)

// WriteOverview draws every row as a rectangle at its timeline coordinates,
// with the now bar and axis labels. Rows outside the layout are left out.
func WriteOverview(w io.Writer, l *layout.Layout, rows dataset.Rows, style Style) error {
	nowStart, err := l.NowBarStart()
	if err != nil {
		return err
	}
	nowWidth, err := l.NowBarWidth()
	if err != nil {
		return err
	}
	rowPitch := style.BarHeight + svgRowGap
	width := l.ExtentWidth()
	height := svgAxisHeight + len(rows)*rowPitch + svgRowGap

	var svg strings.Builder
	fmt.Fprintf(&svg, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<title>%s</title>
`, width, height, html.EscapeString(style.PageTitle(l.Start(), l.End())))
	fmt.Fprintf(&svg, `<rect x="%d" y="0" width="%d" height="%d" fill="%s"/>`+"\n",
		nowStart, nowWidth, height, Hex(style.NowBarColor))

	for _, anchor := range l.Anchors() {
		x, err := l.PixelForDate(anchor)
		if err != nil {
			return err
		}
		fmt.Fprintf(&svg, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#dddddd" stroke-width="1"/>`+"\n",
			x, svgAxisHeight-4, x, height)
		fmt.Fprintf(&svg, `<text x="%d" y="%d" font-family="verdana, sans-serif" font-size="10" fill="#666666">%s</text>`+"\n",
			x+2, svgAxisHeight-8, html.EscapeString(anchor.Format(style.Dates)))
	}

	for i, row := range rows {
		x, err := l.PixelForDate(row.Start)
		if err != nil {
			continue
		}
		barWidth, err := l.BarWidth(row.Start, row.End)
		if err != nil {
			continue
		}
		y := svgAxisHeight + i*rowPitch
		fmt.Fprintf(&svg, `<rect id="node%s" x="%d" y="%d" width="%d" height="%d" fill="%s"><title>%s</title></rect>`+"\n",
			html.EscapeString(row.ID), x, y, barWidth, style.BarHeight, Hex(style.barColor(1+i%2)), html.EscapeString(row.Title))
		for j, sub := range row.Subitems {
			sx, err := l.PixelForDate(sub.Date)
			if err != nil {
				continue
			}
			half := style.BarHeight / 2
			fmt.Fprintf(&svg, `<polygon id="node%s" points="%d,%d %d,%d %d,%d %d,%d" fill="#ffffff"/>`+"\n",
				html.EscapeString(SubitemNode(row.ID, j)),
				sx, y+half, sx+half/2+1, y, sx+half+1, y+half, sx+half/2+1, y+style.BarHeight)
		}
	}
	svg.WriteString("</svg>\n")

	_, err = io.WriteString(w, svg.String())
	return err
}
