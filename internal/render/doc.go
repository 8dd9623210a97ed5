// Package render draws the published timeline: bar and key PNGs, the
// background strip, the now navigation cells, the three HTML pages of the
// frameset, the stylesheet, and an SVG overview.
//
// Geometry always comes from a layout.Layout; render never computes pixel
// positions on its own. Pages are html/template documents embedded in the
// binary. Deployments customise popups and the stylesheet through a YAML
// TemplatePack.
package render
