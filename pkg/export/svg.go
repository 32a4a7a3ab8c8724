// Package export renders a settled board frame to SVG or JSON.
//
// Both sinks consume the read-only [board.Frame] projection, never live
// simulation state, so exporting cannot disturb a running layout.
package export

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"github.com/dotswarm/dotswarm/pkg/board"
)

const (
	backgroundColor = "#1c1c24"
	cellStroke      = "#3a3a46"
	cellFill        = "#232330"
	labelColor      = "#c8c8d4"
	legendWidth     = 170.0
	unmatchedAlpha  = 0.35
)

// SVGOption configures the SVG renderer.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	legend board.Legend
	title  string
	scale  float64 // board units to pixels
}

// WithLegend adds a legend panel on the right edge.
func WithLegend(l board.Legend) SVGOption { return func(r *svgRenderer) { r.legend = l } }

// WithTitle adds a title line above the cells.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithScale sets the board-unit-to-pixel factor (default 1).
func WithScale(s float64) SVGOption { return func(r *svgRenderer) { r.scale = s } }

// RenderSVG renders a frame to an SVG document. Markers excluded by the
// active filters keep their position and radius but are drawn in the dim
// category color at reduced opacity.
func RenderSVG(frame board.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}

	titlePad := 0.0
	if r.title != "" {
		titlePad = 28
	}
	width := frame.Width * r.scale
	height := frame.Height*r.scale + titlePad
	if len(r.legend.Colors) > 0 {
		width += legendWidth
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="%s"/>`+"\n", width, height, backgroundColor)

	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="19" fill="%s" font-family="sans-serif" font-size="15" font-weight="bold">%s</text>`+"\n",
			8*r.scale, labelColor, escapeXML(r.title))
	}

	fmt.Fprintf(&buf, `  <g transform="translate(0 %.1f)">`+"\n", titlePad)
	renderCells(&buf, frame, r.scale)
	renderMarkers(&buf, frame, &r)
	buf.WriteString("  </g>\n")

	if len(r.legend.Colors) > 0 {
		renderLegend(&buf, &r, frame.Width*r.scale, titlePad)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// WriteSVGFile renders a frame and writes it with 0644 permissions.
func WriteSVGFile(path string, frame board.Frame, opts ...SVGOption) error {
	if err := os.WriteFile(path, RenderSVG(frame, opts...), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func renderCells(buf *bytes.Buffer, frame board.Frame, s float64) {
	for _, c := range frame.Cells {
		x := (c.CenterX - c.HalfWidth) * s
		y := (c.CenterY - c.HalfHeight) * s
		fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" stroke="%s"/>`+"\n",
			x, y, 2*c.HalfWidth*s, 2*c.HalfHeight*s, cellFill, cellStroke)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="12">%s</text>`+"\n",
			x+6, y+16, labelColor, escapeXML(c.Key))
	}
}

func renderMarkers(buf *bytes.Buffer, frame board.Frame, r *svgRenderer) {
	for _, m := range frame.Markers {
		fill := m.Color
		opacity := 1.0
		if !m.Matched {
			if dim, ok := r.legend.DimColors[m.Category]; ok {
				fill = dim
			}
			opacity = unmatchedAlpha
		}
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.2f">`+"\n",
			m.X*r.scale, m.Y*r.scale, m.Radius*r.scale, fill, opacity)
		fmt.Fprintf(buf, "      <title>%s</title>\n    </circle>\n", escapeXML(m.Label))
	}
}

func renderLegend(buf *bytes.Buffer, r *svgRenderer, x, titlePad float64) {
	y := titlePad + 24
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="12" font-weight="bold">Categories</text>`+"\n",
		x+12, y, labelColor)
	for _, cat := range sortedKeys(r.legend.Colors) {
		y += 18
		fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="5" fill="%s"/>`+"\n", x+18, y-4, r.legend.Colors[cat])
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="11">%s</text>`+"\n",
			x+30, y, labelColor, escapeXML(cat))
	}

	y += 30
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="12" font-weight="bold">Size</text>`+"\n",
		x+12, y, labelColor)
	for _, s := range r.legend.Sizes {
		y += 2*s.Radius + 8
		fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s"/>`+"\n",
			x+18+s.Radius, y-s.Radius, s.Radius, labelColor)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="11">%s (%.0f)</text>`+"\n",
			x+30+2*s.Radius, y-s.Radius+4, labelColor, escapeXML(s.Label), s.Value)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
