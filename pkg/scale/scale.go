// Package scale maps raw dataset values to visual attributes.
//
// Two mappings are provided, both fixed once constructed:
//
//   - [Size] maps a numeric attribute to a marker radius using a square-root
//     scale, so marker area (not radius) grows linearly with the value.
//   - [Color] maps a category string to a deterministic palette color.
//
// Both scales are built once from the full dataset before any layout group
// exists, so radii and colors are comparable across groups. Neither scale
// fails on bad input: a missing or non-numeric size value maps to the
// minimum radius, and categories beyond the palette length cycle through
// the palette deterministically.
package scale

import (
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// Default radius range in board units.
const (
	DefaultMinRadius = 3
	DefaultMaxRadius = 14
)

// Size is a square-root scale from an attribute domain to a radius range.
// The zero value is not usable; use NewSize.
type Size struct {
	domainMin float64
	domainMax float64
	minRadius float64
	maxRadius float64
}

// NewSize creates a size scale with domain [domainMin, domainMax] and output
// range [minRadius, maxRadius]. A degenerate domain (min >= max) is allowed
// and maps every value to minRadius.
func NewSize(domainMin, domainMax, minRadius, maxRadius float64) Size {
	return Size{
		domainMin: domainMin,
		domainMax: domainMax,
		minRadius: minRadius,
		maxRadius: maxRadius,
	}
}

// Radius maps a raw value to a radius. The mapping is monotonic over the
// domain and clamped to [MinRadius, MaxRadius] outside it. NaN and Inf
// values map to MinRadius.
func (s Size) Radius(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return s.minRadius
	}
	if s.domainMax <= s.domainMin {
		return s.minRadius
	}
	t := (v - s.domainMin) / (s.domainMax - s.domainMin)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return s.minRadius + math.Sqrt(t)*(s.maxRadius-s.minRadius)
}

// MinRadius returns the lower bound of the output range.
func (s Size) MinRadius() float64 { return s.minRadius }

// MaxRadius returns the upper bound of the output range.
func (s Size) MaxRadius() float64 { return s.maxRadius }

// LegendSample pairs a representative attribute value with its radius, for
// legend rendering.
type LegendSample struct {
	Label  string
	Value  float64
	Radius float64
}

// Samples returns one legend sample per labeled value, in input order.
// Labels and values must have equal length; extra entries of either are
// ignored.
func (s Size) Samples(labels []string, values []float64) []LegendSample {
	n := min(len(labels), len(values))
	out := make([]LegendSample, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, LegendSample{
			Label:  labels[i],
			Value:  values[i],
			Radius: s.Radius(values[i]),
		})
	}
	return out
}

// Color is a deterministic ordinal scale from category strings to palette
// colors. Categories are sorted and deduplicated at construction, so the
// assignment depends only on the category set, not on input order.
type Color struct {
	categories []string
	index      map[string]int
	palette    []colorful.Color
}

// NewColor builds a color scale over the given categories. The palette may
// be shorter than the category set; assignments cycle through the palette
// in that case. A nil or empty palette falls back to DefaultPalette.
func NewColor(categories []string, palette []colorful.Color) Color {
	if len(palette) == 0 {
		palette = DefaultPalette()
	}
	sorted := slices.Clone(categories)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	index := make(map[string]int, len(sorted))
	for i, c := range sorted {
		index[c] = i
	}
	return Color{categories: sorted, index: index, palette: palette}
}

// Hex returns the color for a category as a "#rrggbb" string. Unknown
// categories map to the first palette color.
func (c Color) Hex(category string) string {
	return c.color(category).Hex()
}

// DimHex returns a desaturated, lightened variant of the category color,
// used for markers excluded by the active filters.
func (c Color) DimHex(category string) string {
	h, s, l := c.color(category).Hsl()
	return colorful.Hsl(h, s*0.25, l*0.4+0.45).Clamped().Hex()
}

// Categories returns the sorted, deduplicated category set.
func (c Color) Categories() []string {
	return slices.Clone(c.categories)
}

// Mapping returns the full category-to-hex assignment, for legends.
func (c Color) Mapping() map[string]string {
	m := make(map[string]string, len(c.categories))
	for _, cat := range c.categories {
		m[cat] = c.Hex(cat)
	}
	return m
}

func (c Color) color(category string) colorful.Color {
	i, ok := c.index[category]
	if !ok {
		i = 0
	}
	return c.palette[i%len(c.palette)]
}

// DefaultPalette returns a ten-color categorical palette. Colors were
// picked for contrast against a dark background.
func DefaultPalette() []colorful.Color {
	hexes := []string{
		"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
		"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	}
	palette := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, _ := colorful.Hex(h)
		palette[i] = c
	}
	return palette
}
