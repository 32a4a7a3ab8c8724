// Package board assembles a loaded dataset into laid-out groups and
// drives them.
//
// Construction order matters: the size and color scale domains are
// computed from the entire dataset first, so radii and colors are globally
// comparable, and only then are the groups built and populated. After
// construction the board is advanced one tick per frame by a single
// goroutine; pointer gestures and filter changes are applied between
// ticks, so no locking is needed anywhere.
package board

import (
	"cmp"
	"math"
	"slices"

	"github.com/dotswarm/dotswarm/pkg/dataset"
	"github.com/dotswarm/dotswarm/pkg/errors"
	"github.com/dotswarm/dotswarm/pkg/filter"
	"github.com/dotswarm/dotswarm/pkg/scale"
	"github.com/dotswarm/dotswarm/pkg/sim"
)

// DefaultSeed is the default random seed for reproducible layouts.
const DefaultSeed = uint64(42)

// Default cell geometry in board units.
const (
	DefaultCellHalfWidth  = 130.0
	DefaultCellHalfHeight = 110.0
	DefaultCellGutter     = 20.0
)

// Config controls board construction.
type Config struct {
	CellHalfWidth  float64
	CellHalfHeight float64
	CellGutter     float64 // spacing between neighboring cells
	MinRadius      float64
	MaxRadius      float64
	Sim            sim.Config
	Seed           uint64
}

// DefaultConfig returns the standard board parameters.
func DefaultConfig() Config {
	return Config{
		CellHalfWidth:  DefaultCellHalfWidth,
		CellHalfHeight: DefaultCellHalfHeight,
		CellGutter:     DefaultCellGutter,
		MinRadius:      scale.DefaultMinRadius,
		MaxRadius:      scale.DefaultMaxRadius,
		Sim:            sim.DefaultConfig(),
		Seed:           DefaultSeed,
	}
}

// Cell is the static rectangle of one group, in board coordinates.
type Cell struct {
	Key        string  `json:"key"`
	CenterX    float64 `json:"center_x"`
	CenterY    float64 `json:"center_y"`
	HalfWidth  float64 `json:"half_width"`
	HalfHeight float64 `json:"half_height"`
}

// Frame is the per-tick projection handed to rendering surfaces: marker
// positions in board coordinates plus the static cell geometry.
type Frame struct {
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Cells   []Cell       `json:"cells"`
	Markers []sim.Marker `json:"markers"`
}

// Legend is the static mapping material for the legend subsystem: colors
// per category and representative size samples.
type Legend struct {
	Colors    map[string]string // category -> "#rrggbb"
	DimColors map[string]string // category -> dimmed variant
	Sizes     []scale.LegendSample
}

// Board owns the groups, scales, and filters of one loaded dataset.
type Board struct {
	cfg    Config
	groups []*sim.Group
	cells  []Cell
	owner  map[int]int // entity ID -> group index

	sizeScale  scale.Size
	colorScale scale.Color
	filters    *filter.Set
	legend     Legend
}

// New builds a board from a loaded dataset. The dataset must be non-empty;
// datasets that fail to load never reach this point.
func New(d *dataset.Dataset, cfg Config) (*Board, error) {
	if d == nil || len(d.Rows) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "cannot build a board without data")
	}

	// Global scale domains before any group exists.
	sizeStats := d.SizeStats()
	sizeScale := scale.NewSize(sizeStats.Min, sizeStats.Max, cfg.MinRadius, cfg.MaxRadius)
	colorScale := scale.NewColor(d.Categories(), nil)

	var mins, maxes [filter.AttrCount]float64
	for i := 0; i < filter.AttrCount; i++ {
		s := d.FilterStats(i)
		mins[i] = s.Min
		maxes[i] = s.Max
	}
	filters := filter.NewSet(d.FilterNames(), mins, maxes)

	b := &Board{
		cfg:        cfg,
		owner:      make(map[int]int),
		sizeScale:  sizeScale,
		colorScale: colorScale,
		filters:    filters,
	}

	keys := d.Groups()
	b.layoutCells(keys)
	for i, key := range keys {
		// Offset the seed per group so side-by-side cells don't start
		// with mirrored placements.
		b.groups = append(b.groups, sim.NewGroup(key, cfg.CellHalfWidth, cfg.CellHalfHeight,
			cfg.Sim, cfg.Seed+uint64(i)))
	}
	groupIndex := make(map[string]int, len(keys))
	for i, key := range keys {
		groupIndex[key] = i
	}

	for _, row := range d.Rows {
		gi := groupIndex[row.Group]
		e := &sim.Entity{
			ID:        row.Index,
			Label:     row.Label,
			Category:  row.Category,
			Radius:    sizeScale.Radius(row.Size),
			Color:     colorScale.Hex(row.Category),
			SizeValue: row.Size,
			Attrs:     sanitizeAttrs(row.Filters, mins),
		}
		b.groups[gi].Add(e)
		b.owner[e.ID] = gi
	}

	dims := make(map[string]string)
	for _, cat := range colorScale.Categories() {
		dims[cat] = colorScale.DimHex(cat)
	}
	b.legend = Legend{
		Colors:    colorScale.Mapping(),
		DimColors: dims,
		Sizes: sizeScale.Samples(
			[]string{"min", "mean", "max"},
			[]float64{sizeStats.Min, sizeStats.Mean, sizeStats.Max},
		),
	}

	b.refilter()
	return b, nil
}

// sanitizeAttrs replaces NaN filter cells with the attribute's global
// minimum so the entity stays matchable at full-range thresholds.
func sanitizeAttrs(vals [dataset.FilterCount]float64, mins [filter.AttrCount]float64) [filter.AttrCount]float64 {
	var out [filter.AttrCount]float64
	for i, v := range vals {
		if math.IsNaN(v) {
			v = mins[i]
		}
		out[i] = v
	}
	return out
}

// layoutCells arranges the group rectangles in a near-square grid.
func (b *Board) layoutCells(keys []string) {
	n := len(keys)
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	stepX := 2*b.cfg.CellHalfWidth + b.cfg.CellGutter
	stepY := 2*b.cfg.CellHalfHeight + b.cfg.CellGutter

	for i, key := range keys {
		col := i % cols
		row := i / cols
		b.cells = append(b.cells, Cell{
			Key:        key,
			CenterX:    b.cfg.CellGutter/2 + b.cfg.CellHalfWidth + float64(col)*stepX,
			CenterY:    b.cfg.CellGutter/2 + b.cfg.CellHalfHeight + float64(row)*stepY,
			HalfWidth:  b.cfg.CellHalfWidth,
			HalfHeight: b.cfg.CellHalfHeight,
		})
	}
}

// Tick advances every group by exactly one step, draining queued drag
// commands first.
func (b *Board) Tick() {
	for _, g := range b.groups {
		g.Tick()
	}
}

// Groups returns the groups in sorted key order.
func (b *Board) Groups() []*sim.Group { return b.groups }

// Cells returns the static cell geometry in group order.
func (b *Board) Cells() []Cell { return slices.Clone(b.cells) }

// Size returns the total board extent in board units.
func (b *Board) Size() (width, height float64) {
	for _, c := range b.cells {
		width = math.Max(width, c.CenterX+c.HalfWidth+b.cfg.CellGutter/2)
		height = math.Max(height, c.CenterY+c.HalfHeight+b.cfg.CellGutter/2)
	}
	return width, height
}

// StartDrag pins the entity under the pointer. Coordinates are in board
// space; the command is queued on the owning group and applied before its
// next tick.
func (b *Board) StartDrag(id int, x, y float64) {
	if gi, ok := b.owner[id]; ok {
		lx, ly := b.toLocal(gi, x, y)
		b.groups[gi].Enqueue(sim.StartDrag{ID: id, X: lx, Y: ly})
	}
}

// MoveDrag updates a dragged entity's pin to the new pointer location.
func (b *Board) MoveDrag(id int, x, y float64) {
	if gi, ok := b.owner[id]; ok {
		lx, ly := b.toLocal(gi, x, y)
		b.groups[gi].Enqueue(sim.MoveDrag{ID: id, X: lx, Y: ly})
	}
}

// EndDrag releases a dragged entity.
func (b *Board) EndDrag(id int) {
	if gi, ok := b.owner[id]; ok {
		b.groups[gi].Enqueue(sim.EndDrag{ID: id})
	}
}

func (b *Board) toLocal(gi int, x, y float64) (float64, float64) {
	c := b.cells[gi]
	return x - c.CenterX, y - c.CenterY
}

// SetThreshold updates the user-adjustable maximum of filter attribute i
// and recomputes the matched flag of every entity. Linear in the entity
// count; every control event triggers a full recompute, no debouncing.
func (b *Board) SetThreshold(i int, v float64) {
	b.filters.SetMax(i, v)
	b.refilter()
}

// ResetThresholds restores every filter maximum to its global ceiling.
func (b *Board) ResetThresholds() {
	b.filters.Reset()
	b.refilter()
}

// Filters returns the current filter state for control surfaces.
func (b *Board) Filters() [filter.AttrCount]filter.Attr {
	return b.filters.Attrs()
}

func (b *Board) refilter() {
	for _, g := range b.groups {
		for _, e := range g.Entities() {
			e.Matched = b.filters.Matches(e.Attrs)
		}
	}
}

// Snapshot projects the current state into a frame with marker positions
// translated into board coordinates, markers sorted by ID.
func (b *Board) Snapshot() Frame {
	width, height := b.Size()
	frame := Frame{Width: width, Height: height, Cells: b.Cells()}
	for gi, g := range b.groups {
		c := b.cells[gi]
		for _, m := range g.Snapshot() {
			m.X += c.CenterX
			m.Y += c.CenterY
			frame.Markers = append(frame.Markers, m)
		}
	}
	slices.SortFunc(frame.Markers, func(a, m sim.Marker) int {
		return cmp.Compare(a.ID, m.ID)
	})
	return frame
}

// MarkerAt returns the topmost marker whose circle contains the board
// point (x, y), for pointer hit testing. The bool result reports whether
// anything was hit.
func (b *Board) MarkerAt(x, y float64) (sim.Marker, bool) {
	best := sim.Marker{ID: -1}
	bestDist := math.Inf(1)
	for gi, g := range b.groups {
		c := b.cells[gi]
		for _, e := range g.Entities() {
			dist := math.Hypot(x-(e.X+c.CenterX), y-(e.Y+c.CenterY))
			if dist <= e.Radius && dist < bestDist {
				bestDist = dist
				best = sim.Marker{
					ID: e.ID, Label: e.Label, Category: e.Category,
					X: e.X + c.CenterX, Y: e.Y + c.CenterY,
					Radius: e.Radius, Color: e.Color,
					Matched: e.Matched, Pinned: e.Pinned(),
				}
			}
		}
	}
	return best, best.ID >= 0
}

// Legend returns the static legend material derived once from the scales
// at construction time.
func (b *Board) Legend() Legend { return b.legend }
