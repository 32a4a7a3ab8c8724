package sim

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property-based checks of the simulator invariants. These should hold for
// any entity mix, tick count, and drag sequence.
func TestSimulatorProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("positions stay inside the rectangle", prop.ForAll(
		func(count int, ticks int, seed uint64) bool {
			cfg := DefaultConfig()
			g := NewGroup("prop", 100, 80, cfg, seed)
			for i := 0; i < count; i++ {
				g.Add(&Entity{ID: i, Radius: 3 + float64(i%6)*2})
			}
			for n := 0; n < ticks; n++ {
				g.Tick()
				for _, e := range g.Entities() {
					limX := g.HalfWidth - e.Radius - cfg.Margin
					limY := g.HalfHeight - e.Radius - cfg.Margin
					if math.Abs(e.X) > limX+1e-9 || math.Abs(e.Y) > limY+1e-9 {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 60),
		gen.IntRange(1, 80),
		gen.UInt64(),
	))

	properties.Property("energy never increases without interaction", prop.ForAll(
		func(count int, ticks int, seed uint64) bool {
			g := NewGroup("prop", 100, 80, DefaultConfig(), seed)
			for i := 0; i < count; i++ {
				g.Add(&Entity{ID: i, Radius: 5})
			}
			prev := g.Energy()
			for n := 0; n < ticks; n++ {
				g.Tick()
				if g.Energy() > prev {
					return false
				}
				prev = g.Energy()
			}
			return true
		},
		gen.IntRange(0, 40),
		gen.IntRange(1, 200),
		gen.UInt64(),
	))

	properties.Property("pinned position tracks the pointer exactly", prop.ForAll(
		func(px, py float64, ticks int, seed uint64) bool {
			g := NewGroup("prop", 100, 80, DefaultConfig(), seed)
			for i := 0; i < 12; i++ {
				g.Add(&Entity{ID: i, Radius: 6})
			}
			g.Enqueue(StartDrag{ID: 0, X: px, Y: py})
			for n := 0; n < ticks; n++ {
				g.Tick()
			}
			e := g.Entity(0)
			return e.X == px && e.Y == py
		},
		gen.Float64Range(-200, 200),
		gen.Float64Range(-200, 200),
		gen.IntRange(1, 50),
		gen.UInt64(),
	))

	properties.Property("positions and energy stay finite", prop.ForAll(
		func(count int, ticks int, seed uint64) bool {
			g := NewGroup("prop", 60, 60, DefaultConfig(), seed)
			for i := 0; i < count; i++ {
				// Deliberately stack everything on one point.
				e := &Entity{ID: i, Radius: 8}
				g.Add(e)
				e.X, e.Y = 0, 0
			}
			for n := 0; n < ticks; n++ {
				g.Tick()
			}
			for _, e := range g.Entities() {
				if math.IsNaN(e.X) || math.IsNaN(e.Y) || math.IsInf(e.X, 0) || math.IsInf(e.Y, 0) {
					return false
				}
			}
			return !math.IsNaN(g.Energy())
		},
		gen.IntRange(2, 50),
		gen.IntRange(1, 60),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}
