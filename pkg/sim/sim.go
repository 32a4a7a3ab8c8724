// Package sim implements the per-group force layout engine.
//
// Each [Group] owns one rectangle and one set of entities and advances
// independently of every other group: one call to [Group.Tick] is one
// simulation step. A tick drains the pending drag commands, updates the
// group's energy, accumulates centering, repulsion, and collision
// displacements for every non-pinned entity, integrates positions scaled
// by the current energy, and clamps the stored positions into the
// rectangle.
//
// # Energy
//
// Energy is a scalar damping factor starting at 1.0 and decaying
// geometrically toward zero, so motion slows down and the layout settles.
// The simulator never stops on its own; ticking at quiescence is cheap.
// A drag raises the group's target energy, which the energy then
// approaches instead of decaying, resuming visible motion.
//
// # Determinism
//
// Each group draws its initial placement and its coincident-point jitter
// from an owned seeded source, so identical inputs produce identical
// layouts tick for tick.
package sim

import (
	"math"
	"math/rand"
)

// Config holds the force model parameters. All fields have sensible
// defaults via DefaultConfig; zero values are not usable.
type Config struct {
	// CenterStrength scales the per-axis pull toward the group origin.
	CenterStrength float64

	// RepelStrength scales the pairwise inverse-distance repulsion.
	// Negative repels (d3 convention).
	RepelStrength float64

	// DecayRate is the per-tick geometric energy decay.
	DecayRate float64

	// DragEnergy is the target energy set while an entity is dragged.
	DragEnergy float64

	// CollidePasses is the number of collision relaxation iterations per
	// tick. More passes settle dense groups faster at higher tick cost;
	// this is the primary lever for bounding per-tick time.
	CollidePasses int

	// Theta is the Barnes-Hut opening angle for approximated repulsion.
	Theta float64

	// BruteForceLimit is the group size up to which repulsion is evaluated
	// pairwise instead of through the quadtree.
	BruteForceLimit int

	// Margin keeps markers this far inside the rectangle edge.
	Margin float64

	// MinDistance floors distances in force computations so coincident
	// entities never produce non-finite results.
	MinDistance float64
}

// DefaultConfig returns the standard force model parameters.
func DefaultConfig() Config {
	return Config{
		CenterStrength:  0.06,
		RepelStrength:   -6,
		DecayRate:       0.03,
		DragEnergy:      0.3,
		CollidePasses:   2,
		Theta:           0.9,
		BruteForceLimit: 48,
		Margin:          2,
		MinDistance:     1e-6,
	}
}

// Group is an independent layout cell: one rectangle, one entity set, one
// simulator state. Rectangle dimensions and entity membership are fixed
// after construction. Group is not safe for concurrent use; the intended
// model is a single goroutine ticking all groups.
type Group struct {
	Key        string
	HalfWidth  float64
	HalfHeight float64

	cfg      Config
	entities []*Entity
	byID     map[int]*Entity

	energy float64
	target float64

	rng   *rand.Rand
	queue []Command

	dx, dy []float64 // per-tick displacement accumulators
	px, py []float64 // provisional positions for collision passes
}

// NewGroup creates a group with the given rectangle half-dimensions.
// Energy starts at 1.0 so a fresh layout animates into place.
func NewGroup(key string, halfWidth, halfHeight float64, cfg Config, seed uint64) *Group {
	return &Group{
		Key:        key,
		HalfWidth:  halfWidth,
		HalfHeight: halfHeight,
		cfg:        cfg,
		byID:       make(map[int]*Entity),
		energy:     1.0,
		rng:        rand.New(rand.NewSource(int64(seed))),
	}
}

// Add places an entity at a random offset inside the rectangle and takes
// ownership of it. Entity IDs must be unique within the group.
func (g *Group) Add(e *Entity) {
	limX := math.Max(0, g.HalfWidth-e.Radius-g.cfg.Margin)
	limY := math.Max(0, g.HalfHeight-e.Radius-g.cfg.Margin)
	e.X = (g.rng.Float64()*2 - 1) * limX
	e.Y = (g.rng.Float64()*2 - 1) * limY
	g.entities = append(g.entities, e)
	g.byID[e.ID] = e
	g.dx = append(g.dx, 0)
	g.dy = append(g.dy, 0)
	g.px = append(g.px, 0)
	g.py = append(g.py, 0)
}

// Entities returns the group's entities. The slice is owned by the group
// and must not be modified.
func (g *Group) Entities() []*Entity { return g.entities }

// Entity returns the entity with the given ID, or nil.
func (g *Group) Entity(id int) *Entity { return g.byID[id] }

// Len returns the number of entities.
func (g *Group) Len() int { return len(g.entities) }

// Energy returns the current energy level.
func (g *Group) Energy() float64 { return g.energy }

// Enqueue appends a drag command. Commands are drained in order at the
// start of the next tick, which is the serialization point between
// asynchronous pointer events and the simulation.
func (g *Group) Enqueue(cmd Command) {
	g.queue = append(g.queue, cmd)
}

// Tick advances the simulation by one step.
func (g *Group) Tick() {
	g.drain()
	g.updateEnergy()
	if len(g.entities) == 0 {
		return
	}

	for i := range g.entities {
		g.dx[i] = 0
		g.dy[i] = 0
	}
	g.applyCentering()
	g.applyRepulsion()
	g.applyCollisions()
	g.integrate()
}

func (g *Group) drain() {
	for _, cmd := range g.queue {
		cmd.apply(g)
	}
	g.queue = g.queue[:0]
}

func (g *Group) updateEnergy() {
	if g.target > g.energy {
		g.energy += (g.target - g.energy) * g.cfg.DecayRate
	} else {
		g.energy *= 1 - g.cfg.DecayRate
	}
}

func (g *Group) applyCentering() {
	for i, e := range g.entities {
		if e.pinned {
			continue
		}
		g.dx[i] -= e.X * g.cfg.CenterStrength
		g.dy[i] -= e.Y * g.cfg.CenterStrength
	}
}

func (g *Group) applyRepulsion() {
	if len(g.entities) <= g.cfg.BruteForceLimit {
		g.repelPairwise()
		return
	}
	qt := buildQuadtree(g.entities)
	for i, e := range g.entities {
		if e.pinned {
			continue
		}
		fx, fy := qt.force(i, e.X, e.Y, g.cfg.Theta, g.cfg.RepelStrength, g.cfg.MinDistance)
		g.dx[i] += fx
		g.dy[i] += fy
	}
}

func (g *Group) repelPairwise() {
	for i, a := range g.entities {
		for j := i + 1; j < len(g.entities); j++ {
			b := g.entities[j]
			ux := a.X - b.X
			uy := a.Y - b.Y
			dist := math.Hypot(ux, uy)
			if dist < g.cfg.MinDistance {
				// Coincident pair: jittered direction, unit distance, so
				// the push stays finite and bounded.
				ux = g.jiggle()
				uy = g.jiggle()
				norm := math.Hypot(ux, uy)
				ux /= norm
				uy /= norm
				dist = 1
			} else {
				ux /= dist
				uy /= dist
			}
			// Inverse-distance push, weighted by the source's radius so
			// big markers carve out more room.
			pushA := -g.cfg.RepelStrength * b.Radius / dist
			pushB := -g.cfg.RepelStrength * a.Radius / dist
			if !a.pinned {
				g.dx[i] += ux * pushA
				g.dy[i] += uy * pushA
			}
			if !b.pinned {
				g.dx[j] -= ux * pushB
				g.dy[j] -= uy * pushB
			}
		}
	}
}

// applyCollisions runs the relaxation passes that push overlapping circles
// apart along their connecting axis. Corrections accumulate into the tick
// displacement, so they integrate under the same energy scaling as the
// other forces. Detection works on provisional positions (current plus
// accumulated displacement) so one pass sees the corrections of the
// previous one.
func (g *Group) applyCollisions() {
	for i, e := range g.entities {
		if e.pinned {
			g.px[i] = e.pinX
			g.py[i] = e.pinY
		} else {
			g.px[i] = e.X + g.dx[i]
			g.py[i] = e.Y + g.dy[i]
		}
	}

	for pass := 0; pass < g.cfg.CollidePasses; pass++ {
		for i, a := range g.entities {
			for j := i + 1; j < len(g.entities); j++ {
				b := g.entities[j]
				ux := g.px[i] - g.px[j]
				uy := g.py[i] - g.py[j]
				dist := math.Hypot(ux, uy)
				if dist < g.cfg.MinDistance {
					ux = g.jiggle()
					uy = g.jiggle()
					dist = math.Hypot(ux, uy)
				}
				overlap := a.Radius + b.Radius - dist
				if overlap <= 0 {
					continue
				}
				ux /= dist
				uy /= dist
				switch {
				case a.pinned && b.pinned:
					// Both held by the user; leave them be.
				case a.pinned:
					g.shift(j, -ux*overlap, -uy*overlap)
				case b.pinned:
					g.shift(i, ux*overlap, uy*overlap)
				default:
					g.shift(i, ux*overlap/2, uy*overlap/2)
					g.shift(j, -ux*overlap/2, -uy*overlap/2)
				}
			}
		}
	}
}

func (g *Group) shift(i int, cx, cy float64) {
	g.dx[i] += cx
	g.dy[i] += cy
	g.px[i] += cx
	g.py[i] += cy
}

func (g *Group) integrate() {
	for i, e := range g.entities {
		if e.pinned {
			e.X = e.pinX
			e.Y = e.pinY
			continue
		}
		e.X += g.dx[i] * g.energy
		e.Y += g.dy[i] * g.energy
		g.clamp(e)
	}
}

// clamp keeps the stored position inside the rectangle, not just the
// rendered one, so the next tick computes forces from the visible state
// instead of fighting an invisible out-of-bounds position.
func (g *Group) clamp(e *Entity) {
	limX := math.Max(0, g.HalfWidth-e.Radius-g.cfg.Margin)
	limY := math.Max(0, g.HalfHeight-e.Radius-g.cfg.Margin)
	e.X = math.Max(-limX, math.Min(limX, e.X))
	e.Y = math.Max(-limY, math.Min(limY, e.Y))
}

// jiggle returns a tiny deterministic offset used to separate coincident
// points.
func (g *Group) jiggle() float64 {
	return (g.rng.Float64() - 0.5) * 1e-6
}
