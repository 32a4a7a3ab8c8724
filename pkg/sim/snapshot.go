package sim

import (
	"cmp"
	"slices"
)

// Marker is the read-only per-tick projection of one entity, handed to
// rendering surfaces. It decouples renderers from the mutable simulation
// state: renderers see an explicit snapshot, never live entity pointers.
type Marker struct {
	ID       int     `json:"id"`
	Label    string  `json:"label"`
	Category string  `json:"category"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
	Color    string  `json:"color"`
	Matched  bool    `json:"matched"`
	Pinned   bool    `json:"pinned"`
}

// Snapshot projects the group's current state into markers in group-local
// coordinates, sorted by ID for deterministic output.
func (g *Group) Snapshot() []Marker {
	markers := make([]Marker, 0, len(g.entities))
	for _, e := range g.entities {
		markers = append(markers, Marker{
			ID:       e.ID,
			Label:    e.Label,
			Category: e.Category,
			X:        e.X,
			Y:        e.Y,
			Radius:   e.Radius,
			Color:    e.Color,
			Matched:  e.Matched,
			Pinned:   e.pinned,
		})
	}
	slices.SortFunc(markers, func(a, b Marker) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return markers
}
