package sim

// Entity is one circular marker owned by a [Group]. Position mutates every
// tick; Radius, Color, and the raw attribute values are fixed at creation
// and never recomputed.
//
// An entity belongs to exactly one group for its entire lifetime.
type Entity struct {
	ID       int    // stable identifier (dataset row index)
	Label    string // display name
	Category string // category attribute, determines Color

	X, Y   float64 // current position in group-local coordinates
	Radius float64 // collision radius, from the size scale
	Color  string  // "#rrggbb", from the color scale

	SizeValue float64    // raw size attribute, kept for display
	Attrs     [3]float64 // raw filter attribute values

	// Matched is the current filter result. It affects presentation only;
	// the simulator never reads it.
	Matched bool

	pinned     bool
	pinX, pinY float64
}

// Pin fixes the entity at (x, y). A pinned entity receives no force
// displacement but still repels and collides with others. The pinned
// position is taken verbatim; it is not clamped to the group rectangle.
func (e *Entity) Pin(x, y float64) {
	e.pinned = true
	e.pinX = x
	e.pinY = y
	e.X = x
	e.Y = y
}

// Unpin releases the entity back into normal force integration. Its
// position stays where the pin left it until the next tick moves it.
func (e *Entity) Unpin() {
	e.pinned = false
}

// Pinned reports whether the entity is currently pinned.
func (e *Entity) Pinned() bool { return e.pinned }
