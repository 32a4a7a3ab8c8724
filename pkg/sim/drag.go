package sim

// Pointer gestures are modeled as explicit commands applied to a group's
// queue and drained before each tick. Per entity the lifecycle is
// Idle → Dragging → Idle; drags on different entities are independent,
// including simultaneous drags in the same group.

// Command is a queued interaction applied at the start of a tick.
type Command interface {
	apply(g *Group)
}

// StartDrag pins an entity at the pointer location and raises the group's
// target energy so a quiescent layout resumes visible motion. The pinned
// entity stops receiving force displacement but keeps repelling and
// colliding with others.
type StartDrag struct {
	ID   int
	X, Y float64
}

func (c StartDrag) apply(g *Group) {
	e := g.byID[c.ID]
	if e == nil {
		return
	}
	e.Pin(c.X, c.Y)
	g.target = g.cfg.DragEnergy
}

// MoveDrag updates a dragged entity's pinned position to the new pointer
// location. Issued for every pointer-move event; no-op if the entity is
// not being dragged.
type MoveDrag struct {
	ID   int
	X, Y float64
}

func (c MoveDrag) apply(g *Group) {
	e := g.byID[c.ID]
	if e == nil || !e.pinned {
		return
	}
	e.Pin(c.X, c.Y)
}

// EndDrag releases an entity back into normal force integration and lets
// the group's energy resume its decay from the current level.
type EndDrag struct {
	ID int
}

func (c EndDrag) apply(g *Group) {
	e := g.byID[c.ID]
	if e == nil {
		return
	}
	e.Unpin()
	g.target = 0
}
