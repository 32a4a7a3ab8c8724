package sim

import "math"

// quadtree approximates many-body repulsion in O(n log n) using the
// Barnes-Hut scheme: distant clusters of entities act through their center
// of mass instead of individually. Mass is the entity radius, so large
// markers push harder.
type quadtree struct {
	x, y          float64 // top-left corner of the region
	width, height float64

	centerX, centerY float64
	mass             float64

	body   int // entity index if leaf, -1 when empty
	isLeaf bool

	nw, ne, sw, se *quadtree
}

func newQuadtree(x, y, width, height float64) *quadtree {
	return &quadtree{x: x, y: y, width: width, height: height, isLeaf: true, body: -1}
}

// buildQuadtree constructs a tree over all entities of a group. The region
// is padded slightly so border entities insert cleanly.
func buildQuadtree(entities []*Entity) *quadtree {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, e := range entities {
		minX = math.Min(minX, e.X)
		minY = math.Min(minY, e.Y)
		maxX = math.Max(maxX, e.X)
		maxY = math.Max(maxY, e.Y)
	}
	const pad = 1.0
	qt := newQuadtree(minX-pad, minY-pad, maxX-minX+2*pad, maxY-minY+2*pad)
	for i, e := range entities {
		qt.insert(i, e.X, e.Y, e.Radius)
	}
	return qt
}

func (q *quadtree) insert(i int, px, py, m float64) {
	// Guard against degenerate recursion when many entities share one
	// point: below a minimal cell size, accumulate into the node mass.
	if !q.isLeaf || (q.body != -1 && q.width < 1e-9) {
		q.addMass(px, py, m)
		if q.isLeaf {
			return
		}
		q.quadrant(px, py).insert(i, px, py, m)
		return
	}

	if q.body == -1 {
		q.body = i
		q.centerX = px
		q.centerY = py
		q.mass = m
		return
	}

	// Leaf already occupied: split and reinsert both bodies.
	oldBody, oldX, oldY, oldMass := q.body, q.centerX, q.centerY, q.mass
	q.isLeaf = false
	q.body = -1
	halfW, halfH := q.width/2, q.height/2
	q.nw = newQuadtree(q.x, q.y, halfW, halfH)
	q.ne = newQuadtree(q.x+halfW, q.y, halfW, halfH)
	q.sw = newQuadtree(q.x, q.y+halfH, halfW, halfH)
	q.se = newQuadtree(q.x+halfW, q.y+halfH, halfW, halfH)

	q.quadrant(oldX, oldY).insert(oldBody, oldX, oldY, oldMass)
	q.addMass(px, py, m)
	q.quadrant(px, py).insert(i, px, py, m)
}

func (q *quadtree) addMass(px, py, m float64) {
	total := q.mass + m
	q.centerX = (q.centerX*q.mass + px*m) / total
	q.centerY = (q.centerY*q.mass + py*m) / total
	q.mass = total
}

func (q *quadtree) quadrant(px, py float64) *quadtree {
	midX := q.x + q.width/2
	midY := q.y + q.height/2
	if px < midX {
		if py < midY {
			return q.nw
		}
		return q.sw
	}
	if py < midY {
		return q.ne
	}
	return q.se
}

// force accumulates the repulsion on entity i at (px, py). strength follows
// the d3 convention: negative repels. theta is the opening angle; a node
// whose width over distance is below theta acts as a single body. minDist
// floors the distance to keep the result finite for coincident points.
func (q *quadtree) force(i int, px, py, theta, strength, minDist float64) (float64, float64) {
	if q.mass == 0 {
		return 0, 0
	}
	if q.isLeaf && q.body == i {
		return 0, 0
	}

	dx := px - q.centerX
	dy := py - q.centerY
	dist := math.Hypot(dx, dy)

	if q.isLeaf || q.width/math.Max(dist, minDist) < theta {
		if dist < minDist {
			// Coincident with the cluster center: push along a fixed
			// axis at unit distance so the result stays bounded.
			dist = 1
			dx = 1
			dy = 0
		}
		// Inverse-distance push away from the cluster.
		push := -strength * q.mass / dist
		return dx / dist * push, dy / dist * push
	}

	var fx, fy float64
	for _, child := range []*quadtree{q.nw, q.ne, q.sw, q.se} {
		if child == nil {
			continue
		}
		cfx, cfy := child.force(i, px, py, theta, strength, minDist)
		fx += cfx
		fy += cfy
	}
	return fx, fy
}
