package hexgrid

import "math"

// Neighbor directions, counter-clockwise from the right.
const (
	DirRight = iota
	DirUpperRight
	DirUpperLeft
	DirLeft
	DirLowerLeft
	DirLowerRight
)

// NeighborFunc returns the six neighbor offsets for cells on the given row,
// indexed by direction.
type NeighborFunc func(row int) [6]Coord

var (
	evenRowOffsets = [6]Coord{{0, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}}
	oddRowOffsets  = [6]Coord{{0, 1}, {-1, 1}, {-1, 0}, {0, -1}, {1, 0}, {1, 1}}
)

// OffsetNeighbors is the "odd rows shoved right" layout.
func OffsetNeighbors(row int) [6]Coord {
	if row%2 != 0 {
		return oddRowOffsets
	}
	return evenRowOffsets
}

// Topology describes which cells are adjacent.
type Topology struct {
	Offsets NeighborFunc
}

// DefaultTopology returns the offset-row topology.
func DefaultTopology() Topology {
	return Topology{Offsets: OffsetNeighbors}
}

// NeighborOffsets returns the direction offsets for a row.
func (t Topology) NeighborOffsets(row int) [6]Coord {
	if t.Offsets == nil {
		return OffsetNeighbors(row)
	}
	return t.Offsets(row)
}

// Neighbors returns the six coordinates adjacent to c, valid or not.
func (t Topology) Neighbors(c Coord) [6]Coord {
	offs := t.NeighborOffsets(c.Row)
	var out [6]Coord
	for i, o := range offs {
		out[i] = c.Add(o)
	}
	return out
}

// Neighbor returns the coordinate adjacent to c in direction dir (0..5).
func (t Topology) Neighbor(c Coord, dir int) Coord {
	return c.Add(t.NeighborOffsets(c.Row)[dir])
}

// Vec2 is a point or displacement in grid-local space.
// Y grows upward, so rows below row 0 have negative Y.
type Vec2 struct {
	X float64
	Y float64
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Len returns the Euclidean length.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the Euclidean distance between two points.
func (v Vec2) Dist(o Vec2) float64 {
	return v.Sub(o).Len()
}

// Layout maps coordinates to grid-local positions.
type Layout struct {
	// InnerRadius is the apothem of a cell: half the distance between
	// the centers of two horizontally adjacent cells.
	InnerRadius float64
}

// OuterRadius is the circumradius of a cell.
func (l Layout) OuterRadius() float64 {
	return l.InnerRadius * 2 / math.Sqrt(3)
}

// RowHeight is the vertical distance between two row centers.
func (l Layout) RowHeight() float64 {
	return l.OuterRadius() * 1.5
}

// LocalPosition returns the center of a cell. Row 0 sits on Y=0 and
// column 0 of even rows on X=0; odd rows are shifted right by InnerRadius.
func (l Layout) LocalPosition(c Coord) Vec2 {
	x := float64(c.Col) * l.InnerRadius * 2
	if c.IsOddRow() {
		x += l.InnerRadius
	}
	return Vec2{X: x, Y: -float64(c.Row) * l.RowHeight()}
}

// NearestCoord returns the cell whose center is closest to p, searching the
// rounded guess and its neighbors under topo.
// The result is not checked against any grid bounds.
func (l Layout) NearestCoord(p Vec2, topo Topology) Coord {
	row := int(math.Round(-p.Y / l.RowHeight()))
	x := p.X
	if row%2 != 0 {
		x -= l.InnerRadius
	}
	guess := Coord{Row: row, Col: int(math.Round(x / (l.InnerRadius * 2)))}

	best := guess
	bestDist := l.LocalPosition(guess).Dist(p)
	for _, n := range topo.Neighbors(guess) {
		if d := l.LocalPosition(n).Dist(p); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}
