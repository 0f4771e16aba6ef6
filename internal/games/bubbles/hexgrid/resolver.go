package hexgrid

import (
	"fmt"
	"math"
)

// maxGrowRetries bounds how many extra rows a single impact may add while
// looking for a free neighbor.
const maxGrowRetries = 2

// Resolver turns an impact into the empty cell the projectile settles in.
type Resolver struct {
	grid   *Grid
	topo   Topology
	layout Layout
}

// NewResolver creates a resolver working on g.
func NewResolver(g *Grid, topo Topology, layout Layout) *Resolver {
	return &Resolver{grid: g, topo: topo, layout: layout}
}

// impactSide maps the direction from the impacted cell's center to the
// projectile onto a neighbor direction, plus the step to use when probing
// around it: 1 (counter-clockwise) when the projectile came in on the upper
// half of the side, 5 (clockwise) otherwise.
func impactSide(diff Vec2) (side, step int) {
	angle := math.Atan2(diff.Y, diff.X) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	sideFloat := math.Mod(angle+30, 360) / 60
	side = int(math.Floor(sideFloat))
	if side > 5 {
		side = 5
	}
	step = 5
	if sideFloat-math.Floor(sideFloat) >= 0.5 {
		step = 1
	}
	return side, step
}

// available reports whether c is a valid empty cell.
func (r *Resolver) available(c Coord) bool {
	return r.grid.IsValid(c) && !r.grid.IsOccupied(c)
}

// justBelow reports whether c would become valid if one row were appended.
func (r *Resolver) justBelow(c Coord) bool {
	return c.Row == r.grid.Rows() && c.Col >= 0 && c.Col < r.grid.Cols()
}

// ResolveImpact finds where a projectile at impactor settles after hitting
// the occupant at impacted. The bool result reports whether rows were
// appended. The grid is only ever changed by appending rows.
func (r *Resolver) ResolveImpact(impactor Vec2, impacted Coord) (Coord, bool, error) {
	if !r.grid.IsOccupied(impacted) {
		return Coord{}, false, fmt.Errorf("resolve impact at %v: %w", impacted, ErrInvalidImpact)
	}

	side, step := impactSide(impactor.Sub(r.layout.LocalPosition(impacted)))
	offsets := r.topo.NeighborOffsets(impacted.Row)
	grew := false

	// A primary candidate below the bottom row always adds a row, even when
	// its column is off the board; the probe may then use the new row.
	candidate := impacted.Add(offsets[side])
	if candidate.Row >= r.grid.Rows() {
		r.grid.AppendEmptyRow()
		grew = true
	}
	if r.available(candidate) {
		return candidate, grew, nil
	}

	for range maxGrowRetries + 1 {
		blockedBelow := false
		for i := 1; i <= 6; i++ {
			c := impacted.Add(offsets[(side+step*i)%6])
			if r.available(c) {
				return c, grew, nil
			}
			if r.justBelow(c) {
				blockedBelow = true
			}
		}
		if !blockedBelow {
			break
		}
		r.grid.AppendEmptyRow()
		grew = true
	}

	return Coord{}, grew, fmt.Errorf("resolve impact at %v: %w", impacted, ErrAllNeighborsOccupied)
}

// ResolveCeiling picks the empty row-0 cell nearest to impactor, used when
// the projectile reaches the top without touching anything. Ties go to the
// lowest column.
func (r *Resolver) ResolveCeiling(impactor Vec2) (Coord, error) {
	best := Coord{}
	bestDist := math.Inf(1)
	for col := range r.grid.Cols() {
		c := Coord{Row: 0, Col: col}
		if !r.available(c) {
			continue
		}
		if d := r.layout.LocalPosition(c).Dist(impactor); d < bestDist {
			best, bestDist = c, d
		}
	}
	if math.IsInf(bestDist, 1) {
		return Coord{}, ErrRowZeroFull
	}
	return best, nil
}
