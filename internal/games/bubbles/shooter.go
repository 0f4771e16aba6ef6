package bubbles

import (
	"math"

	"github.com/vovakirdan/tui-bubbles/internal/games/bubbles/hexgrid"
)

// field is the playfield geometry in grid-local units.
type field struct {
	topo      hexgrid.Topology
	layout    hexgrid.Layout
	cols      int
	minX      float64 // leftmost projectile center
	maxX      float64 // rightmost projectile center
	launch    hexgrid.Vec2
	contact   float64 // center distance that counts as a hit
	substep   float64 // longest move checked for collisions at once
	dangerRow int
}

func newField(topo hexgrid.Topology, layout hexgrid.Layout, cols, dangerRow int, collisionRatio float64) field {
	r := layout.InnerRadius
	f := field{
		topo:      topo,
		layout:    layout,
		cols:      cols,
		minX:      0,
		maxX:      float64(cols)*2*r - r,
		contact:   2 * r * collisionRatio,
		substep:   r / 2,
		dangerRow: dangerRow,
	}
	f.launch = hexgrid.V((f.minX+f.maxX)/2, -float64(dangerRow+2)*layout.RowHeight())
	return f
}

// projectile is a bubble in flight.
type projectile struct {
	pos   hexgrid.Vec2
	vel   hexgrid.Vec2
	color hexgrid.Color
}

// launchVelocity converts an aim angle (degrees, 90 = straight up) to a
// velocity vector.
func launchVelocity(angle, speed float64) hexgrid.Vec2 {
	rad := angle * math.Pi / 180
	return hexgrid.V(math.Cos(rad)*speed, math.Sin(rad)*speed)
}

// bounce reflects the projectile off the side walls.
func (f field) bounce(p *projectile) {
	if p.pos.X < f.minX {
		p.pos.X = 2*f.minX - p.pos.X
		p.vel.X = math.Abs(p.vel.X)
	}
	if p.pos.X > f.maxX {
		p.pos.X = 2*f.maxX - p.pos.X
		p.vel.X = -math.Abs(p.vel.X)
	}
}

// hit returns the occupied cell closest to pos within contact distance.
func (f field) hit(g *hexgrid.Grid, pos hexgrid.Vec2) (hexgrid.Coord, bool) {
	var (
		best     hexgrid.Coord
		bestDist = math.Inf(1)
	)
	// Only the nearest slot and its ring can be within contact range.
	near := f.layout.NearestCoord(pos, f.topo)
	ring := f.topo.Neighbors(near)
	candidates := append([]hexgrid.Coord{near}, ring[:]...)
	for _, c := range candidates {
		if !g.IsOccupied(c) {
			continue
		}
		if d := f.layout.LocalPosition(c).Dist(pos); d < f.contact && d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

// advance moves the projectile by one tick of velocity, checking for contact
// along the way. It reports an impact when the projectile touches an
// occupant or crosses the row-0 center line.
func (f field) advance(g *hexgrid.Grid, p *projectile) (hexgrid.Impact, bool) {
	steps := max(1, int(math.Ceil(p.vel.Len()/f.substep)))
	step := p.vel.Scale(1 / float64(steps))

	for range steps {
		p.pos = p.pos.Add(step)
		f.bounce(p)

		if c, ok := f.hit(g, p.pos); ok {
			return hexgrid.Impact{
				Occupant: hexgrid.Occupant{Color: p.color},
				Position: p.pos,
				Impacted: c,
				Hit:      true,
			}, true
		}
		if p.pos.Y >= 0 {
			return hexgrid.Impact{Occupant: hexgrid.Occupant{Color: p.color}, Position: p.pos}, true
		}
	}
	return hexgrid.Impact{}, false
}

// trace samples the path a projectile fired at angle would take, stopping
// at the first contact. Used for the aim guide.
func (f field) trace(g *hexgrid.Grid, angle float64, spacing float64, limit int) []hexgrid.Vec2 {
	p := projectile{pos: f.launch, vel: launchVelocity(angle, spacing)}
	var out []hexgrid.Vec2
	for range limit {
		if _, done := f.advance(g, &p); done {
			break
		}
		out = append(out, p.pos)
	}
	return out
}
