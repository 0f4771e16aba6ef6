package hexgrid

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/stack"
)

// Predicate decides whether traversal may step from one occupied cell to an
// adjacent occupied cell. Empty cells are never traversed regardless of the
// predicate.
type Predicate func(g *Grid, from, to Coord) bool

// SameColor joins neighbors sharing the source cell's color.
func SameColor(g *Grid, from, to Coord) bool {
	a, okA := g.Get(from)
	b, okB := g.Get(to)
	return okA && okB && a.Color == b.Color
}

// AnyOccupant joins any two occupied neighbors.
func AnyOccupant(g *Grid, from, to Coord) bool {
	return g.IsOccupied(from) && g.IsOccupied(to)
}

// FindComponent returns every cell connected to start under pred, start
// included. An empty or invalid start yields an empty set.
func FindComponent(g *Grid, topo Topology, start Coord, pred Predicate) mapset.Set[Coord] {
	return Reachable(g, topo, []Coord{start}, pred)
}

// Reachable returns the union of the components of all starts. A single
// visited set is shared, so overlapping components are walked once.
func Reachable(g *Grid, topo Topology, starts []Coord, pred Predicate) mapset.Set[Coord] {
	visited := mapset.New[Coord]()
	pending := stack.New[Coord]()

	for _, s := range starts {
		if !g.IsOccupied(s) || visited.Has(s) {
			continue
		}
		visited.Put(s)
		pending.Push(s)

		for pending.Size() > 0 {
			cur := pending.Pop()
			for _, n := range topo.Neighbors(cur) {
				if visited.Has(n) || !g.IsOccupied(n) || !pred(g, cur, n) {
					continue
				}
				visited.Put(n)
				pending.Push(n)
			}
		}
	}
	return visited
}

// SortedCoords flattens a set into row-major order.
func SortedCoords(set mapset.Set[Coord]) []Coord {
	out := make([]Coord, 0, set.Size())
	set.Each(func(c Coord) {
		out = append(out, c)
	})
	sortCoords(out)
	return out
}

func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Less(cs[j]) })
}
