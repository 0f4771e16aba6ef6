package hexgrid

// DefaultMatchSize is the smallest same-color group that pops.
const DefaultMatchSize = 3

// MatchState is the outcome of the last placement.
type MatchState int

const (
	StateIdle MatchState = iota
	StatePlaced
	StateNoMatch
	StateCleared
)

func (s MatchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaced:
		return "placed"
	case StateNoMatch:
		return "no-match"
	case StateCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// MatchOutcome lists what a placement removed.
type MatchOutcome struct {
	State    MatchState
	Matched  []Coord // same-color group including the placed cell
	Floating []Coord // cells cut off from row 0 after the match was cleared
}

// Removed returns matched and floating cells together, row-major.
func (o MatchOutcome) Removed() []Coord {
	out := make([]Coord, 0, len(o.Matched)+len(o.Floating))
	out = append(out, o.Matched...)
	out = append(out, o.Floating...)
	sortCoords(out)
	return out
}

// ResolveMatches clears the same-color group around placed when it has at
// least threshold members, then clears everything no longer connected to
// an occupied row-0 cell. Below the threshold nothing is removed.
func ResolveMatches(g *Grid, topo Topology, placed Coord, threshold int) MatchOutcome {
	if threshold < 1 {
		threshold = DefaultMatchSize
	}

	group := FindComponent(g, topo, placed, SameColor)
	if group.Size() < threshold {
		return MatchOutcome{State: StateNoMatch}
	}

	matched := SortedCoords(group)
	for _, c := range matched {
		_ = g.Clear(c) // coordinates come from the grid itself
	}

	var anchors []Coord
	for col := range g.Cols() {
		if c := (Coord{Row: 0, Col: col}); g.IsOccupied(c) {
			anchors = append(anchors, c)
		}
	}
	attached := Reachable(g, topo, anchors, AnyOccupant)

	var floating []Coord
	for _, c := range g.Occupied() {
		if !attached.Has(c) {
			floating = append(floating, c)
			_ = g.Clear(c)
		}
	}

	return MatchOutcome{State: StateCleared, Matched: matched, Floating: floating}
}
