package hexgrid

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func TestEngineScenarioAGrowAndClear(t *testing.T) {
	g := mustParse(t, "RR")
	e := NewWithGrid(g, Config{InnerRadius: 1})

	res, err := e.OnImpact(Impact{
		Occupant: Occupant{Color: Red},
		Position: e.LocalPosition(C(0, 1)).Add(V(-0.9, -1.6)),
		Impacted: C(0, 1),
		Hit:      true,
	})
	if err != nil {
		t.Fatalf("OnImpact() error = %v", err)
	}

	if res.PlacedAt != C(1, 0) {
		t.Errorf("PlacedAt = %v, expected %v", res.PlacedAt, C(1, 0))
	}
	if !res.GridGrew || res.NewRowCount != 2 {
		t.Errorf("GridGrew = %v NewRowCount = %d, expected true and 2", res.GridGrew, res.NewRowCount)
	}
	if expected := []Coord{C(0, 0), C(0, 1), C(1, 0)}; !reflect.DeepEqual(res.Removed, expected) {
		t.Errorf("Removed = %v, expected %v", res.Removed, expected)
	}
	if res.State != StateCleared || e.State() != StateCleared {
		t.Errorf("State = %v, expected %v", res.State, StateCleared)
	}
	if e.Grid().Count() != 0 {
		t.Errorf("grid not empty after clear: %v", e.Grid().Format())
	}
}

func TestEngineScenarioBNoMatch(t *testing.T) {
	g := mustParse(t, "R..")
	e := NewWithGrid(g, Config{InnerRadius: 1})

	res, err := e.OnImpact(Impact{
		Occupant: Occupant{Color: Red},
		Position: e.LocalPosition(C(0, 0)).Add(V(1.8, 0.1)),
		Impacted: C(0, 0),
		Hit:      true,
	})
	if err != nil {
		t.Fatalf("OnImpact() error = %v", err)
	}
	if res.PlacedAt != C(0, 1) || res.State != StateNoMatch || len(res.Removed) != 0 {
		t.Errorf("OnImpact() = %+v, expected placement at (0,1) with no removals", res)
	}
	if occ, ok := e.Get(C(0, 1)); !ok || occ.Color != Red || occ.ID == 0 {
		t.Errorf("Get((0,1)) = %v, %v, expected red occupant with an ID", occ, ok)
	}
}

func TestEngineScenarioCRejected(t *testing.T) {
	g := mustParse(t, "RGB", "GBR", "BRG")
	e := NewWithGrid(g, Config{InnerRadius: 1})
	before := e.Grid().Format()

	_, err := e.OnImpact(Impact{
		Occupant: Occupant{Color: Red},
		Position: e.LocalPosition(C(1, 1)).Add(V(1.5, -1)),
		Impacted: C(1, 1),
		Hit:      true,
	})
	if !errors.Is(err, ErrAllNeighborsOccupied) {
		t.Fatalf("OnImpact() error = %v, expected ErrAllNeighborsOccupied", err)
	}
	if after := e.Grid().Format(); !reflect.DeepEqual(after, before) {
		t.Errorf("grid changed on rejected placement: %v -> %v", before, after)
	}
}

func TestEngineScenarioDCeiling(t *testing.T) {
	g := mustParse(t, "R.R.R")
	e := NewWithGrid(g, Config{InnerRadius: 1})

	res, err := e.OnImpact(Impact{
		Occupant: Occupant{Color: Blue},
		Position: e.LocalPosition(C(0, 2)).Add(V(0.3, 0.5)),
	})
	if err != nil {
		t.Fatalf("OnImpact() error = %v", err)
	}
	if res.PlacedAt != C(0, 3) {
		t.Errorf("PlacedAt = %v, expected %v", res.PlacedAt, C(0, 3))
	}
}

func TestEngineRandomFill(t *testing.T) {
	e := New(Config{Rows: 6, Cols: 8, FilledRows: 4, InnerRadius: 1, Palette: Palette(3), Rand: rand.New(rand.NewSource(42))})
	g := e.Grid()

	if g.Rows() != 6 || g.Cols() != 8 {
		t.Fatalf("grid is %dx%d, expected 6x8", g.Rows(), g.Cols())
	}
	if g.Count() != 32 {
		t.Errorf("Count() = %d, expected 32", g.Count())
	}
	if g.LastOccupiedRow() != 3 {
		t.Errorf("LastOccupiedRow() = %d, expected 3", g.LastOccupiedRow())
	}
	for _, c := range g.Colors() {
		if c > Green {
			t.Errorf("color %v outside the 3-color palette", c)
		}
	}
}

// randomImpact aims at a random occupied cell from a random direction, or
// at the ceiling when the board is empty.
func randomImpact(e *Engine, rng *rand.Rand) Impact {
	occ := Occupant{Color: Color(rng.Intn(3))}
	cells := e.Grid().Occupied()
	if len(cells) == 0 {
		return Impact{Occupant: occ, Position: V(rng.Float64()*10, 0.5)}
	}
	target := cells[rng.Intn(len(cells))]
	angle := rng.Float64() * 2 * math.Pi
	pos := e.LocalPosition(target).Add(V(math.Cos(angle)*1.9, math.Sin(angle)*1.9))
	return Impact{Occupant: occ, Position: pos, Impacted: target, Hit: true}
}

func playRandom(seed int64, shots int) (*Engine, []PlacementResult) {
	e := New(Config{Rows: 8, Cols: 6, FilledRows: 4, InnerRadius: 1, Palette: Palette(3), Rand: rand.New(rand.NewSource(seed))})
	rng := rand.New(rand.NewSource(seed + 1))
	var results []PlacementResult
	for range shots {
		res, err := e.OnImpact(randomImpact(e, rng))
		if err == nil {
			results = append(results, res)
		}
	}
	return e, results
}

func TestEngineDeterminism(t *testing.T) {
	a, resA := playRandom(7, 150)
	b, resB := playRandom(7, 150)

	if !reflect.DeepEqual(a.Grid().Format(), b.Grid().Format()) {
		t.Error("same seed produced different boards")
	}
	if !reflect.DeepEqual(resA, resB) {
		t.Error("same seed produced different placement results")
	}
}

func TestEngineInvariantsUnderRandomPlay(t *testing.T) {
	e := New(Config{Rows: 8, Cols: 6, FilledRows: 4, InnerRadius: 1, Palette: Palette(3), Rand: rand.New(rand.NewSource(99))})
	rng := rand.New(rand.NewSource(100))

	for shot := range 300 {
		before := e.Grid()
		res, err := e.OnImpact(randomImpact(e, rng))
		if err != nil {
			if !errors.Is(err, ErrAllNeighborsOccupied) {
				t.Fatalf("shot %d: unexpected error %v", shot, err)
			}
			continue
		}

		if before.IsOccupied(res.PlacedAt) {
			t.Fatalf("shot %d: placed onto occupied cell %v", shot, res.PlacedAt)
		}
		after := e.Grid()
		if expected := before.Count() + 1 - len(res.Removed); after.Count() != expected {
			t.Fatalf("shot %d: Count() = %d, expected %d", shot, after.Count(), expected)
		}
		if res.State == StateCleared && len(res.Matched) < DefaultMatchSize {
			t.Fatalf("shot %d: cleared a group of %d", shot, len(res.Matched))
		}
		if after.Rows() < before.Rows() {
			t.Fatalf("shot %d: grid shrank from %d to %d rows", shot, before.Rows(), after.Rows())
		}

		var anchors []Coord
		for c := range after.Cols() {
			if after.IsOccupied(C(0, c)) {
				anchors = append(anchors, C(0, c))
			}
		}
		attached := Reachable(after, e.Topology(), anchors, AnyOccupant)
		for _, c := range after.Occupied() {
			if !attached.Has(c) {
				t.Fatalf("shot %d: %v is floating after placement", shot, c)
			}
		}
	}
}
