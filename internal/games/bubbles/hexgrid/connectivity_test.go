package hexgrid

import (
	"reflect"
	"testing"
)

func mustParse(t *testing.T, rows ...string) *Grid {
	t.Helper()
	g, err := ParseGrid(rows)
	if err != nil {
		t.Fatalf("ParseGrid(%v) error = %v", rows, err)
	}
	return g
}

func TestFindComponent(t *testing.T) {
	g := mustParse(t,
		"RRB.",
		"R.B.",
		"..BR",
	)
	topo := DefaultTopology()

	tests := []struct {
		name     string
		start    Coord
		pred     Predicate
		expected []Coord
	}{
		{"same color red", C(0, 0), SameColor, []Coord{C(0, 0), C(0, 1), C(1, 0)}},
		{"same color blue chain", C(2, 2), SameColor, []Coord{C(0, 2), C(1, 2), C(2, 2)}},
		{"isolated red", C(2, 3), SameColor, []Coord{C(2, 3)}},
		{"any occupant", C(0, 0), AnyOccupant, []Coord{C(0, 0), C(0, 1), C(0, 2), C(1, 0), C(1, 2), C(2, 2), C(2, 3)}},
		{"empty start", C(1, 1), SameColor, []Coord{}},
		{"invalid start", C(-1, 0), AnyOccupant, []Coord{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SortedCoords(FindComponent(g, topo, tc.start, tc.pred))
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("FindComponent(%v) = %v, expected %v", tc.start, got, tc.expected)
			}
		})
	}
}

func TestFindComponentSkipsEmptyCells(t *testing.T) {
	g := mustParse(t, "R.R")
	got := FindComponent(g, DefaultTopology(), C(0, 0), AnyOccupant)
	if got.Size() != 1 {
		t.Errorf("component size = %d, expected 1", got.Size())
	}
}

func TestReachableSharesVisited(t *testing.T) {
	g := mustParse(t,
		"R.G",
		"RRR",
	)
	got := Reachable(g, DefaultTopology(), []Coord{C(0, 0), C(0, 2)}, AnyOccupant)
	if got.Size() != 5 {
		t.Errorf("Reachable() size = %d, expected 5", got.Size())
	}
}
