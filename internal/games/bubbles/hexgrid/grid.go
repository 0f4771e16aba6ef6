package hexgrid

import (
	"fmt"
	"strings"
)

// Occupant is what fills a cell. ID is opaque to the engine and lets a
// host correlate removals with its own objects.
type Occupant struct {
	Color Color
	ID    uint64
}

type slot struct {
	occ    Occupant
	filled bool
}

// Grid is a rectangular store of optional occupants.
// Every row has exactly Cols() slots and rows are only ever appended at
// the bottom, so coordinates stay stable for the lifetime of the grid.
type Grid struct {
	cols  int
	cells [][]slot
}

// NewGrid creates an empty grid.
func NewGrid(rows, cols int) *Grid {
	if cols < 1 {
		cols = 1
	}
	g := &Grid{cols: cols}
	for range rows {
		g.AppendEmptyRow()
	}
	return g
}

// Rows returns the current row count.
func (g *Grid) Rows() int {
	return len(g.cells)
}

// Cols returns the fixed column count.
func (g *Grid) Cols() int {
	return g.cols
}

// IsValid reports whether c addresses a cell of the grid.
func (g *Grid) IsValid(c Coord) bool {
	return c.Row >= 0 && c.Row < len(g.cells) && c.Col >= 0 && c.Col < g.cols
}

// Get returns the occupant at c. Invalid coordinates read as empty.
func (g *Grid) Get(c Coord) (Occupant, bool) {
	if !g.IsValid(c) {
		return Occupant{}, false
	}
	s := g.cells[c.Row][c.Col]
	return s.occ, s.filled
}

// IsOccupied reports whether c holds an occupant.
func (g *Grid) IsOccupied(c Coord) bool {
	_, ok := g.Get(c)
	return ok
}

// Set stores an occupant at c, replacing any previous one.
func (g *Grid) Set(c Coord, occ Occupant) error {
	if !g.IsValid(c) {
		return fmt.Errorf("set %v in %dx%d grid: %w", c, g.Rows(), g.cols, ErrOutOfBounds)
	}
	g.cells[c.Row][c.Col] = slot{occ: occ, filled: true}
	return nil
}

// Clear empties the cell at c.
func (g *Grid) Clear(c Coord) error {
	if !g.IsValid(c) {
		return fmt.Errorf("clear %v in %dx%d grid: %w", c, g.Rows(), g.cols, ErrOutOfBounds)
	}
	g.cells[c.Row][c.Col] = slot{}
	return nil
}

// AppendEmptyRow adds an empty row at the bottom.
func (g *Grid) AppendEmptyRow() {
	g.cells = append(g.cells, make([]slot, g.cols))
}

// Occupied lists occupied coordinates in row-major order.
func (g *Grid) Occupied() []Coord {
	var out []Coord
	for r, row := range g.cells {
		for c, s := range row {
			if s.filled {
				out = append(out, Coord{Row: r, Col: c})
			}
		}
	}
	return out
}

// Count returns the number of occupied cells.
func (g *Grid) Count() int {
	n := 0
	for _, row := range g.cells {
		for _, s := range row {
			if s.filled {
				n++
			}
		}
	}
	return n
}

// LastOccupiedRow returns the lowest row holding an occupant, or -1 for an
// empty grid.
func (g *Grid) LastOccupiedRow() int {
	for r := len(g.cells) - 1; r >= 0; r-- {
		for _, s := range g.cells[r] {
			if s.filled {
				return r
			}
		}
	}
	return -1
}

// Colors returns the distinct colors on the board in ascending order.
func (g *Grid) Colors() []Color {
	var seen [colorCount]bool
	for _, row := range g.cells {
		for _, s := range row {
			if s.filled && s.occ.Color < colorCount {
				seen[s.occ.Color] = true
			}
		}
	}
	var out []Color
	for i, ok := range seen {
		if ok {
			out = append(out, Color(i))
		}
	}
	return out
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{cols: g.cols, cells: make([][]slot, len(g.cells))}
	for r, row := range g.cells {
		c.cells[r] = append([]slot(nil), row...)
	}
	return c
}

// ParseGrid builds a grid from rows of color letters (see ParseColor).
// '.' and ' ' are empty cells. Short rows are padded with empty cells.
func ParseGrid(rows []string) (*Grid, error) {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	g := NewGrid(len(rows), cols)
	for r, line := range rows {
		for c := 0; c < len(line); c++ {
			ch := line[c]
			if ch == '.' || ch == ' ' {
				continue
			}
			color, ok := ParseColor(ch)
			if !ok {
				return nil, fmt.Errorf("row %d col %d: unknown color %q", r, c, ch)
			}
			_ = g.Set(Coord{Row: r, Col: c}, Occupant{Color: color})
		}
	}
	return g, nil
}

// Format renders the grid in the ParseGrid notation.
func (g *Grid) Format() []string {
	out := make([]string, len(g.cells))
	for r, row := range g.cells {
		var sb strings.Builder
		for _, s := range row {
			if s.filled {
				sb.WriteByte(s.occ.Color.Char())
			} else {
				sb.WriteByte('.')
			}
		}
		out[r] = sb.String()
	}
	return out
}
