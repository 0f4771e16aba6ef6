package hexgrid

import "errors"

var (
	// ErrOutOfBounds is returned when writing to a coordinate outside the grid.
	ErrOutOfBounds = errors.New("hexgrid: coordinate out of bounds")

	// ErrAllNeighborsOccupied is returned when no free cell adjacent to the
	// impacted occupant can be found, even after growing the grid.
	ErrAllNeighborsOccupied = errors.New("hexgrid: all neighbors occupied")

	// ErrRowZeroFull is returned when a projectile reaches the top and row 0
	// has no empty cell.
	ErrRowZeroFull = errors.New("hexgrid: no empty cell in row 0")

	// ErrInvalidImpact is returned when the impacted coordinate is not an
	// occupied cell of the grid.
	ErrInvalidImpact = errors.New("hexgrid: impacted cell is not occupied")
)
