package hexgrid

import (
	"io"
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"
)

// Config describes a new board.
type Config struct {
	Rows        int     // initial row count
	Cols        int     // fixed column count
	FilledRows  int     // leading rows filled with random colors
	InnerRadius float64 // cell apothem in local units
	Palette     []Color // colors used for the random fill
	MatchSize   int     // smallest group that pops; DefaultMatchSize if zero
	Topology    Topology
	Rand        *rand.Rand
	Logger      *log.Logger
}

// Impact is a collision reported by the physics host.
type Impact struct {
	Occupant Occupant // what is being placed; a zero ID gets a fresh one
	Position Vec2     // projectile center in grid-local space
	Impacted Coord    // occupied cell that was hit, when Hit is true
	Hit      bool     // false when the projectile reached the top untouched
}

// PlacementResult reports everything a placement changed.
type PlacementResult struct {
	PlacedAt    Coord
	Occupant    Occupant
	State       MatchState
	Matched     []Coord
	Floating    []Coord
	Removed     []Coord // Matched and Floating, row-major
	GridGrew    bool
	NewRowCount int
}

// Engine owns a grid and applies impacts to it. OnImpact runs
// resolve, place and match as one critical section.
type Engine struct {
	mu        sync.Mutex
	grid      *Grid
	topo      Topology
	layout    Layout
	resolver  *Resolver
	matchSize int
	nextID    uint64
	state     MatchState
	logger    *log.Logger
}

// New builds an engine with a randomly filled board.
func New(cfg Config) *Engine {
	g := NewGrid(cfg.Rows, cfg.Cols)
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	palette := cfg.Palette
	if len(palette) == 0 {
		palette = Palette(3)
	}

	e := newEngine(g, cfg)
	for r := range min(cfg.FilledRows, g.Rows()) {
		for c := range g.Cols() {
			_ = g.Set(C(r, c), Occupant{Color: palette[rng.Intn(len(palette))], ID: e.mintID()})
		}
	}
	return e
}

// NewWithGrid wraps an existing board. Occupants with a zero ID are
// assigned fresh ones.
func NewWithGrid(g *Grid, cfg Config) *Engine {
	e := newEngine(g, cfg)
	for _, c := range g.Occupied() {
		occ, _ := g.Get(c)
		if occ.ID == 0 {
			occ.ID = e.mintID()
		} else if occ.ID > e.nextID {
			e.nextID = occ.ID
		}
		_ = g.Set(c, occ)
	}
	return e
}

func newEngine(g *Grid, cfg Config) *Engine {
	layout := Layout{InnerRadius: cfg.InnerRadius}
	if layout.InnerRadius <= 0 {
		layout.InnerRadius = 1
	}
	matchSize := cfg.MatchSize
	if matchSize <= 0 {
		matchSize = DefaultMatchSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	topo := cfg.Topology
	if topo.Offsets == nil {
		topo = DefaultTopology()
	}
	return &Engine{
		grid:      g,
		topo:      topo,
		layout:    layout,
		resolver:  NewResolver(g, topo, layout),
		matchSize: matchSize,
		logger:    logger,
	}
}

func (e *Engine) mintID() uint64 {
	e.nextID++
	return e.nextID
}

// NextID returns a fresh occupant identity.
func (e *Engine) NextID() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mintID()
}

// OnImpact places the projectile and resolves matches and floating cells.
// On error nothing is placed; rows appended while searching stay.
func (e *Engine) OnImpact(imp Impact) (PlacementResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rowsBefore := e.grid.Rows()

	var (
		at   Coord
		grew bool
		err  error
	)
	if imp.Hit {
		at, grew, err = e.resolver.ResolveImpact(imp.Position, imp.Impacted)
	} else {
		at, err = e.resolver.ResolveCeiling(imp.Position)
	}
	if err != nil {
		e.logger.Warn("placement rejected", "impacted", imp.Impacted, "hit", imp.Hit, "err", err)
		return PlacementResult{GridGrew: grew, NewRowCount: e.grid.Rows()}, err
	}

	occ := imp.Occupant
	if occ.ID == 0 {
		occ.ID = e.mintID()
	}
	if err := e.grid.Set(at, occ); err != nil {
		return PlacementResult{GridGrew: grew, NewRowCount: e.grid.Rows()}, err
	}
	e.state = StatePlaced

	outcome := ResolveMatches(e.grid, e.topo, at, e.matchSize)
	e.state = outcome.State

	res := PlacementResult{
		PlacedAt:    at,
		Occupant:    occ,
		State:       outcome.State,
		Matched:     outcome.Matched,
		Floating:    outcome.Floating,
		Removed:     outcome.Removed(),
		GridGrew:    e.grid.Rows() > rowsBefore,
		NewRowCount: e.grid.Rows(),
	}
	e.logger.Debug("placement resolved",
		"at", at, "color", occ.Color, "state", res.State,
		"matched", len(res.Matched), "floating", len(res.Floating), "rows", res.NewRowCount)
	return res, nil
}

// State returns the outcome of the most recent placement.
func (e *Engine) State() MatchState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Get returns the occupant at c.
func (e *Engine) Get(c Coord) (Occupant, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Get(c)
}

// Rows returns the current row count.
func (e *Engine) Rows() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Rows()
}

// Cols returns the column count.
func (e *Engine) Cols() int {
	return e.grid.Cols()
}

// Grid returns a copy of the board.
func (e *Engine) Grid() *Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Clone()
}

// LocalPosition returns the center of c in grid-local space.
func (e *Engine) LocalPosition(c Coord) Vec2 {
	return e.layout.LocalPosition(c)
}

// Layout returns the geometry used by the engine.
func (e *Engine) Layout() Layout {
	return e.layout
}

// Topology returns the adjacency used by the engine.
func (e *Engine) Topology() Topology {
	return e.topo
}
