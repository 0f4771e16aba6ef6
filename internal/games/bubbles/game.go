// Package bubbles implements a bubble shooter on top of the hexgrid
// placement engine. Two modes are registered: a classic random board and
// a puzzle mode with hand-made levels.
package bubbles

import (
	"errors"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bubbles/internal/config"
	"github.com/vovakirdan/tui-bubbles/internal/core"
	"github.com/vovakirdan/tui-bubbles/internal/games/bubbles/hexgrid"
	"github.com/vovakirdan/tui-bubbles/internal/registry"
)

// Mode selects how the board is set up.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModePuzzle  Mode = "puzzle"
)

const (
	hudHeight        = 2
	levelClearTicks  = 90
	dangerWarnMargin = 2
)

var (
	configPath         string
	difficultyPreset   = config.DifficultyNormal
	selectedStartLevel int
	levelsDir          string
	logger             = log.New(io.Discard)
)

// SetConfigPath sets the config file used by the next Reset.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names are ignored.
func SetDifficultyPreset(preset string) {
	if p, ok := config.ParsePreset(preset); ok {
		difficultyPreset = p
	}
}

// SetStartLevel sets the puzzle level (1-based) the next Reset starts on.
// 0 means the first level.
func SetStartLevel(level int) {
	selectedStartLevel = level
}

// SetLevelsDir points puzzle mode at a directory of YAML levels.
func SetLevelsDir(dir string) {
	levelsDir = dir
}

// SetLogger sets the logger used by level loading and by games created
// afterwards.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// RoundStats summarizes the current round.
type RoundStats struct {
	Shots     int
	Popped    int // bubbles removed by matches
	Dropped   int // bubbles removed because they lost their anchor
	BestChain int // longest run of consecutive clearing shots
	Cleared   bool
}

// Options overrides the package-level settings for a single game.
type Options struct {
	StartLevel int    // 1-based puzzle level; 0 defers to SetStartLevel
	Difficulty string // preset name; empty defers to SetDifficultyPreset
}

// Game implements the bubble shooter.
type Game struct {
	mode       Mode
	opts       Options
	cfg        config.BubblesConfig
	difficulty *config.DifficultyManager
	log        *log.Logger
	rng        *rand.Rand
	tick       uint64
	tickRate   int
	score      int
	chain      int
	stats      RoundStats

	engine     *hexgrid.Engine
	field      field
	levels     []Level
	levelIndex int

	aim     float64
	current hexgrid.Color
	next    hexgrid.Color
	flying  *projectile
	pops    popEffect

	screenW int
	screenH int

	gameOver        bool
	won             bool
	paused          bool
	tooSmall        bool
	levelCleared    bool
	levelClearTimer int
}

// New creates a classic mode game.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewPuzzle creates a puzzle mode game.
func NewPuzzle() *Game {
	return &Game{mode: ModePuzzle}
}

func init() {
	registry.Register("bubbles", func() registry.Game {
		return New()
	})
	registry.Register("bubbles_puzzle", func() registry.Game {
		return NewPuzzle()
	})
}

// SetOptions sets per-game overrides used by every following Reset.
// Sessions sharing a process use this instead of the package setters.
func (g *Game) SetOptions(o Options) {
	g.opts = o
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModePuzzle {
		return "bubbles_puzzle"
	}
	return "bubbles"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModePuzzle {
		return "Bubble Shooter (Puzzle)"
	}
	return "Bubble Shooter"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.log = logger.With("game", g.ID())

	cfg, err := config.LoadBubbles(configPath)
	if err != nil {
		g.log.Warn("using default config", "err", err)
		cfg = config.DefaultBubblesConfig()
	}
	preset := difficultyPreset
	if p, ok := config.ParsePreset(g.opts.Difficulty); ok {
		preset = p
	}
	config.ApplyBubblesPreset(&cfg, preset)
	cfg.Validate()
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	g.rng = rand.New(rand.NewSource(rc.Seed))
	g.tickRate = rc.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH

	g.tick = 0
	g.score = 0
	g.chain = 0
	g.stats = RoundStats{}
	g.gameOver = false
	g.won = false
	g.paused = false

	if g.mode == ModePuzzle {
		g.levels = Levels()
		g.levelIndex = 0
		if g.opts.StartLevel > 0 && g.opts.StartLevel <= len(g.levels) {
			g.levelIndex = g.opts.StartLevel - 1
		} else if selectedStartLevel > 0 && selectedStartLevel <= len(g.levels) {
			g.levelIndex = selectedStartLevel - 1
			selectedStartLevel = 0
		}
		g.loadLevel()
		return
	}

	engine := hexgrid.New(hexgrid.Config{
		Rows:        cfg.Board.Rows,
		Cols:        cfg.Board.Cols,
		FilledRows:  cfg.Board.FilledRows,
		InnerRadius: cfg.Board.InnerRadius,
		Palette:     g.palette(),
		MatchSize:   cfg.Rules.MatchSize,
		Rand:        g.rng,
		Logger:      g.log,
	})
	g.startBoard(engine, cfg.Rules.DangerRow)
}

// loadLevel sets up the current puzzle level.
func (g *Game) loadLevel() {
	g.levelCleared = false
	g.levelClearTimer = 0

	if len(g.levels) == 0 {
		g.log.Error("no puzzle levels available")
		g.won = true
		return
	}
	level := g.levels[g.levelIndex]

	danger := level.DangerRow
	if danger <= level.Grid.Rows() {
		danger = max(g.cfg.Rules.DangerRow, level.Grid.Rows()+1)
	}
	engine := hexgrid.NewWithGrid(level.Grid.Clone(), hexgrid.Config{
		InnerRadius: g.cfg.Board.InnerRadius,
		MatchSize:   g.cfg.Rules.MatchSize,
		Logger:      g.log,
	})
	g.log.Debug("level loaded", "id", level.ID, "name", level.Name)
	g.startBoard(engine, danger)
}

// startBoard installs a new board and loads the launcher.
func (g *Game) startBoard(engine *hexgrid.Engine, dangerRow int) {
	g.engine = engine
	g.field = newField(engine.Topology(), engine.Layout(), engine.Cols(), dangerRow, g.cfg.Shooter.CollisionRatio)
	g.flying = nil
	g.pops = popEffect{}
	g.aim = 90
	g.current = g.randomColor()
	g.next = g.randomColor()

	requiredW := boardWidth(engine.Cols()) + 6
	requiredH := hudHeight + dangerRow + 4
	g.tooSmall = g.screenW < requiredW || g.screenH < requiredH
}

// palette is the set of colors new bubbles may take in classic mode.
func (g *Game) palette() []hexgrid.Color {
	n := g.difficulty.Colors(g.cfg.Board.Colors, hexgrid.MaxColors, g.score, g.stats.Shots)
	return hexgrid.Palette(n)
}

// randomColor picks a color still present on the board, so every shot
// can eventually match. An empty board falls back to the palette.
func (g *Game) randomColor() hexgrid.Color {
	var colors []hexgrid.Color
	if g.engine != nil {
		colors = g.engine.Grid().Colors()
	}
	if len(colors) == 0 {
		colors = g.palette()
	}
	return colors[g.rng.Intn(len(colors))]
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if in.Has(core.ActionRestart) && (g.gameOver || g.won) {
		g.Reset(core.RuntimeConfig{
			Seed:     g.rng.Int63(),
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.tickRate,
		})
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}

	if g.gameOver || g.won || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	g.pops.step()

	if g.levelCleared {
		g.levelClearTimer++
		if g.levelClearTimer >= levelClearTicks {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	g.processInput(in)

	if g.flying != nil {
		if imp, done := g.field.advance(g.engine.Grid(), g.flying); done {
			g.flying = nil
			g.place(imp)
		}
	}

	return core.StepResult{State: g.State()}
}

// processInput handles aiming, swapping and firing.
func (g *Game) processInput(in core.InputFrame) {
	sh := g.cfg.Shooter
	if in.Has(core.ActionLeft) {
		g.aim = core.ClampF(g.aim+sh.AimStep, sh.MinAngle, sh.MaxAngle)
	}
	if in.Has(core.ActionRight) {
		g.aim = core.ClampF(g.aim-sh.AimStep, sh.MinAngle, sh.MaxAngle)
	}

	if g.flying != nil || g.pops.active() {
		return
	}

	if in.Has(core.ActionSwap) {
		g.current, g.next = g.next, g.current
	}
	if in.Has(core.ActionFire) {
		speed := g.difficulty.Speed(sh.Speed, g.score, g.stats.Shots)
		g.flying = &projectile{
			pos:   g.field.launch,
			vel:   launchVelocity(g.aim, speed),
			color: g.current,
		}
		g.stats.Shots++
	}
}

// place hands an impact to the engine and applies the outcome.
func (g *Game) place(imp hexgrid.Impact) {
	before := g.engine.Grid()

	res, err := g.engine.OnImpact(imp)
	if err != nil {
		// The bubble is lost; the board is unchanged apart from spare rows.
		if !errors.Is(err, hexgrid.ErrAllNeighborsOccupied) && !errors.Is(err, hexgrid.ErrRowZeroFull) {
			g.log.Error("placement failed", "err", err)
		}
		g.chain = 0
		g.reload()
		g.checkBoard()
		return
	}

	if res.State == hexgrid.StateCleared {
		g.chain++
		g.stats.Popped += len(res.Matched)
		g.stats.Dropped += len(res.Floating)
		g.stats.BestChain = max(g.stats.BestChain, g.chain)

		r := g.cfg.Rules
		g.score += len(res.Matched)*r.PointsPerMatch + len(res.Floating)*r.PointsPerDrop + (g.chain-1)*r.ChainBonus
		g.startPops(res, before)
	} else {
		g.chain = 0
	}

	g.reload()
	g.checkBoard()
}

// startPops queues the pop effect for everything a placement removed.
func (g *Game) startPops(res hexgrid.PlacementResult, before *hexgrid.Grid) {
	cells := append(append([]hexgrid.Coord(nil), res.Matched...), res.Floating...)
	colors := make([]hexgrid.Color, len(cells))
	for i, c := range cells {
		if occ, ok := before.Get(c); ok {
			colors[i] = occ.Color
		} else {
			colors[i] = res.Occupant.Color
		}
	}
	g.pops = popEffect{
		cells:    cells,
		colors:   colors,
		interval: popDelayTicks(len(cells), g.cfg.Rules.PopMinSecs, g.cfg.Rules.PopMaxSecs, g.tickRate),
	}
}

// reload moves the preview bubble into the launcher and draws a new one.
// A loaded color that vanished from the board is replaced.
func (g *Game) reload() {
	g.current = g.next
	g.next = g.randomColor()

	colors := g.engine.Grid().Colors()
	if len(colors) == 0 {
		return
	}
	for _, c := range colors {
		if c == g.current {
			return
		}
	}
	g.current = colors[g.rng.Intn(len(colors))]
}

// checkBoard ends the round when the board is cleared or overflows.
func (g *Game) checkBoard() {
	grid := g.engine.Grid()
	switch {
	case grid.Count() == 0:
		g.stats.Cleared = true
		if g.mode == ModePuzzle {
			g.levelCleared = true
			g.levelClearTimer = 0
		} else {
			g.won = true
		}
		g.log.Info("board cleared", "score", g.score, "shots", g.stats.Shots)
	case grid.LastOccupiedRow() >= g.field.dangerRow:
		g.gameOver = true
		g.log.Info("board overflowed", "score", g.score, "rows", grid.Rows())
	}
}

// advanceLevel moves to the next puzzle level or ends the run.
func (g *Game) advanceLevel() {
	g.levelIndex++
	if g.levelIndex >= len(g.levels) {
		g.levelIndex = len(g.levels) - 1
		g.levelCleared = false
		g.won = true
		return
	}
	g.stats.Cleared = false
	g.loadLevel()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver || g.won,
		Won:      g.won,
		Paused:   g.paused,
	}
}

// Stats returns statistics of the current round.
func (g *Game) Stats() RoundStats {
	return g.stats
}

// inDanger reports whether the board is close to the danger row.
func (g *Game) inDanger() bool {
	return g.engine != nil && g.engine.Grid().LastOccupiedRow() >= g.field.dangerRow-dangerWarnMargin
}
