package bubbles

// GameStateType is the coarse phase of a game.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the game state for determinism tests and replays.
type Snapshot struct {
	Tick    uint64
	Mode    string
	Level   int // 1-based, puzzle mode only
	Score   int
	Stats   RoundStats
	Aim     float64
	Current string
	Next    string
	Flying  bool
	Board   []string
	State   GameStateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	}

	snap := Snapshot{
		Tick:    g.tick,
		Mode:    string(g.mode),
		Score:   g.score,
		Stats:   g.stats,
		Aim:     g.aim,
		Current: g.current.String(),
		Next:    g.next.String(),
		Flying:  g.flying != nil,
		State:   state,
	}
	if g.mode == ModePuzzle {
		snap.Level = g.levelIndex + 1
	}
	if g.engine != nil {
		snap.Board = g.engine.Grid().Format()
	}
	return snap
}
