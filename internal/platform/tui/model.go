package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bubbles/internal/core"
	"github.com/vovakirdan/tui-bubbles/internal/games/bubbles"
	"github.com/vovakirdan/tui-bubbles/internal/registry"
	"github.com/vovakirdan/tui-bubbles/internal/storage"
)

// statsReporter is implemented by games that keep per-round statistics.
type statsReporter interface {
	Stats() bubbles.RoundStats
}

// GameModel runs one game inside a Bubble Tea program.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	log        *log.Logger
	player     string
	startedAt  time.Time
	resultSent bool
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model for game. store and logger may be nil.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		log:        logger,
		startedAt:  time.Now(),
	}
}

// WithPlayer tags the model's log lines with a player name.
func (m GameModel) WithPlayer(name string) GameModel {
	m.player = name
	m.log = m.log.With("player", name)
	return m
}

func (m GameModel) Init() tea.Cmd {
	// Reset mutates the game behind the interface, so the value receiver is fine.
	m.game.Reset(m.config)
	m.log.Debug("round started", "mode", m.game.ID(), "seed", m.config.Seed)
	return tickCmd(m.config.TickRate)
}

func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		if path, err := m.saveScreenshot(); err != nil {
			m.log.Warn("screenshot failed", "error", err)
		} else {
			m.log.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize restarts a running round so the board is laid out for the
// new size. A finished round is only redrawn.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if !m.gameState.GameOver {
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.startedAt = time.Now()
	}
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.inputFrame.Clear()

	prev := m.gameState
	m.gameState = result.State

	switch {
	case m.gameState.GameOver && !m.resultSent:
		m.saveResult()
		m.resultSent = true
	case prev.GameOver && !m.gameState.GameOver:
		// The game restarted itself.
		m.resultSent = false
		m.startedAt = time.Now()
		m.log.Debug("round restarted", "mode", m.game.ID())
	}

	if m.backToMenu {
		return m, nil
	}
	return m, tickCmd(m.config.TickRate)
}

// saveResult stores the finished round. Games with round statistics get a
// full round record; others only a score entry.
func (m *GameModel) saveResult() {
	st := m.gameState
	m.log.Info("round finished", "mode", m.game.ID(), "score", st.Score, "won", st.Won)
	if m.store == nil {
		return
	}

	if sr, ok := m.game.(statsReporter); ok {
		stats := sr.Stats()
		if stats.Shots == 0 {
			return
		}
		id, err := m.store.SaveRound(storage.RoundRecord{
			GameID:    m.game.ID(),
			Player:    m.player,
			Score:     st.Score,
			Shots:     stats.Shots,
			Popped:    stats.Popped,
			Dropped:   stats.Dropped,
			BestChain: stats.BestChain,
			Cleared:   stats.Cleared,
			Duration:  time.Since(m.startedAt),
		})
		if err != nil {
			m.log.Error("saving round", "error", err)
			return
		}
		m.log.Debug("round saved", "round", id)
		return
	}

	if st.Score > 0 {
		if _, err := m.store.SaveScore(m.game.ID(), st.Score); err != nil {
			m.log.Error("saving score", "error", err)
		}
	}
}

// saveScreenshot writes the current frame as plain text under
// ~/.bubbles/screenshots.
func (m *GameModel) saveScreenshot() (string, error) {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, ".bubbles", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create screenshot directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting reports whether the player asked to quit.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the player asked to leave a finished or
// paused round.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays game in the local terminal until the player quits or goes back.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewGameModel(game, store, cfg, logger)
	if u := os.Getenv("USER"); u != "" {
		model = model.WithPlayer(u)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
