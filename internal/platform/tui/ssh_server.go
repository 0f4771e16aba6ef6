package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-bubbles/internal/core"
	"github.com/vovakirdan/tui-bubbles/internal/registry"
	"github.com/vovakirdan/tui-bubbles/internal/storage"
)

// SSHServerConfig configures the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on.
	Address string

	// HostKeyPath defaults to ~/.bubbles/host_key, generated on first run.
	HostKeyPath string

	DBPath      string
	IdleTimeout time.Duration
	TickRate    int

	// Logger defaults to a timestamped stderr logger.
	Logger *log.Logger
}

func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.bubbles/scores.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
	}
}

// SSHServer serves the game menu to every SSH session through Wish.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	sessions *SessionRegistry
	logger   *log.Logger
}

func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "bubbles-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		sessions: NewSessionRegistry(),
		logger:   logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".bubbles", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler starts a session model for each connection with a PTY.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}
	model := NewSessionModel(s.store, cfg, sess.User(), s.logger)
	model.sessions = s.sessions
	model.sshID = sess.Context().SessionID()
	model.menu = model.menu.WithOnline(s.sessions.Count())
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		id := sess.Context().SessionID()
		s.sessions.Register(id, sess.User())
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"online", s.sessions.Count(),
		)

		start := time.Now()
		next(sess)

		s.sessions.Unregister(id)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
			"online", s.sessions.Count(),
		)
	}
}

// ListenAndServe runs until SIGINT or SIGTERM, then shuts down.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenPuzzle
	screenScores
	screenGame
)

// SessionModel drives one SSH session: menu, optional puzzle setup,
// scoreboard and game, then back to the menu.
type SessionModel struct {
	store      *storage.Store
	config     core.RuntimeConfig
	username   string
	sessionID  string
	sshID      string
	sessions   *SessionRegistry
	log        *log.Logger
	screen     sessionScreen
	menu       MenuModel
	puzzle     PuzzleMenuModel
	scoreboard ScoreboardModel
	game       GameModel
	quitting   bool
}

func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, username string, logger *log.Logger) SessionModel {
	id := uuid.NewString()
	if logger == nil {
		logger = log.Default()
	}
	return SessionModel{
		store:     store,
		config:    cfg,
		username:  username,
		sessionID: id,
		log:       logger.With("session", id[:8]),
		menu:      NewMenuModel(store, cfg),
	}
}

// SessionID is the unique ID of this session.
func (m SessionModel) SessionID() string {
	return m.sessionID
}

func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenPuzzle:
		return m.updatePuzzle(msg)
	case screenScores:
		return m.updateScores(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if mm, ok := next.(MenuModel); ok {
		m.menu = mm
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.menu.WantsScoreboard():
		m.screen = screenScores
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		return m, m.scoreboard.Init()
	case m.menu.Selected() != nil:
		id := m.menu.Selected().GameID
		if id == "bubbles_puzzle" {
			m.screen = screenPuzzle
			m.puzzle = NewPuzzleMenuModel(m.config.ScreenW, m.config.ScreenH)
			return m, m.puzzle.Init()
		}
		return m.startGame(id, nil)
	}

	// The menu quits the program on its own exits; inside a session
	// those are handled above.
	return m, filterQuit(cmd)
}

func (m SessionModel) updatePuzzle(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.puzzle.Update(msg)
	if pm, ok := next.(PuzzleMenuModel); ok {
		m.puzzle = pm
	}

	switch {
	case m.puzzle.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.puzzle.WantsBack():
		return m.backToMenu()
	case m.puzzle.Selected() != nil:
		return m.startGame("bubbles_puzzle", m.puzzle.Selected())
	}
	return m, filterQuit(cmd)
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	if sm, ok := next.(ScoreboardModel); ok {
		m.scoreboard = sm
	}

	switch {
	case m.scoreboard.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scoreboard.IsGoingBack():
		return m.backToMenu()
	}
	return m, filterQuit(cmd)
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gm, ok := next.(GameModel); ok {
		m.game = gm
	}

	switch {
	case m.game.BackToMenu():
		return m.backToMenu()
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) startGame(id string, sel *PuzzleSelection) (tea.Model, tea.Cmd) {
	game, err := registry.Create(id)
	if err != nil {
		m.log.Error("cannot start game", "mode", id, "error", err)
		return m.backToMenu()
	}
	if sel != nil {
		sel.ApplyTo(game)
	}

	m.config.Seed = time.Now().UnixNano()
	m.game = NewGameModel(game, m.store, m.config, m.log).WithPlayer(m.username)
	m.screen = screenGame
	if m.sessions != nil {
		m.sessions.SetMode(m.sshID, id)
	}
	m.log.Info("game started", "mode", id)
	return m, m.game.Init()
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.store, m.config)
	if m.sessions != nil {
		m.sessions.SetMode(m.sshID, "")
		m.menu = m.menu.WithOnline(m.sessions.Count())
	}
	return m, m.menu.Init()
}

// filterQuit drops a tea.Quit from a sub-model so only the session ends
// the program.
func filterQuit(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return nil
		}
		return msg
	}
}

func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenPuzzle:
		return m.puzzle.View()
	case screenScores:
		return m.scoreboard.View()
	}
	return m.menu.View()
}
