package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-bubbles/internal/config"
	"github.com/vovakirdan/tui-bubbles/internal/core"
	"github.com/vovakirdan/tui-bubbles/internal/games/bubbles"
	"github.com/vovakirdan/tui-bubbles/internal/registry"
)

// PuzzleSelection is what the puzzle menu returns.
type PuzzleSelection struct {
	Level      int // 1-based; 0 starts from the first level
	Difficulty config.DifficultyPreset
}

var difficultyChoices = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
}

// PuzzleMenuModel picks the difficulty and the starting level for puzzle
// mode.
type PuzzleMenuModel struct {
	levels        []bubbles.Level
	cursor        int
	levelCursor   int
	difficulty    int
	inLevelSelect bool
	width         int
	height        int
	keyMapper     *KeyMapper
	selection     PuzzleSelection
	choosing      bool
	quitting      bool
	back          bool
}

func NewPuzzleMenuModel(width, height int) PuzzleMenuModel {
	return PuzzleMenuModel{
		levels:     bubbles.Levels(),
		difficulty: 1,
		width:      width,
		height:     height,
		keyMapper:  NewKeyMapper(),
		choosing:   true,
	}
}

func (m PuzzleMenuModel) Init() tea.Cmd {
	return nil
}

func (m PuzzleMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inLevelSelect {
			return m.handleLevelSelectKey(msg)
		}
		return m.handleTopKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

const (
	puzzleItemStart = iota
	puzzleItemSelectLevel
	puzzleItemDifficulty
	puzzleItemCount
)

func (m PuzzleMenuModel) handleTopKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "a", "h":
		if m.cursor == puzzleItemDifficulty && m.difficulty > 0 {
			m.difficulty--
		}
		return m, nil
	case "right", "d", "l":
		if m.cursor == puzzleItemDifficulty && m.difficulty < len(difficultyChoices)-1 {
			m.difficulty++
		}
		return m, nil
	}

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < puzzleItemCount-1 {
			m.cursor++
		}
	case MenuActionSelect:
		switch m.cursor {
		case puzzleItemStart:
			return m.choose(0)
		case puzzleItemSelectLevel:
			m.inLevelSelect = true
			m.levelCursor = 0
		case puzzleItemDifficulty:
			m.difficulty = (m.difficulty + 1) % len(difficultyChoices)
		}
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}
	return m, nil
}

func (m PuzzleMenuModel) handleLevelSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case MenuActionDown:
		if m.levelCursor < len(m.levels)-1 {
			m.levelCursor++
		}
	case MenuActionSelect:
		if len(m.levels) > 0 {
			return m.choose(m.levelCursor + 1)
		}
	case MenuActionBack:
		m.inLevelSelect = false
	}
	return m, nil
}

func (m PuzzleMenuModel) choose(level int) (tea.Model, tea.Cmd) {
	m.choosing = false
	m.selection = PuzzleSelection{
		Level:      level,
		Difficulty: difficultyChoices[m.difficulty],
	}
	return m, tea.Quit
}

func (m PuzzleMenuModel) View() string {
	if m.quitting {
		return ""
	}
	if m.inLevelSelect {
		return m.viewLevelSelect()
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerStyled(menuTitleStyle.Render("P U Z Z L E"), m.width))
	b.WriteString("\n\n")

	items := []string{
		fmt.Sprintf("Play all (%d levels)", len(m.levels)),
		"Select Level...",
		fmt.Sprintf("Difficulty: < %s >", difficultyChoices[m.difficulty]),
	}
	for i, item := range items {
		if i == m.cursor {
			b.WriteString(centerStyled(menuCursorStyle.Render("> "+item), m.width))
		} else {
			b.WriteString(centerText("  "+item, m.width))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerStyled(menuHintStyle.Render("Enter: Select  |  Left/Right: Difficulty  |  Esc: Back"), m.width))
	return b.String()
}

func (m PuzzleMenuModel) viewLevelSelect() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerStyled(menuTitleStyle.Render("SELECT LEVEL"), m.width))
	b.WriteString("\n\n")

	for i, lvl := range m.levels {
		line := fmt.Sprintf("%2d. %s", i+1, lvl.Name)
		if i == m.levelCursor {
			b.WriteString(centerStyled(menuCursorStyle.Render("> "+line), m.width))
		} else {
			b.WriteString(centerText("  "+line, m.width))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerStyled(menuHintStyle.Render("Enter: Select  |  Esc: Back  |  Q: Quit"), m.width))
	return b.String()
}

// Selected returns the selection, or nil while still choosing.
func (m PuzzleMenuModel) Selected() *PuzzleSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

func (m PuzzleMenuModel) IsQuitting() bool {
	return m.quitting
}

func (m PuzzleMenuModel) WantsBack() bool {
	return m.back
}

// ApplyTo configures game with the selection. Games other than the
// bubble shooter are left untouched.
func (s PuzzleSelection) ApplyTo(game registry.Game) {
	if g, ok := game.(*bubbles.Game); ok {
		g.SetOptions(bubbles.Options{StartLevel: s.Level, Difficulty: string(s.Difficulty)})
	}
}

// RunPuzzleMenu shows the puzzle menu. It returns nil when the player
// backs out or quits.
func RunPuzzleMenu(cfg core.RuntimeConfig) (*PuzzleSelection, error) {
	p := tea.NewProgram(NewPuzzleMenuModel(cfg.ScreenW, cfg.ScreenH), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := finalModel.(PuzzleMenuModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}
	return m.Selected(), nil
}
