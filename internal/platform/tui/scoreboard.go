package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-bubbles/internal/registry"
	"github.com/vovakirdan/tui-bubbles/internal/storage"
)

const (
	minWidthForSidebar = 80
	sidebarWidth       = 22
	maxScores          = 100
)

// scoreboardView selects what the table shows.
type scoreboardView int

const (
	viewTopScores scoreboardView = iota
	viewRecentRounds
)

// ScoreboardKeyMap holds the scoreboard key bindings.
type ScoreboardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextMode   key.Binding
	PrevMode   key.Binding
	ToggleView key.Binding
	Back       key.Binding
	Quit       key.Binding
}

func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.ToggleView, k.Back}
}

func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.ToggleView, k.Back, k.Quit},
	}
}

func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "scores/rounds"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the best scores and the latest rounds per mode.
type ScoreboardModel struct {
	modes       []registry.ModeInfo
	modeCursor  int
	store       *storage.Store
	view        scoreboardView
	scores      []storage.ScoreEntry
	rounds      []storage.RoundRecord
	stats       *storage.GameStats
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	now         func() time.Time
	quitting    bool
	goingBack   bool
	showSidebar bool
}

func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		modes:       registry.List(),
		store:       store,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		now:         time.Now,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

func (m *ScoreboardModel) tableWidth() int {
	w := m.width - 4
	if m.showSidebar {
		w -= sidebarWidth + 3
	}
	return w
}

func (m *ScoreboardModel) columns() []table.Column {
	if m.view == viewRecentRounds {
		return []table.Column{
			{Title: "When", Width: 14},
			{Title: "Score", Width: 8},
			{Title: "Shots", Width: 6},
			{Title: "Pop/Drop", Width: 9},
			{Title: "Chain", Width: 6},
			{Title: "Time", Width: 7},
		}
	}

	cols := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 10},
		{Title: "When", Width: 18},
	}
	if w := m.tableWidth(); w > 40 {
		cols[1].Width = 12
		cols[2].Width = min(w-22, 20)
	}
	return cols
}

func (m *ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// reload fetches the data for the current mode and view.
func (m *ScoreboardModel) reload() {
	m.scores, m.rounds, m.stats = nil, nil, nil
	if m.store != nil && len(m.modes) > 0 {
		id := m.modes[m.modeCursor].ID
		if m.view == viewRecentRounds {
			m.rounds, _ = m.store.RecentRounds(id, maxScores)
		} else {
			m.scores, _ = m.store.TopScores(id, maxScores)
		}
		m.stats, _ = m.store.GetGameStats(id)
	}
	m.updateTableRows()
}

func (m *ScoreboardModel) updateTableRows() {
	now := m.now()
	var rows []table.Row

	if m.view == viewRecentRounds {
		rows = make([]table.Row, len(m.rounds))
		for i, r := range m.rounds {
			rows[i] = table.Row{
				humanize.RelTime(r.CreatedAt, now, "ago", "from now"),
				humanize.Comma(int64(r.Score)),
				fmt.Sprintf("%d", r.Shots),
				fmt.Sprintf("%d/%d", r.Popped, r.Dropped),
				fmt.Sprintf("x%d", r.BestChain),
				r.Duration.Round(time.Second).String(),
			}
		}
	} else {
		rows = make([]table.Row, len(m.scores))
		for i, s := range m.scores {
			rows[i] = table.Row{
				fmt.Sprintf("#%d", i+1),
				humanize.Comma(int64(s.Score)),
				humanize.RelTime(s.CreatedAt, now, "ago", "from now"),
			}
		}
	}

	// Columns change with the view; clear rows first so they always match.
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextMode):
			if len(m.modes) > 0 {
				m.modeCursor = (m.modeCursor + 1) % len(m.modes)
				m.reload()
			}
			return m, nil
		case key.Matches(msg, m.keys.PrevMode):
			if len(m.modes) > 0 {
				m.modeCursor = (m.modeCursor - 1 + len(m.modes)) % len(m.modes)
				m.reload()
			}
			return m, nil
		case key.Matches(msg, m.keys.ToggleView):
			if m.view == viewTopScores {
				m.view = viewRecentRounds
			} else {
				m.view = viewTopScores
			}
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var (
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	heading := "HIGH SCORES"
	if m.view == viewRecentRounds {
		heading = "RECENT ROUNDS"
	}
	if len(m.modes) > 0 {
		heading = fmt.Sprintf("%s - %s", heading, m.modes[m.modeCursor].Title)
	}
	b.WriteString(centerStyled(menuTitleStyle.Render(heading), m.width))
	b.WriteString("\n")
	b.WriteString(centerStyled(mutedStyle.Render(m.summary()), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", panelStyle.Render(m.renderTableContent())))
	} else {
		b.WriteString(centerStyled(m.renderTabs(), m.width))
		b.WriteString("\n\n")
		b.WriteString(panelStyle.Render(m.renderTableContent()))
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// summary is the one-line aggregate for the current mode.
func (m ScoreboardModel) summary() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return "no games played"
	}
	return fmt.Sprintf("%s games  |  best %s  |  avg %s  |  last played %s",
		humanize.Comma(int64(m.stats.GamesCount)),
		humanize.Comma(int64(m.stats.HighScore)),
		humanize.Comma(int64(m.stats.AvgScore)),
		humanize.RelTime(m.stats.LastPlayed, m.now(), "ago", "from now"),
	)
}

func (m ScoreboardModel) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString("Modes\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	for i, g := range m.modes {
		name := g.Title
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		if i == m.modeCursor {
			sb.WriteString(menuCursorStyle.Render("> " + name))
		} else {
			sb.WriteString("  " + name)
		}
		sb.WriteString("\n")
	}
	return panelStyle.Width(sidebarWidth).Render(sb.String())
}

func (m ScoreboardModel) renderTabs() string {
	activeTab := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.modes))
	for i, g := range m.modes {
		if i == m.modeCursor {
			tabs[i] = activeTab.Render(g.Title)
		} else {
			tabs[i] = mutedStyle.Render(" " + g.Title + " ")
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 && len(m.modes) > 0 {
		line = fmt.Sprintf("< %s >", m.modes[m.modeCursor].Title)
	}
	return line
}

func (m ScoreboardModel) renderTableContent() string {
	if len(m.scores) == 0 && len(m.rounds) == 0 {
		return mutedStyle.Italic(true).Padding(2, 4).Render("Nothing recorded yet.\nPlay a round to set a high score!")
	}
	return m.table.View()
}

func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard shows the scoreboard. It reports whether the player wants
// to return to the menu.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
