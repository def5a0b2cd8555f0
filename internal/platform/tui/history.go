package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/molkky/internal/storage"
)

// History layout constants
const (
	maxHistoryGames   = 50
	maxLeaderboard    = 50
	historyChromeRows = 8 // Title, tabs, borders, help
)

// historyTab selects which table the history screen shows.
type historyTab int

const (
	tabGames historyTab = iota
	tabPlayers
)

// historyModel shows recent games and the win leaderboard.
type historyModel struct {
	store     *storage.Store
	logger    *log.Logger
	games     []storage.GameRecord
	players   []storage.PlayerStats
	tab       historyTab
	table     table.Model
	help      help.Model
	keys      HistoryKeyMap
	width     int
	height    int
	loadErr   error
	goingBack bool
	quitting  bool
}

func newHistoryModel(store *storage.Store, logger *log.Logger, width, height int) historyModel {
	h := help.New()
	h.Width = width

	m := historyModel{
		store:  store,
		logger: logger,
		help:   h,
		keys:   DefaultHistoryKeyMap(),
		width:  width,
		height: height,
	}
	m.load()
	m.table = m.createTable()
	return m
}

// load reads games and player stats. A missing store leaves both empty.
func (m *historyModel) load() {
	if m.store == nil {
		return
	}
	games, err := m.store.RecentGames(maxHistoryGames)
	if err != nil {
		m.loadErr = err
		m.logger.Warn("could not load history", "error", err)
		return
	}
	players, err := m.store.Leaderboard(maxLeaderboard)
	if err != nil {
		m.loadErr = err
		m.logger.Warn("could not load leaderboard", "error", err)
		return
	}
	m.games = games
	m.players = players
}

// createTable builds the table for the active tab.
func (m historyModel) createTable() table.Model {
	var columns []table.Column
	var rows []table.Row

	switch m.tab {
	case tabGames:
		columns = []table.Column{
			{Title: "When", Width: 16},
			{Title: "Mode", Width: 7},
			{Title: "Winner", Width: 14},
			{Title: "Turns", Width: 6},
			{Title: "Players", Width: 28},
		}
		for _, g := range m.games {
			winner := g.Winner
			if winner == "" {
				winner = "-"
			}
			names := make([]string, len(g.Players))
			for i, p := range g.Players {
				names[i] = p.Name
			}
			rows = append(rows, table.Row{
				humanize.Time(g.CreatedAt),
				g.Mode.Title(),
				winner,
				fmt.Sprintf("%d", g.Turns),
				strings.Join(names, ", "),
			})
		}
	case tabPlayers:
		columns = []table.Column{
			{Title: "Player", Width: 14},
			{Title: "Games", Width: 6},
			{Title: "Wins", Width: 6},
			{Title: "Win %", Width: 6},
			{Title: "Avg", Width: 6},
			{Title: "Last played", Width: 16},
		}
		for _, p := range m.players {
			rows = append(rows, table.Row{
				p.Name,
				fmt.Sprintf("%d", p.GamesPlayed),
				fmt.Sprintf("%d", p.Wins),
				fmt.Sprintf("%.0f", p.WinRate()*100),
				fmt.Sprintf("%.1f", p.AvgScore),
				humanize.Time(p.LastPlayed),
			})
		}
	}

	height := m.height - historyChromeRows
	if height < 3 {
		height = 10
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorAccent).
		Background(colorHighBg).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m historyModel) resize(width, height int) historyModel {
	m.width = width
	m.height = height
	m.help.Width = width
	m.table = m.createTable()
	return m
}

// Update handles keys for the history screen.
func (m historyModel) Update(msg tea.KeyMsg) (historyModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.goingBack = true
		return m, nil
	case key.Matches(msg, m.keys.Switch):
		if m.tab == tabGames {
			m.tab = tabPlayers
		} else {
			m.tab = tabGames
		}
		m.table = m.createTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m historyModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(centerText("HISTORY", m.width)))
	b.WriteString("\n\n")

	tabStyle := lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccent).
		Background(colorHighBg).
		Padding(0, 1)

	labels := []string{"Games", "Players"}
	tabs := make([]string, len(labels))
	for i, l := range labels {
		if historyTab(i) == m.tab {
			tabs[i] = activeTabStyle.Render(l)
		} else {
			tabs[i] = tabStyle.Render(l)
		}
	}
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boxStyle.Render(m.renderTableContent())))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m historyModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(colorMuted).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("History is not available.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not read history.")
	case m.tab == tabGames && len(m.games) == 0,
		m.tab == tabPlayers && len(m.players) == 0:
		return emptyStyle.Render("No games recorded yet.\nFinish a game to see it here!")
	}
	return m.table.View()
}
