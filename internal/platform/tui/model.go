package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/molkky/internal/molkky"
	"github.com/vovakirdan/molkky/internal/storage"
)

const maxNameLen = 16

// screen identifies which view the model is showing.
type screen int

const (
	screenSetup screen = iota
	screenGame
	screenEnd
	screenHistory
)

// Options configures a new Model.
type Options struct {
	Settings molkky.Settings
	Mode     molkky.Mode
	Players  []string       // Pre-filled roster
	Store    *storage.Store // Optional; finished games are not recorded when nil
	Logger   *log.Logger    // Optional
	User     string         // SSH user, empty for local play
	Width    int
	Height   int
}

// Model is the Bubble Tea model for one hot-seat Mölkky session.
// It owns its engine; nothing else mutates it.
type Model struct {
	engine *molkky.Engine
	store  *storage.Store
	logger *log.Logger
	user   string

	setupKeys SetupKeyMap
	gameKeys  GameKeyMap
	endKeys   EndKeyMap
	help      help.Model

	screen     screen
	prevScreen screen
	width      int
	height     int

	nameInput    string
	rosterCursor int

	pinRow, pinCol int

	status     string
	statusKind statusKind

	ranking table.Model
	savedID string
	history historyModel

	quitting bool
}

// NewModel creates a model in the setup screen with the given options.
func NewModel(opts Options) (Model, error) {
	settings := opts.Settings
	if settings == (molkky.Settings{}) {
		settings = molkky.DefaultSettings()
	}
	engine, err := molkky.New(settings)
	if err != nil {
		return Model{}, err
	}
	if opts.Mode != "" {
		if err := engine.SetMode(opts.Mode); err != nil {
			return Model{}, err
		}
	}
	for _, name := range opts.Players {
		if err := engine.AddPlayer(name); err != nil {
			return Model{}, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := help.New()
	h.Width = opts.Width

	return Model{
		engine:    engine,
		store:     opts.Store,
		logger:    logger,
		user:      opts.User,
		setupKeys: DefaultSetupKeyMap(),
		gameKeys:  DefaultGameKeyMap(),
		endKeys:   DefaultEndKeyMap(),
		help:      h,
		screen:    screenSetup,
		width:     opts.Width,
		height:    opts.Height,
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.screen == screenHistory {
			m.history = m.history.resize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.screen {
		case screenSetup:
			return m.updateSetup(msg)
		case screenGame:
			return m.updateGame(msg)
		case screenEnd:
			return m.updateEnd(msg)
		case screenHistory:
			return m.updateHistory(msg)
		}
	}
	return m, nil
}

// updateSetup handles roster editing and mode selection.
func (m Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.setupKeys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.setupKeys.Submit):
		if strings.TrimSpace(m.nameInput) != "" {
			m.addPlayer()
			return m, nil
		}
		m.startGame()
		return m, nil

	case key.Matches(msg, m.setupKeys.ToggleMode):
		m.cycleMode()
		return m, nil

	case key.Matches(msg, m.setupKeys.Up):
		if m.rosterCursor > 0 {
			m.rosterCursor--
		}
		return m, nil

	case key.Matches(msg, m.setupKeys.Down):
		if m.rosterCursor < len(m.engine.Players())-1 {
			m.rosterCursor++
		}
		return m, nil

	case key.Matches(msg, m.setupKeys.Remove):
		players := m.engine.Players()
		if len(players) == 0 {
			return m, nil
		}
		name := players[m.rosterCursor].Name
		if err := m.engine.RemovePlayer(m.rosterCursor); err != nil {
			m.setStatus(err.Error(), statusDanger)
			return m, nil
		}
		if m.rosterCursor >= len(players)-1 && m.rosterCursor > 0 {
			m.rosterCursor--
		}
		m.setStatus(fmt.Sprintf("Removed %s.", name), statusInfo)
		return m, nil

	case key.Matches(msg, m.setupKeys.History):
		m.openHistory()
		return m, nil
	}

	switch msg.Type {
	case tea.KeyBackspace:
		if r := []rune(m.nameInput); len(r) > 0 {
			m.nameInput = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		if m.nameInput != "" && len([]rune(m.nameInput)) < maxNameLen {
			m.nameInput += " "
		}
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if unicode.IsPrint(r) && len([]rune(m.nameInput)) < maxNameLen {
				m.nameInput += string(r)
			}
		}
	}
	return m, nil
}

func (m *Model) addPlayer() {
	err := m.engine.AddPlayer(m.nameInput)
	switch {
	case errors.Is(err, molkky.ErrDuplicateName):
		m.setStatus(fmt.Sprintf("%q is already playing.", strings.TrimSpace(m.nameInput)), statusWarn)
		return
	case errors.Is(err, molkky.ErrRosterFull):
		m.setStatus(fmt.Sprintf("At most %d players.", m.engine.Settings().MaxPlayers), statusWarn)
		return
	case err != nil:
		m.setStatus(err.Error(), statusDanger)
		return
	}
	m.nameInput = ""
	m.rosterCursor = len(m.engine.Players()) - 1
	m.clearStatus()
}

func (m *Model) startGame() {
	if err := m.engine.StartGame(); err != nil {
		if errors.Is(err, molkky.ErrTooFewPlayers) {
			m.setStatus(fmt.Sprintf("Add at least %d players to start.", m.engine.Settings().MinPlayers), statusWarn)
			return
		}
		m.setStatus(err.Error(), statusDanger)
		return
	}
	m.screen = screenGame
	m.pinRow, m.pinCol = 0, 0
	m.savedID = ""
	if p, ok := m.engine.CurrentPlayer(); ok {
		m.setStatus(fmt.Sprintf("%s throws first.", p.Name), statusInfo)
	}
	m.logger.Debug("game started", "mode", m.engine.Mode(), "players", len(m.engine.Players()), "user", m.user)
}

func (m *Model) cycleMode() {
	modes := molkky.Modes()
	next := modes[0]
	for i, mode := range modes {
		if mode == m.engine.Mode() {
			next = modes[(i+1)%len(modes)]
			break
		}
	}
	if err := m.engine.SetMode(next); err != nil {
		m.setStatus(err.Error(), statusDanger)
	}
}

// updateGame handles pin selection and turn submission.
func (m Model) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.gameKeys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.gameKeys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.gameKeys.Pins):
		m.togglePin(PinForKey(msg))

	case key.Matches(msg, m.gameKeys.Toggle):
		m.togglePin(m.cursorPin())

	case key.Matches(msg, m.gameKeys.Left):
		m.movePinCursor(0, -1)
	case key.Matches(msg, m.gameKeys.Right):
		m.movePinCursor(0, 1)
	case key.Matches(msg, m.gameKeys.Up):
		m.movePinCursor(-1, 0)
	case key.Matches(msg, m.gameKeys.Down):
		m.movePinCursor(1, 0)

	case key.Matches(msg, m.gameKeys.Clear):
		if err := m.engine.ClearSelection(); err != nil {
			m.setStatus(err.Error(), statusDanger)
		}

	case key.Matches(msg, m.gameKeys.Validate):
		out, err := m.engine.ValidateTurn()
		m.applyOutcome(out, err)

	case key.Matches(msg, m.gameKeys.Miss):
		out, err := m.engine.RegisterMiss()
		m.applyOutcome(out, err)

	case key.Matches(msg, m.gameKeys.Abandon):
		m.engine.NewGame()
		m.screen = screenSetup
		m.setStatus("Game abandoned.", statusWarn)
		m.logger.Debug("game abandoned", "user", m.user)
	}
	return m, nil
}

func (m *Model) togglePin(pin int) {
	if err := m.engine.TogglePin(pin); err != nil {
		m.setStatus(err.Error(), statusDanger)
	}
}

func (m *Model) cursorPin() int {
	return molkky.PinRows[m.pinRow][m.pinCol]
}

// movePinCursor moves the grid cursor. Rows wrap; the column is clamped to
// the length of the new row.
func (m *Model) movePinCursor(dRow, dCol int) {
	rows := molkky.PinRows
	if dRow != 0 {
		m.pinRow = (m.pinRow + dRow + len(rows)) % len(rows)
		m.pinCol = min(m.pinCol, len(rows[m.pinRow])-1)
		return
	}
	n := len(rows[m.pinRow])
	m.pinCol = (m.pinCol + dCol + n) % n
}

func (m *Model) applyOutcome(out molkky.TurnOutcome, err error) {
	if err != nil {
		m.setStatus(err.Error(), statusDanger)
		return
	}
	if out.Kind == molkky.OutcomeNone {
		m.setStatus("No pins selected. Press x to record a miss.", statusWarn)
		return
	}
	text, kind := describeOutcome(out)
	m.setStatus(text, kind)

	if out.Finished() {
		m.finishGame(out.Result)
	}
}

// finishGame switches to the results screen and records the game.
func (m *Model) finishGame(res *molkky.GameResult) {
	m.screen = screenEnd
	m.ranking = newRankingTable(res, m.width)

	winner := ""
	if res.Winner != nil {
		winner = res.Winner.Name
	}
	m.logger.Info("game finished", "mode", res.Mode, "winner", winner, "turns", res.Turns, "user", m.user)

	if m.store == nil {
		return
	}
	id, err := m.store.SaveGame(*res)
	if err != nil {
		m.logger.Warn("could not record game", "error", err)
		return
	}
	m.savedID = id
}

// updateEnd handles the results screen.
func (m Model) updateEnd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.endKeys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.endKeys.NewGame):
		m.engine.NewGame()
		m.screen = screenSetup
		m.rosterCursor = 0
		m.setStatus("Same players, new game. Press enter to start.", statusInfo)
	case key.Matches(msg, m.endKeys.History):
		m.openHistory()
	}
	return m, nil
}

func (m *Model) openHistory() {
	m.prevScreen = m.screen
	m.screen = screenHistory
	m.history = newHistoryModel(m.store, m.logger, m.width, m.height)
}

// updateHistory forwards keys to the history view until it asks to go back.
func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	switch {
	case m.history.quitting:
		m.quitting = true
		return m, tea.Quit
	case m.history.goingBack:
		m.screen = m.prevScreen
	}
	return m, cmd
}

func (m *Model) setStatus(text string, kind statusKind) {
	m.status = text
	m.statusKind = kind
}

func (m *Model) clearStatus() {
	m.status = ""
}

// Snapshot exposes the engine state, mainly for tests.
func (m Model) Snapshot() molkky.Snapshot {
	return m.engine.Snapshot()
}

// Status returns the current status line text.
func (m Model) Status() string {
	return m.status
}

// SavedID returns the history id of the last finished game, if it was recorded.
func (m Model) SavedID() string {
	return m.savedID
}

// IsQuitting reports whether the user asked to leave.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.screen {
	case screenSetup:
		body = m.viewSetup()
	case screenGame:
		body = m.viewGame()
	case screenEnd:
		body = m.viewEnd()
	case screenHistory:
		return m.history.View()
	}

	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)
	}
	return body
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	return statusStyles[m.statusKind].Render(m.status)
}

func (m Model) viewSetup() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("MÖLKKY"))
	b.WriteString("\n\n")

	// Modes
	for _, mode := range molkky.Modes() {
		label := "  " + mode.Title()
		if mode == m.engine.Mode() {
			label = currentStyle.Render("● " + mode.Title())
		}
		b.WriteString(label + "   ")
	}
	b.WriteString("\n")
	if rules, err := molkky.RulesFor(m.engine.Mode(), m.engine.Settings()); err == nil {
		b.WriteString(subtleStyle.Render(rules.Description()))
	}
	b.WriteString("\n\n")

	// Roster
	players := m.engine.Players()
	var roster strings.Builder
	roster.WriteString(fmt.Sprintf("Players (%d/%d)\n", len(players), m.engine.Settings().MaxPlayers))
	if len(players) == 0 {
		roster.WriteString(subtleStyle.Render("Type a name and press enter."))
	}
	for i, p := range players {
		line := fmt.Sprintf("  %d. %s", i+1, p.Name)
		if i == m.rosterCursor {
			line = currentStyle.Render(fmt.Sprintf("> %d. %s", i+1, p.Name))
		}
		roster.WriteString(line)
		if i < len(players)-1 {
			roster.WriteString("\n")
		}
	}
	b.WriteString(boxStyle.Render(roster.String()))
	b.WriteString("\n\n")

	b.WriteString("Name: " + m.nameInput + "_")
	b.WriteString("\n\n")
	if s := m.renderStatus(); s != "" {
		b.WriteString(s + "\n\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.setupKeys)))
	return b.String()
}

func (m Model) viewGame() string {
	snap := m.engine.Snapshot()

	var b strings.Builder
	header := fmt.Sprintf("MÖLKKY · %s · turn %d", snap.Mode.Title(), snap.Turns+1)
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	if p, ok := snap.Current(); ok {
		b.WriteString(currentStyle.Render(fmt.Sprintf("%s to throw", p.Name)))
		b.WriteString("\n\n")
	}

	grid := renderPinGrid(snap.Selection, m.cursorPin())
	board := boxStyle.Render(renderScoreboard(snap))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, grid, "    ", board))
	b.WriteString("\n\n")

	b.WriteString(renderPreview(snap))
	b.WriteString("\n\n")
	if s := m.renderStatus(); s != "" {
		b.WriteString(s + "\n\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.gameKeys)))
	return b.String()
}

func (m Model) viewEnd() string {
	res := m.engine.Result()

	var b strings.Builder
	b.WriteString(titleStyle.Render("GAME OVER"))
	b.WriteString("\n\n")
	if res != nil && res.Winner != nil {
		b.WriteString(statusStyles[statusSuccess].Render(fmt.Sprintf("★ %s wins with %d points ★", res.Winner.Name, res.Winner.Score)))
	} else {
		b.WriteString(statusStyles[statusDanger].Render("No winner this time."))
	}
	b.WriteString("\n\n")
	b.WriteString(boxStyle.Render(m.ranking.View()))
	b.WriteString("\n")
	if res != nil {
		b.WriteString(subtleStyle.Render(fmt.Sprintf("%s · %d turns", res.Mode.Title(), res.Turns)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.endKeys)))
	return b.String()
}

// newRankingTable builds the final standings table.
func newRankingTable(res *molkky.GameResult, width int) table.Model {
	nameWidth := 16
	if width > 60 {
		nameWidth = 20
	}
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Player", Width: nameWidth},
		{Title: "Score", Width: 6},
		{Title: "", Width: 10},
	}

	rows := make([]table.Row, 0, len(res.Ranking))
	for i, p := range res.Ranking {
		name := p.Name
		note := ""
		switch {
		case res.Winner != nil && i == 0:
			name = "★ " + name
			note = "winner"
		case p.Eliminated:
			note = "eliminated"
		}
		rows = append(rows, table.Row{fmt.Sprintf("%d", i+1), name, fmt.Sprintf("%d", p.Score), note})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	return t
}
