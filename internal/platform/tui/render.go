package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/molkky/internal/molkky"
)

// Palette
var (
	colorAccent  = lipgloss.Color("229")
	colorHighBg  = lipgloss.Color("57")
	colorMuted   = lipgloss.Color("241")
	colorBorder  = lipgloss.Color("240")
	colorWarn    = lipgloss.Color("208")
	colorDanger  = lipgloss.Color("9")
	colorSuccess = lipgloss.Color("10")
	colorPin     = lipgloss.Color("180")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	subtleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	pinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(colorPin).
			Width(4).
			Align(lipgloss.Center)

	pinSelectedStyle = pinStyle.
				Foreground(colorAccent).
				Background(colorHighBg).
				Bold(true)

	currentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	eliminatedStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Strikethrough(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorWarn).
			Bold(true)

	statusStyles = map[statusKind]lipgloss.Style{
		statusInfo:    lipgloss.NewStyle().Foreground(colorAccent),
		statusWarn:    lipgloss.NewStyle().Foreground(colorWarn),
		statusDanger:  lipgloss.NewStyle().Foreground(colorDanger).Bold(true),
		statusSuccess: lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
	}
)

// statusKind selects the color of the status line.
type statusKind int

const (
	statusInfo statusKind = iota
	statusWarn
	statusDanger
	statusSuccess
)

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// renderPinGrid draws the pins as a diamond. The pin under the cursor is
// bracketed; selected pins are highlighted.
func renderPinGrid(sel molkky.PinSet, cursor int) string {
	lines := make([]string, 0, len(molkky.PinRows))
	for _, row := range molkky.PinRows {
		cells := make([]string, 0, len(row))
		for _, pin := range row {
			style := pinStyle
			if sel.Has(pin) {
				style = pinSelectedStyle
			}
			label := fmt.Sprintf("%d", pin)
			if pin == cursor {
				label = "[" + label + "]"
			}
			cells = append(cells, style.Render(label))
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	width := 0
	for _, l := range lines {
		width = max(width, lipgloss.Width(l))
	}
	for i, l := range lines {
		lines[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, l)
	}
	return strings.Join(lines, "\n")
}

// renderMisses draws one dot per allowed miss, filled for each miss taken.
func renderMisses(misses, limit int) string {
	if misses > limit {
		misses = limit
	}
	dots := strings.Repeat("●", misses) + strings.Repeat("○", limit-misses)
	if misses > 0 && misses == limit-1 {
		return warnStyle.Render(dots)
	}
	return dots
}

// renderPreview returns the "score + points = total" line, or a hint when
// nothing is selected.
func renderPreview(snap molkky.Snapshot) string {
	if snap.Selection.Empty() {
		return subtleStyle.Render("Select the pins that fell, then press enter.")
	}
	p := snap.Preview
	line := fmt.Sprintf("%d + %d = %d", p.Current, p.Points, p.Projected)
	if p.Overflow {
		return line + "  " + warnStyle.Render(fmt.Sprintf("over %d! back to %d", snap.Settings.TargetScore, snap.Settings.PenaltyScore))
	}
	return line
}

// renderScoreboard lists every player with score and misses, marking the
// current thrower.
func renderScoreboard(snap molkky.Snapshot) string {
	nameWidth := 4
	for _, p := range snap.Players {
		nameWidth = max(nameWidth, lipgloss.Width(p.Name))
	}

	var b strings.Builder
	for i, p := range snap.Players {
		marker := "  "
		if snap.State == molkky.StateInProgress && i == snap.CurrentIndex {
			marker = "▶ "
		}
		name := p.Name + strings.Repeat(" ", nameWidth-lipgloss.Width(p.Name))
		line := fmt.Sprintf("%s%s  %3d/%d  %s", marker, name, p.Score, snap.Settings.TargetScore,
			renderMisses(p.Misses, snap.Settings.MaxMisses))

		switch {
		case p.Eliminated:
			line = eliminatedStyle.Render(line + "  out")
		case snap.State == molkky.StateInProgress && i == snap.CurrentIndex:
			line = currentStyle.Render(line)
		}
		b.WriteString(line)
		if i < len(snap.Players)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// describeOutcome turns a turn outcome into a status message.
func describeOutcome(out molkky.TurnOutcome) (string, statusKind) {
	switch out.Kind {
	case molkky.OutcomeContinue:
		if out.Passed {
			return fmt.Sprintf("%s hit the miss limit and passes. %s's turn.",
				out.Thrower.Name, out.Next.Name), statusWarn
		}
		if out.Points == 0 {
			return fmt.Sprintf("%s missed. %s's turn.", out.Thrower.Name, out.Next.Name), statusInfo
		}
		return fmt.Sprintf("%s scores %d (%d). %s's turn.",
			out.Thrower.Name, out.Points, out.Thrower.Score, out.Next.Name), statusInfo
	case molkky.OutcomePenalty:
		return fmt.Sprintf("%s went over! Back to %d. %s's turn.",
			out.Thrower.Name, out.Thrower.Score, out.Next.Name), statusWarn
	case molkky.OutcomeEliminated:
		return fmt.Sprintf("%s is eliminated. %s's turn.", out.Thrower.Name, out.Next.Name), statusDanger
	case molkky.OutcomeWin:
		if out.Result != nil && out.Result.Winner != nil {
			return fmt.Sprintf("%s wins!", out.Result.Winner.Name), statusSuccess
		}
	case molkky.OutcomeNoWinner:
		return "Everybody is out. No winner.", statusDanger
	}
	return "", statusInfo
}
