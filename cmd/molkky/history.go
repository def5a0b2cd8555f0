package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/molkky/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently finished games",
	Long: `Display the most recently finished games, newest first.

Examples:
  molkky history
  molkky history --limit 50
  molkky history --clear      # Forget every recorded game`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 10, "Number of games to show")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all recorded games")
}

func runHistory(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	store := openStore(cfg)
	defer store.Close()

	if flagHistoryClear {
		if err := store.ClearHistory(); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error clearing history: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared.")
		return
	}

	games, err := store.RecentGames(flagHistoryLimit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		os.Exit(1)
	}

	if len(games) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Play 'molkky play' to record the first one!")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(cellStyle).
		Headers("When", "Mode", "Winner", "Turns", "Final scores")

	for _, g := range games {
		winner := g.Winner
		if winner == "" {
			winner = "-"
		}
		scores := make([]string, len(g.Players))
		for i, p := range g.Players {
			mark := ""
			if p.Eliminated {
				mark = " (out)"
			}
			scores[i] = fmt.Sprintf("%s %d%s", p.Name, p.Score, mark)
		}
		t.Row(
			humanize.Time(g.CreatedAt),
			g.Mode.Title(),
			winner,
			fmt.Sprintf("%d", g.Turns),
			strings.Join(scores, ", "),
		)
	}

	fmt.Println(t.String())
	printShownCount(os.Stdout, store, len(games), newLogger(os.Stderr, cfg, "molkky"))
}

// printShownCount tells how many of the recorded games were listed. The total
// is informational, so a failed count is only logged.
func printShownCount(w io.Writer, store *storage.Store, shown int, logger *log.Logger) {
	total, err := store.CountGames()
	if err != nil {
		logger.Debug("could not count games", "error", err)
		return
	}
	if total > shown {
		fmt.Fprintf(w, "Showing %d of %s games.\n", shown, humanize.Comma(int64(total)))
	}
}

// cellStyle pads table cells and bolds the header row.
func cellStyle(row, _ int) lipgloss.Style {
	style := lipgloss.NewStyle().Padding(0, 1)
	if row == table.HeaderRow {
		return style.Bold(true).Foreground(lipgloss.Color("229"))
	}
	return style
}
