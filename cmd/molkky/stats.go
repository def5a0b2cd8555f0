package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var flagStatsLimit int

var statsCmd = &cobra.Command{
	Use:   "stats [player]",
	Short: "Show the leaderboard or one player's record",
	Long: `Without arguments, rank every recorded player by wins.
With a player name, show that player's record. Names are matched
without regard to case.

Examples:
  molkky stats
  molkky stats alice`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

func init() {
	statsCmd.Flags().IntVarP(&flagStatsLimit, "limit", "n", 10, "Number of players on the leaderboard")
}

func runStats(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	store := openStore(cfg)
	defer store.Close()

	if len(args) == 1 {
		stats, err := store.PlayerStats(args[0])
		if err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
			os.Exit(1)
		}
		if stats == nil {
			fmt.Printf("No games recorded for %q.\n", args[0])
			return
		}

		fmt.Printf("%s\n\n", stats.Name)
		fmt.Printf("  Games played:  %d\n", stats.GamesPlayed)
		fmt.Printf("  Wins:          %d (%.0f%%)\n", stats.Wins, stats.WinRate()*100)
		fmt.Printf("  Eliminations:  %d\n", stats.Eliminations)
		fmt.Printf("  Average score: %.1f\n", stats.AvgScore)
		fmt.Printf("  Best score:    %d\n", stats.BestScore)
		fmt.Printf("  Last played:   %s\n", humanize.Time(stats.LastPlayed))
		return
	}

	board, err := store.Leaderboard(flagStatsLimit)
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving leaderboard: %v\n", err)
		os.Exit(1)
	}
	if len(board) == 0 {
		fmt.Println("No games recorded yet.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(cellStyle).
		Headers("Rank", "Player", "Games", "Wins", "Win %", "Avg", "Last played")

	for i, p := range board {
		t.Row(
			humanize.Ordinal(i+1),
			p.Name,
			fmt.Sprintf("%d", p.GamesPlayed),
			fmt.Sprintf("%d", p.Wins),
			fmt.Sprintf("%.0f", p.WinRate()*100),
			fmt.Sprintf("%.1f", p.AvgScore),
			humanize.Time(p.LastPlayed),
		)
	}
	fmt.Println(t.String())
}
