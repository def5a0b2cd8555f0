package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/molkky/internal/molkky"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List game modes",
	Long:  `Shows every game mode with its rules, using the configured house rules.`,
	Args:  cobra.NoArgs,
	Run:   runModes,
}

func runModes(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	settings := cfg.Settings()

	fmt.Println("Available modes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, m := range molkky.Modes() {
		if len(m) > maxIDLen {
			maxIDLen = len(m)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Rules")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, m := range molkky.Modes() {
		rules, err := molkky.RulesFor(m, settings)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		marker := ""
		if m == cfg.Mode() {
			marker = " (default)"
		}
		fmt.Printf("  %-*s  %s%s\n", maxIDLen, m, rules.Description(), marker)
	}

	fmt.Println()
	fmt.Println("Run 'molkky play --mode <id>' to play a mode.")
}
