// molkky keeps score for Mölkky games in the terminal.
//
// Usage:
//
//	molkky play               - Set up players and play a game
//	molkky serve              - Start SSH server for remote play
//	molkky history            - Show recently finished games
//	molkky stats [player]     - Show the leaderboard or one player's record
//	molkky modes              - List game modes and their rules
//
// Global flags:
//
//	--config <path>     - Path to a YAML config file
//	--db <path>         - Set database path (default: ~/.molkky/history.db)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/molkky/internal/config"
	"github.com/vovakirdan/molkky/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "molkky",
	Short: "Mölkky - keep score of your games in the terminal",
	Long: `Mölkky is a terminal score tracker for the Finnish throwing game.
Add the players, tick the pins that fell after each throw and the
tracker applies the rules: exact 50 to win, overshoot back to 25,
three misses in a row and you're out.

Available commands:
  play     - Set up players and play a game
  serve    - Start SSH server for remote play
  history  - Show recently finished games
  stats    - Show the leaderboard or one player's record
  modes    - List game modes and their rules

Examples:
  molkky play -p Alice -p Bob
  molkky play --mode kids
  molkky serve --ssh :2222
  molkky stats alice`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML (default: ~/.molkky/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to history database (default: ~/.molkky/history.db)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(modesCmd)
}

// loadConfig loads the configuration and applies global flag overrides.
// It exits on error.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg
}

// newLogger builds a logger writing to w at the configured level.
func newLogger(w io.Writer, cfg config.Config, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// openStore opens the history database, exiting on error.
func openStore(cfg config.Config) *storage.Store {
	store, err := storage.Open(config.ExpandPath(cfg.Storage.Path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	return store
}
