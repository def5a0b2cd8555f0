package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/molkky/internal/config"
	"github.com/vovakirdan/molkky/internal/molkky"
	"github.com/vovakirdan/molkky/internal/platform/tui"
	"github.com/vovakirdan/molkky/internal/storage"
)

var (
	flagMode    string
	flagPlayers []string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Set up the players and keep score of a game.

Setup:
  Type a name  - Add a player (enter)
  Enter        - Start when the name field is empty
  Tab          - Switch between normal and kids mode
  Ctrl+X       - Remove the selected player

In game:
  1-9 0 - =    - Toggle pins 1 to 12
  Arrows/Space - Move over the pin grid and toggle
  Enter        - Validate the throw
  X            - Record a miss
  C            - Clear the selection
  Q/Ctrl+C     - Quit

Examples:
  molkky play
  molkky play -p Alice -p Bob -p Cleo
  molkky play --mode kids`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Game mode: normal or kids (default from config)")
	playCmd.Flags().StringArrayVarP(&flagPlayers, "player", "p", nil, "Add a player (repeatable)")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	mode := cfg.Mode()
	if flagMode != "" {
		m, err := molkky.ParseMode(flagMode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'molkky modes' to see available modes.")
			os.Exit(1)
		}
		mode = m
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// The TUI owns the terminal, so log to a file
	logFile, err := openLogFile(cfg.Log.File)
	var logOut io.Writer = io.Discard
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
	} else if logFile != nil {
		logOut = logFile
	}
	logger := newLogger(logOut, cfg, "molkky")

	// History is best effort, the game works without it
	store, err := storage.Open(config.ExpandPath(cfg.Storage.Path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		logger.Warn("history disabled", "error", err)
		store = nil
	}

	runErr := tui.Run(tui.Options{
		Settings: cfg.Settings(),
		Mode:     mode,
		Players:  flagPlayers,
		Store:    store,
		Logger:   logger,
		Width:    width,
		Height:   height,
	})

	// Close store and log before potential exit
	closePlay(store, logFile)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

// openLogFile opens path for appending, creating parent directories.
// An empty path disables logging.
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	path = config.ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// closePlay releases what runPlay opened. Either argument may be nil.
func closePlay(store *storage.Store, logFile *os.File) {
	if store != nil {
		store.Close()
	}
	if logFile != nil {
		logFile.Close()
	}
}
