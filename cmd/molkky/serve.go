package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/molkky/internal/config"
	"github.com/vovakirdan/molkky/internal/platform/tui"
	"github.com/vovakirdan/molkky/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Mölkky SSH server",
	Long: `Start an SSH server so players can keep score from any terminal.

Each SSH connection gets its own hot-seat game; connections never share
a game. Finished games from every connection go to the same history.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.molkky/host_key

Examples:
  molkky serve                           # Listen on :23235 with auto-generated key
  molkky serve --ssh :2222               # Listen on port 2222
  molkky serve --host-key ./my_host_key  # Use specific host key
  molkky serve --db ./history.db         # Use specific database

Users can connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address host:port (default from config: :23235)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting (default from config: 30)")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(os.Stderr, cfg, "molkky-ssh")

	sshCfg := tui.SSHServerConfig{
		Address:     cfg.Server.Address,
		HostKeyPath: config.ExpandPath(cfg.Server.HostKeyPath),
		IdleTimeout: cfg.Server.IdleTimeout(),
		Settings:    cfg.Settings(),
		Mode:        cfg.Mode(),
	}
	if cmd.Flags().Changed("ssh") {
		sshCfg.Address = flagSSHAddr
	}
	if cmd.Flags().Changed("host-key") {
		sshCfg.HostKeyPath = config.ExpandPath(flagHostKey)
	}
	if cmd.Flags().Changed("idle-timeout") {
		sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	store, err := storage.Open(config.ExpandPath(cfg.Storage.Path))
	if err != nil {
		logger.Warn("could not open history database", "error", err)
		// Continue without storage
		store = nil
	}

	server, err := tui.NewSSHServer(sshCfg, store, logger)
	if err != nil {
		if store != nil {
			store.Close()
		}
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting Mölkky SSH server on %s\n", server.Addr())
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(server.Addr()))
	fmt.Println("Press Ctrl+C to stop")

	serveErr := server.ListenAndServe(context.Background())
	if store != nil {
		store.Close()
	}
	if serveErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", serveErr)
		os.Exit(1)
	}
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
