package config

import (
	_ "embed"

	"github.com/vovakirdan/molkky/internal/molkky"
)

//go:embed defaults/molkky.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		DefaultMode: string(molkky.ModeNormal),
		Rules: RulesConfig{
			TargetScore:  molkky.TargetScore,
			PenaltyScore: molkky.PenaltyScore,
			MaxMisses:    molkky.MaxMisses,
		},
		Roster: RosterConfig{
			MinPlayers: molkky.MinPlayers,
			MaxPlayers: molkky.MaxPlayers,
		},
		Storage: StorageConfig{
			Path: "~/.molkky/history.db",
		},
		Server: ServerConfig{
			Address:            ":23235",
			IdleTimeoutMinutes: 30,
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.molkky/molkky.log",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
