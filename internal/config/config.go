// Package config provides YAML-based configuration loading for the score
// tracker: house rules, roster limits, storage and SSH server settings.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/molkky/internal/molkky"
)

// Config contains all configuration for the application.
type Config struct {
	DefaultMode string        `yaml:"default_mode"` // "normal" or "kids"
	Rules       RulesConfig   `yaml:"rules"`
	Roster      RosterConfig  `yaml:"roster"`
	Storage     StorageConfig `yaml:"storage"`
	Server      ServerConfig  `yaml:"server"`
	Log         LogConfig     `yaml:"log"`
}

// RulesConfig defines the scoring house rules.
type RulesConfig struct {
	TargetScore  int `yaml:"target_score"`
	PenaltyScore int `yaml:"penalty_score"` // Score after overshooting (normal mode)
	MaxMisses    int `yaml:"max_misses"`    // Consecutive misses before elimination
}

// RosterConfig defines how many players a game accepts.
type RosterConfig struct {
	MinPlayers int `yaml:"min_players"`
	MaxPlayers int `yaml:"max_players"`
}

// StorageConfig defines where finished games are recorded.
type StorageConfig struct {
	Path string `yaml:"path"` // SQLite file; "~" expands to the home directory
}

// ServerConfig defines the SSH server parameters.
type ServerConfig struct {
	Address            string `yaml:"address"`
	HostKeyPath        string `yaml:"host_key_path"` // Empty = ~/.molkky/host_key
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file used while the local TUI owns the terminal
}

// IdleTimeout returns the idle timeout as a duration.
func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMinutes) * time.Minute
}

// Settings converts the rules and roster sections into engine settings.
func (c Config) Settings() molkky.Settings {
	return molkky.Settings{
		TargetScore:  c.Rules.TargetScore,
		PenaltyScore: c.Rules.PenaltyScore,
		MaxMisses:    c.Rules.MaxMisses,
		MinPlayers:   c.Roster.MinPlayers,
		MaxPlayers:   c.Roster.MaxPlayers,
	}
}

// Mode returns the configured default mode.
func (c Config) Mode() molkky.Mode {
	m, err := molkky.ParseMode(c.DefaultMode)
	if err != nil {
		return molkky.ModeNormal
	}
	return m
}

// Validate checks that the configuration describes a playable game.
func (c Config) Validate() error {
	if c.DefaultMode != "" {
		if _, err := molkky.ParseMode(c.DefaultMode); err != nil {
			return fmt.Errorf("config: default_mode: %w", err)
		}
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Server.IdleTimeoutMinutes < 0 {
		return fmt.Errorf("config: server.idle_timeout_minutes must not be negative")
	}
	return nil
}
