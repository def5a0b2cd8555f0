// Package storage provides SQLite-based persistence for finished games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/molkky/internal/molkky"
)

// Store manages the SQLite database connection for game history.
type Store struct {
	db *sql.DB
}

// GameRecord is one finished game as stored.
type GameRecord struct {
	ID        string
	Mode      molkky.Mode
	Winner    string // Empty if nobody won
	Turns     int
	Players   []PlayerRecord // Final ranking order
	CreatedAt time.Time
}

// PlayerRecord is one player's final line in a stored game.
type PlayerRecord struct {
	Rank       int // 1-based
	Name       string
	Score      int
	Misses     int
	Eliminated bool
	Winner     bool
}

// PlayerStats contains aggregated statistics for one player name.
// Names are matched case-insensitively.
type PlayerStats struct {
	Name         string
	GamesPlayed  int
	Wins         int
	Eliminations int
	AvgScore     float64
	BestScore    int
	LastPlayed   time.Time
}

// WinRate returns wins over games played, 0 when no games were played.
func (p PlayerStats) WinRate() float64 {
	if p.GamesPlayed == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.GamesPlayed)
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			winner TEXT,
			turns INTEGER NOT NULL DEFAULT 0,
			player_count INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_games_created ON games(created_at DESC);

		CREATE TABLE IF NOT EXISTS game_players (
			game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			misses INTEGER NOT NULL DEFAULT 0,
			eliminated INTEGER NOT NULL DEFAULT 0,
			winner INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (game_id, position)
		);
		CREATE INDEX IF NOT EXISTS idx_game_players_name ON game_players(name COLLATE NOCASE);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame records a finished game and its final ranking.
// Returns the generated game ID.
func (s *Store) SaveGame(res molkky.GameResult) (string, error) {
	if len(res.Ranking) == 0 {
		return "", errors.New("storage: cannot save game without players")
	}

	id := uuid.NewString()
	var winner sql.NullString
	if res.Winner != nil {
		winner = sql.NullString{String: res.Winner.Name, Valid: true}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.Exec(
		"INSERT INTO games (id, mode, winner, turns, player_count) VALUES (?, ?, ?, ?, ?)",
		id, string(res.Mode), winner, res.Turns, len(res.Ranking),
	); err != nil {
		return "", fmt.Errorf("storage: cannot save game: %w", err)
	}

	for i, p := range res.Ranking {
		isWinner := res.Winner != nil && i == 0
		if _, err := tx.Exec(
			`INSERT INTO game_players (game_id, position, name, score, misses, eliminated, winner)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, i+1, p.Name, p.Score, p.Misses, p.Eliminated, isWinner,
		); err != nil {
			return "", fmt.Errorf("storage: cannot save player %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit game: %w", err)
	}
	return id, nil
}

// RecentGames retrieves the most recent finished games, newest first.
func (s *Store) RecentGames(limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, mode, winner, turns, created_at
		 FROM games
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}

	var games []GameRecord
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	rows.Close()

	for i := range games {
		players, err := s.gamePlayers(games[i].ID)
		if err != nil {
			return nil, err
		}
		games[i].Players = players
	}
	return games, nil
}

// GameByID retrieves a game by its ID. Returns nil if it does not exist.
func (s *Store) GameByID(id string) (*GameRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, mode, winner, turns, created_at FROM games WHERE id = ?`,
		id,
	)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	g.Players, err = s.gamePlayers(g.ID)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// gamePlayers loads the ranking lines of one game.
func (s *Store) gamePlayers(gameID string) ([]PlayerRecord, error) {
	rows, err := s.db.Query(
		`SELECT position, name, score, misses, eliminated, winner
		 FROM game_players
		 WHERE game_id = ?
		 ORDER BY position`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query players: %w", err)
	}
	defer rows.Close()

	var players []PlayerRecord
	for rows.Next() {
		var p PlayerRecord
		if err := rows.Scan(&p.Rank, &p.Name, &p.Score, &p.Misses, &p.Eliminated, &p.Winner); err != nil {
			return nil, fmt.Errorf("storage: cannot scan player row: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return players, nil
}

// PlayerStats aggregates every stored game of a player.
// Returns nil if the player never finished a game.
func (s *Store) PlayerStats(name string) (*PlayerStats, error) {
	var (
		stats      PlayerStats
		displayed  sql.NullString
		lastPlayed any
	)
	err := s.db.QueryRow(
		`SELECT MIN(gp.name), COUNT(*), COALESCE(SUM(gp.winner), 0), COALESCE(SUM(gp.eliminated), 0),
		        COALESCE(AVG(gp.score), 0), COALESCE(MAX(gp.score), 0), MAX(g.created_at)
		 FROM game_players gp
		 JOIN games g ON g.id = gp.game_id
		 WHERE gp.name = ? COLLATE NOCASE`,
		name,
	).Scan(&displayed, &stats.GamesPlayed, &stats.Wins, &stats.Eliminations,
		&stats.AvgScore, &stats.BestScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}
	if stats.GamesPlayed == 0 {
		return nil, nil
	}

	stats.Name = displayed.String
	stats.LastPlayed = parseTime(lastPlayed)
	return &stats, nil
}

// Leaderboard ranks players by wins, then by win rate, then by games played.
func (s *Store) Leaderboard(limit int) ([]PlayerStats, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT MIN(gp.name), COUNT(*), SUM(gp.winner), SUM(gp.eliminated),
		        AVG(gp.score), MAX(gp.score), MAX(g.created_at)
		 FROM game_players gp
		 JOIN games g ON g.id = gp.game_id
		 GROUP BY gp.name COLLATE NOCASE
		 ORDER BY SUM(gp.winner) DESC, CAST(SUM(gp.winner) AS REAL) / COUNT(*) DESC, COUNT(*) DESC, MIN(gp.name)
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var board []PlayerStats
	for rows.Next() {
		var p PlayerStats
		var lastPlayed any
		if err := rows.Scan(&p.Name, &p.GamesPlayed, &p.Wins, &p.Eliminations,
			&p.AvgScore, &p.BestScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan leaderboard row: %w", err)
		}
		p.LastPlayed = parseTime(lastPlayed)
		board = append(board, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return board, nil
}

// CountGames returns the number of stored games.
func (s *Store) CountGames() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM games").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count games: %w", err)
	}
	return n, nil
}

// ClearHistory deletes every stored game.
func (s *Store) ClearHistory() error {
	if _, err := s.db.Exec("DELETE FROM game_players; DELETE FROM games;"); err != nil {
		return fmt.Errorf("storage: cannot clear history: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(r rowScanner) (GameRecord, error) {
	var (
		g         GameRecord
		mode      string
		winner    sql.NullString
		createdAt any
	)
	if err := r.Scan(&g.ID, &mode, &winner, &g.Turns, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return g, err
		}
		return g, fmt.Errorf("storage: cannot scan game row: %w", err)
	}
	g.Mode = molkky.Mode(mode)
	if winner.Valid {
		g.Winner = winner.String
	}
	g.CreatedAt = parseTime(createdAt)
	return g, nil
}

// parseTime handles the datetime as either time.Time or string, depending
// on whether the driver kept the column type.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
