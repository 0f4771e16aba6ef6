// Package storage provides SQLite-based persistence for scores and round
// statistics. Uses the pure-Go modernc.org/sqlite driver through sqlx.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sqlx.DB
}

// ScoreEntry is a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// RoundRecord summarizes one finished round.
type RoundRecord struct {
	ID        int64
	RoundID   string
	GameID    string
	Player    string
	Score     int
	Shots     int
	Popped    int
	Dropped   int
	BestChain int
	Cleared   bool
	Duration  time.Duration
	CreatedAt time.Time
}

type scoreRow struct {
	ID        int64  `db:"id"`
	GameID    string `db:"game_id"`
	Score     int    `db:"score"`
	CreatedAt int64  `db:"created_at"`
}

func (r scoreRow) entry() ScoreEntry {
	return ScoreEntry{ID: r.ID, GameID: r.GameID, Score: r.Score, CreatedAt: time.Unix(r.CreatedAt, 0)}
}

type roundRow struct {
	ID           int64  `db:"id"`
	RoundID      string `db:"round_id"`
	GameID       string `db:"game_id"`
	Player       string `db:"player"`
	Score        int    `db:"score"`
	Shots        int    `db:"shots"`
	Popped       int    `db:"popped"`
	Dropped      int    `db:"dropped"`
	BestChain    int    `db:"best_chain"`
	Cleared      bool   `db:"cleared"`
	DurationSecs int64  `db:"duration_secs"`
	CreatedAt    int64  `db:"created_at"`
}

func (r roundRow) record() RoundRecord {
	return RoundRecord{
		ID:        r.ID,
		RoundID:   r.RoundID,
		GameID:    r.GameID,
		Player:    r.Player,
		Score:     r.Score,
		Shots:     r.Shots,
		Popped:    r.Popped,
		Dropped:   r.Dropped,
		BestChain: r.BestChain,
		Cleared:   r.Cleared,
		Duration:  time.Duration(r.DurationSecs) * time.Second,
		CreatedAt: time.Unix(r.CreatedAt, 0),
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// One writer; the SSH server shares the store between sessions.
	db.SetMaxOpenConns(1)

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

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			round_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL DEFAULT 0,
			shots INTEGER NOT NULL DEFAULT 0,
			popped INTEGER NOT NULL DEFAULT 0,
			dropped INTEGER NOT NULL DEFAULT 0,
			best_chain INTEGER NOT NULL DEFAULT 0,
			cleared INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_game_id ON rounds(game_id, created_at DESC);
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

// SaveScore records a new score and returns its ID.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score, created_at) VALUES (?, ?, ?)",
		gameID, score, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get insert ID: %w", err)
	}
	return id, nil
}

// TopScores returns the highest scores for a game, best first.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []scoreRow
	err := s.db.Select(&rows,
		`SELECT id, game_id, score, created_at FROM scores
		 WHERE game_id = ? ORDER BY score DESC, created_at ASC LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scoreEntries(rows), nil
}

// AllScores returns every score for a game, newest first.
func (s *Store) AllScores(gameID string) ([]ScoreEntry, error) {
	var rows []scoreRow
	err := s.db.Select(&rows,
		`SELECT id, game_id, score, created_at FROM scores
		 WHERE game_id = ? ORDER BY created_at DESC, id DESC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scoreEntries(rows), nil
}

func scoreEntries(rows []scoreRow) []ScoreEntry {
	out := make([]ScoreEntry, len(rows))
	for i, r := range rows {
		out[i] = r.entry()
	}
	return out
}

// HighScore returns the best score for a game, or 0 if none exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score int
	err := s.db.Get(&score, "SELECT COALESCE(MAX(score), 0) FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get high score: %w", err)
	}
	return score, nil
}

// ClearScores removes all scores and rounds for a game.
func (s *Store) ClearScores(gameID string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM rounds WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear rounds: %w", err)
	}
	return tx.Commit()
}

// SaveRound records a finished round together with its score entry.
// A round ID is generated when rec.RoundID is empty; the ID used is returned.
func (s *Store) SaveRound(rec RoundRecord) (string, error) {
	if rec.RoundID == "" {
		rec.RoundID = uuid.NewString()
	}
	now := time.Now().Unix()

	tx, err := s.db.Beginx()
	if err != nil {
		return "", fmt.Errorf("storage: cannot save round: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO rounds (round_id, game_id, player, score, shots, popped, dropped, best_chain, cleared, duration_secs, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RoundID, rec.GameID, rec.Player, rec.Score, rec.Shots, rec.Popped, rec.Dropped,
		rec.BestChain, rec.Cleared, int64(rec.Duration/time.Second), now,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save round: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO scores (game_id, score, created_at) VALUES (?, ?, ?)",
		rec.GameID, rec.Score, now,
	); err != nil {
		return "", fmt.Errorf("storage: cannot save score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit round: %w", err)
	}
	return rec.RoundID, nil
}

// RoundByID looks up a round. Returns nil, nil when it does not exist.
func (s *Store) RoundByID(roundID string) (*RoundRecord, error) {
	var row roundRow
	err := s.db.Get(&row, "SELECT * FROM rounds WHERE round_id = ?", roundID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get round: %w", err)
	}
	rec := row.record()
	return &rec, nil
}

// RecentRounds returns the latest rounds for a game, newest first.
// An empty gameID returns rounds of every mode.
func (s *Store) RecentRounds(gameID string, limit int) ([]RoundRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []roundRow
	var err error
	if gameID == "" {
		err = s.db.Select(&rows, "SELECT * FROM rounds ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	} else {
		err = s.db.Select(&rows,
			"SELECT * FROM rounds WHERE game_id = ? ORDER BY created_at DESC, id DESC LIMIT ?",
			gameID, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}

	out := make([]RoundRecord, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out, nil
}

// GameStats aggregates the scores of one game mode.
type GameStats struct {
	GameID     string    `db:"game_id"`
	GamesCount int       `db:"games"`
	HighScore  int       `db:"high"`
	AvgScore   float64   `db:"avg"`
	TotalScore int64     `db:"total"`
	LastPlayed time.Time `db:"-"`
}

type statsRow struct {
	GameStats
	Last int64 `db:"last"`
}

const statsColumns = `game_id, COUNT(*) AS games, COALESCE(MAX(score), 0) AS high,
	COALESCE(AVG(score), 0) AS avg, COALESCE(SUM(score), 0) AS total, COALESCE(MAX(created_at), 0) AS last`

func (r statsRow) stats() *GameStats {
	st := r.GameStats
	if r.Last > 0 {
		st.LastPlayed = time.Unix(r.Last, 0)
	}
	return &st
}

// GetGameStats returns aggregated statistics for one game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	var rows []statsRow
	err := s.db.Select(&rows,
		"SELECT "+statsColumns+" FROM scores WHERE game_id = ? GROUP BY game_id",
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	if len(rows) == 0 {
		return &GameStats{GameID: gameID}, nil
	}
	return rows[0].stats(), nil
}

// GetAllGamesStats returns statistics for every game that has been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	var rows []statsRow
	if err := s.db.Select(&rows, "SELECT "+statsColumns+" FROM scores GROUP BY game_id"); err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}

	stats := make(map[string]*GameStats, len(rows))
	for _, r := range rows {
		stats[r.GameID] = r.stats()
	}
	return stats, nil
}
