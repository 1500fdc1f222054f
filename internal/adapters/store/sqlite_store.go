package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hoach/statement-unlocker/internal/core"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the core.CandidateStore interface
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore creates a new SQLite store and its schema
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS personal_facts (
			category TEXT NOT NULL,
			value TEXT NOT NULL,
			created_at TIMESTAMP,
			PRIMARY KEY (category, value)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create personal_facts table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS password_candidates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email_id TEXT NOT NULL,
			password TEXT NOT NULL,
			confidence REAL,
			source TEXT,
			reasoning TEXT,
			tested BOOLEAN DEFAULT 0,
			works BOOLEAN DEFAULT 0,
			created_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create password_candidates table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_candidates_email ON password_candidates(email_id)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger,
	}, nil
}

// SaveCandidates replaces the stored candidate list for an email
func (s *SQLiteStore) SaveCandidates(ctx context.Context, emailID string, candidates []core.PasswordCandidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM password_candidates WHERE email_id = ?
	`, emailID); err != nil {
		return fmt.Errorf("failed to clear existing candidates: %w", err)
	}

	now := time.Now().Format(time.RFC3339)
	for _, c := range candidates {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO password_candidates (email_id, password, confidence, source, reasoning, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, emailID, c.Value, c.Confidence, string(c.Source), c.Reasoning, now); err != nil {
			return fmt.Errorf("failed to insert candidate: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit candidates: %w", err)
	}

	s.logger.Debug("Saved password candidates",
		zap.String("email_id", emailID),
		zap.Int("count", len(candidates)))
	return nil
}

// MarkResult records whether a tested password worked for an email
func (s *SQLiteStore) MarkResult(ctx context.Context, emailID, password string, works bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE password_candidates
		SET tested = 1, works = ?
		WHERE email_id = ? AND password = ?
	`, works, emailID, password)
	if err != nil {
		return fmt.Errorf("failed to mark password result: %w", err)
	}
	return nil
}

// LoadPersonalFacts returns all stored personal facts
func (s *SQLiteStore) LoadPersonalFacts(ctx context.Context) ([]core.PersonalFact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, value FROM personal_facts ORDER BY category, value
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query personal facts: %w", err)
	}
	defer rows.Close()

	var facts []core.PersonalFact
	for rows.Next() {
		var category, value string
		if err := rows.Scan(&category, &value); err != nil {
			return nil, fmt.Errorf("failed to scan personal fact: %w", err)
		}
		facts = append(facts, core.PersonalFact{
			Category: core.FactCategory(category),
			Value:    value,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read personal facts: %w", err)
	}
	return facts, nil
}

// AddPersonalFact stores a personal fact, replacing an identical one
func (s *SQLiteStore) AddPersonalFact(ctx context.Context, fact core.PersonalFact) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO personal_facts (category, value, created_at)
		VALUES (?, ?, ?)
	`, string(fact.Category), fact.Value, time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert personal fact: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close SQLite database: %w", err)
	}
	return nil
}
