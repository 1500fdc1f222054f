package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/hoach/statement-unlocker/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the core.CandidateStore interface
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore creates a new MySQL store and its schema
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS personal_facts (
			category VARCHAR(64) NOT NULL,
			value VARCHAR(255) NOT NULL,
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
			id INT AUTO_INCREMENT PRIMARY KEY,
			email_id VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			confidence FLOAT,
			source VARCHAR(32),
			reasoning TEXT,
			tested BOOLEAN DEFAULT FALSE,
			works BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP,
			INDEX idx_candidates_email (email_id)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create password_candidates table: %w", err)
	}

	return &MySQLStore{
		db:     db,
		logger: logger,
	}, nil
}

// SaveCandidates replaces the stored candidate list for an email
func (s *MySQLStore) SaveCandidates(ctx context.Context, emailID string, candidates []core.PasswordCandidate) error {
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

	now := time.Now()
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
func (s *MySQLStore) MarkResult(ctx context.Context, emailID, password string, works bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE password_candidates
		SET tested = TRUE, works = ?
		WHERE email_id = ? AND password = ?
	`, works, emailID, password)
	if err != nil {
		return fmt.Errorf("failed to mark password result: %w", err)
	}
	return nil
}

// LoadPersonalFacts returns all stored personal facts
func (s *MySQLStore) LoadPersonalFacts(ctx context.Context) ([]core.PersonalFact, error) {
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
func (s *MySQLStore) AddPersonalFact(ctx context.Context, fact core.PersonalFact) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO personal_facts (category, value, created_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE created_at = VALUES(created_at)
	`, string(fact.Category), fact.Value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert personal fact: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close MySQL database: %w", err)
	}
	return nil
}
