package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hoach/statement-unlocker/internal/core"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func countCandidates(t *testing.T, s *SQLiteStore, emailID string) int {
	t.Helper()
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM password_candidates WHERE email_id = ?`, emailID).Scan(&count)
	require.NoError(t, err)
	return count
}

func TestSQLiteStore_SaveReplacesCandidates(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCandidates(ctx, "msg-1", testCandidates()))
	assert.Equal(t, 2, countCandidates(t, s, "msg-1"))

	replacement := []core.PasswordCandidate{{Value: "9999", Confidence: 5.0, Source: core.SourceEmailDate}}
	require.NoError(t, s.SaveCandidates(ctx, "msg-1", replacement))
	assert.Equal(t, 1, countCandidates(t, s, "msg-1"))
}

func TestSQLiteStore_SaveIsolatedPerEmail(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCandidates(ctx, "msg-1", testCandidates()))
	require.NoError(t, s.SaveCandidates(ctx, "msg-2", testCandidates()))
	require.NoError(t, s.SaveCandidates(ctx, "msg-1", nil))

	assert.Equal(t, 0, countCandidates(t, s, "msg-1"))
	assert.Equal(t, 2, countCandidates(t, s, "msg-2"))
}

func TestSQLiteStore_MarkResult(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCandidates(ctx, "msg-1", testCandidates()))
	require.NoError(t, s.MarkResult(ctx, "msg-1", "4821", true))

	var tested, works bool
	err := s.db.QueryRow(`
		SELECT tested, works FROM password_candidates WHERE email_id = ? AND password = ?
	`, "msg-1", "4821").Scan(&tested, &works)
	require.NoError(t, err)
	assert.True(t, tested)
	assert.True(t, works)

	err = s.db.QueryRow(`
		SELECT tested, works FROM password_candidates WHERE email_id = ? AND password = ?
	`, "msg-1", "15081990").Scan(&tested, &works)
	require.NoError(t, err)
	assert.False(t, tested)
	assert.False(t, works)
}

func TestSQLiteStore_PersonalFacts(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	facts, err := s.LoadPersonalFacts(ctx)
	require.NoError(t, err)
	assert.Empty(t, facts)

	fact := core.PersonalFact{Category: core.FactBirthDate, Value: "15/08/1990"}
	require.NoError(t, s.AddPersonalFact(ctx, fact))
	require.NoError(t, s.AddPersonalFact(ctx, fact)) // replaced, not duplicated
	require.NoError(t, s.AddPersonalFact(ctx, core.PersonalFact{Category: core.FactFirstName, Value: "Hoa"}))

	facts, err = s.LoadPersonalFacts(ctx)
	require.NoError(t, err)
	require.Len(t, facts, 2)
	// Sorted by category then value
	assert.Equal(t, core.FactBirthDate, facts[0].Category)
	assert.Equal(t, core.FactFirstName, facts[1].Category)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.AddPersonalFact(ctx, core.PersonalFact{Category: core.FactCardLast4, Value: "4821"}))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	facts, err := reopened.LoadPersonalFacts(ctx)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "4821", facts[0].Value)
}
