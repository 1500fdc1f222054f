package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeUnlocker accepts exactly one password. An empty accepted password
// simulates an unencrypted document. failOn triggers a hard error for one
// specific password
type fakeUnlocker struct {
	accepts   string
	encrypted bool
	failOn    string
	tries     []string
	decrypted bool
	decryptPW string
}

func (f *fakeUnlocker) TryPassword(ctx context.Context, path, password string) (bool, error) {
	f.tries = append(f.tries, password)
	if password == f.failOn && f.failOn != "" {
		return false, errors.New("I/O error reading document")
	}
	if !f.encrypted {
		return true, nil
	}
	return password == f.accepts, nil
}

func (f *fakeUnlocker) Decrypt(ctx context.Context, inPath, outPath, password string) error {
	f.decrypted = true
	f.decryptPW = password
	return nil
}

func mkCandidates(values ...string) []PasswordCandidate {
	candidates := make([]PasswordCandidate, 0, len(values))
	for i, v := range values {
		candidates = append(candidates, PasswordCandidate{
			Value:      v,
			Confidence: float64(9 - i),
			Source:     SourceDirectHint,
		})
	}
	return candidates
}

func TestVerifier_UnencryptedShortCircuit(t *testing.T) {
	unlocker := &fakeUnlocker{encrypted: false}
	v := NewVerifier(unlocker, 0, 0, zap.NewNop())

	result, err := v.Verify(context.Background(), "doc.pdf", mkCandidates("aaaa", "bbbb"))
	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.Equal(t, 0, result.Attempts)
	assert.Nil(t, result.Candidate)
	// Only the initial no-password probe ran
	assert.Equal(t, []string{""}, unlocker.tries)
}

func TestVerifier_FindsPasswordAtAnyPosition(t *testing.T) {
	for _, pos := range []int{0, 1, 3} {
		values := []string{"wrong1", "wrong2", "wrong3", "wrong4"}
		values[pos] = "right"
		unlocker := &fakeUnlocker{encrypted: true, accepts: "right"}
		v := NewVerifier(unlocker, 0, 0, zap.NewNop())

		result, err := v.Verify(context.Background(), "doc.pdf", mkCandidates(values...))
		require.NoError(t, err)
		require.NotNil(t, result.Candidate)
		assert.Equal(t, "right", result.Candidate.Value)
		assert.Equal(t, pos+1, result.Attempts)
	}
}

func TestVerifier_ExhaustionReturnsNotFound(t *testing.T) {
	unlocker := &fakeUnlocker{encrypted: true, accepts: "never-offered"}
	v := NewVerifier(unlocker, 0, 0, zap.NewNop())

	result, err := v.Verify(context.Background(), "doc.pdf", mkCandidates("aaaa", "bbbb"))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrPasswordNotFound)
}

func TestVerifier_EmptyCandidateList(t *testing.T) {
	unlocker := &fakeUnlocker{encrypted: true}
	v := NewVerifier(unlocker, 0, 0, zap.NewNop())

	_, err := v.Verify(context.Background(), "doc.pdf", nil)
	assert.ErrorIs(t, err, ErrPasswordNotFound)
}

func TestVerifier_HardErrorSkipsCandidate(t *testing.T) {
	unlocker := &fakeUnlocker{encrypted: true, accepts: "right", failOn: "broken"}
	v := NewVerifier(unlocker, 0, 0, zap.NewNop())

	result, err := v.Verify(context.Background(), "doc.pdf", mkCandidates("broken", "right"))
	require.NoError(t, err)
	require.NotNil(t, result.Candidate)
	assert.Equal(t, "right", result.Candidate.Value)
	assert.Equal(t, 2, result.Attempts)
}

func TestVerifier_MaxAttemptsBudget(t *testing.T) {
	unlocker := &fakeUnlocker{encrypted: true, accepts: "cccc"}
	v := NewVerifier(unlocker, 2, 0, zap.NewNop())

	// The accepting password sits past the attempt budget
	_, err := v.Verify(context.Background(), "doc.pdf", mkCandidates("aaaa", "bbbb", "cccc"))
	assert.ErrorIs(t, err, ErrPasswordNotFound)
	// Initial probe plus two budgeted attempts
	assert.Equal(t, []string{"", "aaaa", "bbbb"}, unlocker.tries)
}

func TestVerifier_CancelledContext(t *testing.T) {
	unlocker := &fakeUnlocker{encrypted: true, accepts: "aaaa"}
	v := NewVerifier(unlocker, 0, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Verify(ctx, "doc.pdf", mkCandidates("aaaa"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerifier_TimeBudget(t *testing.T) {
	unlocker := &fakeUnlocker{encrypted: true, accepts: "bbbb"}
	v := NewVerifier(unlocker, 0, time.Nanosecond, zap.NewNop())

	time.Sleep(time.Millisecond)
	_, err := v.Verify(context.Background(), "doc.pdf", mkCandidates("aaaa", "bbbb"))
	assert.ErrorIs(t, err, ErrPasswordNotFound)
}

func TestVerifier_UnlockWritesDecryptedCopy(t *testing.T) {
	unlocker := &fakeUnlocker{encrypted: true, accepts: "right"}
	v := NewVerifier(unlocker, 0, 0, zap.NewNop())

	result, err := v.Unlock(context.Background(), "doc.pdf", "doc_unlocked.pdf", mkCandidates("wrong1", "right"))
	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.True(t, unlocker.decrypted)
	assert.Equal(t, "right", unlocker.decryptPW)
}

func TestVerifier_UnlockUnencryptedUsesEmptyPassword(t *testing.T) {
	unlocker := &fakeUnlocker{encrypted: false}
	v := NewVerifier(unlocker, 0, 0, zap.NewNop())

	result, err := v.Unlock(context.Background(), "doc.pdf", "doc_unlocked.pdf", mkCandidates("aaaa"))
	require.NoError(t, err)
	assert.Nil(t, result.Candidate)
	assert.True(t, unlocker.decrypted)
	assert.Equal(t, "", unlocker.decryptPW)
}
