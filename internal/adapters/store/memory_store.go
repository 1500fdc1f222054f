package store

import (
	"context"
	"sync"
	"time"

	"github.com/hoach/statement-unlocker/internal/core"
	"go.uber.org/zap"
)

// candidateRecord is a stored candidate plus its test outcome
type candidateRecord struct {
	candidate core.PasswordCandidate
	tested    bool
	works     bool
	createdAt time.Time
}

// MemoryStore is an in-memory implementation of the core.CandidateStore
// interface, used by the CLIs and tests
type MemoryStore struct {
	mu         sync.RWMutex
	candidates map[string][]candidateRecord
	facts      []core.PersonalFact
	logger     *zap.Logger
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		candidates: make(map[string][]candidateRecord),
		logger:     logger,
	}
}

// SaveCandidates replaces the stored candidate list for an email
func (s *MemoryStore) SaveCandidates(ctx context.Context, emailID string, candidates []core.PasswordCandidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]candidateRecord, 0, len(candidates))
	now := time.Now()
	for _, c := range candidates {
		records = append(records, candidateRecord{candidate: c, createdAt: now})
	}
	s.candidates[emailID] = records
	return nil
}

// MarkResult records whether a tested password worked for an email
func (s *MemoryStore) MarkResult(ctx context.Context, emailID, password string, works bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.candidates[emailID] {
		record := &s.candidates[emailID][i]
		if record.candidate.Value == password {
			record.tested = true
			record.works = works
		}
	}
	return nil
}

// LoadPersonalFacts returns all stored personal facts
func (s *MemoryStore) LoadPersonalFacts(ctx context.Context) ([]core.PersonalFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	facts := make([]core.PersonalFact, len(s.facts))
	copy(facts, s.facts)
	return facts, nil
}

// AddPersonalFact stores a personal fact, replacing an identical one
func (s *MemoryStore) AddPersonalFact(ctx context.Context, fact core.PersonalFact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.facts {
		if existing == fact {
			return nil
		}
	}
	s.facts = append(s.facts, fact)
	return nil
}

// Candidates returns the stored candidate list for an email, in the order it
// was saved
func (s *MemoryStore) Candidates(emailID string) []core.PasswordCandidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.candidates[emailID]
	candidates := make([]core.PasswordCandidate, 0, len(records))
	for _, r := range records {
		candidates = append(candidates, r.candidate)
	}
	return candidates
}

// WorkingPassword returns the password recorded as working for an email, if
// any
func (s *MemoryStore) WorkingPassword(emailID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.candidates[emailID] {
		if r.tested && r.works {
			return r.candidate.Value, true
		}
	}
	return "", false
}
