package core

import (
	"context"
)

// LLMClient defines the interface for a local inference backend that can be
// asked to suggest likely passwords
type LLMClient interface {
	// Generate sends a prompt to the backend and returns the raw response text
	Generate(ctx context.Context, prompt string) (string, error)

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error

	// Name identifies the backend and model, for logging
	Name() string
}

// DocumentUnlocker defines the interface to the external PDF decryption
// primitive. Implementations must treat a wrong password as a negative
// result, not an error
type DocumentUnlocker interface {
	// TryPassword attempts to open the document with the given password.
	// It returns (false, nil) when the password is wrong and a non-nil
	// error only for failures unrelated to the password
	TryPassword(ctx context.Context, path, password string) (bool, error)

	// Decrypt writes a decrypted copy of the document to outPath
	Decrypt(ctx context.Context, inPath, outPath, password string) error
}

// CandidateStore defines the persistence interface for generated candidates,
// verification results and user-supplied personal facts
type CandidateStore interface {
	// SaveCandidates replaces the stored candidate list for an email
	SaveCandidates(ctx context.Context, emailID string, candidates []PasswordCandidate) error

	// MarkResult records whether a tested password worked for an email
	MarkResult(ctx context.Context, emailID, password string, works bool) error

	// LoadPersonalFacts returns all user-supplied personal facts
	LoadPersonalFacts(ctx context.Context) ([]PersonalFact, error)

	// AddPersonalFact stores a personal fact, replacing an identical one
	AddPersonalFact(ctx context.Context, fact PersonalFact) error
}
