package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrPasswordNotFound is returned when the candidate list is exhausted
// without unlocking the document
var ErrPasswordNotFound = errors.New("password not found")

// Verifier tries password candidates against an encrypted document in order,
// stopping at the first success. It applies a defensive attempt and
// wall-clock budget since the candidate list is caller-controlled
type Verifier struct {
	unlocker    DocumentUnlocker
	maxAttempts int
	budget      time.Duration
	logger      *zap.Logger
}

// NewVerifier creates a new verifier. maxAttempts and budget of zero disable
// the respective limit
func NewVerifier(unlocker DocumentUnlocker, maxAttempts int, budget time.Duration, logger *zap.Logger) *Verifier {
	return &Verifier{
		unlocker:    unlocker,
		maxAttempts: maxAttempts,
		budget:      budget,
		logger:      logger,
	}
}

// Verify scans the candidate list in the given order. The document is first
// opened with no password at all, which handles attachments that are not
// actually encrypted; success there consumes no candidate. A wrong password
// silently advances to the next candidate; any other unlock error is logged
// and treated as a skip. Exhaustion returns ErrPasswordNotFound
func (v *Verifier) Verify(ctx context.Context, path string, candidates []PasswordCandidate) (*VerificationResult, error) {
	deadline := time.Time{}
	if v.budget > 0 {
		deadline = time.Now().Add(v.budget)
	}

	ok, err := v.unlocker.TryPassword(ctx, path, "")
	if err != nil {
		v.logger.Debug("Initial no-password attempt failed",
			zap.String("path", path),
			zap.Error(err))
	}
	if ok {
		v.logger.Info("Document is not password protected", zap.String("path", path))
		return &VerificationResult{Succeeded: true, Attempts: 0}, nil
	}

	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if v.maxAttempts > 0 && i >= v.maxAttempts {
			v.logger.Warn("Attempt budget exhausted",
				zap.String("path", path),
				zap.Int("max_attempts", v.maxAttempts))
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			v.logger.Warn("Time budget exhausted",
				zap.String("path", path),
				zap.Duration("budget", v.budget))
			break
		}

		candidate := &candidates[i]
		ok, err := v.unlocker.TryPassword(ctx, path, candidate.Value)
		if err != nil {
			v.logger.Warn("Unlock attempt failed for a reason other than the password, skipping",
				zap.String("path", path),
				zap.String("source", string(candidate.Source)),
				zap.Error(err))
			continue
		}
		if ok {
			v.logger.Info("Document unlocked",
				zap.String("path", path),
				zap.String("source", string(candidate.Source)),
				zap.Float64("confidence", candidate.Confidence),
				zap.Int("attempts", i+1))
			return &VerificationResult{
				Candidate: candidate,
				Succeeded: true,
				Attempts:  i + 1,
			}, nil
		}
	}

	return nil, ErrPasswordNotFound
}

// Unlock verifies the candidate list and, on success, writes a decrypted
// copy of the document to outPath
func (v *Verifier) Unlock(ctx context.Context, path, outPath string, candidates []PasswordCandidate) (*VerificationResult, error) {
	result, err := v.Verify(ctx, path, candidates)
	if err != nil {
		return nil, err
	}

	password := ""
	if result.Candidate != nil {
		password = result.Candidate.Value
	}
	if err := v.unlocker.Decrypt(ctx, path, outPath, password); err != nil {
		return result, fmt.Errorf("failed to write decrypted copy: %w", err)
	}

	v.logger.Info("Saved decrypted document", zap.String("path", outPath))
	return result, nil
}
