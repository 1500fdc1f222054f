package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrStore marks persistence failures. Nothing useful can continue without
// the store, so these abort a batch run instead of skipping the email
var ErrStore = errors.New("candidate store failure")

// UnlockService is the core pipeline: extract hints and bank context from an
// email, generate ranked password candidates, persist them, and try them
// against the email's PDF attachments
type UnlockService struct {
	extractor    *HintExtractor
	bankContext  *BankContextExtractor
	generator    *CandidateGenerator
	verifier     *Verifier
	store        CandidateStore
	logger       *zap.Logger
	seedPatterns bool
	now          func() time.Time
}

// NewUnlockService creates a new unlock service. When seedPatterns is set,
// generic statement-date and fallback passwords are appended below the
// generated candidates
func NewUnlockService(
	extractor *HintExtractor,
	bankContext *BankContextExtractor,
	generator *CandidateGenerator,
	verifier *Verifier,
	store CandidateStore,
	logger *zap.Logger,
	seedPatterns bool,
) *UnlockService {
	return &UnlockService{
		extractor:    extractor,
		bankContext:  bankContext,
		generator:    generator,
		verifier:     verifier,
		store:        store,
		logger:       logger,
		seedPatterns: seedPatterns,
		now:          time.Now,
	}
}

// GenerateCandidates runs extraction and generation for one email and
// persists the resulting candidate list
func (s *UnlockService) GenerateCandidates(ctx context.Context, email *Email, facts []PersonalFact) ([]PasswordCandidate, error) {
	hints, rules := s.extractor.Extract(email.Body)
	bankCtx := s.bankContext.Extract(email.Body, email.Sender)

	s.logger.Debug("Extracted email signals",
		zap.String("email_id", email.ID),
		zap.String("bank", string(bankCtx.Bank)),
		zap.Int("hints", len(hints)),
		zap.Int("rules", len(rules)))

	candidates := s.generator.Generate(ctx, GenerateRequest{
		Email:   email,
		Hints:   hints,
		Rules:   rules,
		Facts:   facts,
		Context: bankCtx,
	})

	if s.seedPatterns {
		candidates = appendCommonPatterns(candidates, s.now())
	}

	if err := s.store.SaveCandidates(ctx, email.ID, candidates); err != nil {
		return nil, fmt.Errorf("failed to save candidates: %w", errors.Join(ErrStore, err))
	}

	return candidates, nil
}

// ProcessEmail runs the full pipeline for one email: generate candidates and
// verify them against every PDF attachment until one unlocks. A nil result
// with a nil error means the email had no attachments to verify
func (s *UnlockService) ProcessEmail(ctx context.Context, email *Email) (*VerificationResult, error) {
	facts, err := s.store.LoadPersonalFacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load personal facts: %w", errors.Join(ErrStore, err))
	}
	return s.processWithFacts(ctx, email, facts)
}

func (s *UnlockService) processWithFacts(ctx context.Context, email *Email, facts []PersonalFact) (*VerificationResult, error) {
	candidates, err := s.GenerateCandidates(ctx, email, facts)
	if err != nil {
		return nil, err
	}

	if len(email.AttachmentPaths) == 0 {
		s.logger.Debug("Email has no attachments to verify", zap.String("email_id", email.ID))
		return nil, nil
	}

	for _, path := range email.AttachmentPaths {
		result, err := s.verifier.Verify(ctx, path, candidates)
		if errors.Is(err, ErrPasswordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if result.Candidate != nil {
			if err := s.store.MarkResult(ctx, email.ID, result.Candidate.Value, true); err != nil {
				return nil, fmt.Errorf("failed to mark result: %w", errors.Join(ErrStore, err))
			}
		}
		return result, nil
	}

	return nil, ErrPasswordNotFound
}

// ProcessEmails runs the pipeline over a batch. Individual failures are
// logged and counted as skipped rather than aborting the run; only a
// persistence failure stops the batch
func (s *UnlockService) ProcessEmails(ctx context.Context, emails []*Email) (BatchSummary, error) {
	summary := BatchSummary{}

	facts, err := s.store.LoadPersonalFacts(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to load personal facts: %w", errors.Join(ErrStore, err))
	}

	for _, email := range emails {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		_, err := s.processWithFacts(ctx, email, facts)
		switch {
		case err == nil:
			summary.Processed++
		case errors.Is(err, ErrStore):
			return summary, err
		case errors.Is(err, ErrPasswordNotFound):
			s.logger.Info("No generated password unlocked the attachments",
				zap.String("email_id", email.ID),
				zap.String("subject", email.Subject))
			summary.Skipped++
		default:
			s.logger.Error("Failed to process email, continuing batch",
				zap.String("email_id", email.ID),
				zap.Error(err))
			summary.Skipped++
		}
	}

	s.logger.Info("Batch complete",
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}

// appendCommonPatterns adds generic statement passwords below the generated
// candidates: current and previous statement dates in the usual formats plus
// a handful of static fallbacks. Values already present are not duplicated
func appendCommonPatterns(candidates []PasswordCandidate, now time.Time) []PasswordCandidate {
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		seen[c.Value] = struct{}{}
	}

	lastMonth := now.AddDate(0, 0, -30)
	values := []string{
		now.Format("02012006"),
		now.Format("020106"),
		now.Format("20060102"),
		lastMonth.Format("02012006"),
		"password", "123456", "admin", "user",
		"creditcard", "statement", "default",
	}

	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		candidates = append(candidates, PasswordCandidate{
			Value:      value,
			Confidence: 1.0,
			Source:     SourceCommonPattern,
			Reasoning:  "common statement password pattern",
		})
	}
	return candidates
}
