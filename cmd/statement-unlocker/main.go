package main

import (
	"bufio"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hoach/statement-unlocker/internal/core"
	"github.com/hoach/statement-unlocker/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	container, err := di.BuildContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	var invokeErr error
	switch {
	case flags.AddFact != "":
		invokeErr = container.Invoke(addFact)
	case flags.BatchDir != "":
		invokeErr = container.Invoke(runBatch)
	default:
		invokeErr = container.Invoke(runSingle)
	}
	if invokeErr != nil {
		fmt.Printf("Application error: %v\n", invokeErr)
		os.Exit(1)
	}
}

// addFact stores one personal fact and exits
func addFact(flags *di.CLIFlags, logger *zap.Logger, store core.CandidateStore) error {
	defer logger.Sync()

	category, value, ok := strings.Cut(flags.AddFact, "=")
	if !ok || category == "" || value == "" {
		return fmt.Errorf("invalid -add-fact value %q, expected category=value", flags.AddFact)
	}

	fact := core.PersonalFact{
		Category: core.FactCategory(category),
		Value:    value,
	}
	if err := store.AddPersonalFact(context.Background(), fact); err != nil {
		return err
	}

	fmt.Printf("Stored personal fact: %s\n", category)
	return nil
}

// runSingle processes one email read from a file or stdin
func runSingle(
	flags *di.CLIFlags,
	logger *zap.Logger,
	extractor *core.HintExtractor,
	bankContext *core.BankContextExtractor,
	service *core.UnlockService,
	verifier *core.Verifier,
	store core.CandidateStore,
) error {
	defer logger.Sync()
	ctx := context.Background()

	email, err := readEmail(flags.InputFile, logger)
	if err != nil {
		return err
	}
	if flags.PDFFile != "" {
		email.AttachmentPaths = []string{flags.PDFFile}
	}

	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", email.Sender)
	fmt.Printf("Subject: %s\n", email.Subject)
	fmt.Printf("Body length: %d bytes\n", len(email.Body))

	hints, rules := extractor.Extract(email.Body)
	bankCtx := bankContext.Extract(email.Body, email.Sender)

	fmt.Printf("\n=== Extracted Signals ===\n")
	fmt.Printf("Bank: %s\n", bankCtx.Bank)
	fmt.Printf("Card fragments: %s\n", strings.Join(bankCtx.CardFragments, ", "))
	fmt.Printf("Account fragments: %s\n", strings.Join(bankCtx.AccountFragments, ", "))
	fmt.Printf("Hints: %s\n", strings.Join(hints, ", "))
	for _, rule := range rules {
		fmt.Printf("Rule: %s\n", rule)
	}

	facts, err := store.LoadPersonalFacts(ctx)
	if err != nil {
		return err
	}

	startTime := time.Now()
	candidates, err := service.GenerateCandidates(ctx, email, facts)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Candidates ===\n")
	for i, c := range candidates {
		fmt.Printf("%2d. %-20s %4.1f %-16s %s\n", i+1, c.Value, c.Confidence, c.Source, c.Reasoning)
	}
	if len(candidates) == 0 {
		fmt.Printf("No candidates generated\n")
	}

	if flags.PDFFile == "" {
		fmt.Printf("\nNo PDF supplied, skipping verification\n")
		return nil
	}

	outPath := flags.OutputFile
	if outPath == "" {
		outPath = strings.TrimSuffix(flags.PDFFile, ".pdf") + "_unlocked.pdf"
	}

	fmt.Printf("\n=== Verification ===\n")
	result, err := verifier.Unlock(ctx, flags.PDFFile, outPath, candidates)
	if errors.Is(err, core.ErrPasswordNotFound) {
		fmt.Printf("Password not found after trying %d candidates\n", len(candidates))
		fmt.Printf("Processing time: %v\n", time.Since(startTime))
		return nil
	}
	if err != nil {
		return err
	}

	if result.Candidate != nil {
		fmt.Printf("Unlocked with password from source %s (confidence %.1f) after %d attempts\n",
			result.Candidate.Source, result.Candidate.Confidence, result.Attempts)
		if err := store.MarkResult(ctx, email.ID, result.Candidate.Value, true); err != nil {
			logger.Error("Failed to record working password", zap.Error(err))
		}
	} else {
		fmt.Printf("Document was not password protected\n")
	}
	fmt.Printf("Decrypted copy: %s\n", outPath)
	fmt.Printf("Processing time: %v\n", time.Since(startTime))
	return nil
}

// runBatch processes every .eml file in a directory. A PDF attachment is
// expected next to each email file under the same base name
func runBatch(flags *di.CLIFlags, logger *zap.Logger, service *core.UnlockService) error {
	defer logger.Sync()
	ctx := context.Background()

	entries, err := os.ReadDir(flags.BatchDir)
	if err != nil {
		return fmt.Errorf("failed to read batch directory: %w", err)
	}

	var emails []*core.Email
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".eml") {
			continue
		}

		path := filepath.Join(flags.BatchDir, entry.Name())
		email, err := readEmail(path, logger)
		if err != nil {
			logger.Warn("Skipping unparseable email file",
				zap.String("path", path),
				zap.Error(err))
			continue
		}

		pdfPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".pdf"
		if _, err := os.Stat(pdfPath); err == nil {
			email.AttachmentPaths = []string{pdfPath}
		}
		emails = append(emails, email)
	}

	fmt.Printf("Processing %d emails from %s\n", len(emails), flags.BatchDir)
	summary, err := service.ProcessEmails(ctx, emails)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Batch Results ===\n")
	fmt.Printf("Processed: %d\n", summary.Processed)
	fmt.Printf("Skipped: %d\n", summary.Skipped)
	return nil
}

// readEmail parses an RFC 822 message from a file, or stdin when path is
// empty
func readEmail(path string, logger *zap.Logger) (*core.Email, error) {
	var reader io.Reader
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		reader = file
		logger.Debug("Reading email from file", zap.String("file", path))
	} else {
		reader = os.Stdin
		logger.Debug("Reading email from stdin")
	}

	msg, err := mail.ReadMessage(bufio.NewReader(reader))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email: %w", err)
	}

	bodyBytes, err := io.ReadAll(msg.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read email body: %w", err)
	}

	sender := msg.Header.Get("From")
	subject := msg.Header.Get("Subject")
	date, _ := msg.Header.Date()

	id := strings.Trim(msg.Header.Get("Message-Id"), "<>")
	if id == "" {
		sum := sha256.Sum256(append(bodyBytes, []byte(sender+subject)...))
		id = fmt.Sprintf("%x", sum[:8])
	}

	return &core.Email{
		ID:      id,
		Sender:  sender,
		Subject: subject,
		Body:    string(bodyBytes),
		Date:    date,
	}, nil
}
