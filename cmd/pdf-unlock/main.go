package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hoach/statement-unlocker/internal/config"
	"github.com/hoach/statement-unlocker/internal/core"
	"github.com/hoach/statement-unlocker/internal/factory"
	"github.com/hoach/statement-unlocker/internal/logging"
	"go.uber.org/zap"
)

var (
	pdfFile      = flag.String("pdf", "", "Encrypted PDF to unlock (required)")
	outFile      = flag.String("out", "", "Where to write the decrypted PDF (default <name>_unlocked.pdf)")
	passwordList = flag.String("password-list", "", "File with one password per line, tried in order")
	engine       = flag.String("engine", "pdfcpu", "PDF decryption engine (pdfcpu, qpdf)")
	qpdfPath     = flag.String("qpdf-path", "qpdf", "Path to the qpdf binary")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog      = flag.Bool("json-log", false, "Output logs in JSON format")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *pdfFile == "" {
		fmt.Println("Usage: pdf-unlock -pdf statement.pdf [-password-list passwords.txt] [password ...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(logger); err != nil {
		logger.Fatal("Unlock failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	passwords, err := collectPasswords()
	if err != nil {
		return err
	}

	v := config.NewEmptyViper()
	v.Set("pdf.engine", *engine)
	v.Set("pdf.qpdf_path", *qpdfPath)
	cfg := config.NewFromViper(v)

	unlocker, err := factory.NewUnlockerFactory(cfg, logger).CreateUnlocker()
	if err != nil {
		return err
	}

	verifierCfg := cfg.GetVerifier()
	verifier := core.NewVerifier(unlocker, verifierCfg.MaxAttempts, verifierCfg.Budget, logger)

	candidates := make([]core.PasswordCandidate, 0, len(passwords))
	for _, password := range passwords {
		candidates = append(candidates, core.PasswordCandidate{
			Value:      password,
			Confidence: 9.0,
			Source:     core.SourceDirectHint,
			Reasoning:  "supplied on command line",
		})
	}

	outPath := *outFile
	if outPath == "" {
		outPath = strings.TrimSuffix(*pdfFile, ".pdf") + "_unlocked.pdf"
	}

	fmt.Printf("=== Unlock ===\n")
	fmt.Printf("Document: %s\n", *pdfFile)
	fmt.Printf("Passwords to try: %d\n", len(candidates))

	startTime := time.Now()
	result, err := verifier.Unlock(context.Background(), *pdfFile, outPath, candidates)
	if errors.Is(err, core.ErrPasswordNotFound) {
		fmt.Printf("\n=== Results ===\n")
		fmt.Printf("Password not found after %d attempts\n", len(candidates))
		fmt.Printf("Processing time: %v\n", time.Since(startTime))
		os.Exit(2)
	}
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Results ===\n")
	if result.Candidate != nil {
		fmt.Printf("Unlocked after %d attempts\n", result.Attempts)
	} else {
		fmt.Printf("Document was not password protected\n")
	}
	fmt.Printf("Decrypted copy: %s\n", outPath)
	fmt.Printf("Processing time: %v\n", time.Since(startTime))
	return nil
}

// collectPasswords merges the -password-list file with positional arguments,
// preserving order and dropping duplicates
func collectPasswords() ([]string, error) {
	var passwords []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if p == "" {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		passwords = append(passwords, p)
	}

	if *passwordList != "" {
		file, err := os.Open(*passwordList)
		if err != nil {
			return nil, fmt.Errorf("failed to open password list: %w", err)
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			add(strings.TrimSpace(scanner.Text()))
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read password list: %w", err)
		}
	}

	for _, arg := range flag.Args() {
		add(arg)
	}

	return passwords, nil
}
