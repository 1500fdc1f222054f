package pdf

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// QpdfUnlocker is an implementation of the core.DocumentUnlocker interface
// shelling out to the qpdf binary
type QpdfUnlocker struct {
	binary string
	logger *zap.Logger
}

// NewQpdfUnlocker creates a new qpdf-backed unlocker. binary is the path to
// the qpdf executable
func NewQpdfUnlocker(binary string, logger *zap.Logger) *QpdfUnlocker {
	if binary == "" {
		binary = "qpdf"
	}
	return &QpdfUnlocker{
		binary: binary,
		logger: logger,
	}
}

// TryPassword attempts to open the document with the given password using
// `qpdf --check`. A wrong password yields (false, nil)
func (u *QpdfUnlocker) TryPassword(ctx context.Context, path, password string) (bool, error) {
	cmd := exec.CommandContext(ctx, u.binary, "--password="+password, "--check", path)
	output, err := cmd.CombinedOutput()
	if err == nil {
		return true, nil
	}

	if _, ok := err.(*exec.ExitError); ok {
		if isQpdfPasswordFailure(string(output)) {
			return false, nil
		}
		// qpdf exits non-zero for damaged files too; report those upward
		return false, fmt.Errorf("qpdf check failed: %s", firstLine(string(output)))
	}
	return false, fmt.Errorf("failed to run qpdf: %w", err)
}

// Decrypt writes a decrypted copy of the document to outPath using
// `qpdf --decrypt`
func (u *QpdfUnlocker) Decrypt(ctx context.Context, inPath, outPath, password string) error {
	cmd := exec.CommandContext(ctx, u.binary, "--password="+password, "--decrypt", inPath, outPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("qpdf decrypt failed: %s", firstLine(string(output)))
	}

	u.logger.Debug("qpdf decrypt complete",
		zap.String("in", inPath),
		zap.String("out", outPath))
	return nil
}

// isQpdfPasswordFailure recognizes qpdf's wrong-password diagnostics
func isQpdfPasswordFailure(output string) bool {
	return strings.Contains(strings.ToLower(output), "invalid password")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		s = "unknown error"
	}
	return s
}
