package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// PdfcpuUnlocker is an implementation of the core.DocumentUnlocker interface
// using the pdfcpu library in-process
type PdfcpuUnlocker struct {
	logger *zap.Logger
}

// NewPdfcpuUnlocker creates a new pdfcpu-backed unlocker
func NewPdfcpuUnlocker(logger *zap.Logger) *PdfcpuUnlocker {
	return &PdfcpuUnlocker{
		logger: logger,
	}
}

// TryPassword attempts to open the document with the given password. A wrong
// password yields (false, nil); any other failure is returned as an error
func (u *PdfcpuUnlocker) TryPassword(ctx context.Context, path, password string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	err := api.ValidateFile(path, passwordConf(password))
	if err == nil {
		return true, nil
	}
	if isWrongPasswordErr(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to open document: %w", err)
}

// Decrypt writes a decrypted copy of the document to outPath. A document
// that was never encrypted is copied verbatim
func (u *PdfcpuUnlocker) Decrypt(ctx context.Context, inPath, outPath, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := api.DecryptFile(inPath, outPath, passwordConf(password))
	if err == nil {
		return nil
	}
	if isNotEncryptedErr(err) {
		u.logger.Debug("Document is not encrypted, copying as-is", zap.String("path", inPath))
		return copyFile(inPath, outPath)
	}
	return fmt.Errorf("failed to decrypt document: %w", err)
}

func passwordConf(password string) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	return conf
}

// isWrongPasswordErr matches pdfcpu's wrong/missing password failures, which
// it reports as plain errors without a sentinel we can rely on across
// versions
func isWrongPasswordErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "correct password") ||
		strings.Contains(msg, "wrong password") ||
		strings.Contains(msg, "invalid password")
}

func isNotEncryptedErr(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "not encrypted")
}

func copyFile(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write document copy: %w", err)
	}
	return nil
}
