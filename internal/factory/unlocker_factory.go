package factory

import (
	"fmt"

	"github.com/hoach/statement-unlocker/internal/adapters/pdf"
	"github.com/hoach/statement-unlocker/internal/config"
	"github.com/hoach/statement-unlocker/internal/core"
	"go.uber.org/zap"
)

// UnlockerFactory creates document unlockers based on configuration
type UnlockerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewUnlockerFactory creates a new unlocker factory
func NewUnlockerFactory(cfg *config.Config, logger *zap.Logger) *UnlockerFactory {
	return &UnlockerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateUnlocker creates a document unlocker based on the configuration
func (f *UnlockerFactory) CreateUnlocker() (core.DocumentUnlocker, error) {
	pdfCfg := f.cfg.GetPDF()

	switch pdfCfg.Engine {
	case "pdfcpu":
		return pdf.NewPdfcpuUnlocker(f.logger), nil
	case "qpdf":
		return pdf.NewQpdfUnlocker(pdfCfg.QpdfPath, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported PDF engine: %s", pdfCfg.Engine)
	}
}
