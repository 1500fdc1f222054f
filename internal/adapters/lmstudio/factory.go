package lmstudio

import (
	"github.com/hoach/statement-unlocker/internal/config"
	"github.com/hoach/statement-unlocker/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of the LM Studio client
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for LM Studio clients
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new LM Studio client from the configuration
func (f *Factory) CreateClient() (core.LLMClient, error) {
	lmCfg := f.cfg.GetLMStudio()

	return NewClient(
		lmCfg.BaseURL,
		lmCfg.Model,
		lmCfg.MaxTokens,
		lmCfg.Temperature,
		f.logger,
	), nil
}
