package ollama

import (
	"github.com/hoach/statement-unlocker/internal/config"
	"github.com/hoach/statement-unlocker/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of the Ollama client
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for Ollama clients
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new Ollama client from the configuration
func (f *Factory) CreateClient() (core.LLMClient, error) {
	ollamaCfg := f.cfg.GetOllama()

	return NewClient(
		ollamaCfg.BaseURL,
		ollamaCfg.Model,
		ollamaCfg.MaxTokens,
		ollamaCfg.Temperature,
		f.logger,
	), nil
}
