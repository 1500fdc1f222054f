package llamacpp

import (
	"github.com/hoach/statement-unlocker/internal/config"
	"github.com/hoach/statement-unlocker/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of the llama.cpp client
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for llama.cpp clients
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a new llama.cpp client from the configuration
func (f *Factory) CreateClient() (core.LLMClient, error) {
	llamaCfg := f.cfg.GetLlamaCpp()

	return NewClient(
		llamaCfg.BaseURL,
		llamaCfg.MaxTokens,
		llamaCfg.Temperature,
		f.logger,
	), nil
}
