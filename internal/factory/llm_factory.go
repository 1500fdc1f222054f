package factory

import (
	"context"
	"fmt"

	"github.com/hoach/statement-unlocker/internal/adapters/llamacpp"
	"github.com/hoach/statement-unlocker/internal/adapters/lmstudio"
	"github.com/hoach/statement-unlocker/internal/adapters/ollama"
	"github.com/hoach/statement-unlocker/internal/config"
	"github.com/hoach/statement-unlocker/internal/core"
	"go.uber.org/zap"
)

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates an LLM client based on the configuration. With
// backend "auto" the known local backends are probed in order and the first
// reachable one wins; a nil client with a nil error means no backend is
// available and the generator should run rule-based only
func (f *LLMFactory) CreateLLMClient(ctx context.Context) (core.LLMClient, error) {
	llmCfg := f.cfg.GetLLM()

	switch llmCfg.Backend {
	case "none":
		return nil, nil
	case "ollama":
		return ollama.NewFactory(f.cfg, f.logger).CreateClient()
	case "lmstudio":
		return lmstudio.NewFactory(f.cfg, f.logger).CreateClient()
	case "llamacpp":
		return llamacpp.NewFactory(f.cfg, f.logger).CreateClient()
	case "auto":
		return f.discover(ctx, llmCfg)
	default:
		return nil, fmt.Errorf("unsupported LLM backend: %s", llmCfg.Backend)
	}
}

// discover probes the local backends in preference order
func (f *LLMFactory) discover(ctx context.Context, llmCfg config.LLMConfig) (core.LLMClient, error) {
	creators := []func() (core.LLMClient, error){
		ollama.NewFactory(f.cfg, f.logger).CreateClient,
		lmstudio.NewFactory(f.cfg, f.logger).CreateClient,
		llamacpp.NewFactory(f.cfg, f.logger).CreateClient,
	}

	for _, create := range creators {
		client, err := create()
		if err != nil {
			return nil, err
		}

		probeCtx, cancel := context.WithTimeout(ctx, llmCfg.ProbeTimeout)
		err = client.Ping(probeCtx)
		cancel()
		if err != nil {
			f.logger.Debug("LLM backend not reachable",
				zap.String("backend", client.Name()),
				zap.Error(err))
			continue
		}

		f.logger.Info("Using LLM backend", zap.String("backend", client.Name()))
		return client, nil
	}

	f.logger.Warn("No local LLM backend available, falling back to rule-based generation")
	return nil, nil
}
