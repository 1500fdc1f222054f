package di

import (
	"context"
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/hoach/statement-unlocker/internal/config"
	"github.com/hoach/statement-unlocker/internal/core"
	"github.com/hoach/statement-unlocker/internal/factory"
	"github.com/hoach/statement-unlocker/internal/logging"
	"github.com/hoach/statement-unlocker/internal/utils"
)

// CLIFlags contains all command line flags for the statement-unlocker CLI
type CLIFlags struct {
	// LLM backend flags
	Backend     string
	Model       string
	MaxTokens   int
	Temperature float64

	// Generator flags
	MaxCandidates int
	SeedPatterns  bool

	// PDF flags
	PDFEngine string
	QpdfPath  string

	// Store flags
	StoreType  string
	SQLitePath string

	// Input flags
	InputFile  string
	BatchDir   string
	PDFFile    string
	OutputFile string
	AddFact    string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// LLM backend flags
	flag.StringVar(&flags.Backend, "backend", "auto", "LLM backend (auto, ollama, lmstudio, llamacpp, none)")
	flag.StringVar(&flags.Model, "model", "", "Model name override for the selected backend")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 500, "Maximum tokens for LLM response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.1, "Temperature for LLM generation")

	// Generator flags
	flag.IntVar(&flags.MaxCandidates, "max-candidates", 20, "Maximum number of password candidates")
	flag.BoolVar(&flags.SeedPatterns, "seed-patterns", true, "Append generic statement passwords to the candidate list")

	// PDF flags
	flag.StringVar(&flags.PDFEngine, "pdf-engine", "pdfcpu", "PDF decryption engine (pdfcpu, qpdf)")
	flag.StringVar(&flags.QpdfPath, "qpdf-path", "qpdf", "Path to the qpdf binary")

	// Store flags
	flag.StringVar(&flags.StoreType, "store", "memory", "Candidate store (memory, sqlite, mysql)")
	flag.StringVar(&flags.SQLitePath, "sqlite-path", "./statement_data.db", "Path to the SQLite database")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input email file (use stdin if not specified)")
	flag.StringVar(&flags.BatchDir, "dir", "", "Process every .eml file in a directory")
	flag.StringVar(&flags.PDFFile, "pdf", "", "Encrypted PDF attachment to unlock")
	flag.StringVar(&flags.OutputFile, "out", "", "Where to write the decrypted PDF (default <name>_unlocked.pdf)")
	flag.StringVar(&flags.AddFact, "add-fact", "", "Store a personal fact as category=value and exit")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildContainer creates and configures a dependency injection container for
// the CLI application
func BuildContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewUnlockerFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register extractors
	if err := container.Provide(core.NewHintExtractor); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewBankContextExtractor); err != nil {
		return nil, err
	}

	// Register candidate store
	if err := container.Provide(func(f *factory.StoreFactory) (core.CandidateStore, error) {
		return f.CreateStore()
	}); err != nil {
		return nil, err
	}

	// Register document unlocker
	if err := container.Provide(func(f *factory.UnlockerFactory) (core.DocumentUnlocker, error) {
		return f.CreateUnlocker()
	}); err != nil {
		return nil, err
	}

	// Register LLM client, probing local backends when configured as auto
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register candidate generator
	if err := container.Provide(func(
		llmClient core.LLMClient,
		cfg *config.Config,
		textProcessor *utils.TextProcessor,
		logger *zap.Logger,
	) *core.CandidateGenerator {
		genCfg := cfg.GetGenerator()
		return core.NewCandidateGenerator(
			llmClient,
			genCfg.MaxCandidates,
			genCfg.MaxBodySize,
			cfg.GetLLM().Timeout,
			textProcessor,
			logger,
		)
	}); err != nil {
		return nil, err
	}

	// Register verifier
	if err := container.Provide(func(
		unlocker core.DocumentUnlocker,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.Verifier {
		verifierCfg := cfg.GetVerifier()
		return core.NewVerifier(unlocker, verifierCfg.MaxAttempts, verifierCfg.Budget, logger)
	}); err != nil {
		return nil, err
	}

	// Register unlock service
	if err := container.Provide(func(
		extractor *core.HintExtractor,
		bankContext *core.BankContextExtractor,
		generator *core.CandidateGenerator,
		verifier *core.Verifier,
		store core.CandidateStore,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.UnlockService {
		return core.NewUnlockService(
			extractor,
			bankContext,
			generator,
			verifier,
			store,
			logger,
			cfg.GetGenerator().SeedCommonPatterns,
		)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set LLM backend
	v.Set("llm.backend", flags.Backend)

	// Set backend-specific configuration
	switch flags.Backend {
	case "ollama":
		if flags.Model != "" {
			v.Set("ollama.model", flags.Model)
		}
		v.Set("ollama.max_tokens", flags.MaxTokens)
		v.Set("ollama.temperature", flags.Temperature)
	case "lmstudio":
		if flags.Model != "" {
			v.Set("lmstudio.model", flags.Model)
		}
		v.Set("lmstudio.max_tokens", flags.MaxTokens)
		v.Set("lmstudio.temperature", flags.Temperature)
	case "llamacpp":
		v.Set("llamacpp.max_tokens", flags.MaxTokens)
		v.Set("llamacpp.temperature", flags.Temperature)
	}

	// Set generator configuration
	v.Set("generator.max_candidates", flags.MaxCandidates)
	v.Set("generator.seed_common_patterns", flags.SeedPatterns)

	// Set PDF engine configuration
	v.Set("pdf.engine", flags.PDFEngine)
	v.Set("pdf.qpdf_path", flags.QpdfPath)

	// Set store configuration
	v.Set("store.type", flags.StoreType)
	v.Set("store.sqlite_path", flags.SQLitePath)

	return config.NewFromViper(v)
}
