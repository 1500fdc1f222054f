package config

import "time"

// LLMConfig represents the backend selection for password suggestions
type LLMConfig struct {
	Backend      string
	Timeout      time.Duration
	ProbeTimeout time.Duration
}

// OllamaConfig represents the configuration for an Ollama server
type OllamaConfig struct {
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

// LMStudioConfig represents the configuration for an LM Studio server
// (OpenAI-compatible API)
type LMStudioConfig struct {
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

// LlamaCppConfig represents the configuration for a llama.cpp server
type LlamaCppConfig struct {
	BaseURL     string
	MaxTokens   int
	Temperature float32
}

// GeneratorConfig represents the candidate generator configuration
type GeneratorConfig struct {
	MaxCandidates      int
	MaxBodySize        int
	SeedCommonPatterns bool
}

// VerifierConfig represents the verifier budgets
type VerifierConfig struct {
	MaxAttempts int
	Budget      time.Duration
}

// PDFConfig represents the PDF decryption engine configuration
type PDFConfig struct {
	Engine   string
	QpdfPath string
}

// StoreConfig represents the candidate store configuration
type StoreConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	timeout, err := c.GetDuration("llm.timeout")
	if err != nil {
		timeout = 30 * time.Second
	}
	probeTimeout, err := c.GetDuration("llm.probe_timeout")
	if err != nil {
		probeTimeout = 5 * time.Second
	}
	return LLMConfig{
		Backend:      c.GetString("llm.backend"),
		Timeout:      timeout,
		ProbeTimeout: probeTimeout,
	}
}

// GetOllama returns the Ollama configuration
func (c *Config) GetOllama() OllamaConfig {
	return OllamaConfig{
		BaseURL:     c.GetString("ollama.base_url"),
		Model:       c.GetString("ollama.model"),
		MaxTokens:   c.GetInt("ollama.max_tokens"),
		Temperature: float32(c.GetFloat64("ollama.temperature")),
	}
}

// GetLMStudio returns the LM Studio configuration
func (c *Config) GetLMStudio() LMStudioConfig {
	return LMStudioConfig{
		BaseURL:     c.GetString("lmstudio.base_url"),
		Model:       c.GetString("lmstudio.model"),
		MaxTokens:   c.GetInt("lmstudio.max_tokens"),
		Temperature: float32(c.GetFloat64("lmstudio.temperature")),
	}
}

// GetLlamaCpp returns the llama.cpp configuration
func (c *Config) GetLlamaCpp() LlamaCppConfig {
	return LlamaCppConfig{
		BaseURL:     c.GetString("llamacpp.base_url"),
		MaxTokens:   c.GetInt("llamacpp.max_tokens"),
		Temperature: float32(c.GetFloat64("llamacpp.temperature")),
	}
}

// GetGenerator returns the candidate generator configuration
func (c *Config) GetGenerator() GeneratorConfig {
	return GeneratorConfig{
		MaxCandidates:      c.GetInt("generator.max_candidates"),
		MaxBodySize:        c.GetInt("generator.max_body_size"),
		SeedCommonPatterns: c.GetBool("generator.seed_common_patterns"),
	}
}

// GetVerifier returns the verifier configuration
func (c *Config) GetVerifier() VerifierConfig {
	budget, err := c.GetDuration("verifier.budget")
	if err != nil {
		budget = 2 * time.Minute
	}
	return VerifierConfig{
		MaxAttempts: c.GetInt("verifier.max_attempts"),
		Budget:      budget,
	}
}

// GetPDF returns the PDF engine configuration
func (c *Config) GetPDF() PDFConfig {
	return PDFConfig{
		Engine:   c.GetString("pdf.engine"),
		QpdfPath: c.GetString("pdf.qpdf_path"),
	}
}

// GetStore returns the candidate store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:       c.GetString("store.type"),
		SQLitePath: c.GetString("store.sqlite_path"),
		MySQLDSN:   c.GetString("store.mysql_dsn"),
	}
}
