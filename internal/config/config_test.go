package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return NewFromViper(NewEmptyViper())
}

func TestDefaults_LLM(t *testing.T) {
	cfg := defaultConfig().GetLLM()

	assert.Equal(t, "auto", cfg.Backend)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
}

func TestDefaults_Backends(t *testing.T) {
	cfg := defaultConfig()

	ollama := cfg.GetOllama()
	assert.Equal(t, "http://localhost:11434", ollama.BaseURL)
	assert.Equal(t, "llama3.1", ollama.Model)
	assert.Equal(t, 500, ollama.MaxTokens)
	assert.InDelta(t, 0.1, ollama.Temperature, 0.001)

	lmstudio := cfg.GetLMStudio()
	assert.Equal(t, "http://localhost:1234/v1", lmstudio.BaseURL)
	assert.Equal(t, "llama-3.1-8b-instruct", lmstudio.Model)

	llamacpp := cfg.GetLlamaCpp()
	assert.Equal(t, "http://localhost:8080", llamacpp.BaseURL)
	assert.Equal(t, 500, llamacpp.MaxTokens)
}

func TestDefaults_GeneratorAndVerifier(t *testing.T) {
	cfg := defaultConfig()

	generator := cfg.GetGenerator()
	assert.Equal(t, 20, generator.MaxCandidates)
	assert.Equal(t, 1000, generator.MaxBodySize)
	assert.True(t, generator.SeedCommonPatterns)

	verifier := cfg.GetVerifier()
	assert.Equal(t, 50, verifier.MaxAttempts)
	assert.Equal(t, 2*time.Minute, verifier.Budget)
}

func TestDefaults_PDFAndStore(t *testing.T) {
	cfg := defaultConfig()

	pdf := cfg.GetPDF()
	assert.Equal(t, "pdfcpu", pdf.Engine)
	assert.Equal(t, "qpdf", pdf.QpdfPath)

	store := cfg.GetStore()
	assert.Equal(t, "sqlite", store.Type)
	assert.Equal(t, "./statement_data.db", store.SQLitePath)
}

func TestOverrides(t *testing.T) {
	v := NewEmptyViper()
	v.Set("llm.backend", "ollama")
	v.Set("verifier.max_attempts", 10)
	v.Set("generator.seed_common_patterns", false)
	cfg := NewFromViper(v)

	assert.Equal(t, "ollama", cfg.GetLLM().Backend)
	assert.Equal(t, 10, cfg.GetVerifier().MaxAttempts)
	assert.False(t, cfg.GetGenerator().SeedCommonPatterns)
}

func TestGetDuration_Invalid(t *testing.T) {
	v := NewEmptyViper()
	v.Set("llm.timeout", "not-a-duration")
	cfg := NewFromViper(v)

	_, err := cfg.GetDuration("llm.timeout")
	require.Error(t, err)
	// Typed accessor falls back to its default
	assert.Equal(t, 30*time.Second, cfg.GetLLM().Timeout)
}
