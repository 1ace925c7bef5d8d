package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// AdapterConfig holds connection settings for the concrete driven
// adapters (Qdrant, the AI HTTP backends, Redis). It is loaded
// alongside domain.Config but kept separate from it: domain.Config is
// the core's own tunables (§6), while these are deployment wiring that
// the core never inspects directly.
type AdapterConfig struct {
	QdrantHost   string `env:"QDRANT_HOST" envDefault:"localhost"`
	QdrantPort   int    `env:"QDRANT_PORT" envDefault:"6334"`
	QdrantAPIKey string `env:"QDRANT_API_KEY"`
	QdrantUseTLS bool   `env:"QDRANT_USE_TLS" envDefault:"false"`

	EmbeddingBaseURL string `env:"EMBEDDING_BASE_URL" envDefault:"https://api.openai.com/v1"`
	EmbeddingAPIKey  string `env:"EMBEDDING_API_KEY"`
	EmbeddingModel   string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`

	RerankerBaseURL string `env:"RERANKER_BASE_URL"`
	RerankerAPIKey  string `env:"RERANKER_API_KEY"`
	RerankerModel   string `env:"RERANKER_MODEL" envDefault:"rerank-multilingual-v3.0"`

	GeneratorBaseURL  string `env:"GENERATOR_BASE_URL" envDefault:"https://api.openai.com/v1"`
	GeneratorAPIKey   string `env:"GENERATOR_API_KEY"`
	GeneratorModel    string `env:"GENERATOR_MODEL" envDefault:"gpt-4o-mini"`
	OpenRouterReferer string `env:"OPENROUTER_REFERER"`
	OpenRouterTitle   string `env:"OPENROUTER_TITLE"`

	VisionBaseURL string `env:"VISION_BASE_URL"`
	VisionAPIKey  string `env:"VISION_API_KEY"`
	VisionModel   string `env:"VISION_MODEL" envDefault:"gpt-4o-mini"`

	RedisAddr string `env:"REDIS_ADDR"`
}

// LoadAdapters parses AdapterConfig from the process environment.
func LoadAdapters() (AdapterConfig, error) {
	var cfg AdapterConfig
	if err := env.Parse(&cfg); err != nil {
		return AdapterConfig{}, fmt.Errorf("config: parse adapter environment: %w", err)
	}
	return cfg, nil
}
