package driven

import (
	"context"

	"github.com/noor-rag/noor-core/internal/core/domain"
)

// GeneratorService is the uniform capability over a text-completion
// backend (§4.I). Implementations own backend-specific connection
// setup, health checking, message-shape translation, context-window
// truncation, and transient-failure retry.
type GeneratorService interface {
	// Generate produces a completion for a chronological message list,
	// optionally preceded by one system message.
	Generate(ctx context.Context, messages []domain.ChatMessage) (string, error)

	// Model returns the model name being used.
	Model() string

	// HealthCheck verifies the backend is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the generator.
	Close() error
}
