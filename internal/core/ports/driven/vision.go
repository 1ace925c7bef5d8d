package driven

import (
	"context"

	"github.com/noor-rag/noor-core/internal/core/domain"
)

// VisionService is the capability the image extractor delegates to.
// It is a distinct port from GeneratorService because a vision-LLM
// backend may differ from the text-generation backend, even though
// the default local-server implementation shares a transport.
type VisionService interface {
	// Classify runs a quick pre-classification to decide whether an
	// image is predominantly printed text or pictorial content, used
	// when mode is domain.VisionModeAuto.
	Classify(ctx context.Context, imageBytes []byte, mimeType string) (domain.VisionMode, error)

	// ExtractText performs OCR-style text extraction on the image.
	ExtractText(ctx context.Context, imageBytes []byte, mimeType string) (string, error)

	// Describe generates a semantic description of the image's
	// pictorial content.
	Describe(ctx context.Context, imageBytes []byte, mimeType string) (string, error)

	// HealthCheck verifies the backend is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the vision service.
	Close() error
}
