package domain

// GeneratorBackend selects the Generator Adapter implementation (§4.I).
type GeneratorBackend string

const (
	GeneratorBackendOpenAI     GeneratorBackend = "openai"
	GeneratorBackendGemini     GeneratorBackend = "gemini"
	GeneratorBackendOpenRouter GeneratorBackend = "openrouter"
	GeneratorBackendLocal      GeneratorBackend = "local"
)

// Config is the process-wide, immutable configuration described in §6.
// It is constructed once at startup (see internal/config) and passed
// by value into every service constructor; nothing in the core mutates
// it after construction.
type Config struct {
	DocumentsCollection string `env:"DOCUMENTS_COLLECTION" envDefault:"arabic_documents"`
	MemoryCollection    string `env:"MEMORY_COLLECTION" envDefault:"conversation_memory"`

	EmbeddingDim int `env:"EMBEDDING_DIM" envDefault:"768"`

	RetrievalTopK int `env:"RETRIEVAL_TOP_K" envDefault:"15"`
	RerankerTopN  int `env:"RERANKER_TOP_N" envDefault:"5"`

	ChunkSize    int `env:"CHUNK_SIZE" envDefault:"350"`
	ChunkOverlap int `env:"CHUNK_OVERLAP" envDefault:"100"`

	MaxHistory int `env:"MAX_HISTORY" envDefault:"10"`

	MemoryTTLHours int `env:"MEMORY_TTL_HOURS" envDefault:"24"`

	MaxFileSizeBytes  int64 `env:"MAX_FILE_SIZE_BYTES" envDefault:"26214400"`
	MaxBatchSizeBytes int64 `env:"MAX_BATCH_SIZE_BYTES" envDefault:"52428800"`

	GeneratorBackend GeneratorBackend `env:"GENERATOR_BACKEND" envDefault:"openai"`

	// RouterSimpleTokenThreshold is the token count below which a
	// non-greeting, non-calculator query is classified "simple" rather
	// than "rag" (§4.G, §9 open question - kept uniform across
	// languages and exposed as config rather than silently resolved).
	RouterSimpleTokenThreshold int `env:"ROUTER_SIMPLE_TOKEN_THRESHOLD" envDefault:"8"`

	// DedupOnHash enables file-hash ingestion deduplication (§4.K, §9).
	// Default false: re-ingestion is warn-and-continue, not rejected.
	DedupOnHash bool `env:"DEDUP_ON_HASH" envDefault:"false"`

	// DedupGlobal makes the dedup cache span all collections instead of
	// being scoped to DocumentsCollection (§9 open question - default
	// per-collection, global is opt-in).
	DedupGlobal bool `env:"DEDUP_GLOBAL" envDefault:"false"`
}
