// Command noor-core wires the retrieval-augmented query core together
// and exposes it as a small CLI, since the HTTP/CLI presentation
// surface proper is out of this core's scope (§1) - this entrypoint
// exists only to make the module runnable end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noor-rag/noor-core/internal/adapters/driven/ai"
	"github.com/noor-rag/noor-core/internal/adapters/driven/dedup"
	"github.com/noor-rag/noor-core/internal/adapters/driven/qdrant"
	"github.com/noor-rag/noor-core/internal/adapters/driven/vision"
	"github.com/noor-rag/noor-core/internal/config"
	"github.com/noor-rag/noor-core/internal/core/domain"
	"github.com/noor-rag/noor-core/internal/core/ports/driven"
	"github.com/noor-rag/noor-core/internal/core/ports/driving"
	"github.com/noor-rag/noor-core/internal/core/services"
	"github.com/noor-rag/noor-core/internal/ingest"
	"github.com/noor-rag/noor-core/internal/worker"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: noor-core <query|ingest|serve> [flags]")
	}
	mode := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	adapterCfg, err := config.LoadAdapters()
	if err != nil {
		log.Fatalf("load adapter config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	logger.Info("noor-core starting", "version", version, "mode", mode)

	rag, store, sweeper, err := wire(cfg, adapterCfg, logger)
	if err != nil {
		log.Fatalf("wire services: %v", err)
	}
	defer store.Close()

	switch mode {
	case "query":
		runQuery(rag, os.Args[2:])
	case "ingest":
		runIngest(rag, os.Args[2:])
	case "serve":
		runServe(sweeper, logger)
	default:
		log.Fatalf("unknown mode %q", mode)
	}
}

// wire constructs every driven adapter and the RAG service from
// configuration, grounded on the teacher's main.go single wiring pass.
func wire(cfg domain.Config, adapterCfg config.AdapterConfig, logger *slog.Logger) (driving.RAGService, driven.VectorStore, *worker.Sweeper, error) {
	store, err := qdrant.New(qdrant.Config{
		Host:   adapterCfg.QdrantHost,
		Port:   adapterCfg.QdrantPort,
		APIKey: adapterCfg.QdrantAPIKey,
		UseTLS: adapterCfg.QdrantUseTLS,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect qdrant: %w", err)
	}

	embedding := ai.NewEmbedding(adapterCfg.EmbeddingBaseURL, adapterCfg.EmbeddingAPIKey, adapterCfg.EmbeddingModel, cfg.EmbeddingDim)
	reranker := ai.NewReranker(adapterCfg.RerankerBaseURL, adapterCfg.RerankerAPIKey, adapterCfg.RerankerModel)
	generator := buildGenerator(cfg.GeneratorBackend, adapterCfg)
	visionService := vision.New(adapterCfg.VisionBaseURL, adapterCfg.VisionAPIKey, adapterCfg.VisionModel)

	dedupCache := buildDedupCache(adapterCfg, logger)

	frontend := ingest.NewFrontend(visionService)
	ragService := services.NewRAGService(embedding, reranker, generator, store, dedupCache, frontend, cfg)

	memory := services.NewMemory(store, cfg.MemoryCollection, cfg.EmbeddingDim)
	sweeper := worker.NewSweeper(worker.SweeperConfig{
		Memory: memory,
		MaxAge: durationHours(cfg.MemoryTTLHours),
		Logger: logger,
	})

	return ragService, store, sweeper, nil
}

func buildGenerator(backend domain.GeneratorBackend, cfg config.AdapterConfig) driven.GeneratorService {
	switch backend {
	case domain.GeneratorBackendGemini:
		return ai.NewGeminiGenerator(cfg.GeneratorAPIKey, cfg.GeneratorModel)
	case domain.GeneratorBackendOpenRouter:
		return ai.NewOpenRouterGenerator(cfg.GeneratorAPIKey, cfg.GeneratorModel, cfg.OpenRouterReferer, cfg.OpenRouterTitle)
	case domain.GeneratorBackendLocal:
		return ai.NewLocalGenerator(cfg.GeneratorBaseURL, cfg.GeneratorModel)
	default:
		return ai.NewOpenAIGenerator(cfg.GeneratorBaseURL, cfg.GeneratorAPIKey, cfg.GeneratorModel)
	}
}

func buildDedupCache(cfg config.AdapterConfig, logger *slog.Logger) driven.DedupCache {
	if cfg.RedisAddr == "" {
		return dedup.NewMemoryCache()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis unreachable, falling back to in-memory dedup cache", "error", err)
		return dedup.NewMemoryCache()
	}
	return dedup.NewRedisCache(client)
}

func durationHours(hours int) time.Duration {
	return time.Duration(hours) * time.Hour
}

func runQuery(rag driving.RAGService, args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	session := fs.String("session", "default", "conversation session id")
	useRAG := fs.Bool("rag", true, "retrieve context before answering")
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		log.Fatal("usage: noor-core query [-session id] [-rag=true] <question>")
	}
	question := fs.Arg(0)

	result, err := rag.Query(context.Background(), question, *session, *useRAG)
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}
	fmt.Println(result.Answer)
}

func runIngest(rag driving.RAGService, args []string) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		log.Fatal("usage: noor-core ingest <file> [file...]")
	}

	ctx := context.Background()
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}
		result, err := rag.IngestFile(ctx, driving.IngestFileRequest{
			Bytes:    data,
			Filename: path,
		})
		if err != nil {
			log.Fatalf("ingest %s: %v", path, err)
		}
		fmt.Printf("%s: %d chunks ingested\n", path, result.Chunks)
	}
}

func runServe(sweeper *worker.Sweeper, logger *slog.Logger) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sweeper.Start(ctx)
	logger.Info("noor-core serving, memory sweeper active")

	<-ctx.Done()
	logger.Info("shutting down")
	sweeper.Stop()
}
