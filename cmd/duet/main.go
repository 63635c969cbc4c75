// Command duet is a local retrieval-augmented question answering tool.
// It indexes documents into SQLite, embeds chunks via Ollama, and
// answers questions with a reasoner/responder agent pair.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calyx-labs/duet-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/calyx-labs/duet-cli/internal/adapters/driven/embedding/ollama"
	llmollama "github.com/calyx-labs/duet-cli/internal/adapters/driven/llm/ollama"
	"github.com/calyx-labs/duet-cli/internal/adapters/driven/storage/memory"
	"github.com/calyx-labs/duet-cli/internal/adapters/driven/storage/sqlite"
	vectormemory "github.com/calyx-labs/duet-cli/internal/adapters/driven/vectorindex/memory"
	"github.com/calyx-labs/duet-cli/internal/adapters/driving/cli"
	"github.com/calyx-labs/duet-cli/internal/connectors/filesystem"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driven"
	"github.com/calyx-labs/duet-cli/internal/core/services"
	"github.com/calyx-labs/duet-cli/internal/logger"
	"github.com/calyx-labs/duet-cli/internal/normalisers"
	"github.com/calyx-labs/duet-cli/internal/normalisers/docx"
	"github.com/calyx-labs/duet-cli/internal/normalisers/pdf"
	"github.com/calyx-labs/duet-cli/internal/normalisers/plaintext"
	"github.com/calyx-labs/duet-cli/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "duet: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("opening prompts: %w", err)
	}

	baseURL := configStore.GetString("ollama.base_url")

	embedder := embeddingollama.NewEmbeddingService(embeddingollama.Config{
		BaseURL:    baseURL,
		Model:      configStore.GetString("embedding.model"),
		Dimensions: configStore.GetInt("embedding.dimensions"),
	})
	defer embedder.Close()

	llm := llmollama.NewLLMService(llmollama.LLMConfig{
		BaseURL: baseURL,
	})
	defer llm.Close()

	docStore, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}
	defer docStore.Close()

	vectorIndex := vectormemory.New(embedder.Dimensions())
	defer vectorIndex.Close()

	if err := rebuildVectorIndex(ctx, docStore, vectorIndex, embedder.ModelName()); err != nil {
		return fmt.Errorf("rebuilding vector index: %w", err)
	}

	// Normalisers, highest priority first on dispatch.
	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(pdf.New())
	registry.Register(docx.New())

	// Post-processing: chunking, configurable via chunking.* keys.
	procRegistry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(procRegistry)
	chunkCfg := map[string]any{}
	if size := configStore.GetInt("chunking.size"); size > 0 {
		chunkCfg["chunk_size"] = size
	}
	if overlap := configStore.GetInt("chunking.overlap"); overlap > 0 {
		chunkCfg["overlap"] = overlap
	}
	chunkerProc, err := procRegistry.Build("chunker", chunkCfg)
	if err != nil {
		return fmt.Errorf("building chunker: %w", err)
	}
	procPipeline := postprocessors.NewPipeline(chunkerProc)

	ingest := services.NewIngestService(
		registry,
		procPipeline,
		embedder,
		docStore,
		vectorIndex,
		func(rootPath string) driven.Connector {
			return filesystem.New(rootPath)
		},
	)

	retriever := services.NewRetriever(
		embedder,
		vectorIndex,
		docStore,
		configStore.GetInt("retrieval.top_k"),
	)
	reasoner := services.NewReasoner(llm, promptStore, configStore.GetString("agents.reasoner_model"))
	responder := services.NewResponder(llm, promptStore, configStore.GetString("agents.responder_model"))

	pipeline := services.NewPipeline(retriever, reasoner, responder, memory.NewConversationStore())

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Pipeline:      pipeline,
		Ingest:        ingest,
		Config:        configStore,
		Embedder:      embedder,
		LLM:           llm,
		DocumentStore: docStore,
		VectorIndex:   vectorIndex,
	})

	return cli.Execute(ctx)
}

// rebuildVectorIndex reloads persisted embeddings into the in-memory
// index at startup. Chunks embedded with a different model are skipped;
// their documents need re-ingesting before they can match again.
func rebuildVectorIndex(ctx context.Context, docStore driven.DocumentStore, index driven.VectorIndex, model string) error {
	start := time.Now()

	chunks, err := docStore.AllChunks(ctx)
	if err != nil {
		return err
	}

	loaded, skipped := 0, 0
	for i := range chunks {
		if len(chunks[i].Embedding) == 0 {
			continue
		}
		if chunks[i].EmbeddingModel != model {
			skipped++
			continue
		}
		if err := index.Upsert(ctx, chunks[i].ID, chunks[i].Embedding); err != nil {
			return fmt.Errorf("chunk %s: %w", chunks[i].ID, err)
		}
		loaded++
	}

	if loaded > 0 || skipped > 0 {
		logger.Debug("Vector index rebuilt: %d loaded, %d skipped in %s",
			loaded, skipped, time.Since(start).Round(time.Millisecond))
	}
	if skipped > 0 {
		logger.Warn("%d chunks were embedded with a different model; re-ingest to search them", skipped)
	}
	return nil
}
