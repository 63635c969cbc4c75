package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driven"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driving"
	"github.com/calyx-labs/duet-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// ConnectorFactory creates a connector rooted at the given path.
// Injected so the service stays decoupled from the filesystem adapter.
type ConnectorFactory func(rootPath string) driven.Connector

// IngestService coordinates document ingestion: normalise, chunk,
// embed, persist, index.
type IngestService struct {
	registry    driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline
	embedder    driven.EmbeddingService
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
	factory     ConnectorFactory
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	factory ConnectorFactory,
) *IngestService {
	return &IngestService{
		registry:    registry,
		pipeline:    pipeline,
		embedder:    embedder,
		docStore:    docStore,
		vectorIndex: vectorIndex,
		factory:     factory,
	}
}

// IngestPaths ingests the given files or directories.
func (s *IngestService) IngestPaths(ctx context.Context, paths []string, opts driving.IngestOptions) (*driving.IngestReport, error) {
	if opts.Rebuild {
		logger.Info("Rebuilding index from scratch")
		if err := s.vectorIndex.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("clear vector index: %w", err)
		}
		if err := s.docStore.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("clear document store: %w", err)
		}
	}

	report := &driving.IngestReport{Skipped: make(map[string]error)}

	for _, path := range paths {
		if err := s.ingestPath(ctx, path, report); err != nil {
			return report, err
		}
	}

	logger.Info("Ingestion complete: %d documents, %d chunks, %d skipped",
		report.Documents, report.Chunks, len(report.Skipped))
	return report, nil
}

// ingestPath scans one file or directory and processes every document
// it yields. Per-document failures are recorded, not fatal; connector
// failures abort the run.
func (s *IngestService) ingestPath(ctx context.Context, path string, report *driving.IngestReport) error {
	connector := s.factory(path)
	defer connector.Close()

	docs, errs := connector.FullScan(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return fmt.Errorf("scan %s: %w", path, err)
			}

		case raw, ok := <-docs:
			if !ok {
				return nil
			}

			logger.Debug("Processing: %s", raw.URI)
			chunks, err := s.processRaw(ctx, &raw)
			if err != nil {
				if errors.Is(err, domain.ErrEmbeddingUnavailable) {
					return err
				}
				logger.Warn("Skipping %s: %v", raw.URI, err)
				report.Skipped[raw.URI] = err
				continue
			}
			report.Documents++
			report.Chunks += chunks
		}
	}
}

// IngestRaw ingests a single in-memory document.
func (s *IngestService) IngestRaw(ctx context.Context, raw *domain.RawDocument) (int, error) {
	if raw == nil {
		return 0, domain.ErrInvalidInput
	}
	return s.processRaw(ctx, raw)
}

// Remove deletes a document and its chunks and vectors by URI.
func (s *IngestService) Remove(ctx context.Context, uri string) error {
	doc, err := s.docStore.GetDocumentByURI(ctx, uri)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", uri, err)
	}

	chunks, err := s.docStore.GetChunks(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("get chunks: %w", err)
	}
	for _, chunk := range chunks {
		if err := s.vectorIndex.Delete(ctx, chunk.ID); err != nil {
			return fmt.Errorf("delete vector: %w", err)
		}
	}

	if err := s.docStore.DeleteDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	logger.Info("Removed %s (%d chunks)", uri, len(chunks))
	return nil
}

// Watch ingests changes from the connector until ctx is cancelled.
func (s *IngestService) Watch(ctx context.Context, conn driving.WatchSource) error {
	changes, errs := conn.Watch(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}

		case change, ok := <-changes:
			if !ok {
				return nil
			}

			switch change.Type {
			case domain.ChangeCreated, domain.ChangeUpdated:
				logger.Debug("Change detected: %s", change.Document.URI)
				if _, err := s.processRaw(ctx, &change.Document); err != nil {
					logger.Warn("Failed to ingest %s: %v", change.Document.URI, err)
				}

			case domain.ChangeDeleted:
				logger.Debug("Deletion detected: %s", change.Document.URI)
				if err := s.Remove(ctx, change.Document.URI); err != nil && !errors.Is(err, domain.ErrNotFound) {
					logger.Warn("Failed to remove %s: %v", change.Document.URI, err)
				}
			}
		}
	}
}

// processRaw runs one raw document through the full ingestion pipeline
// and returns the number of chunks indexed. Re-ingesting a URI replaces
// the previous version of the document.
func (s *IngestService) processRaw(ctx context.Context, raw *domain.RawDocument) (int, error) {
	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("normalise: %w", err)
	}

	doc := result.Document
	if doc.Content == "" {
		return 0, fmt.Errorf("%s: %w", raw.URI, domain.ErrEmptyDocument)
	}

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return 0, fmt.Errorf("post-process: %w", err)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embed: got %d embeddings for %d chunks", len(embeddings), len(chunks))
	}
	model := s.embedder.ModelName()
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
		chunks[i].EmbeddingModel = model
	}

	// Drop the previous version of this document, if any, before
	// writing the new one. Document IDs are URI-derived, so the stale
	// chunks belong to the same document ID.
	if err := s.removeStaleChunks(ctx, doc.ID); err != nil {
		return 0, err
	}

	if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
		return 0, fmt.Errorf("save document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("save chunks: %w", err)
	}

	for _, chunk := range chunks {
		if err := s.vectorIndex.Upsert(ctx, chunk.ID, chunk.Embedding); err != nil {
			return 0, fmt.Errorf("index vector: %w", err)
		}
	}

	return len(chunks), nil
}

// removeStaleChunks clears chunks and vectors from a prior ingestion
// of the same document.
func (s *IngestService) removeStaleChunks(ctx context.Context, docID string) error {
	stale, err := s.docStore.GetChunks(ctx, docID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get stale chunks: %w", err)
	}
	for _, chunk := range stale {
		if err := s.vectorIndex.Delete(ctx, chunk.ID); err != nil {
			return fmt.Errorf("delete stale vector: %w", err)
		}
	}
	if len(stale) > 0 {
		if err := s.docStore.DeleteDocument(ctx, docID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete stale document: %w", err)
		}
	}
	return nil
}
