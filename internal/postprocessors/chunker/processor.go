// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits document content into fixed-size chunks.
// Windows prefer to end on a sentence boundary when one falls in the
// second half of the window, so chunks tend not to cut sentences apart.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Overlap must leave the window able to advance
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from
// document content. Resulting chunks are ordered by position and each
// is bounded by the configured chunk size.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	content := doc.Content
	contentLen := len(content)

	if contentLen <= p.chunkSize {
		return []domain.Chunk{p.newChunk(doc.ID, strings.TrimSpace(content), 0)}, nil
	}

	estimated := (contentLen / (p.chunkSize - p.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	position := 0
	start := 0

	for start < contentLen {
		end := start + p.chunkSize
		if end > contentLen {
			end = contentLen
		}

		window := content[start:end]

		// Prefer a sentence boundary in the second half of the window
		if end < contentLen {
			if bp := boundary(window); bp > len(window)/2 {
				window = window[:bp+1]
				end = start + bp + 1
			}
		}

		if text := strings.TrimSpace(window); text != "" {
			chunks = append(chunks, p.newChunk(doc.ID, text, position))
			position++
		}

		next := end - p.overlap
		if next <= start {
			// Guard against a window that cannot advance
			next = start + 1
		}
		start = next
		if end == contentLen {
			break
		}
	}

	return chunks, nil
}

func (p *Processor) newChunk(docID, text string, position int) domain.Chunk {
	return domain.Chunk{
		ID:         uuid.New().String(),
		DocumentID: docID,
		Content:    text,
		Position:   position,
		Metadata:   make(map[string]any),
	}
}

// boundary returns the index of the last sentence terminator in the
// window, or -1 when there is none.
func boundary(window string) int {
	lastPeriod := strings.LastIndexByte(window, '.')
	lastNewline := strings.LastIndexByte(window, '\n')
	if lastPeriod > lastNewline {
		return lastPeriod
	}
	return lastNewline
}
