package domain

import "time"

// Document represents an ingested document with metadata.
// It is the canonical representation after normalisation.
type Document struct {
	// ID is the unique identifier for the document.
	// Derived deterministically from the URI so re-ingesting the same
	// file replaces the previous version.
	ID string

	// URI is the original location (file path, upload name, etc).
	URI string

	// Title is the human-readable title.
	Title string

	// Format is the detected source format (e.g. "pdf", "docx", "text").
	Format string

	// Content is the full text content after normalisation.
	// This is the complete document text before chunking.
	Content string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Chunk represents the unit of retrieval within a document.
// Documents are split into ordered, bounded chunks before embedding.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	// Chunks within a document are ordered and non-overlapping in position.
	Position int

	// Embedding is the vector representation for similarity search.
	// Nil until computed by the embedding service.
	Embedding []float32

	// EmbeddingModel records which model produced the embedding.
	// Vectors are only comparable within a single model.
	EmbeddingModel string

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}
