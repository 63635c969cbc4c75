package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Ingestion errors (user-correctable).

	// ErrUnsupportedFormat indicates a file type no normaliser handles.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyDocument indicates a document with no extractable text.
	ErrEmptyDocument = errors.New("document contains no text")

	// Backend connectivity errors. The low-level clients retry transient
	// failures with bounded backoff before surfacing these; past that
	// point they are fatal to the current query.

	// ErrEmbeddingUnavailable indicates the embedding backend cannot be reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrModelUnavailable indicates the chat backend cannot be reached.
	ErrModelUnavailable = errors.New("chat model unavailable")

	// ErrModelTimeout indicates a chat completion exceeded its deadline.
	ErrModelTimeout = errors.New("chat model timed out")

	// Configuration errors (fatal).

	// ErrDimensionMismatch indicates a vector's dimension differs from the
	// index's. This signals a mismatched embedding model between ingestion
	// and query time and is not retryable.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
