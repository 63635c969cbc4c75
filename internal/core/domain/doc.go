// Package domain defines the core business entities for Duet.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document with metadata
//   - Chunk: The unit of retrieval within a document
//   - RetrievalResult: Scored passages returned for a query
//   - AgentMessage / Conversation: Per-session chat history
//   - RawDocument: Opaque bytes before normalisation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
