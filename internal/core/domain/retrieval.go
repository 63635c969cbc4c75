package domain

// Passage is a retrieved chunk with its similarity score and provenance.
type Passage struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// DocumentTitle is the title of the parent document, for provenance
	// in prompts and result displays.
	DocumentTitle string

	// DocumentURI is the original location of the parent document.
	DocumentURI string

	// Score is the cosine similarity to the query vector (0-1).
	Score float64
}

// RetrievalResult is an ordered set of passages for a query,
// descending by score. Length is at most the requested top-k.
type RetrievalResult struct {
	// Query is the original question text.
	Query string

	// Passages are the retrieved chunks, best match first.
	Passages []Passage
}

// Empty reports whether retrieval found nothing.
func (r RetrievalResult) Empty() bool {
	return len(r.Passages) == 0
}
