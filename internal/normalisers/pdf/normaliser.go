// Package pdf provides a normaliser for PDF documents.
package pdf

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	ledongthuc "github.com/ledongthuc/pdf"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driven"
	"github.com/calyx-labs/duet-cli/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"application/pdf",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific normaliser
}

// Normalise converts a PDF document to a normalised document.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if !bytes.HasPrefix(raw.Content, []byte("%PDF-")) {
		return nil, domain.ErrInvalidInput
	}

	content, err := extractText(raw.Content)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	doc := domain.Document{
		ID:        normalisers.DocumentID(raw.URI),
		URI:       raw.URI,
		Title:     normalisers.TitleFromURI(raw.URI),
		Format:    "pdf",
		Content:   content,
		Metadata:  normalisers.CopyMetadata(raw.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	doc.Metadata["mime_type"] = raw.MIMEType

	return &driven.NormaliseResult{Document: doc}, nil
}

// extractText pulls the plain text out of a PDF.
func extractText(data []byte) (string, error) {
	reader, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	text, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}

	return collapseWhitespace(string(text)), nil
}

// collapseWhitespace squeezes runs of whitespace into single spaces
// while preserving paragraph breaks.
func collapseWhitespace(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	lastSpace := false
	for _, r := range s {
		switch {
		case r == '\n':
			result.WriteRune('\n')
			lastSpace = false
		case r == ' ' || r == '\t' || r == '\r':
			if !lastSpace {
				result.WriteRune(' ')
			}
			lastSpace = true
		default:
			result.WriteRune(r)
			lastSpace = false
		}
	}

	return strings.TrimSpace(result.String())
}
