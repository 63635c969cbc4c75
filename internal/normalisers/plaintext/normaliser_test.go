package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	assert.Contains(t, mimeTypes, "text/plain")
	assert.Contains(t, mimeTypes, "text/markdown")
	assert.Contains(t, mimeTypes, "text/csv")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	raw := &domain.RawDocument{
		URI:      "/notes/weather_report.txt",
		MIMEType: "text/plain",
		Content:  []byte("The sky is blue.\n"),
	}

	result, err := normaliser.Normalise(ctx, raw)
	require.NoError(t, err)
	require.NotNil(t, result)

	doc := result.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, raw.URI, doc.URI)
	assert.Equal(t, "weather report", doc.Title)
	assert.Equal(t, "text", doc.Format)
	assert.Equal(t, "The sky is blue.", doc.Content)
	assert.Equal(t, "text/plain", doc.Metadata["mime_type"])
}

func TestNormalise_DeterministicID(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	raw := &domain.RawDocument{
		URI:      "/notes/a.txt",
		MIMEType: "text/plain",
		Content:  []byte("first version"),
	}

	first, err := normaliser.Normalise(ctx, raw)
	require.NoError(t, err)

	raw.Content = []byte("second version")
	second, err := normaliser.Normalise(ctx, raw)
	require.NoError(t, err)

	assert.Equal(t, first.Document.ID, second.Document.ID)
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_EmptyContent(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "/notes/blank.txt",
		MIMEType: "text/plain",
		Content:  []byte("   \n\t  "),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Empty(t, result.Document.Content)
}

func TestNormalise_MetadataPreserved(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "/notes/tagged.md",
		MIMEType: "text/markdown",
		Content:  []byte("# Heading"),
		Metadata: map[string]any{
			"source": "upload",
		},
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "upload", result.Document.Metadata["source"])

	// The input metadata map must not be mutated.
	_, ok := raw.Metadata["mime_type"]
	assert.False(t, ok)
}
