package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	t.Run("creates connector with valid path", func(t *testing.T) {
		connector := New("/tmp/docs")

		require.NotNil(t, connector)
		assert.Equal(t, "/tmp/docs", connector.rootPath)
	})

	t.Run("implements Connector interface", func(t *testing.T) {
		var _ driven.Connector = New("/tmp")
	})
}

func TestConnector_Validate(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		connector := New(t.TempDir())
		assert.NoError(t, connector.Validate())
	})

	t.Run("non-existent path", func(t *testing.T) {
		connector := New("/non/existent/path/12345")
		assert.Error(t, connector.Validate())
	})

	t.Run("path is a file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

		connector := New(path)
		assert.Error(t, connector.Validate())
	})
}

// collectScan drains a FullScan into slices.
func collectScan(t *testing.T, connector *Connector) ([]domain.RawDocument, []error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	docs, errs := connector.FullScan(ctx)

	var collected []domain.RawDocument
	for doc := range docs {
		collected = append(collected, doc)
	}
	var scanErrs []error
	for err := range errs {
		scanErrs = append(scanErrs, err)
	}
	return collected, scanErrs
}

func TestConnector_FullScan(t *testing.T) {
	t.Run("scans files from directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("# beta"), 0o644))

		docs, errs := collectScan(t, New(dir))

		assert.Empty(t, errs)
		require.Len(t, docs, 2)

		byURI := make(map[string]domain.RawDocument)
		for _, doc := range docs {
			byURI[doc.URI] = doc
		}
		alpha := byURI[filepath.Join(dir, "a.txt")]
		assert.Equal(t, "text/plain", alpha.MIMEType)
		assert.Equal(t, []byte("alpha"), alpha.Content)
		assert.Equal(t, "text/markdown", byURI[filepath.Join(dir, "b.md")].MIMEType)
	})

	t.Run("scans nested directories", func(t *testing.T) {
		dir := t.TempDir()
		nested := filepath.Join(dir, "sub", "deeper")
		require.NoError(t, os.MkdirAll(nested, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(nested, "deep.txt"), []byte("deep"), 0o644))

		docs, errs := collectScan(t, New(dir))

		assert.Empty(t, errs)
		require.Len(t, docs, 1)
		assert.Equal(t, filepath.Join(nested, "deep.txt"), docs[0].URI)
	})

	t.Run("skips hidden files and directories", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("secret"), 0o644))
		hiddenDir := filepath.Join(dir, ".git")
		require.NoError(t, os.MkdirAll(hiddenDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(hiddenDir, "config.txt"), []byte("x"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "visible.txt"), []byte("ok"), 0o644))

		docs, errs := collectScan(t, New(dir))

		assert.Empty(t, errs)
		require.Len(t, docs, 1)
		assert.Equal(t, filepath.Join(dir, "visible.txt"), docs[0].URI)
	})

	t.Run("skips unsupported file types", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89, 0x50, 0x4e, 0x47}, 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("notes"), 0o644))

		docs, errs := collectScan(t, New(dir))

		assert.Empty(t, errs)
		require.Len(t, docs, 1)
		assert.Equal(t, filepath.Join(dir, "notes.txt"), docs[0].URI)
	})

	t.Run("includes file metadata", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.txt"), []byte("12345"), 0o644))

		docs, errs := collectScan(t, New(dir))

		assert.Empty(t, errs)
		require.Len(t, docs, 1)
		assert.Equal(t, int64(5), docs[0].Metadata["size"])
		assert.NotNil(t, docs[0].Metadata["modified"])
	})

	t.Run("reports error for non-existent directory", func(t *testing.T) {
		docs, errs := collectScan(t, New("/non/existent/path/12345"))

		assert.Empty(t, docs)
		require.Len(t, errs, 1)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		dir := t.TempDir()
		for i := 0; i < 10; i++ {
			name := filepath.Join(dir, "file"+string(rune('a'+i))+".txt")
			require.NoError(t, os.WriteFile(name, []byte("content"), 0o644))
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		docs, errs := New(dir).FullScan(ctx)
		for range docs {
		}
		for range errs {
		}
	})
}

func TestConnector_Watch(t *testing.T) {
	// waitForChange reads one change or fails after a timeout.
	waitForChange := func(t *testing.T, changes <-chan domain.RawDocumentChange) domain.RawDocumentChange {
		t.Helper()
		select {
		case change, ok := <-changes:
			require.True(t, ok, "changes channel closed unexpectedly")
			return change
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for change event")
			return domain.RawDocumentChange{}
		}
	}

	t.Run("detects file creation", func(t *testing.T) {
		dir := t.TempDir()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		connector := New(dir)
		changes, _ := connector.Watch(ctx)

		time.Sleep(100 * time.Millisecond)
		path := filepath.Join(dir, "new.txt")
		require.NoError(t, os.WriteFile(path, []byte("created"), 0o644))

		change := waitForChange(t, changes)
		assert.Equal(t, path, change.Document.URI)
		assert.Contains(t, []domain.ChangeType{domain.ChangeCreated, domain.ChangeUpdated}, change.Type)
	})

	t.Run("detects file deletion", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "doomed.txt")
		require.NoError(t, os.WriteFile(path, []byte("bye"), 0o644))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		connector := New(dir)
		changes, _ := connector.Watch(ctx)

		time.Sleep(100 * time.Millisecond)
		require.NoError(t, os.Remove(path))

		change := waitForChange(t, changes)
		assert.Equal(t, domain.ChangeDeleted, change.Type)
		assert.Equal(t, path, change.Document.URI)
	})

	t.Run("reports error for non-existent directory", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, errs := New("/non/existent/path/12345").Watch(ctx)

		err, ok := <-errs
		require.True(t, ok)
		assert.Error(t, err)
		_, open := <-changes
		assert.False(t, open)
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		dir := t.TempDir()
		ctx, cancel := context.WithCancel(context.Background())

		changes, _ := New(dir).Watch(ctx)
		cancel()

		select {
		case _, open := <-changes:
			assert.False(t, open)
		case <-time.After(5 * time.Second):
			t.Fatal("changes channel did not close after cancel")
		}
	})

	t.Run("returns error when connector is closed", func(t *testing.T) {
		dir := t.TempDir()
		connector := New(dir)
		require.NoError(t, connector.Close())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		_, errs := connector.Watch(ctx)
		err, ok := <-errs
		require.True(t, ok)
		assert.Error(t, err)
	})
}

func TestConnector_Close(t *testing.T) {
	t.Run("close is idempotent", func(t *testing.T) {
		connector := New(t.TempDir())
		assert.NoError(t, connector.Close())
		assert.NoError(t, connector.Close())
	})
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		content  []byte
		expected string
		ok       bool
	}{
		{"txt", "notes.txt", nil, "text/plain", true},
		{"markdown", "README.md", nil, "text/markdown", true},
		{"csv", "data.csv", nil, "text/csv", true},
		{"pdf by extension", "report.pdf", nil, "application/pdf", true},
		{"docx", "letter.docx", nil, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", true},
		{"pdf by magic bytes", "report", []byte("%PDF-1.7 rest"), "application/pdf", true},
		{"uppercase extension", "NOTES.TXT", nil, "text/plain", true},
		{"unsupported", "image.png", []byte{0x89, 0x50}, "", false},
		{"no extension no magic", "Makefile", []byte("all:"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mimeType, ok := DetectMIMEType(tt.path, tt.content)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, mimeType)
		})
	}
}
