// Package filesystem provides a connector that reads documents from a
// local directory tree and can watch it for changes.
package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/calyx-labs/duet-cli/internal/core/domain"
	"github.com/calyx-labs/duet-cli/internal/core/ports/driven"
	"github.com/calyx-labs/duet-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// mimeByExtension maps supported file extensions to MIME types.
var mimeByExtension = map[string]string{
	".txt":      "text/plain",
	".text":     "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".csv":      "text/csv",
	".pdf":      "application/pdf",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// maxFileSize caps how much of a single file gets read (32 MiB).
const maxFileSize = 32 << 20

// Connector reads raw documents from a directory tree.
type Connector struct {
	rootPath string

	mu     sync.Mutex
	closed bool
}

// New creates a filesystem connector rooted at the given path.
func New(rootPath string) *Connector {
	return &Connector{rootPath: rootPath}
}

// Validate checks that the root path exists and is a directory.
func (c *Connector) Validate() error {
	info, err := os.Stat(c.rootPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", c.rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", c.rootPath)
	}
	return nil
}

// FullScan walks the directory tree and emits every supported file.
// Hidden files and directories are skipped. Both channels close when
// the walk completes.
func (c *Connector) FullScan(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		defer close(errs)

		err := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			name := d.Name()
			if d.IsDir() {
				if strings.HasPrefix(name, ".") && path != c.rootPath {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(name, ".") {
				return nil
			}

			doc, ok, err := c.readDocument(path)
			if err != nil {
				logger.Warn("Skipping %s: %v", path, err)
				return nil
			}
			if !ok {
				return nil
			}

			select {
			case docs <- doc:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if err != nil {
			errs <- err
		}
	}()

	return docs, errs
}

// Watch emits change events for the directory tree until the context
// is cancelled. Subdirectories created while watching are picked up.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawDocumentChange, <-chan error) {
	changes := make(chan domain.RawDocumentChange)
	errs := make(chan error, 1)

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		errs <- fmt.Errorf("connector is closed")
		close(changes)
		close(errs)
		return changes, errs
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		errs <- fmt.Errorf("creating watcher: %w", err)
		close(changes)
		close(errs)
		return changes, errs
	}

	if err := c.addRecursive(watcher); err != nil {
		watcher.Close()
		errs <- err
		close(changes)
		close(errs)
		return changes, errs
	}

	go func() {
		defer close(changes)
		defer close(errs)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				change, ok := c.translateEvent(watcher, event)
				if !ok {
					continue
				}
				select {
				case changes <- change:
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()

	return changes, errs
}

// Close releases resources. Safe to call multiple times.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// readDocument loads a single file as a raw document. The second
// return value is false when the file type is not supported.
func (c *Connector) readDocument(path string) (domain.RawDocument, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.RawDocument{}, false, err
	}
	if info.Size() > maxFileSize {
		return domain.RawDocument{}, false, fmt.Errorf("file exceeds %d bytes", maxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, false, err
	}

	mimeType, ok := DetectMIMEType(path, content)
	if !ok {
		return domain.RawDocument{}, false, nil
	}

	return domain.RawDocument{
		URI:      path,
		MIMEType: mimeType,
		Content:  content,
		Metadata: map[string]any{
			"size":     info.Size(),
			"modified": info.ModTime(),
		},
	}, true, nil
}

// translateEvent converts an fsnotify event to a document change.
// Directory creation grows the watch set instead of emitting a change.
func (c *Connector) translateEvent(watcher *fsnotify.Watcher, event fsnotify.Event) (domain.RawDocumentChange, bool) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return domain.RawDocumentChange{}, false
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := watcher.Add(event.Name); err != nil {
				logger.Warn("Cannot watch %s: %v", event.Name, err)
			}
			return domain.RawDocumentChange{}, false
		}
		doc, ok, err := c.readDocument(event.Name)
		if err != nil || !ok {
			return domain.RawDocumentChange{}, false
		}
		return domain.RawDocumentChange{Type: domain.ChangeCreated, Document: doc}, true

	case event.Op.Has(fsnotify.Write):
		doc, ok, err := c.readDocument(event.Name)
		if err != nil || !ok {
			return domain.RawDocumentChange{}, false
		}
		return domain.RawDocumentChange{Type: domain.ChangeUpdated, Document: doc}, true

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		if _, supported := mimeByExtension[strings.ToLower(filepath.Ext(event.Name))]; !supported {
			return domain.RawDocumentChange{}, false
		}
		return domain.RawDocumentChange{
			Type:     domain.ChangeDeleted,
			Document: domain.RawDocument{URI: event.Name},
		}, true
	}

	return domain.RawDocumentChange{}, false
}

// addRecursive adds the root and every subdirectory to the watcher.
func (c *Connector) addRecursive(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != c.rootPath {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// DetectMIMEType determines the MIME type of a file from its extension,
// falling back to magic-byte sniffing for files without a recognised
// one. The second return value is false for unsupported types.
func DetectMIMEType(path string, content []byte) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if mimeType, ok := mimeByExtension[ext]; ok {
		return mimeType, true
	}

	if bytes.HasPrefix(content, []byte("%PDF-")) {
		return "application/pdf", true
	}

	return "", false
}
