package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyx-labs/duet-cli/internal/core/ports/driven"
)

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewPromptStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".duet", "prompts"), store.Dir())
}

func TestNewPromptStore_NoEagerIO(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")

	_, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Constructor must not create the directory.
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Load triggers lazy init
	_, err = store.Load(driven.PromptReasoner)
	require.NoError(t, err)

	files := []string{
		"reasoner.txt",
		"responder.txt",
		"README.md",
	}
	for _, f := range files {
		path := filepath.Join(dir, f)
		_, err := os.Stat(path)
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_Load_Defaults(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	reasoner, err := store.Load(driven.PromptReasoner)
	require.NoError(t, err)
	assert.Contains(t, reasoner, "careful analyst")
	assert.Equal(t, 2, strings.Count(reasoner, "%s"))

	responder, err := store.Load(driven.PromptResponder)
	require.NoError(t, err)
	assert.Contains(t, responder, "helpful assistant")
	assert.Equal(t, 2, strings.Count(responder, "%s"))
}

func TestPromptStore_Load_CustomisedFile(t *testing.T) {
	dir := t.TempDir()

	custom := "Answer tersely.\n\nQuestion: %s\n\nNotes:\n%s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "responder.txt"), []byte(custom), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	prompt, err := store.Load(driven.PromptResponder)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("nonexistent")
	assert.Error(t, err)
}

func TestPromptStore_Reload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	// Prime the cache with the default file content.
	first, err := store.Load(driven.PromptReasoner)
	require.NoError(t, err)

	// Edit on disk; cached value still served until Reload.
	edited := "Edited prompt %s %s"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reasoner.txt"), []byte(edited), 0600))

	cached, err := store.Load(driven.PromptReasoner)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	store.Reload()

	fresh, err := store.Load(driven.PromptReasoner)
	require.NoError(t, err)
	assert.Equal(t, edited, fresh)
}

func TestPromptStore_ConcurrentLoads(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Load(driven.PromptReasoner)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
