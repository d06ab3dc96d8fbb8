package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
	"github.com/custodia-labs/focuscoach/internal/relevance"
)

func newTestPromptStore(t *testing.T) (*PromptStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewPromptStore_DoesNoIO(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")

	store, err := NewPromptStore(dir)

	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	store, dir := newTestPromptStore(t)

	_, err := store.Load(driven.PromptSystem)
	require.NoError(t, err)

	for _, f := range []string{"system.txt", "page_relevance.txt", "video_relevance.txt", "README.md"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_DefaultsCarryPlaceholdersAndFormat(t *testing.T) {
	store, _ := newTestPromptStore(t)

	for _, name := range []string{driven.PromptPageRelevance, driven.PromptVideoRelevance} {
		prompt, err := store.Load(name)
		require.NoError(t, err)
		assert.Contains(t, prompt, relevance.PlaceholderGoal, name)
		assert.Contains(t, prompt, relevance.PlaceholderContent, name)
		assert.Contains(t, prompt, "Relevance: <0-100>", name)
		assert.Contains(t, prompt, "Recommendation:", name)
	}

	system, err := store.Load(driven.PromptSystem)
	require.NoError(t, err)
	assert.NotContains(t, system, "{{")
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	store, dir := newTestPromptStore(t)
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page_relevance.txt"), []byte("  Goal {{goal}}: {{content}}\n\n"), 0600))

	prompt, err := store.Load(driven.PromptPageRelevance)

	require.NoError(t, err)
	assert.Equal(t, "Goal {{goal}}: {{content}}", prompt, "whitespace is trimmed")
}

func TestPromptStore_Load_FallsBackToDefaultWhenFileRemoved(t *testing.T) {
	store, dir := newTestPromptStore(t)
	_, err := store.Load(driven.PromptSystem)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "video_relevance.txt")))

	prompt, err := store.Load(driven.PromptVideoRelevance)

	require.NoError(t, err)
	assert.Equal(t, defaultPrompts[driven.PromptVideoRelevance], prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store, _ := newTestPromptStore(t)

	_, err := store.Load("nonexistent")

	assert.Error(t, err)
}

func TestPromptStore_Reload(t *testing.T) {
	store, dir := newTestPromptStore(t)
	path := filepath.Join(dir, "system.txt")

	first, err := store.Load(driven.PromptSystem)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("edited"), 0600))

	cached, err := store.Load(driven.PromptSystem)
	require.NoError(t, err)
	assert.Equal(t, first, cached, "served from cache until reload")

	store.Reload()
	reloaded, err := store.Load(driven.PromptSystem)
	require.NoError(t, err)
	assert.Equal(t, "edited", reloaded)
}

func TestPromptStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	store, dir := newTestPromptStore(t)
	require.NoError(t, os.MkdirAll(dir, 0700))
	path := filepath.Join(dir, "system.txt")
	require.NoError(t, os.WriteFile(path, []byte("mine"), 0600))

	_, err := store.Load(driven.PromptPageRelevance)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store, _ := newTestPromptStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prompt, err := store.Load(driven.PromptPageRelevance)
			assert.NoError(t, err)
			assert.NotEmpty(t, prompt)
		}()
	}
	wg.Wait()
}
