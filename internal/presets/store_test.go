// File: internal/presets/store_test.go
package presets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amitgur2000/web-tasks-bot/api/schemas"
)

func writePresetFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStoreLoadAndGet(t *testing.T) {
	path := writePresetFile(t, `[
		{"id":"open-docs","label":"Open docs","type":"navigate","value":"https://x.test/docs"},
		{"id":"search","label":"Search","type":"type","selector":"#q","value":"query"}
	]`)

	store := NewStore(path, zap.NewNop())
	require.NoError(t, store.Load())

	p, err := store.Get("open-docs")
	require.NoError(t, err)
	assert.Equal(t, schemas.PresetNavigate, p.Type)

	_, err = store.Get("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStoreListOrdering(t *testing.T) {
	path := writePresetFile(t, `[
		{"id":"b","label":"Zeta","type":"click","selector":"#z"},
		{"id":"a","label":"Alpha","type":"click","selector":"#a"}
	]`)

	store := NewStore(path, zap.NewNop())
	require.NoError(t, store.Load())

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Label)
	assert.Equal(t, "Zeta", list[1].Label)
}

func TestStoreMissingFileIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())
	require.NoError(t, store.Load())
	assert.Empty(t, store.List())
}

func TestStoreRejectsBadContent(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		store := NewStore(writePresetFile(t, `{nope`), zap.NewNop())
		assert.Error(t, store.Load())
	})

	t.Run("invalid preset", func(t *testing.T) {
		store := NewStore(writePresetFile(t, `[{"id":"x","type":"click"}]`), zap.NewNop())
		assert.Error(t, store.Load())
	})

	t.Run("duplicate ids", func(t *testing.T) {
		store := NewStore(writePresetFile(t, `[
			{"id":"x","type":"click","selector":"#a"},
			{"id":"x","type":"click","selector":"#b"}
		]`), zap.NewNop())
		assert.Error(t, store.Load())
	})
}
