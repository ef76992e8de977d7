package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestConfigStoreSetAndGet(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("generator.model", "gpt-4.1-mini"))
	require.NoError(t, store.Set("analysis.max_chunk_chars", 6000))
	require.NoError(t, store.Set("enrichment.enabled", true))

	assert.Equal(t, "gpt-4.1-mini", store.GetString("generator.model"))
	assert.Equal(t, 6000, store.GetInt("analysis.max_chunk_chars"))
	assert.True(t, store.GetBool("enrichment.enabled"))
}

func TestConfigStoreMissingKeys(t *testing.T) {
	store := newTestConfigStore(t)

	assert.Equal(t, "", store.GetString("nope"))
	assert.Equal(t, 0, store.GetInt("nope"))
	assert.False(t, store.GetBool("nope"))
	assert.Nil(t, store.GetStringSlice("nope"))

	_, ok := store.Get("nope")
	assert.False(t, ok)
}

func TestConfigStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("generator.provider", "ollama"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "ollama", reopened.GetString("generator.provider"))
}

func TestConfigStoreFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	contents := `[generator]
provider = "openai"

[generator.openai]
model = "gpt-4.1-mini"

[fetch]
languages = ["en", "de"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(contents), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store.GetString("generator.provider"))
	assert.Equal(t, "gpt-4.1-mini", store.GetString("generator.openai.model"))
	assert.Equal(t, []string{"en", "de"}, store.GetStringSlice("fetch.languages"))
}

func TestConfigStoreTypeMismatches(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("key", "string-value"))

	assert.Equal(t, 0, store.GetInt("key"))
	assert.False(t, store.GetBool("key"))
	assert.Nil(t, store.GetStringSlice("key"))
}

func TestConfigStorePath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}
