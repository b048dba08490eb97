package kvstore

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGet(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("completed_evaluations", `["e1","e2"]`))
	assert.Equal(t, `["e1","e2"]`, store.Get("completed_evaluations"))

	// Overwrite replaces the previous value entirely
	require.NoError(t, store.Set("completed_evaluations", `["e3"]`))
	assert.Equal(t, `["e3"]`, store.Get("completed_evaluations"))
}

func TestStore_GetMissingKey(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "", store.Get("never_written"))
}

func TestStore_Delete(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("pending_submissions", `[]`))
	require.NoError(t, store.Delete("pending_submissions"))
	assert.Equal(t, "", store.Get("pending_submissions"))

	// Deleting an absent key is a no-op
	require.NoError(t, store.Delete("pending_submissions"))
}

func TestStore_KeySanitization(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("completed_evaluations:emp-1/../x", `["e1"]`))
	assert.Equal(t, `["e1"]`, store.Get("completed_evaluations:emp-1/../x"))

	// The value must land inside the data directory, not climb out of it
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "..")
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".json"))
}

func TestStore_RequiresDirectory(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
