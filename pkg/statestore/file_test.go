package statestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFile_SaveAndLoad(t *testing.T) {
	a := assert.New(t)
	path := filepath.Join(t.TempDir(), "podrida_state.json")
	store := NewFile(path)

	_, err := store.Load()
	a.Equal(ErrNoSnapshot, err)

	a.NoError(store.Save([]byte(`{"currentHandIndex":3}`)))
	data, err := store.Load()
	a.NoError(err)
	a.Equal(`{"currentHandIndex":3}`, string(data))

	// save replaces the previous snapshot
	a.NoError(store.Save([]byte(`{"currentHandIndex":4}`)))
	data, err = store.Load()
	a.NoError(err)
	a.Equal(`{"currentHandIndex":4}`, string(data))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	a.NoError(err)
	a.Equal(1, len(entries))
}
