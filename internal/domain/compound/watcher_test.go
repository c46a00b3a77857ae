package compound

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compounds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compounds: []\n"), 0o644))

	lib := NewLibrary(nil)
	w, err := NewWatcher(lib, path, nil)
	require.NoError(t, err)
	defer w.Close()

	overlay := "compounds:\n  - name: water\n    smiles: \"O\"\n"
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0o644))

	assert.Eventually(t, func() bool {
		_, ok := lib.Lookup("water")
		return ok
	}, 3*time.Second, 50*time.Millisecond, "overlay change should reload the library")
}

func TestWatcher_CloseStopsWatching(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compounds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compounds: []\n"), 0o644))

	lib := NewLibrary(nil)
	w, err := NewWatcher(lib, path, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}
