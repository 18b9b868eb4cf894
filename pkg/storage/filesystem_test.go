package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveDoesNotOverwrite(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save("report.pdf", []byte("one"))
	require.NoError(t, err)
	second, err := store.Save("report.pdf", []byte("two"))
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", first)
	assert.Equal(t, "report (1).pdf", second)

	f, err := store.Open(second)
	require.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "two", string(content))
}

func TestSaveKeepsFilesInsideBaseDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	name, err := store.Save("../../etc/passwd", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "passwd", name)
	_, err = os.Stat(filepath.Join(dir, "passwd"))
	assert.NoError(t, err)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Delete("nothing.txt"))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "b.txt", SanitizeName(`a\b.txt`))
	assert.Equal(t, "what_.txt", SanitizeName("what?.txt"))
	assert.Equal(t, "download", SanitizeName(".."))
	assert.Equal(t, "download", SanitizeName(""))
}
