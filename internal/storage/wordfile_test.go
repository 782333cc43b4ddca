package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	f, err := NewWordFile(filepath.Join(t.TempDir(), "words.txt"))
	require.NoError(t, err)

	terms, err := f.Load()
	require.NoError(t, err)
	assert.Empty(t, terms)
	assert.False(t, f.Exists())
}

func TestLoadNormalizesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("  BadWord  \n\nslur\n   \nSLUR\n"), 0644))

	f, err := NewWordFile(path)
	require.NoError(t, err)

	terms, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"badword", "slur", "slur"}, terms)
}

func TestAppendCreatesAndDedupes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	f, err := NewWordFile(path)
	require.NoError(t, err)

	require.NoError(t, f.Append("First"))
	require.NoError(t, f.Append("second"))
	require.NoError(t, f.Append("FIRST"))

	terms, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, terms)
	assert.True(t, f.Exists())

	// No temp file left behind after the atomic rename.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestAppendRejectsEmptyTerm(t *testing.T) {
	f, err := NewWordFile(filepath.Join(t.TempDir(), "words.txt"))
	require.NoError(t, err)

	assert.Error(t, f.Append("   "))
}

func TestNewWordFileCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "words.txt")
	f, err := NewWordFile(path)
	require.NoError(t, err)

	require.NoError(t, f.Append("term"))
	terms, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"term"}, terms)
}
