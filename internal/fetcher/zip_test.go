package fetcher

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExtractZIP(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"roster.csv":       "person_id,full_name\np1,Alex Chen\n",
		"extra/notes.json": "[]",
	})

	dest := t.TempDir()
	extracted, err := ExtractZIP(path, dest)
	require.NoError(t, err)
	require.Len(t, extracted, 2)

	data, err := os.ReadFile(filepath.Join(dest, "roster.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Alex Chen")

	_, err = os.Stat(filepath.Join(dest, "extra", "notes.json"))
	assert.NoError(t, err)
}

func TestExtractZIPRejectsEscapingEntry(t *testing.T) {
	path := writeArchive(t, map[string]string{"../evil.csv": "p1"})

	_, err := ExtractZIP(path, t.TempDir())
	assert.ErrorContains(t, err, "escapes destination")
}

func TestExtractZIPMissingArchive(t *testing.T) {
	_, err := ExtractZIP(filepath.Join(t.TempDir(), "nope.zip"), t.TempDir())
	assert.ErrorContains(t, err, "open")
}
