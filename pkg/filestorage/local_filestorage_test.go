package filestorage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveGeneratesRandomName(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	blobPath, err := storage.Save(strings.NewReader("payload"), "report.pdf", "files")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(blobPath, "files/"))
	assert.True(t, strings.HasSuffix(blobPath, ".pdf"))
	assert.NotContains(t, blobPath, "report")

	reader, err := storage.Open(blobPath)
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))
}

func TestSaveTwoUploadsNeverCollide(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	first, err := storage.Save(strings.NewReader("a"), "same.txt", "files")
	require.NoError(t, err)
	second, err := storage.Save(strings.NewReader("b"), "same.txt", "files")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSaveHostileFileName(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	blobPath, err := storage.Save(strings.NewReader("x"), "../../etc/passwd", "files")
	require.NoError(t, err)
	assert.NotContains(t, blobPath, "..")

	reader, err := storage.Open(blobPath)
	require.NoError(t, err)
	reader.Close()
}

func TestOpenRejectsPathEscape(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = storage.Open("../outside.txt")
	assert.Error(t, err)
}

func TestDeleteMissingBlobSucceeds(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, storage.Delete("files/2026/01/01/gone.bin"))
}

func TestDeleteRemovesBlob(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	blobPath, err := storage.Save(strings.NewReader("x"), "a.bin", "files")
	require.NoError(t, err)

	require.NoError(t, storage.Delete(blobPath))
	_, err = storage.Open(blobPath)
	assert.Error(t, err)
}

func TestSanitizeExtension(t *testing.T) {
	cases := []struct {
		name     string
		expected string
	}{
		{"report.pdf", ".pdf"},
		{"archive.tar.gz", ".gz"},
		{"no-extension", ""},
		{"trailing.", ""},
		{"weird.p d!f", ".pdf"},
		{"../../escape.sh", ".sh"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, SanitizeExtension(tc.name), "input %q", tc.name)
	}
}
