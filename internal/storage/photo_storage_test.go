package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal valid PNG header plus a little body.
func pngBytes() []byte {
	header := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	return append(header, bytes.Repeat([]byte{0}, 300)...)
}

func TestSaveAcceptsImage(t *testing.T) {
	root := t.TempDir()
	s, err := NewPhotoStorage(root, 1)
	require.NoError(t, err)

	id := uuid.New()
	rel, size, err := s.Save(context.Background(), id, "foto.png", bytes.NewReader(pngBytes()))
	require.NoError(t, err)
	assert.Equal(t, int64(308), size)
	assert.Contains(t, rel, id.String())

	info, err := os.Stat(filepath.Join(root, rel))
	require.NoError(t, err)
	assert.Equal(t, int64(308), info.Size())
}

func TestSaveRejectsNonImage(t *testing.T) {
	s, err := NewPhotoStorage(t.TempDir(), 1)
	require.NoError(t, err)

	_, _, err = s.Save(context.Background(), uuid.New(), "notes.txt", bytes.NewReader([]byte("plain text, not a photo")))
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	root := t.TempDir()
	s, err := NewPhotoStorage(root, 0)
	require.NoError(t, err)

	_, _, err = s.Save(context.Background(), uuid.New(), "foto.png", bytes.NewReader(pngBytes()))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		sub, err := os.ReadDir(filepath.Join(root, e.Name()))
		require.NoError(t, err)
		assert.Empty(t, sub, "oversized upload must leave no file behind")
	}
}

func TestDeleteMissingFileIsNoError(t *testing.T) {
	s, err := NewPhotoStorage(t.TempDir(), 1)
	require.NoError(t, err)

	assert.NoError(t, s.Delete(context.Background(), "nope/missing.png"))
}
