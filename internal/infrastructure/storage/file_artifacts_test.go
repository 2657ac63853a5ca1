package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileArtifactSource_Open(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image_vect.gob"), []byte("payload"), 0o644))
	src := NewFileArtifactSource(dir)

	rc, err := src.Open(context.Background(), "image_vect.gob")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))
}

func TestFileArtifactSource_RejectsMissingAndEscapingNames(t *testing.T) {
	src := NewFileArtifactSource(t.TempDir())
	ctx := context.Background()

	_, err := src.Open(ctx, "absent.gob")
	require.ErrorIs(t, err, os.ErrNotExist)

	for _, name := range []string{"", "../secret.gob", "sub/dir.gob"} {
		_, err := src.Open(ctx, name)
		require.Error(t, err, name)
	}
}
