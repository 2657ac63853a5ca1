package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fabric-inspector/internal/domain/port"
)

// FileArtifactSource читает артефакты модели из локального каталога
type FileArtifactSource struct {
	Dir string
}

// NewFileArtifactSource создаёт источник артефактов в каталоге dir
func NewFileArtifactSource(dir string) *FileArtifactSource {
	return &FileArtifactSource{Dir: dir}
}

// Open открывает файл артефакта. Имя не может выходить за пределы каталога.
func (s *FileArtifactSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	_ = ctx
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("invalid artifact name %q", name)
	}
	f, err := os.Open(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	return f, nil
}

var _ port.ArtifactSource = (*FileArtifactSource)(nil)
