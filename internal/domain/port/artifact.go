package port

import (
	"context"
	"io"
)

// ArtifactSource хранилище сериализованных артефактов модели
type ArtifactSource interface {
	// Open открывает артефакт по имени. Вызывающий закрывает reader.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
