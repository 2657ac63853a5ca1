package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	miniocredentials "github.com/minio/minio-go/v7/pkg/credentials"

	"fabric-inspector/internal/domain/port"
)

// MinioArtifactSource читает артефакты модели из бакета MinIO/S3
type MinioArtifactSource struct {
	client *minio.Client
	bucket string
}

// NewMinioArtifactSource подключается к MinIO со статическими ключами
func NewMinioArtifactSource(endpoint, accessKey, secretKey, bucket string, secure bool) (*MinioArtifactSource, error) {
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  miniocredentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating minio client: %w", err)
	}
	return &MinioArtifactSource{client: mc, bucket: bucket}, nil
}

// Open скачивает объект. Отсутствие объекта обнаруживается сразу, а не при первом чтении.
func (s *MinioArtifactSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("error getting %s/%s: %w", s.bucket, name, err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("artifact %s/%s does not exist", s.bucket, name)
		}
		return nil, fmt.Errorf("error reading %s/%s: %w", s.bucket, name, err)
	}
	return obj, nil
}

var _ port.ArtifactSource = (*MinioArtifactSource)(nil)
