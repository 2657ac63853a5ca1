package container

import (
	"fabric-inspector/config"
	"fabric-inspector/internal/domain/port"
	"fabric-inspector/internal/infrastructure/storage"
)

// NewArtifactSource выбирает источник артефактов: MinIO, если задан endpoint, иначе локальный каталог.
func NewArtifactSource(cfg *config.Config) (port.ArtifactSource, error) {
	if cfg.MinioEndpoint != "" {
		src, err := storage.NewMinioArtifactSource(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioSecure)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return storage.NewFileArtifactSource(cfg.ArtifactDir), nil
}

// PipelineOptionsFrom переносит параметры конвейера из конфигурации.
func PipelineOptionsFrom(cfg *config.Config) PipelineOptions {
	return PipelineOptions{
		ScalerArtifact:     cfg.ScalerArtifact,
		ClassifierArtifact: cfg.ClassifierArtifact,
		ClipLimit:          cfg.ClaheClipLimit,
		TileGrid:           cfg.ClaheTileGrid,
	}
}
