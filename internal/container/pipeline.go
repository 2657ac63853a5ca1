package container

import (
	"context"

	app "fabric-inspector/internal/application"
	"fabric-inspector/internal/domain/entity"
	"fabric-inspector/internal/domain/port"
	"fabric-inspector/internal/infrastructure/model"
	"fabric-inspector/internal/infrastructure/vision"
)

// PipelineOptions имена артефактов и параметры визуализации.
type PipelineOptions struct {
	ScalerArtifact     string
	ClassifierArtifact string
	ClipLimit          float64
	TileGrid           int
}

// LoadPipeline загружает scaler и классификатор и собирает конвейер.
// Ошибка загрузки всегда *entity.ArtifactLoadError; без обоих артефактов сервис не стартует.
func LoadPipeline(ctx context.Context, src port.ArtifactSource, opts PipelineOptions) (app.PipelineConfig, error) {
	bundle, err := model.LoadBundle(ctx, src, opts.ScalerArtifact, opts.ClassifierArtifact, entity.FeatureLength)
	if err != nil {
		return app.PipelineConfig{}, err
	}

	return app.PipelineConfig{
		Extractor:  vision.NewFeatureExtractor(),
		Scaler:     bundle.Scaler,
		Classifier: bundle.Classifier,
		Visualizer: vision.NewSpectralMapper(opts.ClipLimit, opts.TileGrid),
	}, nil
}
