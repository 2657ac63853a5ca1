package app

import (
	"errors"

	"fabric-inspector/internal/domain/port"
)

// PipelineConfig конфигурация конвейера проверки. Собирается один раз при старте
// и дальше только читается, поэтому один экземпляр обслуживает параллельные запросы.
type PipelineConfig struct {
	Extractor  port.FeatureExtractor
	Scaler     port.Transformer
	Classifier port.Estimator
	Visualizer port.Visualizer
}

// Validate проверяет, что все звенья конвейера заданы.
func (c PipelineConfig) Validate() error {
	var errs []error
	if c.Extractor == nil {
		errs = append(errs, errors.New("feature extractor is not configured"))
	}
	if c.Scaler == nil {
		errs = append(errs, errors.New("scaler is not configured"))
	}
	if c.Classifier == nil {
		errs = append(errs, errors.New("classifier is not configured"))
	}
	if c.Visualizer == nil {
		errs = append(errs, errors.New("visualizer is not configured"))
	}
	return errors.Join(errs...)
}
