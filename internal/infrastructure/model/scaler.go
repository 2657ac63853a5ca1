package model

import (
	"errors"

	"gonum.org/v1/gonum/floats"

	"fabric-inspector/internal/domain/entity"
	"fabric-inspector/internal/domain/port"
)

// StandardScaler покомпонентная стандартизация (x - mean) / scale.
// После загрузки не изменяется и безопасен для параллельного использования.
type StandardScaler struct {
	mean     []float64
	scale    []float64
	withMean bool
	withStd  bool
}

// NewStandardScaler создаёт scaler из обученных параметров.
// Нулевой масштаб заменяется единицей, как это делает обучающая сторона.
func NewStandardScaler(mean, scale []float64, withMean, withStd bool) (*StandardScaler, error) {
	if !withMean && !withStd {
		return nil, errors.New("scaler: neither centering nor scaling is enabled")
	}
	if withMean && len(mean) == 0 {
		return nil, errors.New("scaler: mean is required")
	}
	if withStd && len(scale) == 0 {
		return nil, errors.New("scaler: scale is required")
	}
	if withMean && withStd && len(mean) != len(scale) {
		return nil, &entity.DimensionMismatchError{Stage: "scaler", Expected: len(mean), Got: len(scale)}
	}

	s := &StandardScaler{withMean: withMean, withStd: withStd}
	if withMean {
		s.mean = append([]float64(nil), mean...)
	}
	if withStd {
		s.scale = make([]float64, len(scale))
		for i, v := range scale {
			if v == 0 {
				v = 1
			}
			s.scale[i] = v
		}
	}
	return s, nil
}

// Dims возвращает размерность, на которой обучен scaler.
func (s *StandardScaler) Dims() int {
	if s.withMean {
		return len(s.mean)
	}
	return len(s.scale)
}

// Transform нормализует один вектор. Входной вектор не изменяется.
func (s *StandardScaler) Transform(v entity.FeatureVector) (entity.FeatureVector, error) {
	if len(v) != s.Dims() {
		return nil, &entity.DimensionMismatchError{Stage: "scaler", Expected: s.Dims(), Got: len(v)}
	}

	out := make(entity.FeatureVector, len(v))
	copy(out, v)
	if s.withMean {
		floats.Sub(out, s.mean)
	}
	if s.withStd {
		floats.Div(out, s.scale)
	}
	return out, nil
}

// TransformBatch нормализует пачку векторов.
func (s *StandardScaler) TransformBatch(vs []entity.FeatureVector) ([]entity.FeatureVector, error) {
	out := make([]entity.FeatureVector, len(vs))
	for i, v := range vs {
		scaled, err := s.Transform(v)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}

var _ port.Transformer = (*StandardScaler)(nil)
