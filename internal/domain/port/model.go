package port

import "fabric-inspector/internal/domain/entity"

// Transformer обученный нормализатор признаков. Только чтение после загрузки.
type Transformer interface {
	Transform(v entity.FeatureVector) (entity.FeatureVector, error)
}

// Estimator обученный классификатор. Только чтение после загрузки.
type Estimator interface {
	Predict(v entity.FeatureVector) (entity.Label, error)
}

// ConfidenceEstimator классификатор, который умеет оценить долю голосов за метку.
type ConfidenceEstimator interface {
	Estimator
	PredictWithConfidence(v entity.FeatureVector) (entity.Label, float64, error)
}
