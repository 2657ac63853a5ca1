package entity

// Геометрия вектора признаков. Должна совпадать с той, на которой обучались scaler и классификатор.
const (
	FeatureWidth    = 300
	FeatureHeight   = 300
	FeatureChannels = 3
	FeatureLength   = FeatureWidth * FeatureHeight * FeatureChannels
)

// FeatureVector плоский вектор интенсивностей пикселей: строки сверху вниз, каналы B,G,R подряд.
type FeatureVector []float64
