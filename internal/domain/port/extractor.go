package port

import (
	"context"

	"fabric-inspector/internal/domain/entity"
)

// FeatureExtractor интерфейс извлечения признаков из изображения
type FeatureExtractor interface {
	// Extract декодирует изображение, приводит его к фиксированному размеру и разворачивает в вектор
	Extract(ctx context.Context, imageData []byte) (entity.FeatureVector, error)
}
