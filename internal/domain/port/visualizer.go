package port

import (
	"context"
	"image"
)

// Visualizer интерфейс построения карты дефектов для оператора
type Visualizer interface {
	// Enhance строит псевдоцветное изображение того же размера, что и исходное
	Enhance(ctx context.Context, imageData []byte) (image.Image, error)
}
