// Package vision превращает загруженные снимки полотна во вход классификатора
// и в карту дефектов для оператора.
//
// Сборка с тегом gocv использует OpenCV и даёт векторы, совпадающие с теми,
// на которых обучалась модель. Без тега работает реализация на чистом Go.
package vision

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // регистрирует JPEG
	_ "image/png"  // регистрирует PNG

	"fabric-inspector/internal/domain/entity"
	"fabric-inspector/internal/domain/port"
)

// Параметры CLAHE по умолчанию.
const (
	DefaultClipLimit = 5.0
	DefaultTileGrid  = 8
)

// DefaultMaxPixels предельный размер растра до декодирования, 50 Мп.
const DefaultMaxPixels = 50_000_000

// FeatureExtractor приводит изображение к 300×300 и разворачивает в вектор B,G,R.
type FeatureExtractor struct {
	Width     int
	Height    int
	MaxPixels int // 0 означает DefaultMaxPixels
}

// NewFeatureExtractor создаёт экстрактор с геометрией, на которой обучалась модель.
func NewFeatureExtractor() *FeatureExtractor {
	return &FeatureExtractor{
		Width:  entity.FeatureWidth,
		Height: entity.FeatureHeight,
	}
}

// SpectralMapper строит псевдоцветную карту текстуры: серый -> CLAHE -> jet.
type SpectralMapper struct {
	ClipLimit float64
	TileGrid  int
	MaxPixels int // 0 означает DefaultMaxPixels
}

// NewSpectralMapper создаёт визуализатор. Нулевые параметры заменяются значениями по умолчанию.
func NewSpectralMapper(clipLimit float64, tileGrid int) *SpectralMapper {
	if clipLimit <= 0 {
		clipLimit = DefaultClipLimit
	}
	if tileGrid <= 0 {
		tileGrid = DefaultTileGrid
	}
	return &SpectralMapper{
		ClipLimit: clipLimit,
		TileGrid:  tileGrid,
	}
}

// checkRasterSize читает только заголовок и отклоняет растр больше maxPixels.
// Неизвестный заголовку формат пропускается: его оценит декодер.
func checkRasterSize(imageData []byte, maxPixels int) error {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return nil
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty raster", entity.ErrDecode)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return fmt.Errorf("%w: raster %dx%d exceeds %d pixels", entity.ErrDecode, cfg.Width, cfg.Height, maxPixels)
	}
	return nil
}

// Проверка реализации интерфейсов
var (
	_ port.FeatureExtractor = (*FeatureExtractor)(nil)
	_ port.Visualizer       = (*SpectralMapper)(nil)
)
