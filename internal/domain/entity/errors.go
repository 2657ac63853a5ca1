package entity

import (
	"errors"
	"fmt"
)

// ErrDecode байты не декодируются как JPEG/PNG.
var ErrDecode = errors.New("failed to decode image")

// DimensionMismatchError длина вектора не совпадает с размерностью обученной модели.
// Означает расхождение политики извлечения признаков и обучения, а не сбой запроса.
type DimensionMismatchError struct {
	Stage    string // scaler, classifier или artifacts
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: feature dimension mismatch: expected %d, got %d", e.Stage, e.Expected, e.Got)
}

// ArtifactLoadError не удалось загрузить артефакт модели при старте.
type ArtifactLoadError struct {
	Name string
	Err  error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("load artifact %q: %v", e.Name, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}
