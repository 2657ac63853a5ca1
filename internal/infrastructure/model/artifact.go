package model

import (
	"context"
	"encoding/gob"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"fabric-inspector/internal/domain/entity"
	"fabric-inspector/internal/domain/port"
)

// artifactVersion версия формата gob-артефактов. Меняется при несовместимых изменениях полей.
const artifactVersion = 1

const (
	kindScaler     = "standard_scaler"
	kindClassifier = "kneighbors_classifier"
)

type scalerArtifact struct {
	Kind     string
	Version  int
	Mean     []float64
	Scale    []float64
	WithMean bool
	WithStd  bool
}

type classifierArtifact struct {
	Kind    string
	Version int
	K       int
	Weights string
	P       float64
	Samples *mat.Dense
	Labels  []string
}

// WriteScaler сериализует scaler.
func WriteScaler(w io.Writer, s *StandardScaler) error {
	return gob.NewEncoder(w).Encode(scalerArtifact{
		Kind:     kindScaler,
		Version:  artifactVersion,
		Mean:     s.mean,
		Scale:    s.scale,
		WithMean: s.withMean,
		WithStd:  s.withStd,
	})
}

// ReadScaler читает scaler, записанный WriteScaler.
func ReadScaler(r io.Reader) (*StandardScaler, error) {
	var a scalerArtifact
	if err := gob.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("failed to decode gob: %w", err)
	}
	if a.Kind != kindScaler {
		return nil, fmt.Errorf("artifact kind %q is not a scaler", a.Kind)
	}
	if a.Version != artifactVersion {
		return nil, fmt.Errorf("unsupported scaler version %d", a.Version)
	}
	return NewStandardScaler(a.Mean, a.Scale, a.WithMean, a.WithStd)
}

// WriteClassifier сериализует классификатор.
func WriteClassifier(w io.Writer, c *KNeighborsClassifier) error {
	labels := make([]string, len(c.labels))
	for i, l := range c.labels {
		labels[i] = string(l)
	}
	return gob.NewEncoder(w).Encode(classifierArtifact{
		Kind:    kindClassifier,
		Version: artifactVersion,
		K:       c.k,
		Weights: c.weights,
		P:       c.p,
		Samples: c.samples,
		Labels:  labels,
	})
}

// ReadClassifier читает классификатор, записанный WriteClassifier.
func ReadClassifier(r io.Reader) (*KNeighborsClassifier, error) {
	var a classifierArtifact
	if err := gob.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("failed to decode gob: %w", err)
	}
	if a.Kind != kindClassifier {
		return nil, fmt.Errorf("artifact kind %q is not a classifier", a.Kind)
	}
	if a.Version != artifactVersion {
		return nil, fmt.Errorf("unsupported classifier version %d", a.Version)
	}
	labels := make([]entity.Label, len(a.Labels))
	for i, l := range a.Labels {
		labels[i] = entity.Label(l)
	}
	return NewKNeighborsClassifier(a.Samples, labels, a.K, a.Weights, a.P)
}

// LoadScaler загружает scaler из источника артефактов.
func LoadScaler(ctx context.Context, src port.ArtifactSource, name string) (*StandardScaler, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, &entity.ArtifactLoadError{Name: name, Err: err}
	}
	defer rc.Close()

	s, err := ReadScaler(rc)
	if err != nil {
		return nil, &entity.ArtifactLoadError{Name: name, Err: err}
	}
	return s, nil
}

// LoadClassifier загружает классификатор из источника артефактов.
func LoadClassifier(ctx context.Context, src port.ArtifactSource, name string) (*KNeighborsClassifier, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, &entity.ArtifactLoadError{Name: name, Err: err}
	}
	defer rc.Close()

	c, err := ReadClassifier(rc)
	if err != nil {
		return nil, &entity.ArtifactLoadError{Name: name, Err: err}
	}
	return c, nil
}

// Bundle пара согласованных артефактов.
type Bundle struct {
	Scaler     *StandardScaler
	Classifier *KNeighborsClassifier
}

// LoadBundle загружает оба артефакта и проверяет, что их размерность равна dims.
func LoadBundle(ctx context.Context, src port.ArtifactSource, scalerName, classifierName string, dims int) (*Bundle, error) {
	scaler, err := LoadScaler(ctx, src, scalerName)
	if err != nil {
		return nil, err
	}
	if scaler.Dims() != dims {
		return nil, &entity.ArtifactLoadError{
			Name: scalerName,
			Err:  &entity.DimensionMismatchError{Stage: "artifacts", Expected: dims, Got: scaler.Dims()},
		}
	}

	classifier, err := LoadClassifier(ctx, src, classifierName)
	if err != nil {
		return nil, err
	}
	if classifier.Dims() != dims {
		return nil, &entity.ArtifactLoadError{
			Name: classifierName,
			Err:  &entity.DimensionMismatchError{Stage: "artifacts", Expected: dims, Got: classifier.Dims()},
		}
	}

	return &Bundle{Scaler: scaler, Classifier: classifier}, nil
}
