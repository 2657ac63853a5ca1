package model

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"fabric-inspector/internal/domain/entity"
	"fabric-inspector/internal/domain/port"
)

// Способы взвешивания голосов соседей.
const (
	WeightsUniform  = "uniform"
	WeightsDistance = "distance"
)

// Neighbor один из ближайших эталонов.
type Neighbor struct {
	Index    int
	Distance float64
	Label    entity.Label
}

// KNeighborsClassifier классификатор k ближайших соседей над фиксированным набором эталонов.
//
// Порядок соседей: по расстоянию, при равенстве по индексу эталона.
// Равенство голосов решается в пользу лексикографически меньшей метки.
type KNeighborsClassifier struct {
	samples *mat.Dense
	labels  []entity.Label
	k       int
	weights string
	p       float64
}

// NewKNeighborsClassifier создаёт классификатор. Строки samples соответствуют labels.
func NewKNeighborsClassifier(samples *mat.Dense, labels []entity.Label, k int, weights string, p float64) (*KNeighborsClassifier, error) {
	if samples == nil {
		return nil, errors.New("knn: empty reference set")
	}
	rows, _ := samples.Dims()
	if rows != len(labels) {
		return nil, fmt.Errorf("knn: %d samples but %d labels", rows, len(labels))
	}
	if k < 1 {
		return nil, fmt.Errorf("knn: invalid k=%d", k)
	}
	if k > rows {
		k = rows
	}
	switch weights {
	case "":
		weights = WeightsUniform
	case WeightsUniform, WeightsDistance:
	default:
		return nil, fmt.Errorf("knn: unknown weights %q", weights)
	}
	if p == 0 {
		p = 2
	}
	if p < 1 && !math.IsInf(p, 1) {
		return nil, fmt.Errorf("knn: invalid minkowski power %v", p)
	}

	return &KNeighborsClassifier{
		samples: samples,
		labels:  append([]entity.Label(nil), labels...),
		k:       k,
		weights: weights,
		p:       p,
	}, nil
}

// Dims возвращает размерность эталонов.
func (c *KNeighborsClassifier) Dims() int {
	_, cols := c.samples.Dims()
	return cols
}

// Neighbors возвращает k ближайших эталонов.
func (c *KNeighborsClassifier) Neighbors(v entity.FeatureVector, k int) ([]Neighbor, error) {
	if k < 1 {
		return nil, fmt.Errorf("knn: invalid k=%d", k)
	}
	if len(v) != c.Dims() {
		return nil, &entity.DimensionMismatchError{Stage: "classifier", Expected: c.Dims(), Got: len(v)}
	}

	rows, _ := c.samples.Dims()
	all := make([]Neighbor, rows)
	for i := 0; i < rows; i++ {
		all[i] = Neighbor{
			Index:    i,
			Distance: floats.Distance(c.samples.RawRowView(i), v, c.p),
			Label:    c.labels[i],
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Distance < all[j].Distance
	})

	if k > rows {
		k = rows
	}
	return all[:k], nil
}

// Predict возвращает метку по голосованию k ближайших соседей.
func (c *KNeighborsClassifier) Predict(v entity.FeatureVector) (entity.Label, error) {
	label, _, err := c.PredictWithConfidence(v)
	return label, err
}

// PredictWithConfidence возвращает метку и долю веса голосов за неё.
func (c *KNeighborsClassifier) PredictWithConfidence(v entity.FeatureVector) (entity.Label, float64, error) {
	neighbors, err := c.Neighbors(v, c.k)
	if err != nil {
		return "", 0, err
	}

	votes := make(map[entity.Label]float64, len(neighbors))
	if c.weights == WeightsDistance && hasExactMatch(neighbors) {
		// Точные совпадения забирают весь вес.
		for _, n := range neighbors {
			if n.Distance == 0 {
				votes[n.Label]++
			}
		}
	} else {
		for _, n := range neighbors {
			w := 1.0
			if c.weights == WeightsDistance {
				w = 1 / n.Distance
			}
			votes[n.Label] += w
		}
	}

	labels := make([]entity.Label, 0, len(votes))
	total := 0.0
	for l, w := range votes {
		labels = append(labels, l)
		total += w
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	best := labels[0]
	for _, l := range labels[1:] {
		if votes[l] > votes[best] {
			best = l
		}
	}
	return best, votes[best] / total, nil
}

func hasExactMatch(neighbors []Neighbor) bool {
	for _, n := range neighbors {
		if n.Distance == 0 {
			return true
		}
	}
	return false
}

var _ port.ConfidenceEstimator = (*KNeighborsClassifier)(nil)
