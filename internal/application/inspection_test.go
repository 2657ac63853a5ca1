package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"fabric-inspector/internal/domain/entity"
	"fabric-inspector/internal/infrastructure/model"
	"fabric-inspector/internal/infrastructure/storage"
	"fabric-inspector/internal/infrastructure/vision"
)

type fixedExtractor struct {
	features entity.FeatureVector
}

func (e fixedExtractor) Extract(ctx context.Context, imageData []byte) (entity.FeatureVector, error) {
	return append(entity.FeatureVector(nil), e.features...), nil
}

type blankVisualizer struct{}

func (blankVisualizer) Enhance(ctx context.Context, imageData []byte) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 16, 9)), nil
}

type plainEstimator struct {
	label entity.Label
}

func (e plainEstimator) Predict(v entity.FeatureVector) (entity.Label, error) {
	return e.label, nil
}

type recordingMetrics struct {
	passed []bool
	errors []string
}

func (m *recordingMetrics) ObserveInspection(passed bool, elapsed time.Duration) {
	m.passed = append(m.passed, passed)
}

func (m *recordingMetrics) ObserveError(kind string) {
	m.errors = append(m.errors, kind)
}

func identityScaler(t *testing.T, dims int) *model.StandardScaler {
	t.Helper()
	mean := make([]float64, dims)
	scale := make([]float64, dims)
	for i := range scale {
		scale[i] = 1
	}
	s, err := model.NewStandardScaler(mean, scale, true, true)
	require.NoError(t, err)
	return s
}

func tinyClassifier(t *testing.T) *model.KNeighborsClassifier {
	t.Helper()
	samples := mat.NewDense(3, 2, []float64{0, 0, 5, 5, 6, 6})
	c, err := model.NewKNeighborsClassifier(samples, []entity.Label{"Defect Free", "hole", "hole"}, 1, model.WeightsUniform, 2)
	require.NoError(t, err)
	return c
}

func TestInspectionService_Analyze(t *testing.T) {
	journal := storage.NewMemoryJournal(10)
	metrics := &recordingMetrics{}
	svc := NewInspectionService(PipelineConfig{
		Extractor:  fixedExtractor{features: entity.FeatureVector{5.5, 5.2}},
		Scaler:     identityScaler(t, 2),
		Classifier: tinyClassifier(t),
		Visualizer: blankVisualizer{},
	}, journal, metrics)

	out, err := svc.Analyze(context.Background(), entity.SourceREST, []byte("bytes are not inspected by the fake"))
	require.NoError(t, err)
	require.False(t, out.Result.Verdict.Passed)
	require.Equal(t, "HOLE", out.Result.Verdict.AnomalyType())
	require.Equal(t, 1.0, out.Result.Confidence)
	require.Equal(t, 16, out.Result.ImageWidth)
	require.Equal(t, 9, out.Result.ImageHeight)
	require.NotEmpty(t, out.Result.RequestID)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out.DefectMap))
	require.NoError(t, err)
	require.Equal(t, 16, cfg.Width)

	records, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, out.Result.RequestID, records[0].ID)
	require.Equal(t, entity.SourceREST, records[0].Source)
	require.Equal(t, []bool{false}, metrics.passed)
}

func TestInspectionService_RequestIDsAreUnique(t *testing.T) {
	svc := NewInspectionService(PipelineConfig{
		Extractor:  fixedExtractor{features: entity.FeatureVector{0, 0}},
		Scaler:     identityScaler(t, 2),
		Classifier: tinyClassifier(t),
		Visualizer: blankVisualizer{},
	}, nil, nil)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		out, err := svc.Analyze(context.Background(), entity.SourceCLI, nil)
		require.NoError(t, err)
		require.True(t, out.Result.Verdict.Passed)
		require.False(t, seen[out.Result.RequestID])
		seen[out.Result.RequestID] = true
	}
}

func TestInspectionService_PlainEstimatorHasFullConfidence(t *testing.T) {
	svc := NewInspectionService(PipelineConfig{
		Extractor:  fixedExtractor{features: entity.FeatureVector{1}},
		Scaler:     identityScaler(t, 1),
		Classifier: plainEstimator{label: "DEFECT FREE"},
		Visualizer: blankVisualizer{},
	}, nil, nil)

	out, err := svc.Analyze(context.Background(), entity.SourceCLI, nil)
	require.NoError(t, err)
	require.True(t, out.Result.Verdict.Passed)
	require.Equal(t, 1.0, out.Result.Confidence)
}

func TestInspectionService_DimensionMismatch(t *testing.T) {
	journal := storage.NewMemoryJournal(10)
	metrics := &recordingMetrics{}
	svc := NewInspectionService(PipelineConfig{
		Extractor:  fixedExtractor{features: entity.FeatureVector{1, 2, 3}},
		Scaler:     identityScaler(t, 2),
		Classifier: tinyClassifier(t),
		Visualizer: blankVisualizer{},
	}, journal, metrics)

	out, err := svc.Analyze(context.Background(), entity.SourceTelegram, nil)
	require.Nil(t, out)
	var dimErr *entity.DimensionMismatchError
	require.True(t, errors.As(err, &dimErr))
	require.Equal(t, []string{ErrorKindDimension}, metrics.errors)

	records, err := journal.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestInspectionService_MalformedImageNeverYieldsLabel(t *testing.T) {
	metrics := &recordingMetrics{}
	svc := NewInspectionService(PipelineConfig{
		Extractor:  vision.NewFeatureExtractor(),
		Scaler:     identityScaler(t, entity.FeatureLength),
		Classifier: plainEstimator{label: entity.DefectFree},
		Visualizer: vision.NewSpectralMapper(0, 0),
	}, nil, metrics)

	for _, data := range [][]byte{nil, []byte("JFIF? no, just a renamed text file")} {
		out, err := svc.Analyze(context.Background(), entity.SourceREST, data)
		require.ErrorIs(t, err, entity.ErrDecode)
		require.Nil(t, out)
	}
	require.Equal(t, []string{ErrorKindDecode, ErrorKindDecode}, metrics.errors)
}

func TestInspectionService_UnconfiguredPipeline(t *testing.T) {
	svc := NewInspectionService(PipelineConfig{Extractor: vision.NewFeatureExtractor()}, nil, nil)
	_, err := svc.Analyze(context.Background(), entity.SourceCLI, nil)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "classifier is not configured"))
}

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// frozenModel эталонная модель на полном размере признаков: светлое полотно годно, тёмное с дефектом.
// Эталоны хранятся уже нормализованными, как после обучения.
func frozenModel(t *testing.T) (*model.StandardScaler, *model.KNeighborsClassifier) {
	t.Helper()
	const mean, std = 125.0, 60.0

	means := make([]float64, entity.FeatureLength)
	scales := make([]float64, entity.FeatureLength)
	refs := make([]float64, 2*entity.FeatureLength)
	for i := 0; i < entity.FeatureLength; i++ {
		means[i] = mean
		scales[i] = std
		refs[i] = (230 - mean) / std
		refs[entity.FeatureLength+i] = (20 - mean) / std
	}

	scaler, err := model.NewStandardScaler(means, scales, true, true)
	require.NoError(t, err)
	samples := mat.NewDense(2, entity.FeatureLength, refs)
	classifier, err := model.NewKNeighborsClassifier(samples, []entity.Label{"Defect Free", "hole"}, 1, model.WeightsUniform, 2)
	require.NoError(t, err)
	return scaler, classifier
}

func TestInspectionService_EndToEndWithFrozenModel(t *testing.T) {
	scaler, classifier := frozenModel(t)
	svc := NewInspectionService(PipelineConfig{
		Extractor:  vision.NewFeatureExtractor(),
		Scaler:     scaler,
		Classifier: classifier,
		Visualizer: vision.NewSpectralMapper(vision.DefaultClipLimit, vision.DefaultTileGrid),
	}, storage.NewMemoryJournal(0), nil)
	ctx := context.Background()

	out, err := svc.Analyze(ctx, entity.SourceCLI, solidPNG(t, 640, 427, color.RGBA{R: 235, G: 228, B: 220, A: 255}))
	require.NoError(t, err)
	require.True(t, strings.EqualFold(string(out.Result.Verdict.Label), "defect free"))
	require.True(t, out.Result.Verdict.Passed)
	require.Equal(t, 640, out.Result.ImageWidth)
	require.Equal(t, 427, out.Result.ImageHeight)

	out, err = svc.Analyze(ctx, entity.SourceCLI, solidPNG(t, 300, 300, color.RGBA{R: 15, G: 25, B: 18, A: 255}))
	require.NoError(t, err)
	require.False(t, out.Result.Verdict.Passed)
	require.Equal(t, "HOLE", out.Result.Verdict.AnomalyType())
}
