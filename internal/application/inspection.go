package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"log/slog"
	"time"

	"github.com/gofrs/uuid"

	"fabric-inspector/internal/domain/entity"
	"fabric-inspector/internal/domain/port"
)

// Виды ошибок для метрик.
const (
	ErrorKindDecode    = "decode"
	ErrorKindDimension = "dimension"
	ErrorKindInternal  = "internal"
)

// DefectMapQuality качество JPEG карты дефектов.
const DefectMapQuality = 90

type InspectionService struct {
	pipeline PipelineConfig
	journal  port.InspectionJournal
	metrics  port.InspectionMetrics
	now      func() time.Time
}

// InspectionOutput содержит вердикт и карту дефектов в JPEG.
type InspectionOutput struct {
	Result    *entity.InspectionResult
	DefectMap []byte
}

// NewInspectionService создаёт сервис проверки полотна. journal и metrics необязательны.
func NewInspectionService(pipeline PipelineConfig, journal port.InspectionJournal, metrics port.InspectionMetrics) *InspectionService {
	return &InspectionService{
		pipeline: pipeline,
		journal:  journal,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Analyze прогоняет изображение через конвейер: признаки -> нормализация -> классификация,
// и независимо строит карту дефектов. Байты не пишутся на диск.
func (s *InspectionService) Analyze(ctx context.Context, source entity.InspectionSource, imageData []byte) (*InspectionOutput, error) {
	if err := s.pipeline.Validate(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("generate request id: %w", err)
	}
	requestID := id.String()
	log := slog.With("request_id", requestID, "source", source)
	start := s.now()

	output, err := s.run(ctx, requestID, imageData)
	if err != nil {
		kind := errorKind(err)
		if kind == ErrorKindDimension {
			log.Error("feature dimension does not match loaded artifacts, check extraction policy against training", "err", err)
		} else {
			log.Warn("inspection failed", "kind", kind, "err", err)
		}
		if s.metrics != nil {
			s.metrics.ObserveError(kind)
		}
		return nil, err
	}

	elapsed := s.now().Sub(start)
	result := output.Result
	log.Info("inspection done",
		"label", result.Verdict.Label,
		"passed", result.Verdict.Passed,
		"confidence", result.Confidence,
		"elapsed", elapsed)

	if s.metrics != nil {
		s.metrics.ObserveInspection(result.Verdict.Passed, elapsed)
	}
	if s.journal != nil {
		if err := s.journal.Append(ctx, entity.NewInspectionRecord(source, result, start)); err != nil {
			log.Error("failed to append inspection to journal", "err", err)
		}
	}

	return output, nil
}

func (s *InspectionService) run(ctx context.Context, requestID string, imageData []byte) (*InspectionOutput, error) {
	features, err := s.pipeline.Extractor.Extract(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}

	scaled, err := s.pipeline.Scaler.Transform(features)
	if err != nil {
		return nil, fmt.Errorf("scale features: %w", err)
	}

	label, confidence, err := s.predict(scaled)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	defectMap, err := s.pipeline.Visualizer.Enhance(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("build defect map: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, defectMap, &jpeg.Options{Quality: DefectMapQuality}); err != nil {
		return nil, fmt.Errorf("encode defect map: %w", err)
	}

	bounds := defectMap.Bounds()
	return &InspectionOutput{
		Result: &entity.InspectionResult{
			RequestID:   requestID,
			Verdict:     entity.NewVerdict(label),
			Confidence:  confidence,
			ImageWidth:  bounds.Dx(),
			ImageHeight: bounds.Dy(),
		},
		DefectMap: buf.Bytes(),
	}, nil
}

func (s *InspectionService) predict(v entity.FeatureVector) (entity.Label, float64, error) {
	if ce, ok := s.pipeline.Classifier.(port.ConfidenceEstimator); ok {
		return ce.PredictWithConfidence(v)
	}
	label, err := s.pipeline.Classifier.Predict(v)
	return label, 1, err
}

// Recent возвращает последние записи журнала.
func (s *InspectionService) Recent(ctx context.Context, limit int) ([]entity.InspectionRecord, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.Recent(ctx, limit)
}

func errorKind(err error) string {
	var dimErr *entity.DimensionMismatchError
	switch {
	case errors.Is(err, entity.ErrDecode):
		return ErrorKindDecode
	case errors.As(err, &dimErr):
		return ErrorKindDimension
	default:
		return ErrorKindInternal
	}
}
