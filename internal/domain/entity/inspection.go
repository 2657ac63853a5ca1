package entity

import "time"

// InspectionSource канал, через который пришло изображение.
type InspectionSource string

const (
	SourceTelegram InspectionSource = "telegram"
	SourceREST     InspectionSource = "rest"
	SourceCLI      InspectionSource = "cli"
)

// InspectionResult хранит итог анализа изображения.
type InspectionResult struct {
	RequestID   string  // уникальный идентификатор запроса
	Verdict     Verdict // метка и решение годно/брак
	Confidence  float64 // доля голосов соседей за метку, 0..1
	ImageWidth  int     // ширина исходного изображения
	ImageHeight int     // высота исходного изображения
}

// InspectionRecord запись журнала проверок. Само изображение не сохраняется.
type InspectionRecord struct {
	ID         string           `json:"id"`
	Source     InspectionSource `json:"source"`
	Label      Label            `json:"label"`
	Passed     bool             `json:"passed"`
	Confidence float64          `json:"confidence"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	CreatedAt  time.Time        `json:"created_at"`
}

// NewInspectionRecord собирает запись журнала из результата проверки.
func NewInspectionRecord(source InspectionSource, result *InspectionResult, at time.Time) InspectionRecord {
	return InspectionRecord{
		ID:         result.RequestID,
		Source:     source,
		Label:      result.Verdict.Label,
		Passed:     result.Verdict.Passed,
		Confidence: result.Confidence,
		Width:      result.ImageWidth,
		Height:     result.ImageHeight,
		CreatedAt:  at,
	}
}
