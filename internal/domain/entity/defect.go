package entity

import "strings"

// Label метка класса, которую вернул классификатор.
type Label string

// DefectFree метка годного полотна. Сравнение всегда без учёта регистра.
const DefectFree Label = "defect free"

// IsDefectFree сообщает, что метка означает отсутствие дефекта.
func (l Label) IsDefectFree() bool {
	return strings.EqualFold(string(l), string(DefectFree))
}

// Verdict итог проверки: годно или брак.
type Verdict struct {
	Label  Label // исходная метка классификатора
	Passed bool  // true, если метка равна DefectFree
}

// NewVerdict строит вердикт по метке классификатора.
func NewVerdict(label Label) Verdict {
	return Verdict{Label: label, Passed: label.IsDefectFree()}
}

// AnomalyType возвращает тип дефекта в верхнем регистре или пустую строку для годного полотна.
func (v Verdict) AnomalyType() string {
	if v.Passed {
		return ""
	}
	return strings.ToUpper(string(v.Label))
}

// SurfaceIntegrity оценка целостности поверхности для отображения оператору.
func (v Verdict) SurfaceIntegrity() string {
	if v.Passed {
		return "100%"
	}
	return "Critical"
}
