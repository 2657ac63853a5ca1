package port

import "time"

// InspectionMetrics приёмник метрик конвейера
type InspectionMetrics interface {
	ObserveInspection(passed bool, elapsed time.Duration)
	ObserveError(kind string)
}
