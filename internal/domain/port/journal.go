package port

import (
	"context"

	"fabric-inspector/internal/domain/entity"
)

// InspectionJournal журнал выполненных проверок
type InspectionJournal interface {
	// Append добавляет запись о проверке
	Append(ctx context.Context, record entity.InspectionRecord) error

	// Recent возвращает последние записи, новые первыми
	Recent(ctx context.Context, limit int) ([]entity.InspectionRecord, error)
}
