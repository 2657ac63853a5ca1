package storage

import (
	"context"
	"sync"

	"fabric-inspector/internal/domain/entity"
	"fabric-inspector/internal/domain/port"
)

// DefaultJournalCapacity сколько записей держит in-memory журнал.
const DefaultJournalCapacity = 500

// MemoryJournal кольцевой буфер последних проверок
type MemoryJournal struct {
	mu      sync.RWMutex
	records []entity.InspectionRecord
	next    int
	full    bool
}

// NewMemoryJournal создаёт журнал на capacity записей
func NewMemoryJournal(capacity int) *MemoryJournal {
	if capacity <= 0 {
		capacity = DefaultJournalCapacity
	}
	return &MemoryJournal{records: make([]entity.InspectionRecord, capacity)}
}

// Append добавляет запись, вытесняя самую старую при переполнении
func (j *MemoryJournal) Append(ctx context.Context, record entity.InspectionRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.records[j.next] = record
	j.next = (j.next + 1) % len(j.records)
	if j.next == 0 {
		j.full = true
	}
	return nil
}

// Recent возвращает до limit последних записей, новые первыми
func (j *MemoryJournal) Recent(ctx context.Context, limit int) ([]entity.InspectionRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	size := j.next
	if j.full {
		size = len(j.records)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]entity.InspectionRecord, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (j.next - i + len(j.records)) % len(j.records)
		out = append(out, j.records[idx])
	}
	return out, nil
}

var _ port.InspectionJournal = (*MemoryJournal)(nil)
