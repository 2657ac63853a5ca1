package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"fabric-inspector/internal/domain/entity"
	"fabric-inspector/internal/domain/port"
)

var journalSchema = []string{`
CREATE TABLE IF NOT EXISTS inspections (
    id          TEXT PRIMARY KEY,
    source      TEXT NOT NULL,
    label       TEXT NOT NULL,
    passed      BOOLEAN NOT NULL,
    confidence  DOUBLE PRECISION NOT NULL,
    width       INTEGER NOT NULL,
    height      INTEGER NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS inspections_created_at_idx ON inspections (created_at DESC)`,
}

// PostgresJournal журнал проверок в PostgreSQL
type PostgresJournal struct {
	pool *pgxpool.Pool
}

// ConnectPostgresJournal открывает пул соединений и создаёт таблицу при необходимости
func ConnectPostgresJournal(ctx context.Context, databaseURL string) (*PostgresJournal, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	for _, stmt := range journalSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("error creating inspections table: %w", err)
		}
	}
	return &PostgresJournal{pool: pool}, nil
}

// Close закрывает пул
func (j *PostgresJournal) Close() {
	j.pool.Close()
}

// Append добавляет запись о проверке
func (j *PostgresJournal) Append(ctx context.Context, r entity.InspectionRecord) error {
	_, err := j.pool.Exec(ctx, `
		INSERT INTO inspections (id, source, label, passed, confidence, width, height, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`,
		r.ID, string(r.Source), string(r.Label), r.Passed, r.Confidence, r.Width, r.Height, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting inspection %s: %w", r.ID, err)
	}
	return nil
}

// Recent возвращает последние записи, новые первыми
func (j *PostgresJournal) Recent(ctx context.Context, limit int) ([]entity.InspectionRecord, error) {
	if limit <= 0 {
		limit = DefaultJournalCapacity
	}
	rows, err := j.pool.Query(ctx, `
		SELECT id, source, label, passed, confidence, width, height, created_at
		FROM inspections
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying inspections: %w", err)
	}
	defer rows.Close()

	var out []entity.InspectionRecord
	for rows.Next() {
		var r entity.InspectionRecord
		var source, label string
		if err := rows.Scan(&r.ID, &source, &label, &r.Passed, &r.Confidence, &r.Width, &r.Height, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning inspection: %w", err)
		}
		r.Source = entity.InspectionSource(source)
		r.Label = entity.Label(label)
		out = append(out, r)
	}
	return out, rows.Err()
}

var _ port.InspectionJournal = (*PostgresJournal)(nil)
