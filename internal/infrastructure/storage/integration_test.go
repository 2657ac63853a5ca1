package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"fabric-inspector/internal/domain/entity"
)

// Интеграционные тесты запускаются только при наличии TEST_REDIS_ADDR / TEST_DATABASE_URL.

func TestRedisUserRepository(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	repo := NewRedisUserRepository(rdb)
	userID := time.Now().UnixNano()
	defer rdb.Del(ctx, userKey(userID))

	user, err := repo.Get(ctx, userID, 42)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	user.RecordInspection("hole")
	require.NoError(t, repo.Save(ctx, user))
	require.NoError(t, repo.UpdateState(ctx, userID, entity.StateAwaitingPhoto))

	got, err := repo.Get(ctx, userID, 42)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, got.State)
	require.Equal(t, entity.Label("hole"), got.LastLabel)
	require.Equal(t, 1, got.Inspections)
}

func TestPostgresJournal(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	j, err := ConnectPostgresJournal(ctx, url)
	require.NoError(t, err)
	defer j.Close()

	rec := entity.InspectionRecord{
		ID:         uuid.Must(uuid.NewV4()).String(),
		Source:     entity.SourceCLI,
		Label:      "hole",
		Confidence: 0.8,
		Width:      640,
		Height:     480,
		CreatedAt:  time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, j.Append(ctx, rec))
	require.NoError(t, j.Append(ctx, rec), "duplicate ids are ignored")

	got, err := j.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, rec.ID, got[0].ID)
	require.Equal(t, rec.Label, got[0].Label)
	require.True(t, rec.CreatedAt.Equal(got[0].CreatedAt))
}
