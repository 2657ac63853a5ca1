package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fabric-inspector/internal/domain/entity"
	"fabric-inspector/internal/domain/port"
)

const (
	userKeyPrefix = "fabric-inspector:user:"
	userTTL       = 24 * time.Hour
)

// RedisUserRepository хранит состояние операторов в Redis, чтобы несколько экземпляров бота видели одно и то же.
type RedisUserRepository struct {
	rdb *redis.Client
}

// NewRedisUserRepository создаёт хранилище поверх клиента Redis
func NewRedisUserRepository(rdb *redis.Client) *RedisUserRepository {
	return &RedisUserRepository{rdb: rdb}
}

func userKey(userID int64) string {
	return fmt.Sprintf("%s%d", userKeyPrefix, userID)
}

// Get возвращает пользователя по ID, создаёт нового если не найден
func (r *RedisUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	raw, err := r.rdb.Get(ctx, userKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		user := entity.NewUser(userID, chatID)
		if err := r.Save(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting user %d: %w", userID, err)
	}

	var user entity.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("error decoding user %d: %w", userID, err)
	}
	return &user, nil
}

// Save сохраняет состояние пользователя и продлевает TTL
func (r *RedisUserRepository) Save(ctx context.Context, user *entity.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, userKey(user.ID), raw, userTTL).Err(); err != nil {
		return fmt.Errorf("error saving user %d: %w", user.ID, err)
	}
	return nil
}

// UpdateState обновляет состояние пользователя, если он уже известен
func (r *RedisUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	raw, err := r.rdb.Get(ctx, userKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error getting user %d: %w", userID, err)
	}

	var user entity.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return fmt.Errorf("error decoding user %d: %w", userID, err)
	}
	user.SetState(state)
	return r.Save(ctx, &user)
}

var _ port.UserRepository = (*RedisUserRepository)(nil)
