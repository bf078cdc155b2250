package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/peopleops/user-directory/internal/core/domain"
)

const keyPrefix = "user:"

// scanBatch is the COUNT hint passed to SCAN when walking the directory.
const scanBatch = 100

// UserRepository persists JSON-serialized user records in Redis, one key per
// record. Key format: user:<uuid>.
type UserRepository struct {
	client *redis.Client
}

// NewUserRepository creates a UserRepository wrapping the given Redis client.
func NewUserRepository(client *redis.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user %s: %w", id, err)
	}
	return &user, nil
}

func (r *UserRepository) Set(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user %s: %w", user.ID, err)
	}
	if err := r.client.Set(ctx, r.key(user.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// DeleteAll walks the record keyspace and removes every record key. Keys
// outside the user: prefix are untouched.
func (r *UserRepository) DeleteAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, keyPrefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// List returns up to limit records. Order follows SCAN traversal and carries
// no guarantee.
func (r *UserRepository) List(ctx context.Context, limit int) ([]*domain.User, error) {
	users := make([]*domain.User, 0)
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, keyPrefix+"*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan: %w", err)
		}

		for _, key := range keys {
			if limit > 0 && len(users) >= limit {
				return users, nil
			}
			data, err := r.client.Get(ctx, key).Bytes()
			if err != nil {
				if err == redis.Nil {
					// Key expired or deleted between scan and get.
					continue
				}
				return nil, fmt.Errorf("redis get: %w", err)
			}
			var user domain.User
			if err := json.Unmarshal(data, &user); err != nil {
				return nil, fmt.Errorf("unmarshal user at %s: %w", key, err)
			}
			users = append(users, &user)
		}

		cursor = next
		if cursor == 0 {
			return users, nil
		}
	}
}
