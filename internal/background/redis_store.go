package background

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jobspy-service/internal/config"
)

const taskKeyPrefix = "jobspy:task:"

// RedisTaskStore implements TaskStore backed by Redis, so task results
// survive restarts and can be shared across instances.
type RedisTaskStore struct {
	client *redis.Client
	maxAge time.Duration
}

// NewRedisTaskStore creates a Redis-backed task store from configuration.
func NewRedisTaskStore(cfg *config.Config) (*RedisTaskStore, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	opts.DB = cfg.Redis.DB
	opts.DialTimeout = cfg.Redis.Timeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis not reachable: %w", err)
	}

	return &RedisTaskStore{
		client: client,
		maxAge: cfg.BackgroundTasks.MaxTaskAge,
	}, nil
}

func taskKey(processID string) string {
	return taskKeyPrefix + processID
}

// Store stores a task result with the configured TTL.
func (s *RedisTaskStore) Store(ctx context.Context, result *TaskResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal task result: %w", err)
	}

	return s.client.Set(ctx, taskKey(result.ProcessID), data, s.maxAge).Err()
}

// Get retrieves a task result by process ID.
func (s *RedisTaskStore) Get(ctx context.Context, processID string) (*TaskResult, error) {
	data, err := s.client.Get(ctx, taskKey(processID)).Bytes()
	if err == redis.Nil {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task result: %w", err)
	}

	var result TaskResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task result: %w", err)
	}

	return &result, nil
}

// Update overwrites a task result, keeping the TTL behavior of Store.
func (s *RedisTaskStore) Update(ctx context.Context, result *TaskResult) error {
	exists, err := s.client.Exists(ctx, taskKey(result.ProcessID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check task existence: %w", err)
	}
	if exists == 0 {
		return ErrTaskNotFound
	}

	return s.Store(ctx, result)
}

// Delete removes a task result.
func (s *RedisTaskStore) Delete(ctx context.Context, processID string) error {
	removed, err := s.client.Del(ctx, taskKey(processID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete task result: %w", err)
	}
	if removed == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Cleanup is a no-op: Redis expires task keys via their TTL.
func (s *RedisTaskStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	return nil
}

// List returns all stored task results.
func (s *RedisTaskStore) List(ctx context.Context) ([]*TaskResult, error) {
	var results []*TaskResult

	iter := s.client.Scan(ctx, 0, taskKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}

		var result TaskResult
		if err := json.Unmarshal(data, &result); err != nil {
			continue
		}
		results = append(results, &result)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan task keys: %w", err)
	}

	return results, nil
}

// Close closes the underlying Redis connection.
func (s *RedisTaskStore) Close() error {
	return s.client.Close()
}
