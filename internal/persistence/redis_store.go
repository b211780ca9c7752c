package persistence

import (
	"context"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a ByteStore backed by Redis.
// It uses a simple key structure:
//
//	<prefix>wf:<key>   => serialized workflow bytes
//	<prefix>idx:keys   => SET of all stored keys
//
// The index is maintained in the same transaction as the value.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// Ensure RedisStore implements ByteStore.
var _ ByteStore = (*RedisStore)(nil)

// NewRedisStore creates a RedisStore.
// prefix is optional but recommended (e.g. "canvas:").
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "canvas:"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisStore) keyWorkflow(key string) string {
	return s.prefix + "wf:" + key
}

func (s *RedisStore) keyIndex() string {
	return s.prefix + "idx:keys"
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.keyWorkflow(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keyWorkflow(key), data, 0)
	pipe.SAdd(ctx, s.keyIndex(), key)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.keyWorkflow(key))
	pipe.SRem(ctx, s.keyIndex(), key)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.client.SMembers(ctx, s.keyIndex()).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

