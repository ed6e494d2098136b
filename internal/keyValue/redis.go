package keyValue

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps values under prefix+key in redis. Multi-key writes go
// through MULTI/EXEC.
type RedisStore struct {
	client *redis.Client
	prefix string
	sugar  *zap.SugaredLogger
}

func NewRedisStore(client *redis.Client, prefix string, sugar *zap.SugaredLogger) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, sugar: sugar}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	s.sugar.Debugf("Getting value of key [%s] from redis", key)

	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	} else if err != nil {
		return "", err
	}
	return value, nil
}

func (s *RedisStore) SetMany(ctx context.Context, values map[string]string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range values {
			s.sugar.Debugf("Setting value of key [%s] in redis", key)
			pipe.Set(ctx, s.prefix+key, value, 0)
		}
		return nil
	})
	return err
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = s.prefix + key
	}

	s.sugar.Debugf("Deleting keys %v from redis", keys)
	return s.client.Del(ctx, prefixed...).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
