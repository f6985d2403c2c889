package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/EasterCompany/package-builder-service/internal/session"
)

const (
	SessionKeyPrefix = "packageBuilderSession:"
	SessionIndex     = "packageBuilderSessions"
	KVKeyPrefix      = "packageBuilder:kv:"
)

// RedisRepository stores each record as a JSON blob with an index set of
// known session ids.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

// Get retrieves a record by session id
func (s *RedisRepository) Get(ctx context.Context, id string) (*session.Record, error) {
	data, err := s.client.Get(ctx, SessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	var rec session.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &rec, nil
}

// Put writes the record and indexes it
func (s *RedisRepository) Put(ctx context.Context, rec *session.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, SessionKeyPrefix+rec.SessionID, data, 0)
	pipe.SAdd(ctx, SessionIndex, rec.SessionID)
	_, err = pipe.Exec(ctx)
	return err
}

// Delete removes the record and its index entry
func (s *RedisRepository) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, SessionKeyPrefix+id)
	pipe.SRem(ctx, SessionIndex, id)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns all indexed session ids
func (s *RedisRepository) List(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, SessionIndex).Result()
}

// RedisKV is a flat string-keyed JSON store used for the client's local
// fallback keys (currentUser, userProfile_{id}, ...).
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (kv *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := kv.client.Get(ctx, KVKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (kv *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return kv.client.Set(ctx, KVKeyPrefix+key, value, 0).Err()
}

func (kv *RedisKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = KVKeyPrefix + strings.TrimPrefix(k, KVKeyPrefix)
	}
	return kv.client.Del(ctx, full...).Err()
}
