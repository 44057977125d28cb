package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	maxTouchRetries  = 3
)

// RedisStore はセッションを Redis に保存します。キーの TTL が有効期限になります。
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// NewRedisStore は RedisStore を作成します。
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		ttl: ttl,
		now: time.Now,
	}
}

// Create はセッションを作成します。
func (s *RedisStore) Create(ctx context.Context, userID int64) (*Record, error) {
	now := s.now().UTC()
	record := &Record{
		Token:        newToken(),
		UserID:       userID,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	// 同じトークンが既にあれば上書きせずに失敗させる
	ok, err := s.rdb.SetNX(ctx, sessionKey(record.Token), payload, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("create session: token collision")
	}
	return record, nil
}

// Get はセッションを取得します。
func (s *RedisStore) Get(ctx context.Context, token string) (*Record, error) {
	if token == "" {
		return nil, nil
	}
	data, err := s.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &record, nil
}

// Touch は最終アクセス時刻を更新します。残りの TTL は維持します。
func (s *RedisStore) Touch(ctx context.Context, token string, at time.Time) error {
	key := sessionKey(token)
	update := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			return err
		}
		var record Record
		if err := json.Unmarshal(data, &record); err != nil {
			return err
		}
		record.LastActiveAt = at.UTC()
		payload, err := json.Marshal(&record)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetArgs(ctx, key, payload, redis.SetArgs{KeepTTL: true})
			return nil
		})
		return err
	}

	for i := 0; i < maxTouchRetries; i++ {
		err := s.rdb.Watch(ctx, update, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("touch session: %w", err)
		}
		return nil
	}
	return fmt.Errorf("touch session: too many concurrent updates")
}

// Delete はセッションを削除します。
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.rdb.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}
