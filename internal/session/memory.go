package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore はプロセス内にセッションを保持します。Redis を使わない開発環境とテスト用です。
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	record    Record
	expiresAt time.Time
}

// NewMemoryStore は MemoryStore を作成します。
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Create はセッションを作成します。
func (s *MemoryStore) Create(ctx context.Context, userID int64) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	record := Record{
		Token:        newToken(),
		UserID:       userID,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	s.entries[record.Token] = memoryEntry{record: record, expiresAt: now.Add(s.ttl)}
	s.purgeLocked(now)
	return &record, nil
}

// Get はセッションを取得します。
func (s *MemoryStore) Get(ctx context.Context, token string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, token)
		return nil, nil
	}
	record := entry.record
	return &record, nil
}

// Touch は最終アクセス時刻を更新します。
func (s *MemoryStore) Touch(ctx context.Context, token string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[token]
	if !ok {
		return nil
	}
	entry.record.LastActiveAt = at.UTC()
	s.entries[token] = entry
	return nil
}

// Delete はセッションを削除します。
func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}

// Len は保持しているセッション数を返します。
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// purgeLocked は期限切れのエントリを捨てます。
func (s *MemoryStore) purgeLocked(now time.Time) {
	for token, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, token)
		}
	}
}
