package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore 进程内实现，供测试和无 Redis 的本地运行使用
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) GetOrCompute(ctx context.Context, key string, ttl time.Duration, dest interface{}, compute func() (interface{}, error)) (bool, error) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok && time.Now().Before(entry.expiresAt) {
		s.mu.Unlock()
		return true, json.Unmarshal(entry.payload, dest)
	}
	s.mu.Unlock()

	fresh, err := compute()
	if err != nil {
		return false, err
	}

	payload, err := json.Marshal(fresh)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.entries[key] = memoryEntry{payload: payload, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()

	return false, json.Unmarshal(payload, dest)
}

func (s *MemoryStore) Invalidate(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}
