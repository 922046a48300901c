package store

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/vidrec/core"
)

// sweepInterval 是后台清理过期 key 的周期。
const sweepInterval = 10 * time.Second

// MemoryStore 是进程内的 core.Store，用于测试与本地开发（KVSource 的默认后端）。
// 支持秒级 TTL；过期 key 读时即不可见，后台定期回收。
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memEntry

	stop chan struct{}
	once sync.Once
}

// memEntry 的 expireAt 为零值表示永不过期。
type memEntry struct {
	value    []byte
	expireAt time.Time
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{
		data: make(map[string]memEntry),
		stop: make(chan struct{}),
	}
	go m.sweep(sweepInterval)
	return m
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok || e.expired(time.Now()) {
		return nil, core.ErrStoreNotFound
	}
	return clone(e.value), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl ...int) error {
	e := newEntry(value, ttl)
	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) BatchGet(_ context.Context, keys []string) (map[string][]byte, error) {
	now := time.Now()
	out := make(map[string][]byte, len(keys))

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, k := range keys {
		if e, ok := m.data[k]; ok && !e.expired(now) {
			out[k] = clone(e.value)
		}
	}
	return out, nil
}

func (m *MemoryStore) BatchSet(_ context.Context, kvs map[string][]byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range kvs {
		m.data[k] = newEntry(v, ttl)
	}
	return nil
}

// Close 停止后台清理，数据仍可读写。
func (m *MemoryStore) Close() error {
	m.once.Do(func() { close(m.stop) })
	return nil
}

func (m *MemoryStore) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-m.stop:
			return
		case now := <-t.C:
			m.mu.Lock()
			for k, e := range m.data {
				if e.expired(now) {
					delete(m.data, k)
				}
			}
			m.mu.Unlock()
		}
	}
}

func newEntry(value []byte, ttl []int) memEntry {
	e := memEntry{value: clone(value)}
	if d := expiration(ttl); d > 0 {
		e.expireAt = time.Now().Add(d)
	}
	return e
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}

var _ core.Store = (*MemoryStore)(nil)
