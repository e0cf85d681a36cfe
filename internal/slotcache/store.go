package slotcache

import (
	"sync"
	"sync/atomic"
	"time"
)

// entry fica logicamente ausente quando now-createdAt >= ttl, mesmo que
// ainda esteja no mapa (a remoção física é feita na leitura ou na varredura).
type entry[T any] struct {
	value     T
	createdAt time.Time
	ttl       time.Duration

	date     string
	resource string
}

func (e entry[T]) expired(now time.Time) bool {
	return now.Sub(e.createdAt) >= e.ttl
}

// Store é um mapa com TTL por entrada. Cada entrada guarda a data e o
// barbeiro de onde a chave foi derivada, para a invalidação ser exata.
type Store[T any] struct {
	name  string
	ttl   time.Duration
	now   func() time.Time
	clone func(T) T

	mu      sync.RWMutex
	entries map[string]entry[T]

	hits   atomic.Uint64
	misses atomic.Uint64
	swept  atomic.Uint64
}

func NewStore[T any](name string, ttl time.Duration, now func() time.Time, clone func(T) T) *Store[T] {
	if now == nil {
		now = time.Now
	}
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Store[T]{
		name:    name,
		ttl:     ttl,
		now:     now,
		clone:   clone,
		entries: make(map[string]entry[T]),
	}
}

func (s *Store[T]) Name() string { return s.name }

func (s *Store[T]) Get(key string) (T, bool) {
	var zero T
	now := s.now()

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		s.misses.Add(1)
		return zero, false
	}

	if e.expired(now) {
		s.mu.Lock()
		// outra goroutine pode ter regravado a chave nesse meio tempo
		if cur, still := s.entries[key]; still && cur.expired(now) {
			delete(s.entries, key)
		}
		s.mu.Unlock()

		s.misses.Add(1)
		return zero, false
	}

	s.hits.Add(1)
	return s.clone(e.value), true
}

func (s *Store[T]) set(key string, value T) {
	s.SetTagged(key, value, 0, "", "")
}

// SetTagged grava sobrescrevendo. ttl <= 0 usa o TTL padrão do store.
func (s *Store[T]) SetTagged(key string, value T, ttl time.Duration, date, resource string) {
	if ttl <= 0 {
		ttl = s.ttl
	}

	e := entry[T]{
		value:     s.clone(value),
		createdAt: s.now(),
		ttl:       ttl,
		date:      date,
		resource:  resource,
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

func (s *Store[T]) deleteWhere(match func(key string, e entry[T]) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if match(k, e) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

func (s *Store[T]) DeleteDate(date string) int {
	return s.deleteWhere(func(_ string, e entry[T]) bool { return e.date == date })
}

func (s *Store[T]) DeleteResource(resource string) int {
	if resource == "" {
		return 0
	}
	return s.deleteWhere(func(_ string, e entry[T]) bool { return e.resource == resource })
}

func (s *Store[T]) DeleteMatching(match func(key string) bool) int {
	return s.deleteWhere(func(k string, _ entry[T]) bool { return match(k) })
}

// Sweep remove fisicamente as entradas expiradas.
func (s *Store[T]) Sweep() int {
	now := s.now()
	removed := s.deleteWhere(func(_ string, e entry[T]) bool { return e.expired(now) })
	s.swept.Add(uint64(removed))
	return removed
}

func (s *Store[T]) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]entry[T])
	s.mu.Unlock()
}

// Len conta entradas físicas, inclusive expiradas ainda não varridas.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

type StoreStats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
	Size    int     `json:"size"`
	Swept   uint64  `json:"swept"`
}

func (s *Store[T]) Stats() StoreStats {
	st := StoreStats{
		Hits:   s.hits.Load(),
		Misses: s.misses.Load(),
		Size:   s.Len(),
		Swept:  s.swept.Load(),
	}
	if total := st.Hits + st.Misses; total > 0 {
		st.HitRate = float64(st.Hits) / float64(total)
	}
	return st
}
