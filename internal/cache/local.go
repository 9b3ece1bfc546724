package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

type localEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// localStore is a bounded, recency-ordered in-process store. The front of the
// list is the most recently touched entry; the back is evicted first.
type localStore struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element
}

func newLocalStore(capacity int) *localStore {
	if capacity <= 0 {
		capacity = 1
	}
	return &localStore{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

func (s *localStore) get(key string, now time.Time) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.items[key]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*localEntry)
	if !entry.expiresAt.After(now) {
		s.removeElement(el)
		return nil, false
	}
	s.order.MoveToFront(el)
	return entry.value, true
}

func (s *localStore) set(key string, value []byte, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[key]; ok {
		entry := el.Value.(*localEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		s.order.MoveToFront(el)
		return
	}
	s.items[key] = s.order.PushFront(&localEntry{key: key, value: value, expiresAt: expiresAt})
	for s.order.Len() > s.capacity {
		s.removeElement(s.order.Back())
	}
}

func (s *localStore) delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[key]; ok {
		s.removeElement(el)
	}
}

// deletePrefix removes every key starting with prefix and returns how many were removed.
func (s *localStore) deletePrefix(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, el := range s.items {
		if strings.HasPrefix(key, prefix) {
			s.removeElement(el)
			removed++
		}
	}
	return removed
}

func (s *localStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// caller holds mu
func (s *localStore) removeElement(el *list.Element) {
	entry := s.order.Remove(el).(*localEntry)
	delete(s.items, entry.key)
}
