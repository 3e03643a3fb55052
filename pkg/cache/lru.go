package cache

import (
	"container/list"
	"sync"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// LRU is a fixed-capacity cache safe for concurrent use. The least recently
// used entry is evicted when a new key would exceed the capacity.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	lruList  *list.List
	items    map[K]*list.Element

	hits, misses uint64
}

// NewLRU returns a cache holding at most capacity entries. A capacity < 1
// disables caching: Put is a no-op and Get always misses.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	return &LRU[K, V]{
		capacity: capacity,
		lruList:  list.New(),
		items:    make(map[K]*list.Element),
	}
}

func (l *LRU[K, V]) Get(key K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	elem, ok := l.items[key]
	if !ok {
		l.misses++
		var zero V
		return zero, false
	}
	l.hits++
	l.lruList.MoveToFront(elem)
	return elem.Value.(*entry[K, V]).value, true
}

func (l *LRU[K, V]) Put(key K, value V) {
	if l.capacity < 1 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if elem, ok := l.items[key]; ok {
		elem.Value.(*entry[K, V]).value = value
		l.lruList.MoveToFront(elem)
		return
	}

	l.items[key] = l.lruList.PushFront(&entry[K, V]{key: key, value: value})
	if l.lruList.Len() > l.capacity {
		l.removeElement(l.lruList.Back())
	}
}

func (l *LRU[K, V]) Remove(key K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	elem, ok := l.items[key]
	if !ok {
		return false
	}
	l.removeElement(elem)
	return true
}

func (l *LRU[K, V]) removeElement(elem *list.Element) {
	l.lruList.Remove(elem)
	delete(l.items, elem.Value.(*entry[K, V]).key)
}

func (l *LRU[K, V]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lruList.Len()
}

// Stats returns the hit and miss counters.
func (l *LRU[K, V]) Stats() (hits, misses uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hits, l.misses
}
