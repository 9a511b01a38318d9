package cas

import (
	"container/list"
	"errors"
	"sync"
)

const defaultCacheSize = 1000

// LRUCache sits in front of another store and keeps the most recently read
// blobs in memory. Writes always go through to the underlying store.
type LRUCache struct {
	underlying CAS

	mu      sync.Mutex
	index   map[Hash]*list.Element
	order   *list.List // front is most recent
	maxSize int
	stats   CacheStats
}

type cacheEntry struct {
	hash Hash
	data []byte
}

// CacheStats reports how well the cache is doing.
type CacheStats struct {
	Size      int
	MaxSize   int
	Hits      int
	Misses    int
	Evictions int
}

// NewLRUCache wraps underlying. A maxSize of zero or less means 1000 entries.
func NewLRUCache(underlying CAS, maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = defaultCacheSize
	}
	return &LRUCache{
		underlying: underlying,
		index:      make(map[Hash]*list.Element),
		order:      list.New(),
		maxSize:    maxSize,
	}
}

func (l *LRUCache) Put(item Hashable) (Hash, error) {
	return put(l, item)
}

func (l *LRUCache) Has(hash Hash) bool {
	l.mu.Lock()
	_, ok := l.index[hash]
	l.mu.Unlock()
	return ok || l.underlying.Has(hash)
}

func (l *LRUCache) backing() (blobStore, error) {
	b, ok := l.underlying.(blobStore)
	if !ok {
		return nil, errors.New("underlying CAS does not support direct storage")
	}
	return b, nil
}

func (l *LRUCache) putValue(h Hash, data []byte) error {
	b, err := l.backing()
	if err != nil {
		return err
	}
	return b.putValue(h, data)
}

func (l *LRUCache) getValue(h Hash) (bool, []byte, error) {
	if data, ok := l.lookup(h); ok {
		return true, data, nil
	}
	b, err := l.backing()
	if err != nil {
		return false, nil, err
	}
	has, data, err := b.getValue(h)
	if err != nil || !has {
		return false, nil, err
	}
	l.remember(h, data)
	return true, data, nil
}

func (l *LRUCache) lookup(h Hash) ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	elem, ok := l.index[h]
	if !ok {
		l.stats.Misses++
		return nil, false
	}
	l.stats.Hits++
	l.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).data, true
}

// remember caches data under h, dropping the least recently used entries
// past maxSize. Blobs are immutable, so an existing entry is only touched.
func (l *LRUCache) remember(h Hash, data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if elem, ok := l.index[h]; ok {
		l.order.MoveToFront(elem)
		return
	}
	l.index[h] = l.order.PushFront(&cacheEntry{hash: h, data: data})
	for l.order.Len() > l.maxSize {
		oldest := l.order.Back()
		l.order.Remove(oldest)
		delete(l.index, oldest.Value.(*cacheEntry).hash)
		l.stats.Evictions++
	}
}

func (l *LRUCache) Stats() CacheStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.stats
	out.Size = len(l.index)
	out.MaxSize = l.maxSize
	return out
}
