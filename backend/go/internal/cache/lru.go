package cache

import (
	"container/list"
	"sync"
	"time"
)

// lruEntry 是链表节点中保存的数据。
type lruEntry[K comparable, V any] struct {
	key        K
	value      V
	expiration time.Time
}

// LRU 是一个支持泛型和 TTL 的线程安全 LRU 缓存。
type LRU[K comparable, V any] struct {
	capacity int
	ttl      time.Duration // 为 0 时永不过期
	now      func() time.Time

	mu    sync.Mutex
	ll    *list.List
	items map[K]*list.Element
}

// NewLRU 创建容量为 capacity 的 LRU 缓存，capacity 小于 1 时按 1 处理。
func NewLRU[K comparable, V any](capacity int, ttl time.Duration) *LRU[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU[K, V]{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		ll:       list.New(),
		items:    make(map[K]*list.Element),
	}
}

// Get 返回 key 对应的值，过期的条目会被顺带删除。
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*lruEntry[K, V])
	if c.ttl > 0 && c.now().After(e.expiration) {
		c.remove(el)
		return zero, false
	}
	c.ll.MoveToFront(el)
	return e.value, true
}

// Put 添加或更新一个条目，并在超出容量时淘汰最久未使用的条目。
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exp time.Time
	if c.ttl > 0 {
		exp = c.now().Add(c.ttl)
	}
	if el, ok := c.items[key]; ok {
		e := el.Value.(*lruEntry[K, V])
		e.value, e.expiration = value, exp
		c.ll.MoveToFront(el)
		return
	}
	c.items[key] = c.ll.PushFront(&lruEntry[K, V]{key: key, value: value, expiration: exp})
	for c.ll.Len() > c.capacity {
		c.remove(c.ll.Back())
	}
}

// Len 返回当前条目数量（包括尚未被动淘汰的过期条目）。
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *LRU[K, V]) remove(el *list.Element) {
	c.ll.Remove(el)
	delete(c.items, el.Value.(*lruEntry[K, V]).key)
}
