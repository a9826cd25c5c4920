package memstore

import (
	"sync"
	"time"
)

type entry struct {
	value   string
	expires time.Time
}

// SessionCache mirrors the redis session driver: Get of a missing or expired
// key yields "" and no error.
type SessionCache struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewSessionCache() *SessionCache {
	return &SessionCache{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (c *SessionCache) Set(key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.data[key] = e
	return nil
}

func (c *SessionCache) Get(key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok {
		return "", nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.data, key)
		return "", nil
	}
	return e.value, nil
}

func (c *SessionCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}
