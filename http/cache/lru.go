package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/buildlens/core/log"
)

// LRUConfig is the configuration for a new LRU cache
type LRUConfig struct {
	TTL        time.Duration // Default TTL for objects that may still change
	MaxEntries int           // Max. number of objects in the cache, 0 for unlimited
	Logger     log.Logger
}

type lrucache struct {
	ttl        time.Duration
	maxEntries int
	objects    map[string]*list.Element
	list       *list.List
	lock       sync.Mutex
	logger     log.Logger

	now func() time.Time
}

type value struct {
	key      string
	obj      interface{}
	expireAt time.Time
}

// NewLRUCache returns an implementation of the Cacher interface that implements a LRU cache.
func NewLRUCache(config LRUConfig) (Cacher, error) {
	if config.MaxEntries < 0 {
		return nil, fmt.Errorf("the max. number of entries must not be negative")
	}

	if config.TTL < 0 {
		return nil, fmt.Errorf("the TTL must not be negative")
	}

	cache := &lrucache{
		ttl:        config.TTL,
		maxEntries: config.MaxEntries,
		list:       list.New(),
		objects:    make(map[string]*list.Element),
		logger:     config.Logger,
		now:        time.Now,
	}

	if cache.logger == nil {
		cache.logger = log.New("")
	}

	return cache, nil
}

func (c *lrucache) Get(key string) (interface{}, time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()

	elm, ok := c.objects[key]
	if !ok {
		return nil, c.ttl
	}

	v := elm.Value.(*value)

	if v.expireAt.IsZero() {
		c.list.MoveToFront(elm)
		return v.obj, 0
	}

	// If it is expired, remove it from the list
	// and return as if it wasn't in the cache
	if !v.expireAt.After(c.now()) {
		c.list.Remove(elm)
		delete(c.objects, key)

		return nil, c.ttl
	}

	c.list.MoveToFront(elm)

	return v.obj, v.expireAt.Sub(c.now())
}

func (c *lrucache) Put(key string, o interface{}, ttl time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()

	v := &value{
		key: key,
		obj: o,
	}

	if ttl > 0 {
		v.expireAt = c.now().Add(ttl)
	}

	if elm, ok := c.objects[key]; ok {
		c.list.MoveToFront(elm)
		elm.Value = v
	} else {
		c.objects[key] = c.list.PushFront(v)
	}

	c.logger.WithFields(log.Fields{
		"key":     key,
		"ttl_sec": ttl.Seconds(),
	}).Debug().Log("Added key")

	if c.maxEntries > 0 {
		for c.list.Len() > c.maxEntries {
			elm := c.list.Back()
			if elm == nil {
				break
			}

			key := elm.Value.(*value).key

			c.logger.WithField("key", key).Debug().Log("Evicting key")

			c.list.Remove(elm)
			delete(c.objects, key)
		}
	}
}

func (c *lrucache) Delete(key string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	elm, ok := c.objects[key]
	if !ok {
		return
	}

	c.logger.WithField("key", key).Debug().Log("Purging key")

	c.list.Remove(elm)
	delete(c.objects, key)
}

func (c *lrucache) Purge() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.logger.WithField("entries", c.list.Len()).Debug().Log("Purged all keys")

	c.list.Init()
	c.objects = make(map[string]*list.Element)
}

func (c *lrucache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.list.Len()
}

func (c *lrucache) TTL() time.Duration {
	return c.ttl
}
