// Package cache provides an in-memory TTL cache with tag-based invalidation.
//
// Entries carry an expiry deadline and a set of tags. Writes that change a
// group of related records invalidate the whole tag instead of tracking
// individual keys, which keeps the session resolution path cheap while
// guaranteeing that credential and ownership changes are visible immediately.
package cache

import (
	"sync"
	"time"
)

// Common tags used across services. A tag groups every cached entry that
// becomes stale when the corresponding records change.
const (
	TagAuth            = "auth"
	TagSession         = "session"
	TagProfile         = "profile"
	TagLinks           = "links"
	TagLinksCount      = "links-count"
	TagExpiredSessions = "expired-sessions"
)

type entry struct {
	value     any
	expiresAt time.Time
	tags      []string
}

// TagCache is a thread-safe TTL cache whose entries can be invalidated in
// groups by tag. Expired entries are dropped lazily on read and in bulk by
// Sweep.
type TagCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	tags    map[string][]string
}

func NewTagCache() *TagCache {
	return &TagCache{
		entries: make(map[string]*entry),
		tags:    make(map[string][]string),
	}
}

// Get returns the cached value for key. The second return value is false if
// the key is absent or its TTL has elapsed.
func (c *TagCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.Delete(key)
		return nil, false
	}

	return e.value, true
}

// Set stores value under key for the given TTL and registers it under every
// tag in tags. A later Set for the same key replaces the previous entry and
// its tag registrations are appended, not rewritten; stale tag references
// are tolerated and skipped during invalidation.
func (c *TagCache) Set(key string, value any, ttl time.Duration, tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
		tags:      tags,
	}

	for _, tag := range tags {
		c.tags[tag] = append(c.tags[tag], key)
	}
}

// Delete removes a single entry. Tag registrations pointing at the removed
// key become stale references and are cleaned up on the next invalidation.
func (c *TagCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// InvalidateTag removes every entry registered under tag.
func (c *TagCache) InvalidateTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, ok := c.tags[tag]
	if !ok {
		return
	}

	for _, key := range keys {
		delete(c.entries, key)
	}
	delete(c.tags, tag)
}

// InvalidateTags removes every entry registered under any of the given tags.
func (c *TagCache) InvalidateTags(tags ...string) {
	for _, tag := range tags {
		c.InvalidateTag(tag)
	}
}

// Sweep drops every expired entry and rebuilds the tag index. Intended to be
// called periodically by a background worker.
func (c *TagCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}

	rebuilt := make(map[string][]string, len(c.tags))
	for key, e := range c.entries {
		for _, tag := range e.tags {
			rebuilt[tag] = append(rebuilt[tag], key)
		}
	}
	c.tags = rebuilt

	return removed
}

// Len returns the number of live entries, expired ones included until the
// next read or sweep touches them.
func (c *TagCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
