package api

import (
	"sync"

	"github.com/coachlab/coachlab/internal/archive"
)

// TranscriptCache is a thread-safe LRU cache for loaded session transcripts.
// Transcripts are immutable once archived, so entries never go stale.
type TranscriptCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*archive.Transcript
	order   []string // oldest first
}

// NewTranscriptCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 128.
func NewTranscriptCache(maxSize int) *TranscriptCache {
	if maxSize <= 0 {
		maxSize = 128
	}
	return &TranscriptCache{
		maxSize: maxSize,
		entries: make(map[string]*archive.Transcript),
	}
}

// Get retrieves a transcript from the cache, or nil if not found.
func (c *TranscriptCache) Get(id string) *archive.Transcript {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.entries[id]
	if !ok {
		return nil
	}

	c.moveToEnd(id)
	return t
}

// Put adds a transcript to the cache, evicting the oldest if full.
func (c *TranscriptCache) Put(id string, t *archive.Transcript) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; ok {
		c.entries[id] = t
		c.moveToEnd(id)
		return
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[id] = t
	c.order = append(c.order, id)
}

// Len returns the number of cached transcripts.
func (c *TranscriptCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *TranscriptCache) moveToEnd(id string) {
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, id)
			return
		}
	}
}
