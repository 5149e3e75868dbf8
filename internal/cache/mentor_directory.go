package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/pkg/metrics"
)

const directoryKey = "mentor_directory"

// MentorDirectoryCache holds the public mentor listing. The directory is
// read-heavy and changes only on mentor-set mutations, so it is cached with a
// TTL and invalidated explicitly on approve/create/remove.
type MentorDirectoryCache struct {
	store *gocache.Cache
	ttl   time.Duration
}

func NewMentorDirectoryCache(ttl time.Duration) *MentorDirectoryCache {
	return &MentorDirectoryCache{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Get returns the cached directory and whether it was present
func (c *MentorDirectoryCache) Get() ([]models.MentorDirectoryEntry, bool) {
	value, found := c.store.Get(directoryKey)
	if !found {
		metrics.CacheMisses.WithLabelValues("mentor_directory").Inc()
		return nil, false
	}

	entries, ok := value.([]models.MentorDirectoryEntry)
	if !ok {
		metrics.CacheMisses.WithLabelValues("mentor_directory").Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("mentor_directory").Inc()
	return entries, true
}

// Set stores the directory for the configured TTL
func (c *MentorDirectoryCache) Set(entries []models.MentorDirectoryEntry) {
	c.store.Set(directoryKey, entries, c.ttl)
}

// Invalidate drops the cached directory after a mentor-set change
func (c *MentorDirectoryCache) Invalidate() {
	c.store.Delete(directoryKey)
}
