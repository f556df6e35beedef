package cache

import (
	"sync"

	"labinventory/models"
)

// UserSessionCache stores login sessions by token so request auth avoids a
// database round trip. Expired entries are evicted on lookup.
type UserSessionCache struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func NewUserSessionCache() *UserSessionCache {
	return &UserSessionCache{sessions: make(map[string]models.Session)}
}

func (c *UserSessionCache) AddSession(s models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[s.ID] = s
}

// FindSessionBySessionToken returns the cached session only while it is
// live; a stale entry is dropped and reported as a miss, so callers fall
// through to the database the same way they would on a cold cache.
func (c *UserSessionCache) FindSessionBySessionToken(token string) (models.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[token]
	if !ok {
		return models.Session{}, false
	}
	if s.Expired() {
		delete(c.sessions, token)
		return models.Session{}, false
	}
	return s, true
}

func (c *UserSessionCache) DeleteSessionBySessionToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, token)
}
