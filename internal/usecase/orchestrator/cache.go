package orchestrator

import (
	"sync"

	"internmatch/internal/domain/identity"
	"internmatch/internal/domain/profile"

	"github.com/google/uuid"
)

// LocalProfileCache is the in-process snapshot of who is signed in and what
// profile they resolved to. The resolver writes views into it through the
// Sink interface; the orchestrator owns the session side.
type LocalProfileCache struct {
	mu      sync.RWMutex
	session *identity.Session
	views   map[uuid.UUID]*profile.View
}

func NewLocalProfileCache() *LocalProfileCache {
	return &LocalProfileCache{views: make(map[uuid.UUID]*profile.View)}
}

// SetProfile implements resolver.Sink. A nil view clears the entry.
func (c *LocalProfileCache) SetProfile(userID uuid.UUID, v *profile.View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v == nil {
		delete(c.views, userID)
		return
	}
	c.views[userID] = v
}

func (c *LocalProfileCache) Profile(userID uuid.UUID) (*profile.View, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.views[userID]
	return v, ok
}

func (c *LocalProfileCache) SetSession(s identity.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = &s
}

func (c *LocalProfileCache) Session() (identity.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return identity.Session{}, false
	}
	return *c.session, true
}

// Clear drops the session and every cached view. Called on sign-out.
func (c *LocalProfileCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
	c.views = make(map[uuid.UUID]*profile.View)
}
