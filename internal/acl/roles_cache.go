package acl

import (
	"sync"

	"courier/internal/types"
)

// RolesCache is an in-process cache of role grants keyed by user ID. The auth
// middleware consults it on every request; role-management writes invalidate
// the affected user. Entries never expire on their own: the role set changes
// only through this service's own endpoints.
type RolesCache struct {
	mu    sync.RWMutex
	roles map[int64][]types.Role
}

// NewRolesCache returns an empty cache.
func NewRolesCache() *RolesCache {
	return &RolesCache{roles: make(map[int64][]types.Role)}
}

// Get returns the cached role set for the user and whether it was present.
func (c *RolesCache) Get(userID int64) ([]types.Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	roles, ok := c.roles[userID]
	if !ok {
		return nil, false
	}
	out := make([]types.Role, len(roles))
	copy(out, roles)
	return out, true
}

// Set stores the role set for the user.
func (c *RolesCache) Set(userID int64, roles []types.Role) {
	stored := make([]types.Role, len(roles))
	copy(stored, roles)
	c.mu.Lock()
	c.roles[userID] = stored
	c.mu.Unlock()
}

// Invalidate drops the cached role set for the user.
func (c *RolesCache) Invalidate(userID int64) {
	c.mu.Lock()
	delete(c.roles, userID)
	c.mu.Unlock()
}
