package database

import (
	"errors"
	"sync"
)

// ErrNoStore is returned when no store profile is selected. Callers
// must pick one explicitly; there is no fallback store.
var ErrNoStore = errors.New("no store selected")

// Current holds the active store handle. It is an explicit context
// object handed to every consumer instead of a package-level singleton,
// and supports swapping when the user switches profiles.
type Current struct {
	mu  sync.RWMutex
	mgr *Manager
}

// NewCurrent wraps an initial manager, which may be nil when no profile
// is selected yet.
func NewCurrent(mgr *Manager) *Current {
	return &Current{mgr: mgr}
}

// Manager returns the active store or ErrNoStore.
func (c *Current) Manager() (*Manager, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.mgr == nil {
		return nil, ErrNoStore
	}
	return c.mgr, nil
}

// Swap installs a new active store and returns the previous one so the
// caller can close it.
func (c *Current) Swap(next *Manager) *Manager {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.mgr
	c.mgr = next
	return prev
}

// Clear removes the active store (used when the current profile is
// deleted) and returns it for closing.
func (c *Current) Clear() *Manager {
	return c.Swap(nil)
}
