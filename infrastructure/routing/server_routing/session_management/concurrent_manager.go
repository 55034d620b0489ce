package session_management

import (
	"net/netip"
	"sync"
)

// ConcurrentSessionManager guards a SessionManager with an RWMutex so the
// transport and TUN handlers can share it.
type ConcurrentSessionManager struct {
	mu      sync.RWMutex
	manager SessionManager
}

func NewConcurrentSessionManager(manager SessionManager) SessionManager {
	return &ConcurrentSessionManager{
		manager: manager,
	}
}

func (c *ConcurrentSessionManager) Allocate(peer netip.AddrPort) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.manager.Allocate(peer)
}

func (c *ConcurrentSessionManager) Get(id uint8) (Session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.manager.Get(id)
}

func (c *ConcurrentSessionManager) Prune() []uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.manager.Prune()
}
