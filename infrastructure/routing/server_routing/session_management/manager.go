package session_management

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"net/netip"
	"time"

	"github.com/jessiex/kytan/infrastructure/settings"
)

// SessionManager owns the identity free pool and the session table. At any
// instant every id in 2..=253 lives in exactly one of the two.
type SessionManager interface {
	// Allocate pops an id from the free pool, draws a fresh token and
	// inserts the record. Returns ErrNoAvailableIds when the pool is empty.
	Allocate(peer netip.AddrPort) (Session, error)

	// Get looks a session up by id. It does not refresh the lease.
	Get(id uint8) (Session, error)

	// Prune removes every record older than the TTL, returns its id to the
	// free pool and reports the recycled ids.
	Prune() []uint8
}

type record struct {
	session    Session
	insertedAt time.Time
}

type DefaultSessionManager struct {
	free     []uint8
	sessions map[uint8]record
	ttl      time.Duration

	// overridable in tests
	now      func() time.Time
	newToken func() (uint64, error)
}

func NewDefaultSessionManager(ttl time.Duration) *DefaultSessionManager {
	free := make([]uint8, 0, settings.MaxClientID-settings.MinClientID+1)
	for id := settings.MinClientID; ; id++ {
		free = append(free, id)
		if id == settings.MaxClientID {
			break
		}
	}
	return &DefaultSessionManager{
		free:     free,
		sessions: make(map[uint8]record),
		ttl:      ttl,
		now:      time.Now,
		newToken: randomToken,
	}
}

func randomToken() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to draw session token: %v", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Allocate pops from the tail, so the highest free id is issued first and
// recycled ids are reused before untouched ones.
func (m *DefaultSessionManager) Allocate(peer netip.AddrPort) (Session, error) {
	if len(m.free) == 0 {
		return Session{}, ErrNoAvailableIds
	}

	token, tokenErr := m.newToken()
	if tokenErr != nil {
		return Session{}, tokenErr
	}

	id := m.free[len(m.free)-1]
	m.free = m.free[:len(m.free)-1]

	session := Session{ID: id, Token: token, Peer: peer}
	m.sessions[id] = record{session: session, insertedAt: m.now()}
	return session, nil
}

func (m *DefaultSessionManager) Get(id uint8) (Session, error) {
	rec, found := m.sessions[id]
	if !found {
		return Session{}, ErrSessionNotFound
	}
	return rec.session, nil
}

func (m *DefaultSessionManager) Prune() []uint8 {
	now := m.now()

	var expired []uint8
	for id, rec := range m.sessions {
		if !now.Before(rec.insertedAt.Add(m.ttl)) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(m.sessions, id)
	}
	m.free = append(m.free, expired...)
	return expired
}
