package session_management

import "net/netip"

// Session is an established client session: the identity granted at
// handshake, its pairing token and the peer's UDP address. The token is
// immutable for the lifetime of the record; the peer address is never
// updated from data traffic.
type Session struct {
	ID    uint8
	Token uint64
	Peer  netip.AddrPort
}
