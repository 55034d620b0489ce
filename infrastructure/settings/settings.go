package settings

import (
	"net/netip"
	"time"
)

const (
	// ServerID is the fourth octet of the server's virtual address. It is
	// never issued to clients.
	ServerID uint8 = 1

	// MinClientID and MaxClientID bound the issuable identity range. 0, 254
	// and 255 are reserved (network, broadcast, sentinel).
	MinClientID uint8 = 2
	MaxClientID uint8 = 253

	// MaxDatagramSize is the scratch buffer size for both datagram and TUN
	// reads. It exceeds the standard Ethernet MTU of 1500 to leave headroom
	// for message framing.
	MaxDatagramSize = 1600

	// TunMTU is the MTU configured on the virtual interface. Snappy block
	// compression can expand incompressible input, so the MTU is chosen such
	// that the worst-case encoded payload plus framing still fits a single
	// MaxDatagramSize datagram.
	TunMTU = 1320

	// MaxTunIndex is the last interface index tried when bringing up a TUN
	// device (tun0..tun254).
	MaxTunIndex = 254

	DefaultPort uint16 = 9527

	// SessionTTL is the idle window after which a server-side session
	// expires. Measured strictly from insertion; traffic does not refresh.
	SessionTTL = 60 * time.Second

	HandshakeTimeout  = 5 * time.Second
	HandshakeAttempts = 3
)

// Subnet is the shared virtual /24 both roles live on.
var Subnet = netip.MustParsePrefix("10.10.10.0/24")

// AddrForID returns the virtual address whose fourth octet is id.
func AddrForID(id uint8) netip.Addr {
	octets := Subnet.Addr().As4()
	octets[3] = id
	return netip.AddrFrom4(octets)
}

// ClientSettings carries everything the client role needs to start.
type ClientSettings struct {
	Host           string
	Port           uint16
	DefaultGateway bool
}

// ServerSettings carries everything the server role needs to start.
type ServerSettings struct {
	Port uint16
}
