package application

import "net/netip"

// ConnectionAdapter is a connected datagram socket: reads and writes are
// bound to a single remote peer.
type ConnectionAdapter interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Close() error
}

// DatagramListener is an unconnected datagram socket carrying framed
// messages to and from arbitrary peers. *net.UDPConn satisfies it.
type DatagramListener interface {
	ReadFromUDPAddrPort(b []byte) (int, netip.AddrPort, error)
	WriteToUDPAddrPort(b []byte, addr netip.AddrPort) (int, error)
	Close() error
}
