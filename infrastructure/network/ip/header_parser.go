package ip

import (
	"fmt"
	"net/netip"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// HeaderParser extracts addressing information from raw IP packets read off
// the TUN device.
type HeaderParser struct{}

func NewHeaderParser() HeaderParser { return HeaderParser{} }

// DestinationAddress parses an IPv4/IPv6 header and returns the destination
// address. IPv4: header[16:20]. IPv6: header[24:40]. The version nibble is
// checked first so non-IP framing is rejected instead of misread.
func (HeaderParser) DestinationAddress(header []byte) (netip.Addr, error) {
	if len(header) < 1 {
		return netip.Addr{}, fmt.Errorf("invalid packet: empty header")
	}
	ver := header[0] >> 4 // high nibble

	switch ver {
	case 4:
		if len(header) < ipv4.HeaderLen {
			return netip.Addr{}, fmt.Errorf("invalid IPv4 header: too small (%d bytes)", len(header))
		}
		ihl := int(header[0]&0x0F) * 4
		if ihl < ipv4.HeaderLen {
			return netip.Addr{}, fmt.Errorf("invalid IPv4 header: IHL=%d (<%d)", ihl, ipv4.HeaderLen)
		}
		if len(header) < ihl {
			return netip.Addr{}, fmt.Errorf("invalid IPv4 header: truncated (len=%d < IHL=%d)", len(header), ihl)
		}
		return netip.AddrFrom4([4]byte{header[16], header[17], header[18], header[19]}), nil

	case 6:
		if len(header) < ipv6.HeaderLen {
			return netip.Addr{}, fmt.Errorf("invalid IPv6 header: too small (%d bytes)", len(header))
		}
		var a16 [16]byte
		copy(a16[:], header[24:40])
		return netip.AddrFrom16(a16), nil

	default:
		return netip.Addr{}, fmt.Errorf("invalid IP version: %d", ver)
	}
}

// DestinationID returns the final octet of an IPv4 destination address, the
// session identity on the shared /24. IPv6 and malformed packets are
// rejected.
func (p HeaderParser) DestinationID(header []byte) (uint8, error) {
	addr, err := p.DestinationAddress(header)
	if err != nil {
		return 0, err
	}
	if !addr.Is4() {
		return 0, fmt.Errorf("not an IPv4 destination: %s", addr)
	}
	return addr.As4()[3], nil
}
