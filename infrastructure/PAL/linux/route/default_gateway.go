package route

import (
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/vishvananda/netlink"
)

var ErrNoDefaultRoute = errors.New("no default IPv4 route found")

// DefaultGateway reroutes the host's default traffic through the tunnel for
// the lifetime of the value: a host route to the server is pinned via the
// pre-existing gateway, then the default route is replaced with the tunnel
// gateway. Close reverts both, so callers defer it immediately.
type DefaultGateway struct {
	serverRoute *netlink.Route
	oldDefault  *netlink.Route
	newDefault  *netlink.Route
}

// NewDefaultGateway installs the switch. serverIP is the server's public
// address, tunGateway the server's address inside the tunnel.
func NewDefaultGateway(serverIP netip.Addr, tunGateway netip.Addr) (*DefaultGateway, error) {
	oldDefault, findErr := findDefaultRoute()
	if findErr != nil {
		return nil, findErr
	}

	serverRoute := &netlink.Route{
		Dst: &net.IPNet{
			IP:   serverIP.AsSlice(),
			Mask: net.CIDRMask(32, 32),
		},
		Gw:        oldDefault.Gw,
		LinkIndex: oldDefault.LinkIndex,
	}
	if err := netlink.RouteAdd(serverRoute); err != nil {
		return nil, fmt.Errorf("failed to add host route to %s: %v", serverIP, err)
	}

	newDefault := &netlink.Route{
		Dst: nil,
		Gw:  tunGateway.AsSlice(),
	}
	if err := netlink.RouteReplace(newDefault); err != nil {
		_ = netlink.RouteDel(serverRoute)
		return nil, fmt.Errorf("failed to replace default route: %v", err)
	}

	return &DefaultGateway{
		serverRoute: serverRoute,
		oldDefault:  oldDefault,
		newDefault:  newDefault,
	}, nil
}

// Close restores the original default route and removes the host route.
func (g *DefaultGateway) Close() error {
	var errs []error
	if err := netlink.RouteReplace(g.oldDefault); err != nil {
		errs = append(errs, fmt.Errorf("failed to restore default route: %v", err))
	}
	if err := netlink.RouteDel(g.serverRoute); err != nil {
		errs = append(errs, fmt.Errorf("failed to remove host route: %v", err))
	}
	return errors.Join(errs...)
}

func findDefaultRoute() (*netlink.Route, error) {
	routes, listErr := netlink.RouteList(nil, netlink.FAMILY_V4)
	if listErr != nil {
		return nil, fmt.Errorf("failed to list routes: %v", listErr)
	}
	for i := range routes {
		r := routes[i]
		if r.Dst == nil || r.Dst.IP.Equal(net.IPv4zero) {
			return &r, nil
		}
	}
	return nil, ErrNoDefaultRoute
}
