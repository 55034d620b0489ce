package tun

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/jessiex/kytan/application"
	"github.com/jessiex/kytan/infrastructure/settings"
	"github.com/songgao/water"
	"github.com/vishvananda/netlink"
)

// Open brings up the first free TUN device.
func Open() (application.TunDevice, error) {
	return Attempt(openWater, settings.MaxTunIndex)
}

func openWater(name string) (application.TunDevice, error) {
	config := water.Config{DeviceType: water.TUN}
	config.Name = name
	return water.New(config)
}

// Configure assigns addr to the device, pins the MTU and brings the link up.
func Configure(device application.TunDevice, addr netip.Prefix, mtu int) error {
	link, linkErr := netlink.LinkByName(device.Name())
	if linkErr != nil {
		return fmt.Errorf("failed to find link %s: %v", device.Name(), linkErr)
	}

	nlAddr := &netlink.Addr{
		IPNet: &net.IPNet{
			IP:   addr.Addr().AsSlice(),
			Mask: net.CIDRMask(addr.Bits(), 32),
		},
	}
	if err := netlink.AddrAdd(link, nlAddr); err != nil {
		return fmt.Errorf("failed to assign %s to %s: %v", addr, device.Name(), err)
	}
	if err := netlink.LinkSetMTU(link, mtu); err != nil {
		return fmt.Errorf("failed to set MTU on %s: %v", device.Name(), err)
	}
	if err := netlink.LinkSetUp(link); err != nil {
		return fmt.Errorf("failed to bring up %s: %v", device.Name(), err)
	}
	return nil
}
