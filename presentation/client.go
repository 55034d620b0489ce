package presentation

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"

	"github.com/jessiex/kytan/application"
	"github.com/jessiex/kytan/infrastructure/PAL/linux/route"
	"github.com/jessiex/kytan/infrastructure/PAL/tun"
	"github.com/jessiex/kytan/infrastructure/routing"
	"github.com/jessiex/kytan/infrastructure/routing/client_routing"
	"github.com/jessiex/kytan/infrastructure/settings"
)

// StartClient resolves the server, performs the handshake, brings up the TUN
// device with the granted identity and forwards traffic until ctx is
// cancelled.
func StartClient(ctx context.Context, s settings.ClientSettings, logger application.Logger) error {
	logger.Printf("working in client mode")

	serverAddr, resolveErr := net.ResolveUDPAddr("udp", net.JoinHostPort(s.Host, strconv.Itoa(int(s.Port))))
	if resolveErr != nil {
		return fmt.Errorf("failed to resolve %s: %v", s.Host, resolveErr)
	}
	logger.Printf("remote server: %v", serverAddr)

	conn, dialErr := net.DialUDP("udp", nil, serverAddr)
	if dialErr != nil {
		return fmt.Errorf("failed to open socket: %v", dialErr)
	}
	defer func() {
		_ = conn.Close()
	}()

	id, token, handshakeErr := client_routing.Handshake(conn, logger)
	if handshakeErr != nil {
		return fmt.Errorf("handshake failed: %v", handshakeErr)
	}
	virtualAddr := settings.AddrForID(id)
	logger.Printf("session established with token %d. assigned IP address: %s", token, virtualAddr)

	device, openErr := tun.Open()
	if openErr != nil {
		return openErr
	}
	defer func() {
		_ = device.Close()
	}()

	prefix := netip.PrefixFrom(virtualAddr, settings.Subnet.Bits())
	if err := tun.Configure(device, prefix, settings.TunMTU); err != nil {
		return err
	}
	logger.Printf("TUN device %s initialized. internal IP: %s", device.Name(), prefix)

	if s.DefaultGateway {
		serverIP := serverAddr.AddrPort().Addr().Unmap()
		gateway, gatewayErr := route.NewDefaultGateway(serverIP, settings.AddrForID(settings.ServerID))
		if gatewayErr != nil {
			return fmt.Errorf("failed to switch default gateway: %v", gatewayErr)
		}
		defer func() {
			_ = gateway.Close()
		}()
		logger.Printf("default gateway switched to %s", settings.AddrForID(settings.ServerID))
	}

	// Unblock the handlers' reads when the context ends.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
		_ = device.Close()
	}()

	worker := client_routing.NewWorker(
		client_routing.NewTunHandler(ctx, device, conn, id, token, logger),
		client_routing.NewTransportHandler(ctx, conn, device, token, logger),
	)

	logger.Printf("ready for transmission")
	return routing.NewRouter(worker).RouteTraffic(ctx)
}
