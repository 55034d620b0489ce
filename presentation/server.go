package presentation

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"github.com/jessiex/kytan/application"
	"github.com/jessiex/kytan/infrastructure/PAL/exec_commander"
	"github.com/jessiex/kytan/infrastructure/PAL/linux/sysctl"
	"github.com/jessiex/kytan/infrastructure/PAL/tun"
	"github.com/jessiex/kytan/infrastructure/network/ip"
	"github.com/jessiex/kytan/infrastructure/routing"
	"github.com/jessiex/kytan/infrastructure/routing/server_routing"
	"github.com/jessiex/kytan/infrastructure/routing/server_routing/session_management"
	"github.com/jessiex/kytan/infrastructure/settings"
)

// StartServer enables IPv4 forwarding, brings up the TUN device at the
// server's virtual address, binds the UDP listener and forwards traffic
// until ctx is cancelled.
func StartServer(ctx context.Context, s settings.ServerSettings, logger application.Logger) error {
	logger.Printf("working in server mode")

	logger.Printf("enabling kernel's IPv4 forwarding")
	forwarding := sysctl.NewWrapper(exec_commander.NewExecCommander())
	if out, err := forwarding.WNetIpv4IpForward(); err != nil {
		return fmt.Errorf("failed to enable IPv4 forwarding: %v, output: %s", err, out)
	}

	device, openErr := tun.Open()
	if openErr != nil {
		return openErr
	}
	defer func() {
		_ = device.Close()
	}()

	prefix := netip.PrefixFrom(settings.AddrForID(settings.ServerID), settings.Subnet.Bits())
	if err := tun.Configure(device, prefix, settings.TunMTU); err != nil {
		return err
	}
	logger.Printf("TUN device %s initialized. internal IP: %s", device.Name(), prefix)

	conn, listenErr := net.ListenUDP("udp", &net.UDPAddr{Port: int(s.Port)})
	if listenErr != nil {
		return fmt.Errorf("failed to bind UDP port %d: %v", s.Port, listenErr)
	}
	defer func() {
		_ = conn.Close()
	}()
	logger.Printf("listening on: 0.0.0.0:%d", s.Port)

	// Unblock the handlers' reads when the context ends.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
		_ = device.Close()
	}()

	sessionManager := session_management.NewConcurrentSessionManager(
		session_management.NewDefaultSessionManager(settings.SessionTTL))

	worker := server_routing.NewWorker(
		server_routing.NewTunHandler(ctx, device, conn, ip.NewHeaderParser(), sessionManager, logger),
		server_routing.NewTransportHandler(ctx, conn, device, sessionManager, logger),
	)

	logger.Printf("ready for transmission")
	return routing.NewRouter(worker).RouteTraffic(ctx)
}
