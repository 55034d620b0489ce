package application

import "context"

// TrafficRouter moves packets between the TUN device and the transport until
// ctx is cancelled or one of the underlying handlers fails.
type TrafficRouter interface {
	RouteTraffic(ctx context.Context) error
}

// TunWorker handles both directions of a tunnel. HandleTun forwards packets
// read from the TUN device to the transport, HandleTransport forwards
// datagrams from the transport to the TUN device.
type TunWorker interface {
	HandleTun() error
	HandleTransport() error
}
