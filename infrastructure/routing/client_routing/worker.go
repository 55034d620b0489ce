package client_routing

import "github.com/jessiex/kytan/application"

// Worker pairs the two directional handlers into a single TunWorker.
type Worker struct {
	tun       *TunHandler
	transport *TransportHandler
}

func NewWorker(tun *TunHandler, transport *TransportHandler) application.TunWorker {
	return &Worker{
		tun:       tun,
		transport: transport,
	}
}

func (w *Worker) HandleTun() error {
	return w.tun.HandleTun()
}

func (w *Worker) HandleTransport() error {
	return w.transport.HandleTransport()
}
