package routing

import (
	"context"

	"github.com/jessiex/kytan/application"
	"golang.org/x/sync/errgroup"
)

// Router drives both directions of a TunWorker until either fails or the
// context is cancelled.
type Router struct {
	worker application.TunWorker
}

func NewRouter(worker application.TunWorker) application.TrafficRouter {
	return &Router{
		worker: worker,
	}
}

func (r *Router) RouteTraffic(ctx context.Context) error {
	errGroup, _ := errgroup.WithContext(ctx)
	results := make(chan error, 2)

	// TUN -> Transport
	errGroup.Go(func() error {
		err := r.worker.HandleTun()
		results <- err
		return err
	})

	// Transport -> TUN
	errGroup.Go(func() error {
		err := r.worker.HandleTransport()
		results <- err
		return err
	})

	// The first failing direction ends routing without waiting for the other.
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			return err
		}
	}
	return errGroup.Wait()
}
