package jobmanager

import (
	"context"
	"errors"
	"github.com/RezaEskandarii/remindfire/app"
	"github.com/RezaEskandarii/remindfire/types/config"
	"github.com/RezaEskandarii/remindfire/web"
	"golang.org/x/sync/errgroup"
	"log"
	"runtime"
)

// RunOptions selects which background services Run starts next to the HTTP server.
type RunOptions struct {
	// Sweep runs the in-process sweep loop on cfg.SweepSchedule. Ignored under the push strategy.
	Sweep bool
	// Container options, mainly for tests.
	ContainerOptions []app.ContainerOption
}

// Run boots the reminder engine and blocks until ctx is cancelled or a service fails.
//
// The following services are started:
//  1. The dependency container for cfg (storage, tracker, transport, dispatch strategy).
//  2. The queue sync worker when the RabbitMQ queue writer is enabled.
//  3. The sweep loop when opts.Sweep is set and a job store exists.
//  4. The HTTP API on cfg.HTTPPort.
func Run(ctx context.Context, cfg *config.RemindfireConfig, opts RunOptions) error {
	log.Printf("GOMAXPROCS Is: %d\n", runtime.GOMAXPROCS(0))

	c, err := app.NewContainer(ctx, cfg, opts.ContainerOptions...)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Printf("failed to close container: %v", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	if c.SweepStrategy != nil {
		if err := c.SweepStrategy.StartQueueAndStorageSyncWorker(gctx); err != nil {
			return err
		}
	}

	if opts.Sweep && c.SweepManager != nil {
		g.Go(func() error {
			err := c.SweepManager.Start(gctx, cfg.SweepSchedule)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		return web.NewRouteHandler(c.Manager, cfg.CronSecret, cfg.HTTPPort).Serve(gctx)
	})

	return g.Wait()
}
