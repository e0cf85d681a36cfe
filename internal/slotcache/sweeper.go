package slotcache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const DefaultSweepInterval = time.Minute

// Sweep varre os três stores, um de cada vez, e devolve quantas entradas
// expiradas foram removidas.
func (c *Cache) Sweep() int {
	return c.availability.Sweep() +
		c.blocked.Sweep() +
		c.bookings.Sweep()
}

// RunSweeper bloqueia até ctx ser cancelado, varrendo a cada intervalo.
func (c *Cache) RunSweeper(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		every = DefaultSweepInterval
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	c.log.Info("sweeper started", zap.Duration("interval", every))

	for {
		select {
		case <-ctx.Done():
			c.log.Info("sweeper stopped")
			return nil
		case <-ticker.C:
			if removed := c.Sweep(); removed > 0 {
				c.log.Debug("sweep", zap.Int("removed", removed))
			}
		}
	}
}
