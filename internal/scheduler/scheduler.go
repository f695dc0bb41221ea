// Package scheduler runs the periodic price sync.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Syncer refreshes every product and reports how many were updated.
type Syncer interface {
	SyncAll(ctx context.Context) (int, error)
}

// PriceSync calls Syncer.SyncAll once per interval.
type PriceSync struct {
	syncer   Syncer
	interval time.Duration
	logger   *slog.Logger
}

// NewPriceSync returns a job that syncs every interval.
func NewPriceSync(syncer Syncer, interval time.Duration, logger *slog.Logger) *PriceSync {
	return &PriceSync{syncer: syncer, interval: interval, logger: logger}
}

// Enabled reports whether a positive interval was configured.
func (p *PriceSync) Enabled() bool {
	return p.interval > 0
}

// Run blocks until ctx is canceled. The first run happens one interval after
// start, and a run that overlaps the next tick delays it rather than stacking.
func (p *PriceSync) Run(ctx context.Context) {
	if !p.Enabled() {
		return
	}
	p.logger.Info("price sync scheduled", slog.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sync pass and logs its outcome.
func (p *PriceSync) RunOnce(ctx context.Context) {
	start := time.Now()
	synced, err := p.syncer.SyncAll(ctx)
	if err != nil {
		p.logger.Error("price sync error",
			slog.Int("synced", synced),
			slog.String("error", err.Error()),
		)
		return
	}
	p.logger.Info("price sync completed",
		slog.Int("synced", synced),
		slog.Duration("took", time.Since(start)),
	)
}
