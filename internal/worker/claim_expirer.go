package worker

import (
	"context"
	"time"

	"heyspender/pkg/contextx"
)

//nolint:gochecknoglobals
var logger = contextx.LoggerFromContextOrDefault

type claimExpirerService interface {
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

// ClaimExpirer sweeps overdue pending claims on a fixed interval and
// releases their reserved quantities.
type ClaimExpirer struct {
	claims   claimExpirerService
	interval time.Duration
}

func NewClaimExpirer(claims claimExpirerService, interval time.Duration) *ClaimExpirer {
	return &ClaimExpirer{
		claims:   claims,
		interval: interval,
	}
}

func (w *ClaimExpirer) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger(ctx).Info("claim expirer started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("claim expirer stopped")
			return ctx.Err()
		case now := <-ticker.C:
			count, err := w.claims.ExpireDue(ctx, now)
			if err != nil {
				logger(ctx).Error("claim expiry sweep failed", "error", err)
				continue
			}

			if count > 0 {
				logger(ctx).Info("expired overdue claims", "count", count)
			}
		}
	}
}
