package pantry

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/menufacil/internal/models"
)

// Source loads the current inventory.
type Source interface {
	Load(ctx context.Context) ([]models.Ingredient, bool, error)
}

// StartExpiryWatcher checks the inventory every interval and logs the
// ingredients expiring within window. It stops when ctx is done. A
// non-positive interval disables the watcher.
func StartExpiryWatcher(
	ctx context.Context,
	src Source,
	interval time.Duration,
	window time.Duration,
	log *zap.Logger,
) {
	if interval <= 0 {
		log.Warn("expiry watcher disabled", zap.Duration("interval", interval))
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				inv, _, err := src.Load(ctx)
				if err != nil {
					log.Error("failed to load inventory for expiry check", zap.Error(err))
					continue
				}
				now := time.Now().UTC()
				for _, ing := range ExpiringSoon(inv, now, window) {
					log.Warn("ingredient expiring",
						zap.String("id", ing.ID),
						zap.String("name", ing.Name),
						zap.Time("expiry_date", *ing.ExpiryDate),
						zap.Bool("expired", ing.ExpiryDate.Before(now)),
					)
				}
			}
		}
	}()
}
