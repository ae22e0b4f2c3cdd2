package worker

// alerta_cron.go
// Background goroutine that periodically scans the catalog for products at or
// below their configured minimum and enqueues an alert mail for each one.
// A Redis key per product suppresses repeat alerts for 24 hours.

import (
	"context"
	"time"

	"github.com/programamos-tech/zonat-sub000/internal/infra"
	"github.com/programamos-tech/zonat-sub000/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	alertaTickInterval = 15 * time.Minute
	alertaDedupTTL     = 24 * time.Hour
	alertaDedupPrefix  = "alerta:producto:"
)

// AlertaCronConfig holds all dependencies for the low stock scan goroutine.
type AlertaCronConfig struct {
	ProductoRepo repository.ProductoRepository
	Dispatcher   *Dispatcher
	RDB          *redis.Client
	CB           *infra.CircuitBreaker
}

// StartAlertaCron launches a background goroutine that ticks every 15 minutes
// and enqueues alerts for products under their minimum. It respects the
// context for graceful shutdown.
func StartAlertaCron(ctx context.Context, cfg AlertaCronConfig) {
	go func() {
		ticker := time.NewTicker(alertaTickInterval)
		defer ticker.Stop()

		log.Info().Msg("alerta_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alerta_cron: shutting down")
				return
			case <-ticker.C:
				scanBajoMinimo(ctx, cfg)
			}
		}
	}()
}

func scanBajoMinimo(ctx context.Context, cfg AlertaCronConfig) {
	// If the mail CB is open there is no point queueing more alerts.
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("alerta_cron: circuit breaker is open, skipping tick")
		return
	}

	productos, err := cfg.ProductoRepo.ListBajoMinimo(ctx)
	if err != nil {
		log.Error().Err(err).Msg("alerta_cron: failed to query products under minimum")
		return
	}
	if len(productos) == 0 {
		return
	}

	enqueued := 0
	for i := range productos {
		p := &productos[i]

		// SetNX acts as the dedup lock: first scan wins, the rest skip
		// until the TTL expires.
		key := alertaDedupPrefix + p.ID.String()
		ok, err := cfg.RDB.SetNX(ctx, key, "1", alertaDedupTTL).Result()
		if err != nil {
			log.Warn().Err(err).Str("referencia", p.Referencia).Msg("alerta_cron: dedup check failed")
			continue
		}
		if !ok {
			continue // already alerted within the window
		}

		payload := AlertaStockPayload{
			ProductoID:  p.ID.String(),
			Referencia:  p.Referencia,
			Nombre:      p.Nombre,
			StockBodega: p.StockBodega,
			StockLocal:  p.StockLocal,
			StockMinimo: p.StockMinimo,
		}
		if err := cfg.Dispatcher.EnqueueAlertaStock(ctx, payload); err != nil {
			log.Warn().Err(err).Str("referencia", p.Referencia).Msg("alerta_cron: failed to enqueue alert")
			// Drop the dedup key so the next tick retries this product.
			_ = cfg.RDB.Del(ctx, key).Err()
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		log.Info().Int("count", enqueued).Msg("alerta_cron: low stock alerts enqueued")
	}
}
