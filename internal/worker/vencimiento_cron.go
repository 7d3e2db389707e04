package worker

// vencimiento_cron.go
// Background goroutine that periodically marks ACTIVA grants whose window
// already closed as VENCIDA, so eligibility never reads stale grants.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const vencimientoTickInterval = 1 * time.Hour

// BecaVencedor is the slice of the grant service the cron needs.
type BecaVencedor interface {
	VencerBecas(ctx context.Context, hoy time.Time) (int64, error)
}

// StartVencimientoCron launches a goroutine that sweeps expired grants on a
// fixed interval, running once immediately at startup. It respects the
// context for graceful shutdown.
func StartVencimientoCron(ctx context.Context, becas BecaVencedor) {
	go func() {
		ticker := time.NewTicker(vencimientoTickInterval)
		defer ticker.Stop()

		log.Info().Msg("vencimiento_cron: started")
		sweep(ctx, becas)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("vencimiento_cron: shutting down")
				return
			case <-ticker.C:
				sweep(ctx, becas)
			}
		}
	}()
}

func sweep(ctx context.Context, becas BecaVencedor) {
	n, err := becas.VencerBecas(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("vencimiento_cron: sweep failed")
		return
	}
	if n > 0 {
		log.Info().Int64("vencidas", n).Msg("vencimiento_cron: grants expired")
	}
}
