package worker

// Background goroutine that flips PENDING/PARTIAL receivables to OVERDUE once
// their due date has passed. The update is idempotent, so the short tick
// interval costs nothing beyond one indexed query.

import (
	"context"
	"time"

	"otica/internal/repository"

	"github.com/rs/zerolog/log"
)

const overdueTickInterval = time.Hour

// StartOverdueCron launches the ticker goroutine. It respects the context
// for graceful shutdown and runs one pass immediately at startup.
func StartOverdueCron(ctx context.Context, repo repository.ReceivableRepository) {
	go func() {
		ticker := time.NewTicker(overdueTickInterval)
		defer ticker.Stop()

		log.Info().Msg("overdue_cron: started")
		markOverdue(ctx, repo)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("overdue_cron: shutting down")
				return
			case <-ticker.C:
				markOverdue(ctx, repo)
			}
		}
	}()
}

func markOverdue(ctx context.Context, repo repository.ReceivableRepository) {
	n, err := repo.MarkOverdue(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("overdue_cron: mark pass failed")
		return
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("overdue_cron: receivables marked overdue")
	}
}
