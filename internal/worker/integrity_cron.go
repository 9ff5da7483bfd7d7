package worker

// integrity_cron.go
// Background goroutine that periodically replays every ledger chain and logs
// entries whose stored balance or due drifted from the replayed value. It only
// reports; fixing is an explicit administrative action.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// BalanceVerifier is the read-only audit the cron runs each tick.
type BalanceVerifier interface {
	Verify(ctx context.Context) ([]string, error)
}

// StartIntegrityCron launches the periodic ledger drift audit. A non-positive
// interval disables it.
func StartIntegrityCron(ctx context.Context, verifier BalanceVerifier, interval time.Duration) {
	if interval <= 0 {
		log.Info().Msg("integrity_cron: disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("integrity_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("integrity_cron: shutting down")
				return
			case <-ticker.C:
				runIntegrityCheck(ctx, verifier)
			}
		}
	}()
}

func runIntegrityCheck(ctx context.Context, verifier BalanceVerifier) {
	problems, err := verifier.Verify(ctx)
	if err != nil {
		log.Error().Err(err).Msg("integrity_cron: audit failed")
		return
	}
	if len(problems) == 0 {
		log.Debug().Msg("integrity_cron: ledger consistent")
		return
	}
	for _, p := range problems {
		log.Warn().Str("drift", p).Msg("integrity_cron: ledger drift detected")
	}
	log.Error().Int("count", len(problems)).Msg("integrity_cron: ledger drift found, run the balance repair")
}
