package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PresenceSweeper periodically marks online users away once they have been
// idle longer than IdleAfter.
type PresenceSweeper struct {
	repo      Repository
	interval  time.Duration
	idleAfter time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func NewPresenceSweeper(repo Repository, interval, idleAfter time.Duration, logger zerolog.Logger) *PresenceSweeper {
	return &PresenceSweeper{
		repo:      repo,
		interval:  interval,
		idleAfter: idleAfter,
		logger:    logger.With().Str("module", "usecase.presence").Logger(),
		now:       time.Now,
	}
}

// Sweep runs one pass and returns how many users went away.
func (s *PresenceSweeper) Sweep(ctx context.Context) (int64, error) {
	return s.repo.MarkAway(ctx, s.now().Add(-s.idleAfter))
}

// Run sweeps every interval until ctx is done.
func (s *PresenceSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error().Err(err).Msg("presence sweep failed")
				continue
			}
			if n > 0 {
				s.logger.Debug().Int64("away", n).Msg("users marked away")
			}
		}
	}
}
