package auth

import (
	"context"
	"time"
)

// RunSweeper calls SweepExpired every interval until ctx is done.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log := s.logger.With("context", "TokenSweeper", "interval", interval)
	log.Info("token sweeper started")
	for {
		select {
		case <-ctx.Done():
			log.Info("token sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.SweepExpired(ctx); err != nil {
				log.Error("sweep failed", "error", err)
			}
		}
	}
}
