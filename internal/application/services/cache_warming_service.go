package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/saunabooking/internal/domain/repositories"
)

// CacheWarmingService preloads the detail entries of active saunas so the
// first availability request after a deploy or an eviction is served from
// cache. It reads through a cache-backed SaunaRepository, which stores each
// detail as a side effect.
type CacheWarmingService struct {
	saunas repositories.SaunaRepository

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCacheWarmingService creates a new cache warming service. saunas should
// be the cached repository.
func NewCacheWarmingService(saunas repositories.SaunaRepository) *CacheWarmingService {
	return &CacheWarmingService{saunas: saunas}
}

// WarmCache loads every active sauna once and returns how many were warmed
func (s *CacheWarmingService) WarmCache(ctx context.Context) (int, error) {
	saunas, err := s.saunas.List(ctx, repositories.SaunaFilter{ActiveOnly: true})
	if err != nil {
		return 0, fmt.Errorf("failed to list saunas: %w", err)
	}

	warmed := 0
	for _, sauna := range saunas {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}
		if _, err := s.saunas.GetByID(ctx, sauna.ID); err != nil {
			log.Warn().Err(err).Str("sauna_id", sauna.ID).Msg("Failed to warm sauna")
			continue
		}
		warmed++
	}

	log.Debug().Int("saunas", warmed).Msg("Sauna cache warmed")
	return warmed, nil
}

// StartPeriodicWarming warms immediately and then on every interval until
// Stop is called
func (s *CacheWarmingService) StartPeriodicWarming(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if _, err := s.WarmCache(ctx); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Msg("Cache warming failed")
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	log.Info().Dur("interval", interval).Msg("Started periodic cache warming")
}

// Stop ends periodic warming and waits for the current run to finish
func (s *CacheWarmingService) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}
