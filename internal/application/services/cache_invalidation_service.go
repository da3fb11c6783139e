package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
	"github.com/zatekoja/saunabooking/internal/domain/providers"
)

// CacheInvalidationService evicts cached availability grids and sauna
// details when booking or catalog events arrive
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to booking and sauna events
func (s *CacheInvalidationService) Start() error {
	for _, channel := range []string{providers.EventChannelBookings, providers.EventChannelSaunas} {
		events, err := s.eventBus.Subscribe(s.ctx, channel)
		if err != nil {
			s.cancel()
			return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
		}
		s.wg.Add(1)
		go s.processEvents(events)
	}

	log.Info().Msg("Cache invalidation service started")
	return nil
}

// Stop cancels the subscriptions and waits for the workers to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	s.wg.Wait()
	log.Info().Msg("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(events <-chan *entities.DomainEvent) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event != nil {
				s.HandleEvent(event)
			}
		}
	}
}

// HandleEvent evicts the cache entries an event makes stale
func (s *CacheInvalidationService) HandleEvent(event *entities.DomainEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := log.With().Str("event_id", event.ID).Str("event_type", string(event.EventType)).Logger()

	if keys := KeysFor(event); len(keys) > 0 {
		if err := s.cache.Delete(ctx, keys...); err != nil {
			logger.Warn().Err(err).Strs("keys", keys).Msg("Cache invalidation failed")
		} else {
			logger.Debug().Strs("keys", keys).Msg("Cache invalidated")
		}
	}

	for _, pattern := range PatternsFor(event) {
		if err := s.cache.DeleteMatching(ctx, pattern); err != nil {
			logger.Warn().Err(err).Str("pattern", pattern).Msg("Cache invalidation failed")
			continue
		}
		logger.Debug().Str("pattern", pattern).Msg("Cache invalidated")
	}
}

// KeysFor lists the cache keys affected by an event
func KeysFor(event *entities.DomainEvent) []string {
	switch event.EventType {
	case entities.EventTypeBookingCreated, entities.EventTypeBookingCancelled, entities.EventTypeBookingUpdated:
		if event.SaunaID == "" || event.BookingDate == "" {
			return nil
		}
		return []string{providers.AvailabilityCacheKey(event.SaunaID, event.BookingDate)}
	case entities.EventTypeSaunaUpdated:
		if event.SaunaID == "" {
			return nil
		}
		return []string{providers.SaunaCacheKey(event.SaunaID)}
	}
	return nil
}

// PatternsFor lists key patterns an event makes stale. A sauna change can
// move its window or rate, so every cached grid of that sauna goes.
func PatternsFor(event *entities.DomainEvent) []string {
	if event.EventType == entities.EventTypeSaunaUpdated && event.SaunaID != "" {
		return []string{providers.AvailabilityCachePattern(event.SaunaID)}
	}
	return nil
}
