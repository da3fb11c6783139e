package database

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
	"github.com/zatekoja/saunabooking/internal/domain/providers"
	"github.com/zatekoja/saunabooking/internal/domain/repositories"
)

// CachedSaunaAdapter wraps a SaunaRepository with read-through caching of
// sauna details. Writes go to the wrapped repository and evict the entry.
type CachedSaunaAdapter struct {
	adapter repositories.SaunaRepository
	cache   providers.CacheProvider
}

// NewCachedSaunaAdapter creates a new cached sauna adapter
func NewCachedSaunaAdapter(adapter repositories.SaunaRepository, cache providers.CacheProvider) repositories.SaunaRepository {
	return &CachedSaunaAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// GetByID retrieves a sauna by ID with caching
func (a *CachedSaunaAdapter) GetByID(ctx context.Context, id string) (*entities.Sauna, error) {
	cacheKey := providers.SaunaCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var sauna entities.Sauna
		decodeErr := json.Unmarshal(cached, &sauna)
		if decodeErr == nil {
			return &sauna, nil
		}
		log.Warn().Err(decodeErr).Str("sauna_id", id).Msg("Discarding undecodable cached sauna")
	}

	sauna, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(sauna); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, providers.SaunaCacheTTL); err != nil {
			log.Warn().Err(err).Str("sauna_id", id).Msg("Failed to cache sauna")
		}
	}

	return sauna, nil
}

// List is not cached; it changes with every catalog write
func (a *CachedSaunaAdapter) List(ctx context.Context, filter repositories.SaunaFilter) ([]*entities.Sauna, error) {
	return a.adapter.List(ctx, filter)
}

// Create creates a new sauna
func (a *CachedSaunaAdapter) Create(ctx context.Context, sauna *entities.Sauna) error {
	return a.adapter.Create(ctx, sauna)
}

// Update updates a sauna and evicts its cached detail and grids
func (a *CachedSaunaAdapter) Update(ctx context.Context, sauna *entities.Sauna) error {
	if err := a.adapter.Update(ctx, sauna); err != nil {
		return err
	}
	a.evict(ctx, sauna.ID)
	a.evictGrids(ctx, sauna.ID)
	return nil
}

// AddImage adds an image and evicts the cached detail
func (a *CachedSaunaAdapter) AddImage(ctx context.Context, image *entities.SaunaImage) error {
	if err := a.adapter.AddImage(ctx, image); err != nil {
		return err
	}
	a.evict(ctx, image.SaunaID)
	return nil
}

// DeleteImage deletes an image and evicts the cached detail
func (a *CachedSaunaAdapter) DeleteImage(ctx context.Context, saunaID, imageID string) error {
	if err := a.adapter.DeleteImage(ctx, saunaID, imageID); err != nil {
		return err
	}
	a.evict(ctx, saunaID)
	return nil
}

// SetOperatingHours replaces the overrides and evicts the cached detail
func (a *CachedSaunaAdapter) SetOperatingHours(ctx context.Context, saunaID string, hours []entities.OperatingHours) error {
	if err := a.adapter.SetOperatingHours(ctx, saunaID, hours); err != nil {
		return err
	}
	a.evict(ctx, saunaID)
	return nil
}

func (a *CachedSaunaAdapter) evict(ctx context.Context, saunaID string) {
	if err := a.cache.Delete(ctx, providers.SaunaCacheKey(saunaID)); err != nil {
		log.Warn().Err(err).Str("sauna_id", saunaID).Msg("Failed to evict cached sauna")
	}
}

// evictGrids drops every cached availability grid of the sauna
func (a *CachedSaunaAdapter) evictGrids(ctx context.Context, saunaID string) {
	if err := a.cache.DeleteMatching(ctx, providers.AvailabilityCachePattern(saunaID)); err != nil {
		log.Warn().Err(err).Str("sauna_id", saunaID).Msg("Failed to evict cached availability")
	}
}
