package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/saunabooking/internal/domain/availability"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
	"github.com/zatekoja/saunabooking/internal/domain/providers"
	"github.com/zatekoja/saunabooking/internal/domain/repositories"
	"github.com/zatekoja/saunabooking/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/saunabooking/pkg/errors"
)

// SaunaService handles the sauna catalog
type SaunaService struct {
	repo     repositories.SaunaRepository
	eventBus providers.EventBus
	now      func() time.Time
}

// NewSaunaService creates a new sauna service. eventBus is optional.
func NewSaunaService(repo repositories.SaunaRepository, eventBus providers.EventBus) *SaunaService {
	return &SaunaService{
		repo:     repo,
		eventBus: eventBus,
		now:      time.Now,
	}
}

// SaunaInput describes a sauna to create. Nil pointers keep the current
// value on update.
type SaunaInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Capacity    *int     `json:"capacity"`
	HourlyRate  *float64 `json:"hourly_rate"`
	ImageURL    *string  `json:"image_url"`
	Amenities   *string  `json:"amenities"`
	IsActive    *bool    `json:"is_active"`
	OpenTime    *string  `json:"open_time"`
	CloseTime   *string  `json:"close_time"`
}

// ImageInput describes a gallery image to add
type ImageInput struct {
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
	IsPrimary    bool   `json:"is_primary"`
}

// OperatingHoursInput describes one weekday override (0 is Monday)
type OperatingHoursInput struct {
	DayOfWeek int    `json:"day_of_week"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	IsClosed  bool   `json:"is_closed"`
}

// List returns active saunas within the optional price bounds
func (s *SaunaService) List(ctx context.Context, minPrice, maxPrice *float64) ([]*entities.Sauna, error) {
	if minPrice != nil && maxPrice != nil && *minPrice > *maxPrice {
		return nil, apperrors.NewValidationError("min_price must not exceed max_price")
	}
	return s.repo.List(ctx, repositories.SaunaFilter{ActiveOnly: true, MinPrice: minPrice, MaxPrice: maxPrice})
}

// Get returns a sauna with its gallery and weekday overrides
func (s *SaunaService) Get(ctx context.Context, id string) (*entities.Sauna, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a sauna to the catalog
func (s *SaunaService) Create(ctx context.Context, actor *entities.User, in SaunaInput) (*entities.Sauna, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if in.Name == nil || in.Capacity == nil || in.HourlyRate == nil || in.OpenTime == nil || in.CloseTime == nil {
		return nil, apperrors.NewValidationError("name, capacity, hourly_rate, open_time and close_time are required")
	}

	sauna := &entities.Sauna{
		ID:        uuid.New().String(),
		IsActive:  true,
		CreatedAt: s.now().UTC(),
	}
	applySaunaInput(sauna, in)
	if err := validateSauna(sauna); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sauna); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().Str("sauna_id", sauna.ID).Str("name", sauna.Name).Msg("Sauna created")
	return sauna, nil
}

// Update applies a partial change to a sauna
func (s *SaunaService) Update(ctx context.Context, actor *entities.User, id string, in SaunaInput) (*entities.Sauna, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	sauna, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applySaunaInput(sauna, in)
	if err := validateSauna(sauna); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sauna); err != nil {
		return nil, err
	}

	s.changed(ctx, id)
	return sauna, nil
}

// AddImage adds a gallery image to a sauna
func (s *SaunaService) AddImage(ctx context.Context, actor *entities.User, saunaID string, in ImageInput) (*entities.SaunaImage, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ImageURL) == "" {
		return nil, apperrors.NewValidationError("image_url is required")
	}
	if _, err := s.repo.GetByID(ctx, saunaID); err != nil {
		return nil, err
	}

	image := &entities.SaunaImage{
		ID:           uuid.New().String(),
		SaunaID:      saunaID,
		ImageURL:     in.ImageURL,
		DisplayOrder: in.DisplayOrder,
		IsPrimary:    in.IsPrimary,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.AddImage(ctx, image); err != nil {
		return nil, err
	}

	s.changed(ctx, saunaID)
	return image, nil
}

// DeleteImage removes a gallery image from a sauna
func (s *SaunaService) DeleteImage(ctx context.Context, actor *entities.User, saunaID, imageID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.repo.DeleteImage(ctx, saunaID, imageID); err != nil {
		return err
	}

	s.changed(ctx, saunaID)
	return nil
}

// SetOperatingHours replaces the weekday overrides of a sauna
func (s *SaunaService) SetOperatingHours(ctx context.Context, actor *entities.User, saunaID string, in []OperatingHoursInput) ([]entities.OperatingHours, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, saunaID); err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(in))
	hours := make([]entities.OperatingHours, 0, len(in))
	for _, h := range in {
		if h.DayOfWeek < 0 || h.DayOfWeek > 6 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("day_of_week %d out of range 0-6", h.DayOfWeek))
		}
		if seen[h.DayOfWeek] {
			return nil, apperrors.NewValidationError(fmt.Sprintf("day_of_week %d given twice", h.DayOfWeek))
		}
		seen[h.DayOfWeek] = true

		entry := entities.OperatingHours{
			ID:        uuid.New().String(),
			SaunaID:   saunaID,
			DayOfWeek: h.DayOfWeek,
			IsClosed:  h.IsClosed,
			CreatedAt: s.now().UTC(),
		}
		if !h.IsClosed {
			if _, err := availability.NewInterval(h.OpenTime, h.CloseTime); err != nil {
				return nil, apperrors.NewValidationError(fmt.Sprintf("day_of_week %d: %v", h.DayOfWeek, err))
			}
			entry.OpenTime, entry.CloseTime = h.OpenTime, h.CloseTime
		}
		hours = append(hours, entry)
	}

	if err := s.repo.SetOperatingHours(ctx, saunaID, hours); err != nil {
		return nil, err
	}

	s.changed(ctx, saunaID)
	return hours, nil
}

func (s *SaunaService) changed(ctx context.Context, saunaID string) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelSaunas, entities.NewSaunaEvent(saunaID)); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("sauna_id", saunaID).Msg("Failed to publish sauna event")
	}
}

func applySaunaInput(sauna *entities.Sauna, in SaunaInput) {
	if in.Name != nil {
		sauna.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		sauna.Description = *in.Description
	}
	if in.Capacity != nil {
		sauna.Capacity = *in.Capacity
	}
	if in.HourlyRate != nil {
		sauna.HourlyRate = *in.HourlyRate
	}
	if in.ImageURL != nil {
		sauna.ImageURL = *in.ImageURL
	}
	if in.Amenities != nil {
		sauna.Amenities = *in.Amenities
	}
	if in.IsActive != nil {
		sauna.IsActive = *in.IsActive
	}
	if in.OpenTime != nil {
		sauna.OpenTime = *in.OpenTime
	}
	if in.CloseTime != nil {
		sauna.CloseTime = *in.CloseTime
	}
}

func validateSauna(sauna *entities.Sauna) error {
	if sauna.Name == "" {
		return apperrors.NewValidationError("name must not be empty")
	}
	if sauna.Capacity <= 0 {
		return apperrors.NewValidationError("capacity must be positive")
	}
	if sauna.HourlyRate < 0 {
		return apperrors.NewValidationError("hourly_rate must not be negative")
	}
	if _, err := availability.NewInterval(sauna.OpenTime, sauna.CloseTime); err != nil {
		return apperrors.NewValidationError("operating hours: " + err.Error())
	}
	return nil
}
