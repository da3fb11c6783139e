package repositories

import (
	"context"

	"github.com/zatekoja/saunabooking/internal/domain/entities"
)

// SaunaRepository defines the interface for the sauna catalog
type SaunaRepository interface {
	// Create creates a new sauna
	Create(ctx context.Context, sauna *entities.Sauna) error

	// GetByID retrieves a sauna with its images and operating hours
	GetByID(ctx context.Context, id string) (*entities.Sauna, error)

	// Update updates the sauna's own columns
	Update(ctx context.Context, sauna *entities.Sauna) error

	// List retrieves saunas ordered by name
	List(ctx context.Context, filter SaunaFilter) ([]*entities.Sauna, error)

	// AddImage adds a gallery image. A primary image demotes the current primary.
	AddImage(ctx context.Context, image *entities.SaunaImage) error

	// DeleteImage removes one image of the sauna
	DeleteImage(ctx context.Context, saunaID, imageID string) error

	// SetOperatingHours replaces the sauna's weekday overrides
	SetOperatingHours(ctx context.Context, saunaID string, hours []entities.OperatingHours) error
}

// SaunaFilter defines filters for listing saunas
type SaunaFilter struct {
	ActiveOnly bool
	MinPrice   *float64
	MaxPrice   *float64
}
