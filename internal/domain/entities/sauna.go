package entities

import (
	"time"
)

// Sauna represents a rentable sauna unit
type Sauna struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Capacity    int       `json:"capacity" db:"capacity"`
	HourlyRate  float64   `json:"hourly_rate" db:"hourly_rate"`
	ImageURL    string    `json:"image_url,omitempty" db:"image_url"`
	Amenities   string    `json:"amenities,omitempty" db:"amenities"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	OpenTime    string    `json:"open_time" db:"open_time"`
	CloseTime   string    `json:"close_time" db:"close_time"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	Images         []SaunaImage     `json:"images,omitempty" db:"-"`
	OperatingHours []OperatingHours `json:"operating_hours,omitempty" db:"-"`
}

// SaunaImage is one entry of a sauna's gallery
type SaunaImage struct {
	ID           string    `json:"id" db:"id"`
	SaunaID      string    `json:"sauna_id" db:"sauna_id"`
	ImageURL     string    `json:"image_url" db:"image_url"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	IsPrimary    bool      `json:"is_primary" db:"is_primary"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// OperatingHours is the published schedule for one weekday. It is shown to
// guests but the bookable grid always uses the sauna's default window.
// DayOfWeek counts from Monday (0) to Sunday (6).
type OperatingHours struct {
	ID        string    `json:"id" db:"id"`
	SaunaID   string    `json:"sauna_id" db:"sauna_id"`
	DayOfWeek int       `json:"day_of_week" db:"day_of_week"`
	OpenTime  string    `json:"open_time" db:"open_time"`
	CloseTime string    `json:"close_time" db:"close_time"`
	IsClosed  bool      `json:"is_closed" db:"is_closed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
