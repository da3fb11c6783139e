package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
	"github.com/zatekoja/saunabooking/internal/domain/repositories"
	"github.com/zatekoja/saunabooking/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/saunabooking/pkg/errors"
)

// SaunaAdapter implements the SaunaRepository interface
type SaunaAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSaunaAdapter creates a new sauna adapter
func NewSaunaAdapter(client *postgres.Client) repositories.SaunaRepository {
	return &SaunaAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var saunaColumns = []interface{}{
	"id", "name", "description", "capacity", "hourly_rate", "image_url",
	"amenities", "is_active", "open_time", "close_time", "created_at",
}

func scanSauna(row rowScanner) (*entities.Sauna, error) {
	s := &entities.Sauna{}
	var description, imageURL, amenities sql.NullString
	var open, close time.Time

	err := row.Scan(
		&s.ID, &s.Name, &description, &s.Capacity, &s.HourlyRate, &imageURL,
		&amenities, &s.IsActive, &open, &close, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Description = description.String
	s.ImageURL = imageURL.String
	s.Amenities = amenities.String
	s.OpenTime = formatClock(open)
	s.CloseTime = formatClock(close)
	return s, nil
}

func saunaRecord(s *entities.Sauna) goqu.Record {
	return goqu.Record{
		"name":        s.Name,
		"description": nullString(s.Description),
		"capacity":    s.Capacity,
		"hourly_rate": s.HourlyRate,
		"image_url":   nullString(s.ImageURL),
		"amenities":   nullString(s.Amenities),
		"is_active":   s.IsActive,
		"open_time":   s.OpenTime,
		"close_time":  s.CloseTime,
	}
}

// Create creates a new sauna
func (a *SaunaAdapter) Create(ctx context.Context, sauna *entities.Sauna) error {
	record := saunaRecord(sauna)
	record["id"] = sauna.ID
	record["created_at"] = sauna.CreatedAt

	query, args, err := a.db.Insert("saunas").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return mapWriteError(err, "failed to create sauna")
	}
	return nil
}

// GetByID retrieves a sauna with its images and operating hours
func (a *SaunaAdapter) GetByID(ctx context.Context, id string) (*entities.Sauna, error) {
	query, args, err := a.db.From("saunas").Select(saunaColumns...).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	sauna, err := scanSauna(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapReadError(err, "failed to get sauna", fmt.Sprintf("sauna with id %s not found", id))
	}

	if sauna.Images, err = a.images(ctx, id); err != nil {
		return nil, err
	}
	if sauna.OperatingHours, err = a.operatingHours(ctx, id); err != nil {
		return nil, err
	}
	return sauna, nil
}

func (a *SaunaAdapter) images(ctx context.Context, saunaID string) ([]entities.SaunaImage, error) {
	query, args, err := a.db.From("sauna_images").
		Select("id", "sauna_id", "image_url", "display_order", "is_primary", "created_at").
		Where(goqu.Ex{"sauna_id": saunaID}).
		Order(goqu.I("is_primary").Desc(), goqu.I("display_order").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapReadError(err, "failed to list sauna images", fmt.Sprintf("sauna with id %s not found", saunaID))
	}
	defer rows.Close()

	images := []entities.SaunaImage{}
	for rows.Next() {
		var img entities.SaunaImage
		if err := rows.Scan(&img.ID, &img.SaunaID, &img.ImageURL, &img.DisplayOrder, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan sauna image", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating sauna images", err)
	}
	return images, nil
}

func (a *SaunaAdapter) operatingHours(ctx context.Context, saunaID string) ([]entities.OperatingHours, error) {
	query, args, err := a.db.From("sauna_operating_hours").
		Select("id", "sauna_id", "day_of_week", "open_time", "close_time", "is_closed", "created_at").
		Where(goqu.Ex{"sauna_id": saunaID}).
		Order(goqu.I("day_of_week").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapReadError(err, "failed to list operating hours", fmt.Sprintf("sauna with id %s not found", saunaID))
	}
	defer rows.Close()

	hours := []entities.OperatingHours{}
	for rows.Next() {
		var h entities.OperatingHours
		var open, close sql.NullTime
		if err := rows.Scan(&h.ID, &h.SaunaID, &h.DayOfWeek, &open, &close, &h.IsClosed, &h.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan operating hours", err)
		}
		if open.Valid {
			h.OpenTime = formatClock(open.Time)
		}
		if close.Valid {
			h.CloseTime = formatClock(close.Time)
		}
		hours = append(hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating operating hours", err)
	}
	return hours, nil
}

// Update updates the sauna's own columns
func (a *SaunaAdapter) Update(ctx context.Context, sauna *entities.Sauna) error {
	query, args, err := a.db.Update("saunas").
		Set(saunaRecord(sauna)).
		Where(goqu.Ex{"id": sauna.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to update sauna")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("sauna with id %s not found", sauna.ID))
	}
	return nil
}

// List retrieves saunas ordered by name
func (a *SaunaAdapter) List(ctx context.Context, filter repositories.SaunaFilter) ([]*entities.Sauna, error) {
	ds := a.db.From("saunas").Select(saunaColumns...)

	if filter.ActiveOnly {
		ds = ds.Where(goqu.Ex{"is_active": true})
	}
	if filter.MinPrice != nil {
		ds = ds.Where(goqu.I("hourly_rate").Gte(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		ds = ds.Where(goqu.I("hourly_rate").Lte(*filter.MaxPrice))
	}

	query, args, err := ds.Order(goqu.I("name").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list saunas", err)
	}
	defer rows.Close()

	saunas := []*entities.Sauna{}
	for rows.Next() {
		s, err := scanSauna(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan sauna", err)
		}
		saunas = append(saunas, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating saunas", err)
	}
	return saunas, nil
}

// AddImage adds a gallery image. A primary image demotes the current primary.
func (a *SaunaAdapter) AddImage(ctx context.Context, image *entities.SaunaImage) error {
	return a.client.WithTx(ctx, func(tx *sql.Tx) error {
		if image.IsPrimary {
			query, args, err := a.db.Update("sauna_images").
				Set(goqu.Record{"is_primary": false}).
				Where(goqu.Ex{"sauna_id": image.SaunaID, "is_primary": true}).
				ToSQL()
			if err != nil {
				return apperrors.NewInternalError("failed to build update query", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return mapWriteError(err, "failed to demote primary image")
			}
		}

		query, args, err := a.db.Insert("sauna_images").Rows(goqu.Record{
			"id":            image.ID,
			"sauna_id":      image.SaunaID,
			"image_url":     image.ImageURL,
			"display_order": image.DisplayOrder,
			"is_primary":    image.IsPrimary,
			"created_at":    image.CreatedAt,
		}).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build insert query", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return mapWriteError(err, "failed to add sauna image")
		}
		return nil
	})
}

// DeleteImage removes one image of the sauna
func (a *SaunaAdapter) DeleteImage(ctx context.Context, saunaID, imageID string) error {
	query, args, err := a.db.Delete("sauna_images").
		Where(goqu.Ex{"id": imageID, "sauna_id": saunaID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to delete sauna image")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("image with id %s not found", imageID))
	}
	return nil
}

// SetOperatingHours replaces the sauna's weekday overrides
func (a *SaunaAdapter) SetOperatingHours(ctx context.Context, saunaID string, hours []entities.OperatingHours) error {
	return a.client.WithTx(ctx, func(tx *sql.Tx) error {
		query, args, err := a.db.Delete("sauna_operating_hours").Where(goqu.Ex{"sauna_id": saunaID}).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build delete query", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return mapWriteError(err, "failed to clear operating hours")
		}

		if len(hours) == 0 {
			return nil
		}

		rows := make([]interface{}, 0, len(hours))
		for _, h := range hours {
			rows = append(rows, goqu.Record{
				"id":          h.ID,
				"sauna_id":    saunaID,
				"day_of_week": h.DayOfWeek,
				"open_time":   nullString(h.OpenTime),
				"close_time":  nullString(h.CloseTime),
				"is_closed":   h.IsClosed,
				"created_at":  h.CreatedAt,
			})
		}

		query, args, err = a.db.Insert("sauna_operating_hours").Rows(rows...).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build insert query", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return mapWriteError(err, "failed to set operating hours")
		}
		return nil
	})
}
