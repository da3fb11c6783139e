package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/saunabooking/internal/adapters/database"
	"github.com/zatekoja/saunabooking/internal/adapters/providers/auth"
	"github.com/zatekoja/saunabooking/internal/application/services"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
	"github.com/zatekoja/saunabooking/internal/domain/repositories"
	"github.com/zatekoja/saunabooking/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/saunabooking/internal/infrastructure/observability"
	"github.com/zatekoja/saunabooking/pkg/config"
	apperrors "github.com/zatekoja/saunabooking/pkg/errors"
)

const (
	adminEmail    = "admin@sauna.fi"
	adminPassword = "admin123"
)

type seedSauna struct {
	name        string
	description string
	capacity    int
	hourlyRate  float64
	amenities   string
	openTime    string
	closeTime   string
	slug        string
}

var catalog = []seedSauna{
	{
		name:        "Traditional Finnish Sauna",
		description: "Wood-heated sauna at 80-100°C with löyly from water thrown on hot stones. Birch whisks included.",
		capacity:    6,
		hourlyRate:  80000,
		amenities:   `["Shower", "Towels", "Birch Whisks", "Changing Room", "Rest Area"]`,
		openTime:    "10:00",
		closeTime:   "22:00",
		slug:        "traditional",
	},
	{
		name:        "Smoke Sauna (Savusauna)",
		description: "Heated for hours before use for a soft, gentle heat and a smoky aroma.",
		capacity:    8,
		hourlyRate:  120000,
		amenities:   `["Shower", "Towels", "Lake Access", "Changing Room", "Rest Area", "Refreshments"]`,
		openTime:    "14:00",
		closeTime:   "22:00",
		slug:        "smoke",
	},
	{
		name:        "Steam Room (Höyrysauna)",
		description: "Full humidity at 40-50°C, infused with eucalyptus.",
		capacity:    4,
		hourlyRate:  60000,
		amenities:   `["Shower", "Towels", "Aromatherapy", "Changing Room"]`,
		openTime:    "10:00",
		closeTime:   "21:00",
		slug:        "steam",
	},
	{
		name:        "Infrared Sauna",
		description: "Infrared panels at 45-60°C for muscle recovery.",
		capacity:    2,
		hourlyRate:  50000,
		amenities:   `["Shower", "Towels", "Music System", "Changing Room"]`,
		openTime:    "09:00",
		closeTime:   "22:00",
		slug:        "infrared",
	},
}

// weeklyHours closes Mondays and stays open later at the end of the week
var weeklyHours = []services.OperatingHoursInput{
	{DayOfWeek: 0, IsClosed: true},
	{DayOfWeek: 1, OpenTime: "10:00", CloseTime: "23:00"},
	{DayOfWeek: 2, OpenTime: "10:00", CloseTime: "23:00"},
	{DayOfWeek: 3, OpenTime: "10:00", CloseTime: "23:00"},
	{DayOfWeek: 4, OpenTime: "09:00", CloseTime: "23:00"},
	{DayOfWeek: 5, OpenTime: "09:00", CloseTime: "23:00"},
	{DayOfWeek: 6, OpenTime: "10:00", CloseTime: "22:00"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("sauna-seed", cfg.Log.Environment, cfg.Log.Level)

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	if err := pgClient.ApplySchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				reviews,
				bookings,
				sauna_operating_hours,
				sauna_images,
				saunas,
				users
			CASCADE
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to reset tables")
		}
	}

	saunaRepo := database.NewSaunaAdapter(pgClient)
	existing, err := saunaRepo.List(ctx, repositories.SaunaFilter{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to inspect catalog")
	}
	if len(existing) > 0 {
		log.Info().Int("saunas", len(existing)).Msg("Catalog already seeded, nothing to do")
		return
	}

	admin, err := ensureAdmin(ctx, database.NewUserAdapter(pgClient), auth.NewBcryptHasher(cfg.Auth.BcryptCost))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin user")
	}

	saunaService := services.NewSaunaService(saunaRepo, nil)
	for idx, s := range catalog {
		name, description, amenities := s.name, s.description, s.amenities
		capacity, rate := s.capacity, s.hourlyRate
		openTime, closeTime := s.openTime, s.closeTime
		imageURL := "/images/" + s.slug + ".jpg"

		sauna, err := saunaService.Create(ctx, admin, services.SaunaInput{
			Name:        &name,
			Description: &description,
			Capacity:    &capacity,
			HourlyRate:  &rate,
			ImageURL:    &imageURL,
			Amenities:   &amenities,
			OpenTime:    &openTime,
			CloseTime:   &closeTime,
		})
		if err != nil {
			log.Error().Err(err).Str("sauna", s.name).Msg("Failed to create sauna")
			continue
		}

		for order, suffix := range []string{"main", "interior", "relaxation"} {
			_, err := saunaService.AddImage(ctx, admin, sauna.ID, services.ImageInput{
				ImageURL:     fmt.Sprintf("/images/sauna_%d_%s.jpg", idx, suffix),
				DisplayOrder: order,
				IsPrimary:    order == 0,
			})
			if err != nil {
				log.Error().Err(err).Str("sauna", s.name).Msg("Failed to add image")
			}
		}

		if _, err := saunaService.SetOperatingHours(ctx, admin, sauna.ID, weeklyHours); err != nil {
			log.Error().Err(err).Str("sauna", s.name).Msg("Failed to set operating hours")
		}
	}

	log.Info().Int("saunas", len(catalog)).Str("admin", adminEmail).Msg("Seeding completed")
}

// ensureAdmin returns the seeded admin account, creating it when missing
func ensureAdmin(ctx context.Context, users repositories.UserRepository, hasher *auth.BcryptHasher) (*entities.User, error) {
	user, err := users.GetByEmail(ctx, adminEmail)
	if err == nil {
		return user, nil
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	hash, err := hasher.Hash(adminPassword)
	if err != nil {
		return nil, err
	}
	user = &entities.User{
		ID:           uuid.New().String(),
		Email:        adminEmail,
		PasswordHash: hash,
		FullName:     "Admin",
		Phone:        "010-0000-0000",
		Role:         entities.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
