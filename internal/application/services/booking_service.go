package services

import (
	"context"
	"encoding/json"
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

// BookingService handles availability, conflict checks and the booking lifecycle
type BookingService struct {
	bookings repositories.BookingRepository
	saunas   repositories.SaunaRepository
	cache    providers.CacheProvider
	eventBus providers.EventBus
	metrics  *observability.Metrics
	now      func() time.Time
}

// NewBookingService creates a new booking service. cache, eventBus and
// metrics are optional.
func NewBookingService(
	bookings repositories.BookingRepository,
	saunas repositories.SaunaRepository,
	cache providers.CacheProvider,
	eventBus providers.EventBus,
	metrics *observability.Metrics,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		saunas:   saunas,
		cache:    cache,
		eventBus: eventBus,
		metrics:  metrics,
		now:      time.Now,
	}
}

// CreateBookingInput is a booking request as submitted by a customer or guest
type CreateBookingInput struct {
	SaunaID       string `json:"sauna_id"`
	BookingDate   string `json:"booking_date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	GuestCount    int    `json:"guest_count"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	Notes         string `json:"notes"`
}

// UpdateBookingInput carries an admin's changes; nil fields are left alone
type UpdateBookingInput struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// ListBookingsInput filters the admin booking list
type ListBookingsInput struct {
	Date    string
	SaunaID string
	Status  string
}

func parseDay(date, start, end string) (availability.Interval, error) {
	if _, err := availability.ParseDate(date); err != nil {
		return availability.Interval{}, apperrors.NewValidationError(err.Error())
	}
	iv, err := availability.NewInterval(start, end)
	if err != nil {
		return availability.Interval{}, apperrors.NewValidationError(err.Error())
	}
	return iv, nil
}

func parseStatusFilter(raw string) (*entities.BookingStatus, error) {
	if raw == "" {
		return nil, nil
	}
	status, err := entities.ParseBookingStatus(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	return &status, nil
}

// GetAvailability returns the hourly slot grid of a sauna on a date
func (s *BookingService) GetAvailability(ctx context.Context, saunaID, date string) ([]entities.TimeSlot, error) {
	if _, err := availability.ParseDate(date); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	cacheKey := providers.AvailabilityCacheKey(saunaID, date)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var slots []entities.TimeSlot
			if err := json.Unmarshal(cached, &slots); err == nil {
				observability.RecordCacheLookup(ctx, s.metrics, "availability", true)
				return slots, nil
			}
		}
		observability.RecordCacheLookup(ctx, s.metrics, "availability", false)
	}

	sauna, err := s.saunas.GetByID(ctx, saunaID)
	if err != nil {
		return nil, err
	}

	window, err := availability.Window(sauna)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to resolve operating hours", err)
	}
	existing, err := s.bookings.ListByDay(ctx, saunaID, date)
	if err != nil {
		return nil, err
	}
	booked, err := availability.BookedIntervals(existing)
	if err != nil {
		return nil, apperrors.NewInternalError("stored booking has an invalid interval", err)
	}
	slots := availability.Grid(window, booked)

	if s.cache != nil {
		if data, err := json.Marshal(slots); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, providers.AvailabilityCacheTTL); err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", cacheKey).Msg("Failed to cache availability")
			}
		}
	}

	return slots, nil
}

// CheckConflict returns the non-cancelled booking overlapping the interval,
// or nil when the interval is free. excludeID skips one booking.
func (s *BookingService) CheckConflict(ctx context.Context, saunaID, date, start, end, excludeID string) (*entities.Booking, error) {
	candidate, err := parseDay(date, start, end)
	if err != nil {
		return nil, err
	}

	existing, err := s.bookings.ListByDay(ctx, saunaID, date)
	if err != nil {
		return nil, err
	}

	conflict, err := availability.FindConflict(candidate, existing, excludeID)
	if err != nil {
		return nil, apperrors.NewInternalError("stored booking has an invalid interval", err)
	}
	return conflict, nil
}

// CreateBooking books a sauna for the actor, or for a guest when actor is nil
func (s *BookingService) CreateBooking(ctx context.Context, actor *entities.User, in CreateBookingInput) (*entities.Booking, error) {
	booking, err := s.createBooking(ctx, actor, in)
	if err != nil {
		reason := "internal"
		if appErr, ok := apperrors.As(err); ok {
			reason = strings.ToLower(string(appErr.Type))
		}
		observability.RecordBookingOutcome(ctx, s.metrics, "rejected", reason)
		return nil, err
	}

	observability.RecordBookingOutcome(ctx, s.metrics, "created", "")
	observability.LoggerFromContext(ctx).Info().
		Str("booking_id", booking.ID).
		Str("sauna_id", booking.SaunaID).
		Str("date", booking.BookingDate).
		Str("interval", booking.StartTime+"-"+booking.EndTime).
		Msg("Booking created")

	s.changed(ctx, entities.EventTypeBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) createBooking(ctx context.Context, actor *entities.User, in CreateBookingInput) (*entities.Booking, error) {
	candidate, err := parseDay(in.BookingDate, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if in.GuestCount < 1 {
		return nil, apperrors.NewValidationError("guest_count must be at least 1")
	}
	if strings.TrimSpace(in.CustomerName) == "" || strings.TrimSpace(in.CustomerPhone) == "" || strings.TrimSpace(in.CustomerEmail) == "" {
		return nil, apperrors.NewValidationError("customer_name, customer_phone and customer_email are required")
	}

	sauna, err := s.saunas.GetByID(ctx, in.SaunaID)
	if err != nil {
		return nil, err
	}
	if !sauna.IsActive {
		return nil, apperrors.NewInvalidStateError("sauna is not accepting bookings")
	}
	if in.GuestCount > sauna.Capacity {
		return nil, apperrors.NewCapacityExceededError(
			fmt.Sprintf("guest count %d exceeds sauna capacity %d", in.GuestCount, sauna.Capacity))
	}

	booking := &entities.Booking{
		ID:            uuid.New().String(),
		SaunaID:       sauna.ID,
		BookingDate:   in.BookingDate,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		GuestCount:    in.GuestCount,
		TotalPrice:    availability.Price(candidate, sauna.HourlyRate),
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		CustomerEmail: in.CustomerEmail,
		Notes:         in.Notes,
		Status:        entities.BookingStatusConfirmed,
		CreatedAt:     s.now().UTC(),
	}
	if actor != nil {
		userID := actor.ID
		booking.UserID = &userID
	}

	err = s.bookings.Reserve(ctx, booking, func(existing []*entities.Booking) error {
		conflict, err := availability.FindConflict(candidate, existing, "")
		if err != nil {
			return apperrors.NewInternalError("stored booking has an invalid interval", err)
		}
		if conflict != nil {
			return apperrors.NewIntervalConflictError(fmt.Sprintf(
				"time slot conflicts with existing booking (%s-%s)", conflict.StartTime, conflict.EndTime))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// GetBooking retrieves a booking view by ID
func (s *BookingService) GetBooking(ctx context.Context, id string) (*entities.BookingView, error) {
	return s.bookings.GetView(ctx, id)
}

// ListMyBookings lists the actor's bookings, optionally by status
func (s *BookingService) ListMyBookings(ctx context.Context, actor *entities.User, status string) ([]*entities.BookingView, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	statusFilter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	return s.bookings.List(ctx, repositories.BookingFilter{UserID: actor.ID, Status: statusFilter})
}

// ListBookings lists all bookings for an admin
func (s *BookingService) ListBookings(ctx context.Context, actor *entities.User, in ListBookingsInput) ([]*entities.BookingView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if in.Date != "" {
		if _, err := availability.ParseDate(in.Date); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	statusFilter, err := parseStatusFilter(in.Status)
	if err != nil {
		return nil, err
	}
	return s.bookings.List(ctx, repositories.BookingFilter{SaunaID: in.SaunaID, Date: in.Date, Status: statusFilter})
}

// CancelBooking cancels one of the actor's own bookings
func (s *BookingService) CancelBooking(ctx context.Context, actor *entities.User, id string) (*entities.Booking, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.IsOwnedBy(actor.ID) {
		return nil, apperrors.NewForbiddenError("not authorized to cancel this booking")
	}
	if booking.Status == entities.BookingStatusCancelled {
		return nil, apperrors.NewInvalidStateError("booking is already cancelled")
	}

	if err := s.bookings.Cancel(ctx, id); err != nil {
		return nil, err
	}
	booking.Status = entities.BookingStatusCancelled

	observability.LoggerFromContext(ctx).Info().Str("booking_id", id).Str("user_id", actor.ID).Msg("Booking cancelled")
	s.changed(ctx, entities.EventTypeBookingCancelled, booking)
	return booking, nil
}

// UpdateBooking applies an admin's status or notes change
func (s *BookingService) UpdateBooking(ctx context.Context, actor *entities.User, id string, in UpdateBookingInput) (*entities.Booking, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		status, err := entities.ParseBookingStatus(*in.Status)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		booking.Status = status
	}
	if in.Notes != nil {
		booking.Notes = *in.Notes
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("booking_id", id).
		Str("status", string(booking.Status)).
		Str("admin_id", actor.ID).
		Msg("Booking updated")
	s.changed(ctx, entities.EventTypeBookingUpdated, booking)
	return booking, nil
}

// changed evicts the day's cached grid and announces the change
func (s *BookingService) changed(ctx context.Context, eventType entities.DomainEventType, booking *entities.Booking) {
	logger := observability.LoggerFromContext(ctx)

	if s.cache != nil {
		key := providers.AvailabilityCacheKey(booking.SaunaID, booking.BookingDate)
		if err := s.cache.Delete(ctx, key); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to evict availability")
		}
	}

	if s.eventBus != nil {
		if err := s.eventBus.Publish(ctx, providers.EventChannelBookings, entities.NewBookingEvent(eventType, booking)); err != nil {
			logger.Warn().Err(err).Str("booking_id", booking.ID).Msg("Failed to publish booking event")
		}
	}
}
