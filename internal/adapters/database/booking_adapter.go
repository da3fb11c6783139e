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

// BookingAdapter implements the BookingRepository interface
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var bookingColumns = []interface{}{
	goqu.I("b.id"), goqu.I("b.sauna_id"), goqu.I("b.user_id"), goqu.I("b.booking_date"),
	goqu.I("b.start_time"), goqu.I("b.end_time"), goqu.I("b.guest_count"), goqu.I("b.total_price"),
	goqu.I("b.customer_name"), goqu.I("b.customer_phone"), goqu.I("b.customer_email"),
	goqu.I("b.notes"), goqu.I("b.status"), goqu.I("b.created_at"),
}

func (a *BookingAdapter) bookings() *goqu.SelectDataset {
	return a.db.From(goqu.T("bookings").As("b")).Select(bookingColumns...)
}

func (a *BookingAdapter) views() *goqu.SelectDataset {
	cols := append([]interface{}{}, bookingColumns...)
	cols = append(cols,
		goqu.I("s.name").As("sauna_name"),
		goqu.L(`EXISTS (SELECT 1 FROM "reviews" AS "r" WHERE "r"."booking_id" = "b"."id")`).As("has_review"),
	)
	return a.db.From(goqu.T("bookings").As("b")).
		Join(goqu.T("saunas").As("s"), goqu.On(goqu.I("s.id").Eq(goqu.I("b.sauna_id")))).
		Select(cols...)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner, extra ...interface{}) (*entities.Booking, error) {
	b := &entities.Booking{}
	var userID, notes sql.NullString
	var date, start, end time.Time

	dest := []interface{}{
		&b.ID, &b.SaunaID, &userID, &date, &start, &end, &b.GuestCount, &b.TotalPrice,
		&b.CustomerName, &b.CustomerPhone, &b.CustomerEmail, &notes, &b.Status, &b.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if userID.Valid {
		b.UserID = &userID.String
	}
	b.Notes = notes.String
	b.BookingDate = formatDate(date)
	b.StartTime = formatClock(start)
	b.EndTime = formatClock(end)
	return b, nil
}

func scanBookingView(row rowScanner) (*entities.BookingView, error) {
	var saunaName string
	var hasReview bool
	b, err := scanBooking(row, &saunaName, &hasReview)
	if err != nil {
		return nil, err
	}
	return &entities.BookingView{Booking: *b, SaunaName: saunaName, HasReview: hasReview}, nil
}

// ListByDay retrieves the non-cancelled bookings of a sauna on one date
func (a *BookingAdapter) ListByDay(ctx context.Context, saunaID, date string) ([]*entities.Booking, error) {
	return a.listByDay(ctx, a.client.DB(), saunaID, date)
}

func (a *BookingAdapter) listByDay(ctx context.Context, q queryer, saunaID, date string) ([]*entities.Booking, error) {
	query, args, err := a.bookings().
		Where(
			goqu.I("b.sauna_id").Eq(saunaID),
			goqu.I("b.booking_date").Eq(date),
			goqu.I("b.status").Neq(string(entities.BookingStatusCancelled)),
		).
		Order(goqu.I("b.start_time").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapReadError(err, "failed to list bookings", fmt.Sprintf("sauna with id %s not found", saunaID))
	}
	defer rows.Close()

	bookings := []*entities.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating bookings", err)
	}

	return bookings, nil
}

// Reserve inserts the booking while holding a transaction-scoped advisory
// lock on the sauna and date, so concurrent reservations of one day run
// their guard one at a time
func (a *BookingAdapter) Reserve(ctx context.Context, booking *entities.Booking, guard repositories.ReserveGuard) error {
	return a.client.WithTx(ctx, func(tx *sql.Tx) error {
		lockKey := booking.SaunaID + "|" + booking.BookingDate
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", lockKey); err != nil {
			return mapWriteError(err, "failed to lock booking day")
		}

		existing, err := a.listByDay(ctx, tx, booking.SaunaID, booking.BookingDate)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(existing); err != nil {
				return err
			}
		}

		query, args, err := a.db.Insert("bookings").Rows(bookingRecord(booking)).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build insert query", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return mapWriteError(err, "failed to create booking")
		}
		return nil
	})
}

func bookingRecord(b *entities.Booking) goqu.Record {
	var userID interface{}
	if b.UserID != nil {
		userID = *b.UserID
	}
	return goqu.Record{
		"id":             b.ID,
		"sauna_id":       b.SaunaID,
		"user_id":        userID,
		"booking_date":   b.BookingDate,
		"start_time":     b.StartTime,
		"end_time":       b.EndTime,
		"guest_count":    b.GuestCount,
		"total_price":    b.TotalPrice,
		"customer_name":  b.CustomerName,
		"customer_phone": b.CustomerPhone,
		"customer_email": b.CustomerEmail,
		"notes":          nullString(b.Notes),
		"status":         string(b.Status),
		"created_at":     b.CreatedAt,
	}
}

// GetByID retrieves a booking by ID
func (a *BookingAdapter) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	query, args, err := a.bookings().Where(goqu.I("b.id").Eq(id)).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	b, err := scanBooking(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapReadError(err, "failed to get booking", fmt.Sprintf("booking with id %s not found", id))
	}
	return b, nil
}

// GetView retrieves a booking with its sauna name and review flag
func (a *BookingAdapter) GetView(ctx context.Context, id string) (*entities.BookingView, error) {
	query, args, err := a.views().Where(goqu.I("b.id").Eq(id)).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	v, err := scanBookingView(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapReadError(err, "failed to get booking", fmt.Sprintf("booking with id %s not found", id))
	}
	return v, nil
}

// Cancel moves a booking to cancelled. The status guard lives in the
// statement so two concurrent cancels cannot both succeed.
func (a *BookingAdapter) Cancel(ctx context.Context, id string) error {
	cancelled := string(entities.BookingStatusCancelled)
	query, args, err := a.db.Update("bookings").
		Set(goqu.Record{"status": cancelled}).
		Where(goqu.Ex{"id": id, "status": goqu.Op{"neq": cancelled}}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build cancel query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to cancel booking")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewInvalidStateError("booking is already cancelled")
	}
	return nil
}

// Update writes the mutable fields of a booking
func (a *BookingAdapter) Update(ctx context.Context, booking *entities.Booking) error {
	return a.update(ctx, booking.ID, goqu.Record{
		"status": string(booking.Status),
		"notes":  nullString(booking.Notes),
	})
}

func (a *BookingAdapter) update(ctx context.Context, id string, record goqu.Record) error {
	query, args, err := a.db.Update("bookings").
		Set(record).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to update booking")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}
	return nil
}

// List retrieves booking views matching the filter, newest date first
func (a *BookingAdapter) List(ctx context.Context, filter repositories.BookingFilter) ([]*entities.BookingView, error) {
	ds := a.views()

	if filter.UserID != "" {
		ds = ds.Where(goqu.I("b.user_id").Eq(filter.UserID))
	}
	if filter.SaunaID != "" {
		ds = ds.Where(goqu.I("b.sauna_id").Eq(filter.SaunaID))
	}
	if filter.Date != "" {
		ds = ds.Where(goqu.I("b.booking_date").Eq(filter.Date))
	}
	if filter.Status != nil {
		ds = ds.Where(goqu.I("b.status").Eq(string(*filter.Status)))
	}

	query, args, err := ds.Order(goqu.I("b.booking_date").Desc(), goqu.I("b.start_time").Desc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapReadError(err, "failed to list bookings", "no bookings match an unknown id")
	}
	defer rows.Close()

	views := []*entities.BookingView{}
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan booking", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating bookings", err)
	}

	return views, nil
}
