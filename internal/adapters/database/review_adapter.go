package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
	"github.com/zatekoja/saunabooking/internal/domain/repositories"
	"github.com/zatekoja/saunabooking/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/saunabooking/pkg/errors"
)

// ReviewAdapter implements review persistence in Postgres
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	x      *sqlx.DB
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		x:      sqlx.NewDb(client.DB(), "postgres"),
	}
}

type reviewRow struct {
	ID        string         `db:"id"`
	SaunaID   string         `db:"sauna_id"`
	UserID    string         `db:"user_id"`
	BookingID string         `db:"booking_id"`
	Rating    int            `db:"rating"`
	Comment   sql.NullString `db:"comment"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
	UserName  string         `db:"user_name"`
}

type ratingCount struct {
	Rating int `db:"rating"`
	Count  int `db:"count"`
}

// Create inserts a review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	record := goqu.Record{
		"id":         review.ID,
		"sauna_id":   review.SaunaID,
		"user_id":    review.UserID,
		"booking_id": review.BookingID,
		"rating":     review.Rating,
		"comment":    nullString(review.Comment),
		"created_at": review.CreatedAt,
		"updated_at": review.UpdatedAt,
	}

	query, args, err := a.db.Insert("reviews").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build review insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return mapWriteError(err, "failed to create review")
	}
	return nil
}

// GetByID retrieves a review by ID
func (a *ReviewAdapter) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	query, args, err := a.db.From("reviews").
		Select("id", "sauna_id", "user_id", "booking_id", "rating", "comment", "created_at", "updated_at").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	r := &entities.Review{}
	var comment sql.NullString
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&r.ID, &r.SaunaID, &r.UserID, &r.BookingID, &r.Rating, &comment, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, mapReadError(err, "failed to get review", fmt.Sprintf("review with id %s not found", id))
	}
	r.Comment = comment.String
	return r, nil
}

// ExistsForBooking reports whether the booking already has a review
func (a *ReviewAdapter) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	query, args, err := a.db.From("reviews").
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"booking_id": bookingID}).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, mapReadError(err, "failed to check existing review", fmt.Sprintf("booking with id %s not found", bookingID))
	}
	return count > 0, nil
}

// ListBySauna retrieves reviews of a sauna with reviewer names, newest first
func (a *ReviewAdapter) ListBySauna(ctx context.Context, saunaID string) ([]*entities.ReviewView, error) {
	query, args, err := a.db.From(goqu.T("reviews").As("r")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("r.user_id")))).
		Select(
			goqu.I("r.id"), goqu.I("r.sauna_id"), goqu.I("r.user_id"), goqu.I("r.booking_id"),
			goqu.I("r.rating"), goqu.I("r.comment"), goqu.I("r.created_at"), goqu.I("r.updated_at"),
			goqu.I("u.full_name").As("user_name"),
		).
		Where(goqu.I("r.sauna_id").Eq(saunaID)).
		Order(goqu.I("r.created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	var rows []reviewRow
	if err := a.x.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, mapReadError(err, "failed to list reviews", fmt.Sprintf("sauna with id %s not found", saunaID))
	}

	reviews := make([]*entities.ReviewView, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, &entities.ReviewView{
			Review: entities.Review{
				ID:        row.ID,
				SaunaID:   row.SaunaID,
				UserID:    row.UserID,
				BookingID: row.BookingID,
				Rating:    row.Rating,
				Comment:   row.Comment.String,
				CreatedAt: row.CreatedAt,
				UpdatedAt: row.UpdatedAt,
			},
			UserName: row.UserName,
		})
	}
	return reviews, nil
}

// Summary aggregates the ratings of a sauna. The distribution always holds
// the keys 1 through 5.
func (a *ReviewAdapter) Summary(ctx context.Context, saunaID string) (*entities.ReviewSummary, error) {
	query, args, err := a.db.From("reviews").
		Select(goqu.I("rating"), goqu.COUNT("*").As("count")).
		Where(goqu.Ex{"sauna_id": saunaID}).
		GroupBy("rating").
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build summary query", err)
	}

	var counts []ratingCount
	if err := a.x.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, mapReadError(err, "failed to summarize reviews", fmt.Sprintf("sauna with id %s not found", saunaID))
	}

	summary := &entities.ReviewSummary{RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	total := 0
	for _, c := range counts {
		summary.RatingDistribution[c.Rating] = c.Count
		summary.ReviewCount += c.Count
		total += c.Rating * c.Count
	}

	if summary.ReviewCount > 0 {
		summary.AverageRating = float64(total) / float64(summary.ReviewCount)
	}
	return summary, nil
}

// Delete deletes a review
func (a *ReviewAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("reviews").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to delete review")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", id))
	}
	return nil
}
