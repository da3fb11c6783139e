package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	apperrors "github.com/zatekoja/saunabooking/pkg/errors"
)

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"

	pqUniqueViolation     = "23505"
	pqExclusionViolation  = "23P01"
	pqForeignKeyViolation = "23503"
	// invalid_text_representation, raised for an id that is not a UUID
	pqInvalidText = "22P02"
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// mapWriteError translates constraint violations into domain errors and
// wraps everything else as internal
func mapWriteError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqInvalidText:
			return apperrors.NewNotFoundError(msg + ": record not found")
		case pqForeignKeyViolation:
			return apperrors.NewNotFoundError(msg + ": referenced record not found")
		case pqExclusionViolation:
			return apperrors.NewIntervalConflictError("the requested time overlaps an existing booking")
		case pqUniqueViolation:
			switch pqErr.Constraint {
			case "idx_reviews_booking":
				return apperrors.NewDuplicateReviewError("this booking has already been reviewed")
			case "users_email_key":
				return apperrors.NewConflictError("email already registered")
			}
			return apperrors.NewConflictError(msg + ": duplicate value")
		}
	}
	return apperrors.NewInternalError(msg, err)
}

// mapReadError reports missing rows and ids that are not valid UUIDs as
// not found, and wraps everything else as internal
func mapReadError(err error, msg, notFound string) error {
	var pqErr *pq.Error
	if errors.Is(err, sql.ErrNoRows) || (errors.As(err, &pqErr) && pqErr.Code == pqInvalidText) {
		return apperrors.NewNotFoundError(notFound)
	}
	return apperrors.NewInternalError(msg, err)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatClock(t time.Time) string {
	return t.Format(clockLayout)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
