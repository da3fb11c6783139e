package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/saunabooking/internal/domain/entities"
	"github.com/zatekoja/saunabooking/internal/domain/repositories"
	"github.com/zatekoja/saunabooking/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/saunabooking/pkg/errors"
)

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	record := goqu.Record{
		"id":              user.ID,
		"email":           user.Email,
		"hashed_password": user.PasswordHash,
		"full_name":       user.FullName,
		"phone":           nullString(user.Phone),
		"is_admin":        user.IsAdmin(),
		"created_at":      user.CreatedAt,
	}

	query, args, err := a.db.Insert("users").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return mapWriteError(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.getByField(ctx, "id", id)
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return a.getByField(ctx, "email", email)
}

func (a *UserAdapter) getByField(ctx context.Context, field, value string) (*entities.User, error) {
	query, args, err := a.db.From("users").
		Select("id", "email", "hashed_password", "full_name", "phone", "is_admin", "created_at").
		Where(goqu.Ex{field: value}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user := &entities.User{}
	var phone sql.NullString
	var isAdmin bool
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &phone, &isAdmin, &user.CreatedAt,
	)
	if err != nil {
		return nil, mapReadError(err, "failed to get user", fmt.Sprintf("user with %s %s not found", field, value))
	}

	user.Phone = phone.String
	user.Role = entities.RoleFromFlag(isAdmin)
	return user, nil
}
