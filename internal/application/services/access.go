package services

import (
	"github.com/zatekoja/saunabooking/internal/domain/entities"
	apperrors "github.com/zatekoja/saunabooking/pkg/errors"
)

func requireUser(actor *entities.User) error {
	if actor == nil {
		return apperrors.NewUnauthorizedError("authentication required")
	}
	return nil
}

func requireAdmin(actor *entities.User) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperrors.NewForbiddenError("admin access required")
	}
	return nil
}
