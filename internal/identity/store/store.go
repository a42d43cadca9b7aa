// Package store persists user accounts. Implementations return
// sentinel.ErrNotFound and sentinel.ErrAlreadyUsed; the service layer
// translates them into domain errors.
package store

import (
	"context"

	"catalog/internal/identity/models"
)

type UserStore interface {
	// Create persists a new user. Returns sentinel.ErrAlreadyUsed when the
	// phone number is taken.
	Create(ctx context.Context, user *models.User) error

	// FindActiveByPhone resolves login credentials: only matches users that
	// are Active and not soft-deleted.
	FindActiveByPhone(ctx context.Context, phone string) (*models.User, error)

	// FindByID looks a user up regardless of status.
	FindByID(ctx context.Context, id string) (*models.User, error)
}
