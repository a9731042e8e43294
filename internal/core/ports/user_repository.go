package ports

import (
	"context"

	"github.com/peerlend/loan-tracker/internal/core/domain"
)

// UserRepository is the record store for users.
type UserRepository interface {
	// Create returns domain.ErrUserExists when the email is already taken.
	Create(ctx context.Context, u *domain.User) error
	// FindByID returns domain.ErrUserNotFound when no user has the given id.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// List returns every user ordered by name ascending.
	List(ctx context.Context) ([]*domain.User, error)
}
