package ports

import (
	"context"

	"github.com/peerlend/loan-tracker/internal/core/domain"
)

// CreateUserInput carries the fields accepted when registering a user.
type CreateUserInput struct {
	Name       string
	Email      string
	IsBorrower bool
	IsLender   bool
}

// UserService defines user registration and lookup.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
