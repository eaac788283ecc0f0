package ports

import (
	"context"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

// AuthRepository defines persistence operations for user accounts.
type AuthRepository interface {
	// Create inserts a new user. A username or email collision surfaces
	// domain.ErrUserExists, also when the unique constraint fires on a
	// write that passed the pre-check.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail returns the user with the given email or
	// domain.ErrInvalidCredentials when none exists.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// ExistsByUsernameOrEmail reports whether any user already holds the
	// given username or email.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}
