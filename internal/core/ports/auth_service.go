package ports

import (
	"context"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

// AuthService implements registration and login use cases. Both return the
// signed session token alongside the user so the transport layer can hand
// them back in one response.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
