package ports

import (
	"context"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

// CreateSweetInput carries the data needed to create a new sweet.
// Request-level validation (non-empty fields, non-negative numbers) has
// already run by the time the service sees it.
type CreateSweetInput struct {
	Name     string
	Category string
	Price    float64
	Quantity int
}

// SweetService defines the inventory use cases. Every operation runs on
// behalf of an authenticated identity; admin-only operations (Delete,
// Restock) are gated by route middleware before the service is reached.
type SweetService interface {
	Create(ctx context.Context, input CreateSweetInput) (*domain.Sweet, error)
	List(ctx context.Context) ([]domain.Sweet, error)
	Search(ctx context.Context, filter SweetFilter) ([]domain.Sweet, error)
	GetByID(ctx context.Context, id uint) (*domain.Sweet, error)
	Update(ctx context.Context, id uint, update SweetUpdate) (*domain.Sweet, error)
	Delete(ctx context.Context, id uint) error
	Purchase(ctx context.Context, id uint) (*domain.Sweet, error)
	Restock(ctx context.Context, id uint, quantity int) (*domain.Sweet, error)
}
