package ports

import (
	"context"

	"github.com/sweetshop/inventory-system/internal/core/domain"
)

// SweetFilter carries the optional, AND-composed search criteria.
type SweetFilter struct {
	Name     string   // case-insensitive substring match
	Category string   // exact match
	MinPrice *float64 // inclusive lower bound
	MaxPrice *float64 // inclusive upper bound
}

// SweetUpdate carries a partial update; nil fields are left untouched.
type SweetUpdate struct {
	Name     *string
	Category *string
	Price    *float64
	Quantity *int
}

// Empty reports whether no field is supplied.
func (u SweetUpdate) Empty() bool {
	return u.Name == nil && u.Category == nil && u.Price == nil && u.Quantity == nil
}

// SweetRepository defines persistence operations for sweets.
type SweetRepository interface {
	// Create inserts a new sweet. A name collision surfaces
	// domain.ErrSweetExists, also when the unique constraint fires on a
	// write that passed the pre-check.
	Create(ctx context.Context, sweet *domain.Sweet) error
	FindByID(ctx context.Context, id uint) (*domain.Sweet, error)
	// FindByName performs a case-sensitive exact lookup; returns
	// domain.ErrSweetNotFound when no sweet has that name.
	FindByName(ctx context.Context, name string) (*domain.Sweet, error)
	// List returns all sweets ordered by name ascending.
	List(ctx context.Context) ([]domain.Sweet, error)
	// Search returns sweets matching filter, ordered by name ascending.
	Search(ctx context.Context, filter SweetFilter) ([]domain.Sweet, error)
	// Update applies the supplied fields and refreshes updated_at.
	Update(ctx context.Context, id uint, update SweetUpdate) (*domain.Sweet, error)
	Delete(ctx context.Context, id uint) error
	// AdjustQuantity applies quantity = quantity + delta as a single
	// conditional statement. For negative deltas the row is only touched
	// when the result stays non-negative. It reports whether a row was
	// affected; callers decide between not-found and out-of-stock.
	AdjustQuantity(ctx context.Context, id uint, delta int) (bool, error)
}
