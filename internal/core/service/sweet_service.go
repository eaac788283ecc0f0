package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/core/ports"
)

// SweetService implements the inventory use cases on top of the repository.
type SweetService struct {
	repo   ports.SweetRepository
	logger zerolog.Logger
}

func NewSweetService(repo ports.SweetRepository, logger zerolog.Logger) *SweetService {
	return &SweetService{repo: repo, logger: logger}
}

// Create persists a new sweet. The name pre-check is an optimisation; the
// unique index is the authoritative guard and the repository surfaces its
// violation as ErrSweetExists.
func (s *SweetService) Create(ctx context.Context, input ports.CreateSweetInput) (*domain.Sweet, error) {
	if _, err := s.repo.FindByName(ctx, input.Name); err == nil {
		return nil, domain.ErrSweetExists
	} else if !errors.Is(err, domain.ErrSweetNotFound) {
		return nil, err
	}

	sweet := &domain.Sweet{
		Name:     input.Name,
		Category: input.Category,
		Price:    input.Price,
		Quantity: input.Quantity,
	}

	if err := s.repo.Create(ctx, sweet); err != nil {
		return nil, err
	}

	s.logger.Info().Str("name", sweet.Name).Str("category", sweet.Category).Msg("sweet created")
	return sweet, nil
}

func (s *SweetService) List(ctx context.Context) ([]domain.Sweet, error) {
	return s.repo.List(ctx)
}

// Search applies the optional AND-composed filters. Bound validation
// (non-negative prices) has already run at the request layer.
func (s *SweetService) Search(ctx context.Context, filter ports.SweetFilter) ([]domain.Sweet, error) {
	return s.repo.Search(ctx, filter)
}

func (s *SweetService) GetByID(ctx context.Context, id uint) (*domain.Sweet, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial update. Supplied-but-blank name or category and
// negative price or quantity are rejected; an empty partial is a no-op
// update and refused outright.
func (s *SweetService) Update(ctx context.Context, id uint, update ports.SweetUpdate) (*domain.Sweet, error) {
	if update.Empty() {
		return nil, domain.ErrEmptyUpdate
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", domain.ErrValidation)
	}
	if update.Category != nil && strings.TrimSpace(*update.Category) == "" {
		return nil, fmt.Errorf("%w: category must not be empty", domain.ErrValidation)
	}
	if update.Price != nil && *update.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if update.Quantity != nil && *update.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", domain.ErrValidation)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil && *update.Name != current.Name {
		if other, err := s.repo.FindByName(ctx, *update.Name); err == nil && other.ID != id {
			return nil, domain.ErrSweetExists
		} else if err != nil && !errors.Is(err, domain.ErrSweetNotFound) {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("id", id).Msg("sweet updated")
	return updated, nil
}

// Delete removes a sweet permanently. Role gating happens at the route.
func (s *SweetService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Uint("id", id).Msg("sweet deleted")
	return nil
}

// Purchase decrements quantity by one. The decrement is a single
// conditional statement at the store, so two racing purchases on a
// quantity-1 sweet cannot both succeed.
func (s *SweetService) Purchase(ctx context.Context, id uint) (*domain.Sweet, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	ok, err := s.repo.AdjustQuantity(ctx, id, -1)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrOutOfStock
	}

	s.logger.Info().Uint("id", id).Msg("sweet purchased")
	return s.repo.FindByID(ctx, id)
}

// Restock increments quantity by the given positive amount.
func (s *SweetService) Restock(ctx context.Context, id uint, quantity int) (*domain.Sweet, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	ok, err := s.repo.AdjustQuantity(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrSweetNotFound
	}

	s.logger.Info().Uint("id", id).Int("quantity", quantity).Msg("sweet restocked")
	return s.repo.FindByID(ctx, id)
}
