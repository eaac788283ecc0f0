package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/core/ports"
)

// SweetRepository persists sweets.
type SweetRepository struct {
	db *gorm.DB
}

func NewSweetRepository(db *gorm.DB) *SweetRepository {
	return &SweetRepository{db: db}
}

func (r *SweetRepository) Create(ctx context.Context, sweet *domain.Sweet) error {
	if err := r.db.WithContext(ctx).Create(sweet).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrSweetExists
		}
		return fmt.Errorf("insert sweet: %w", err)
	}
	return nil
}

func (r *SweetRepository) FindByID(ctx context.Context, id uint) (*domain.Sweet, error) {
	var sweet domain.Sweet
	err := r.db.WithContext(ctx).First(&sweet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSweetNotFound
		}
		return nil, fmt.Errorf("find sweet: %w", err)
	}
	return &sweet, nil
}

func (r *SweetRepository) FindByName(ctx context.Context, name string) (*domain.Sweet, error) {
	var sweet domain.Sweet
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&sweet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSweetNotFound
		}
		return nil, fmt.Errorf("find sweet by name: %w", err)
	}
	return &sweet, nil
}

func (r *SweetRepository) List(ctx context.Context) ([]domain.Sweet, error) {
	var sweets []domain.Sweet
	if err := r.db.WithContext(ctx).Order("name asc").Find(&sweets).Error; err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	return sweets, nil
}

func (r *SweetRepository) Search(ctx context.Context, filter ports.SweetFilter) ([]domain.Sweet, error) {
	q := r.db.WithContext(ctx).Model(&domain.Sweet{})

	if filter.Name != "" {
		// LOWER + LIKE is portable between postgres and sqlite.
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}

	var sweets []domain.Sweet
	if err := q.Order("name asc").Find(&sweets).Error; err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}
	return sweets, nil
}

func (r *SweetRepository) Update(ctx context.Context, id uint, update ports.SweetUpdate) (*domain.Sweet, error) {
	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Category != nil {
		fields["category"] = *update.Category
	}
	if update.Price != nil {
		fields["price"] = *update.Price
	}
	if update.Quantity != nil {
		fields["quantity"] = *update.Quantity
	}

	res := r.db.WithContext(ctx).Model(&domain.Sweet{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrSweetExists
		}
		return nil, fmt.Errorf("update sweet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrSweetNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *SweetRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Sweet{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete sweet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrSweetNotFound
	}
	return nil
}

// AdjustQuantity runs a single conditional UPDATE so concurrent purchases
// cannot lose updates or drive the quantity negative. Decrements only touch
// rows with enough stock; the affected-row count tells the caller whether
// the adjustment happened.
func (r *SweetRepository) AdjustQuantity(ctx context.Context, id uint, delta int) (bool, error) {
	q := r.db.WithContext(ctx).Model(&domain.Sweet{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where("quantity >= ?", -delta)
	}

	res := q.Updates(map[string]any{"quantity": gorm.Expr("quantity + ?", delta)})
	if res.Error != nil {
		return false, fmt.Errorf("adjust quantity: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
