package persistence

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/commerce"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Save creates a cart
func (r *GormCartRepository) Save(ctx context.Context, cart *commerce.Cart) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Create(cart).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a cart by its ID, with items loaded
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Cart, error) {
	var cart commerce.Cart
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Preload("Items").
		First(&cart, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// FindByUser loads the user's cart with its items
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*commerce.Cart, error) {
	var cart commerce.Cart
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// Update persists the cart and its items. Items removed from the
// aggregate are deleted so the stored set mirrors the in-memory one.
func (r *GormCartRepository) Update(ctx context.Context, cart *commerce.Cart) error {
	return dbFor(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keep := make([]uuid.UUID, 0, len(cart.Items))
		for i := range cart.Items {
			keep = append(keep, cart.Items[i].ID)
		}
		query := tx.Where("cart_id = ?", cart.ID)
		if len(keep) > 0 {
			query = query.Where("id NOT IN ?", keep)
		}
		if err := query.Delete(&commerce.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(cart).Error
	})
}

// Delete deletes a cart and its items
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFor(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&commerce.CartItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&commerce.Cart{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormCartRepository implements CartRepository
var _ commerce.CartRepository = (*GormCartRepository)(nil)
