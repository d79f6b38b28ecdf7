package persistence

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/commerce"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Save creates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *commerce.Transaction) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(tx).Error
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Transaction, error) {
	var tx commerce.Transaction
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// Search finds transactions matching the search criteria
func (r *GormTransactionRepository) Search(ctx context.Context, search commerce.TransactionSearch) (*shared.Paginated[commerce.Transaction], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).Model(&commerce.Transaction{})

	if search.BuyerID != nil {
		query = query.Where("buyer_id = ?", *search.BuyerID)
	}
	if search.SellerID != nil {
		query = query.Where("seller_id = ?", *search.SellerID)
	}
	if search.ProductID != nil {
		query = query.Where("product_id = ?", *search.ProductID)
	}
	if search.Status != nil {
		query = query.Where("status = ?", *search.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var transactions []commerce.Transaction
	query = applyListOptions(query, search.Filter, TransactionSortFields, "created_at")
	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(transactions, total, search.Page, search.PageSize)
	return &result, nil
}

// Update persists changes to a transaction
func (r *GormTransactionRepository) Update(ctx context.Context, tx *commerce.Transaction) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(tx).Error
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ commerce.TransactionRepository = (*GormTransactionRepository)(nil)

// GormOrderGroupRepository implements OrderGroupRepository using GORM
type GormOrderGroupRepository struct {
	db *gorm.DB
}

// NewGormOrderGroupRepository creates a new GormOrderGroupRepository
func NewGormOrderGroupRepository(db *gorm.DB) *GormOrderGroupRepository {
	return &GormOrderGroupRepository{db: db}
}

// Save creates an order group along with its items
func (r *GormOrderGroupRepository) Save(ctx context.Context, group *commerce.OrderGroup) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(group).Error
}

// FindByID finds an order group by its ID, with items loaded
func (r *GormOrderGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.OrderGroup, error) {
	var group commerce.OrderGroup
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Preload("Items").
		First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

// FindByBuyer finds order groups created by a buyer
func (r *GormOrderGroupRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) (*shared.Paginated[commerce.OrderGroup], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).
		Model(&commerce.OrderGroup{}).
		Where("buyer_id = ?", buyerID)

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var groups []commerce.OrderGroup
	query = applyListOptions(query, filter, OrderGroupSortFields, "created_at")
	if err := query.Preload("Items").Find(&groups).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(groups, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindByTransaction finds the order group containing a transaction
func (r *GormOrderGroupRepository) FindByTransaction(ctx context.Context, transactionID uuid.UUID) (*commerce.OrderGroup, error) {
	var item commerce.OrderGroupItem
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, item.OrderGroupID)
}

// Update persists changes to an order group and its items
func (r *GormOrderGroupRepository) Update(ctx context.Context, group *commerce.OrderGroup) error {
	return dbFor(ctx, r.db).WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(group).Error
}

// Ensure GormOrderGroupRepository implements OrderGroupRepository
var _ commerce.OrderGroupRepository = (*GormOrderGroupRepository)(nil)
