package persistence

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Save creates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(payment).Error
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var payment billing.Payment
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByUser finds payments made by a user
func (r *GormPaymentRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Payment], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).
		Model(&billing.Payment{}).
		Where("user_id = ?", userID)

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if paymentType, ok := filter.Filters["payment_type"]; ok {
		query = query.Where("payment_type = ?", paymentType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var payments []billing.Payment
	query = applyListOptions(query, filter, PaymentSortFields, "created_at")
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(payments, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindByTransaction finds the payment for a marketplace transaction
func (r *GormPaymentRepository) FindByTransaction(ctx context.Context, transactionID uuid.UUID) (*billing.Payment, error) {
	var payment billing.Payment
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByExternalReference finds a payment by its processor reference
func (r *GormPaymentRepository) FindByExternalReference(ctx context.Context, ref string) (*billing.Payment, error) {
	var payment billing.Payment
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("external_reference = ?", ref).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// Update persists changes to a payment
func (r *GormPaymentRepository) Update(ctx context.Context, payment *billing.Payment) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(payment).Error
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)

// GormPaymentMethodRepository implements PaymentMethodRepository using GORM
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormPaymentMethodRepository creates a new GormPaymentMethodRepository
func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

// Save creates a payment method
func (r *GormPaymentMethodRepository) Save(ctx context.Context, method *billing.PaymentMethod) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(method).Error
}

// FindByID finds a payment method by its ID
func (r *GormPaymentMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PaymentMethod, error) {
	var method billing.PaymentMethod
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&method, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &method, nil
}

// FindByUser finds all active payment methods of a user
func (r *GormPaymentMethodRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*billing.PaymentMethod, error) {
	var methods []*billing.PaymentMethod
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND is_active", userID).
		Order("is_default DESC, created_at DESC").
		Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

// FindDefaultByUser finds the user's default payment method
func (r *GormPaymentMethodRepository) FindDefaultByUser(ctx context.Context, userID uuid.UUID) (*billing.PaymentMethod, error) {
	var method billing.PaymentMethod
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND is_default AND is_active", userID).
		First(&method).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &method, nil
}

// ClearDefault unsets the default flag on all of the user's methods
func (r *GormPaymentMethodRepository) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	return dbFor(ctx, r.db).WithContext(ctx).
		Model(&billing.PaymentMethod{}).
		Where("user_id = ? AND is_default", userID).
		Update("is_default", false).Error
}

// Update persists changes to a payment method
func (r *GormPaymentMethodRepository) Update(ctx context.Context, method *billing.PaymentMethod) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(method).Error
}

// Delete deletes a payment method
func (r *GormPaymentMethodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).WithContext(ctx).Delete(&billing.PaymentMethod{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPaymentMethodRepository implements PaymentMethodRepository
var _ billing.PaymentMethodRepository = (*GormPaymentMethodRepository)(nil)
