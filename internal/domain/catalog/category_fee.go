package catalog

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryFee holds the platform fee configuration for one category.
// Exactly one fee row may exist per category.
type CategoryFee struct {
	shared.BaseEntity
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"category_id"`
	FeePercentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"fee_percentage"`
	MinFee        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"min_fee"`
	MaxFee        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"max_fee"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (CategoryFee) TableName() string {
	return "category_fees"
}

// NewCategoryFee creates fee settings for a category
func NewCategoryFee(categoryID uuid.UUID, feePercentage, minFee, maxFee decimal.Decimal) (*CategoryFee, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	if err := validateFeeBounds(feePercentage, minFee, maxFee); err != nil {
		return nil, err
	}

	return &CategoryFee{
		BaseEntity:    shared.NewBaseEntity(),
		CategoryID:    categoryID,
		FeePercentage: feePercentage,
		MinFee:        minFee,
		MaxFee:        maxFee,
		IsActive:      true,
	}, nil
}

// Update replaces the fee configuration
func (f *CategoryFee) Update(feePercentage, minFee, maxFee decimal.Decimal) error {
	if err := validateFeeBounds(feePercentage, minFee, maxFee); err != nil {
		return err
	}
	f.FeePercentage = feePercentage
	f.MinFee = minFee
	f.MaxFee = maxFee
	f.UpdatedAt = time.Now()
	return nil
}

// Activate enables this fee configuration
func (f *CategoryFee) Activate() {
	f.IsActive = true
	f.UpdatedAt = time.Now()
}

// Deactivate disables this fee configuration. Transactions in an
// inactive-fee category are charged no platform fee.
func (f *CategoryFee) Deactivate() {
	f.IsActive = false
	f.UpdatedAt = time.Now()
}

// CalculateFee computes the platform fee for a sale price:
// price times the percentage, clamped between MinFee and MaxFee.
// An inactive configuration always yields a zero fee.
func (f *CategoryFee) CalculateFee(price valueobject.Money) (valueobject.Money, error) {
	if !f.IsActive {
		return valueobject.Zero(price.Currency()), nil
	}

	raw := price.Multiply(f.FeePercentage.Div(decimal.NewFromInt(100)))

	minFee, err := valueobject.NewMoney(f.MinFee, price.Currency())
	if err != nil {
		return valueobject.Money{}, err
	}
	maxFee, err := valueobject.NewMoney(f.MaxFee, price.Currency())
	if err != nil {
		return valueobject.Money{}, err
	}

	clamped, err := raw.Clamp(minFee, maxFee)
	if err != nil {
		return valueobject.Money{}, err
	}
	return clamped.Round(2), nil
}

func validateFeeBounds(feePercentage, minFee, maxFee decimal.Decimal) error {
	if feePercentage.IsNegative() || feePercentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_FEE_PERCENTAGE", "Fee percentage must be between 0 and 100")
	}
	if minFee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE_BOUNDS", "Minimum fee cannot be negative")
	}
	if maxFee.LessThan(minFee) {
		return shared.NewDomainError("INVALID_FEE_BOUNDS", "Maximum fee cannot be below minimum fee")
	}
	return nil
}
