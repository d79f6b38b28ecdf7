package settings

import (
	"strconv"
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Well-known setting keys
const (
	KeyMaintenanceMode      = "maintenance_mode"
	KeyDefaultFeePercentage = "default_fee_percentage"
	KeyDefaultMinFee        = "default_min_fee"
	KeyDefaultMaxFee        = "default_max_fee"
	KeyMaxImagesPerProduct  = "max_images_per_product"
)

// AppSetting is one runtime-tunable key/value pair. Values are stored
// as text and parsed by the typed accessors.
type AppSetting struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key         string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM
func (AppSetting) TableName() string {
	return "app_settings"
}

// NewAppSetting creates a setting
func NewAppSetting(key, value string, description *string) (*AppSetting, error) {
	if key == "" {
		return nil, shared.NewDomainError("INVALID_KEY", "Setting key cannot be empty")
	}
	if len(key) > 100 {
		return nil, shared.NewDomainError("INVALID_KEY", "Setting key cannot exceed 100 characters")
	}
	return &AppSetting{
		ID:          uuid.New(),
		Key:         key,
		Value:       value,
		Description: description,
		UpdatedAt:   time.Now(),
	}, nil
}

// SetValue replaces the stored value
func (s *AppSetting) SetValue(value string) {
	s.Value = value
	s.UpdatedAt = time.Now()
}

// BoolValue parses the value as a boolean
func (s *AppSetting) BoolValue() (bool, error) {
	v, err := strconv.ParseBool(s.Value)
	if err != nil {
		return false, shared.WrapDomainError("INVALID_VALUE", "Setting "+s.Key+" is not a boolean", err)
	}
	return v, nil
}

// IntValue parses the value as an integer
func (s *AppSetting) IntValue() (int, error) {
	v, err := strconv.Atoi(s.Value)
	if err != nil {
		return 0, shared.WrapDomainError("INVALID_VALUE", "Setting "+s.Key+" is not an integer", err)
	}
	return v, nil
}

// DecimalValue parses the value as a decimal
func (s *AppSetting) DecimalValue() (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s.Value)
	if err != nil {
		return decimal.Zero, shared.WrapDomainError("INVALID_VALUE", "Setting "+s.Key+" is not a decimal", err)
	}
	return v, nil
}
