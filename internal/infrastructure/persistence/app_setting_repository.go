package persistence

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/settings"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAppSettingRepository implements AppSettingRepository using GORM
type GormAppSettingRepository struct {
	db *gorm.DB
}

// NewGormAppSettingRepository creates a new GormAppSettingRepository
func NewGormAppSettingRepository(db *gorm.DB) *GormAppSettingRepository {
	return &GormAppSettingRepository{db: db}
}

// Save creates a setting
func (r *GormAppSettingRepository) Save(ctx context.Context, setting *settings.AppSetting) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Create(setting).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a setting by its ID
func (r *GormAppSettingRepository) FindByID(ctx context.Context, id uuid.UUID) (*settings.AppSetting, error) {
	var setting settings.AppSetting
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&setting, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// FindByKey finds a setting by its unique key
func (r *GormAppSettingRepository) FindByKey(ctx context.Context, key string) (*settings.AppSetting, error) {
	var setting settings.AppSetting
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("key = ?", key).
		First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// FindAll returns all settings ordered by key
func (r *GormAppSettingRepository) FindAll(ctx context.Context) ([]*settings.AppSetting, error) {
	var all []*settings.AppSetting
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Order("key ASC").
		Find(&all).Error; err != nil {
		return nil, err
	}
	return all, nil
}

// Update persists changes to a setting
func (r *GormAppSettingRepository) Update(ctx context.Context, setting *settings.AppSetting) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(setting).Error
}

// Delete deletes a setting
func (r *GormAppSettingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).WithContext(ctx).Delete(&settings.AppSetting{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAppSettingRepository implements AppSettingRepository
var _ settings.AppSettingRepository = (*GormAppSettingRepository)(nil)
