package settings

import (
	"context"

	"github.com/google/uuid"
)

// AppSettingRepository defines persistence operations for settings
type AppSettingRepository interface {
	Save(ctx context.Context, setting *AppSetting) error
	FindByID(ctx context.Context, id uuid.UUID) (*AppSetting, error)
	FindByKey(ctx context.Context, key string) (*AppSetting, error)
	FindAll(ctx context.Context) ([]*AppSetting, error)
	Update(ctx context.Context, setting *AppSetting) error
	Delete(ctx context.Context, id uuid.UUID) error
}
