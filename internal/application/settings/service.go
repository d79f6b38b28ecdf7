package settings

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/settings"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service handles runtime-tunable application settings
type Service struct {
	settingRepo settings.AppSettingRepository
	logger      *zap.Logger
}

// NewService creates a new settings service
func NewService(settingRepo settings.AppSettingRepository, logger *zap.Logger) *Service {
	return &Service{settingRepo: settingRepo, logger: logger}
}

// SettingDTO is the API representation of a setting
type SettingDTO struct {
	Key         string  `json:"key"`
	Value       string  `json:"value"`
	Description *string `json:"description,omitempty"`
}

// SetInput carries the data to create or replace a setting value
type SetInput struct {
	Value       string  `json:"value" validate:"required"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// Get returns one setting by key
func (s *Service) Get(ctx context.Context, key string) (*SettingDTO, error) {
	setting, err := s.find(ctx, key)
	if err != nil {
		return nil, err
	}
	dto := toSettingDTO(setting)
	return &dto, nil
}

// Set creates the setting or replaces its value
func (s *Service) Set(ctx context.Context, key string, input SetInput) (*SettingDTO, error) {
	setting, err := s.settingRepo.FindByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("failed to load setting", zap.String("key", key), zap.Error(err))
			return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load setting", err)
		}

		setting, err = settings.NewAppSetting(key, input.Value, input.Description)
		if err != nil {
			return nil, err
		}
		if err := s.settingRepo.Save(ctx, setting); err != nil {
			s.logger.Error("failed to save setting", zap.String("key", key), zap.Error(err))
			return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to save setting", err)
		}
	} else {
		setting.SetValue(input.Value)
		if input.Description != nil {
			setting.Description = input.Description
		}
		if err := s.settingRepo.Update(ctx, setting); err != nil {
			s.logger.Error("failed to update setting", zap.String("key", key), zap.Error(err))
			return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to update setting", err)
		}
	}

	s.logger.Info("setting updated", zap.String("key", key))
	dto := toSettingDTO(setting)
	return &dto, nil
}

// List returns every setting
func (s *Service) List(ctx context.Context) ([]SettingDTO, error) {
	items, err := s.settingRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("failed to list settings", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list settings", err)
	}

	dtos := make([]SettingDTO, 0, len(items))
	for _, setting := range items {
		dtos = append(dtos, toSettingDTO(setting))
	}
	return dtos, nil
}

// Delete removes a setting by key
func (s *Service) Delete(ctx context.Context, key string) error {
	setting, err := s.find(ctx, key)
	if err != nil {
		return err
	}
	if err := s.settingRepo.Delete(ctx, setting.ID); err != nil {
		s.logger.Error("failed to delete setting", zap.String("key", key), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to delete setting", err)
	}
	return nil
}

// GetBool parses the setting as a boolean, falling back to the default
// when the key is absent
func (s *Service) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	setting, err := s.settingRepo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fallback, nil
		}
		return fallback, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load setting", err)
	}
	return setting.BoolValue()
}

// GetInt parses the setting as an integer, falling back to the default
// when the key is absent
func (s *Service) GetInt(ctx context.Context, key string, fallback int) (int, error) {
	setting, err := s.settingRepo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fallback, nil
		}
		return fallback, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load setting", err)
	}
	return setting.IntValue()
}

// GetDecimal parses the setting as a decimal, falling back to the
// default when the key is absent
func (s *Service) GetDecimal(ctx context.Context, key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	setting, err := s.settingRepo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return fallback, nil
		}
		return fallback, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load setting", err)
	}
	return setting.DecimalValue()
}

func (s *Service) find(ctx context.Context, key string) (*settings.AppSetting, error) {
	setting, err := s.settingRepo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("SETTING_NOT_FOUND", "Setting not found: "+key, err)
		}
		s.logger.Error("failed to load setting", zap.String("key", key), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load setting", err)
	}
	return setting, nil
}

func toSettingDTO(setting *settings.AppSetting) SettingDTO {
	return SettingDTO{
		Key:         setting.Key,
		Value:       setting.Value,
		Description: setting.Description,
	}
}
