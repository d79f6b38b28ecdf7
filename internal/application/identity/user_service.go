package identity

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/identity"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages user profiles
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}
	return toUserDTO(user), nil
}

// ListUsersInput contains list filter options
type ListUsersInput struct {
	Page       int
	PageSize   int
	Search     string
	SortBy     string
	SortDir    string
	CampusID   *uuid.UUID
	IsVerified *bool
	IsActive   *bool
}

// List retrieves a paginated user list, optionally scoped to a campus
func (s *UserService) List(ctx context.Context, input ListUsersInput) (*UserListResult, error) {
	filter := buildFilter(input.Page, input.PageSize, input.Search, input.SortBy, input.SortDir)
	if input.IsVerified != nil {
		filter.Filters["is_verified"] = *input.IsVerified
	}
	if input.IsActive != nil {
		filter.Filters["is_active"] = *input.IsActive
	}

	var page *shared.Paginated[identity.User]
	var err error
	if input.CampusID != nil {
		page, err = s.userRepo.FindByCampus(ctx, *input.CampusID, filter)
	} else {
		page, err = s.userRepo.FindAll(ctx, filter)
	}
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	items := make([]UserDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *toUserDTO(&page.Items[i]))
	}
	return &UserListResult{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// UpdateProfileInput contains the mutable profile fields
type UpdateProfileInput struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone,omitempty"`
	Major     *string `json:"major,omitempty"`
	Semester  *int    `json:"semester,omitempty"`
}

// UpdateProfile updates a user's profile fields
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}

	if err := user.UpdateProfile(input.FirstName, input.LastName, input.Phone, input.Major, input.Semester); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}
	return toUserDTO(user), nil
}

// SetProfilePicture stores the uploaded picture path on the user
func (s *UserService) SetProfilePicture(ctx context.Context, id uuid.UUID, path string) (*UserDTO, error) {
	if path == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Picture path cannot be empty")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}

	user.SetProfilePicture(path)

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile picture")
	}
	return toUserDTO(user), nil
}

// Deactivate disables a user account
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, false)
}

// Reactivate re-enables a user account
func (s *UserService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, true)
}

func (s *UserService) setActive(ctx context.Context, id uuid.UUID, active bool) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}

	if active {
		err = user.Reactivate()
	} else {
		err = user.Deactivate()
	}
	if err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	s.logger.Info("User activation changed",
		zap.String("user_id", id.String()),
		zap.Bool("is_active", active))
	return nil
}
