package catalog

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/catalog"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxCategoryDepth bounds the parent chain walk during cycle detection
const maxCategoryDepth = 32

// CategoryService manages the category tree and per-category fees
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	feeRepo      catalog.CategoryFeeRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo catalog.CategoryRepository, feeRepo catalog.CategoryFeeRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		feeRepo:      feeRepo,
		logger:       logger,
	}
}

// CreateCategoryInput contains input for category creation
type CreateCategoryInput struct {
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Icon        *string    `json:"icon,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
}

// Create adds a category, optionally under an existing parent
func (s *CategoryService) Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	s.logger.Info("Creating category", zap.String("name", input.Name))

	if input.ParentID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *input.ParentID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("PARENT_NOT_FOUND", "Parent category not found")
			}
			s.logger.Error("Failed to find parent category", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create category")
		}
	}

	category, err := catalog.NewCategory(input.Name, input.Description, input.Icon, input.ParentID)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		s.logger.Error("Failed to save category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create category")
	}

	s.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	return toCategoryDTO(category), nil
}

// GetByID retrieves a category with its fee configuration
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		s.logger.Error("Failed to find category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find category")
	}

	dto := toCategoryDTO(category)
	if fee, err := s.feeRepo.FindByCategory(ctx, id); err == nil {
		dto.Fee = toCategoryFeeDTO(fee)
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load category fee", zap.Error(err))
	}
	return dto, nil
}

// GetTree returns the root categories with one level of children
func (s *CategoryService) GetTree(ctx context.Context) ([]CategoryDTO, error) {
	roots, err := s.categoryRepo.FindRoots(ctx)
	if err != nil {
		s.logger.Error("Failed to load root categories", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load categories")
	}

	out := make([]CategoryDTO, 0, len(roots))
	for _, root := range roots {
		dto := toCategoryDTO(root)
		children, err := s.categoryRepo.FindChildren(ctx, root.ID)
		if err != nil {
			s.logger.Error("Failed to load child categories", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load categories")
		}
		for _, child := range children {
			dto.Children = append(dto.Children, *toCategoryDTO(child))
		}
		out = append(out, *dto)
	}
	return out, nil
}

// UpdateCategoryInput contains input for category updates
type UpdateCategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// Update changes the category attributes
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		s.logger.Error("Failed to find category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find category")
	}

	if err := category.Update(input.Name, input.Description, input.Icon); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		s.logger.Error("Failed to update category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update category")
	}
	return toCategoryDTO(category), nil
}

// Move re-parents a category. The new parent must not be the category
// itself or any of its descendants.
func (s *CategoryService) Move(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID) (*CategoryDTO, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		s.logger.Error("Failed to find category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find category")
	}

	if newParentID != nil {
		if err := s.checkNoCycle(ctx, id, *newParentID); err != nil {
			return nil, err
		}
	}

	if err := category.SetParent(newParentID); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		s.logger.Error("Failed to move category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to move category")
	}
	return toCategoryDTO(category), nil
}

// checkNoCycle walks the ancestor chain from the proposed parent and
// fails when it reaches the category being moved
func (s *CategoryService) checkNoCycle(ctx context.Context, categoryID, parentID uuid.UUID) error {
	current := parentID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		if current == categoryID {
			return shared.NewDomainError("INVALID_PARENT", "Category cannot be moved under one of its descendants")
		}
		ancestor, err := s.categoryRepo.FindByID(ctx, current)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				if current == parentID {
					return shared.NewDomainError("PARENT_NOT_FOUND", "Parent category not found")
				}
				return nil
			}
			s.logger.Error("Failed to walk category ancestors", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to move category")
		}
		if ancestor.ParentID == nil {
			return nil
		}
		current = *ancestor.ParentID
	}
	return shared.NewDomainError("INVALID_PARENT", "Category tree is too deep")
}

// SetActive activates or deactivates a category
func (s *CategoryService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*CategoryDTO, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		s.logger.Error("Failed to find category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find category")
	}

	if active {
		category.Activate()
	} else {
		category.Deactivate()
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		s.logger.Error("Failed to update category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update category")
	}
	return toCategoryDTO(category), nil
}

// Delete removes a category. Categories still holding products cannot be
// deleted; child categories become top-level.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count category products", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete category")
	}
	if count > 0 {
		return shared.NewDomainError("CATEGORY_HAS_PRODUCTS", "Category with listings cannot be deleted")
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		s.logger.Error("Failed to delete category", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete category")
	}

	s.logger.Info("Category deleted", zap.String("category_id", id.String()))
	return nil
}

// SetFeeInput contains fee configuration for a category
type SetFeeInput struct {
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	MinFee        decimal.Decimal `json:"min_fee"`
	MaxFee        decimal.Decimal `json:"max_fee"`
}

// SetFee creates or replaces the fee configuration of a category
func (s *CategoryService) SetFee(ctx context.Context, categoryID uuid.UUID, input SetFeeInput) (*CategoryFeeDTO, error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		s.logger.Error("Failed to find category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to set category fee")
	}

	existing, err := s.feeRepo.FindByCategory(ctx, categoryID)
	switch {
	case err == nil:
		if err := existing.Update(input.FeePercentage, input.MinFee, input.MaxFee); err != nil {
			return nil, err
		}
		if err := s.feeRepo.Update(ctx, existing); err != nil {
			s.logger.Error("Failed to update category fee", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to set category fee")
		}
		return toCategoryFeeDTO(existing), nil
	case errors.Is(err, shared.ErrNotFound):
		fee, err := catalog.NewCategoryFee(categoryID, input.FeePercentage, input.MinFee, input.MaxFee)
		if err != nil {
			return nil, err
		}
		if err := s.feeRepo.Save(ctx, fee); err != nil {
			s.logger.Error("Failed to save category fee", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to set category fee")
		}
		return toCategoryFeeDTO(fee), nil
	default:
		s.logger.Error("Failed to find category fee", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to set category fee")
	}
}

// GetFee returns the fee configuration of a category
func (s *CategoryService) GetFee(ctx context.Context, categoryID uuid.UUID) (*CategoryFeeDTO, error) {
	fee, err := s.feeRepo.FindByCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("FEE_NOT_FOUND", "Category has no fee configuration")
		}
		s.logger.Error("Failed to find category fee", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find category fee")
	}
	return toCategoryFeeDTO(fee), nil
}

// SetFeeActive toggles the fee configuration of a category
func (s *CategoryService) SetFeeActive(ctx context.Context, categoryID uuid.UUID, active bool) (*CategoryFeeDTO, error) {
	fee, err := s.feeRepo.FindByCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("FEE_NOT_FOUND", "Category has no fee configuration")
		}
		s.logger.Error("Failed to find category fee", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find category fee")
	}

	if active {
		fee.Activate()
	} else {
		fee.Deactivate()
	}

	if err := s.feeRepo.Update(ctx, fee); err != nil {
		s.logger.Error("Failed to update category fee", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update category fee")
	}
	return toCategoryFeeDTO(fee), nil
}
