package catalog

import (
	"context"
	"testing"

	"github.com/campusmarket/backend/internal/domain/catalog"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCategoryService() (*CategoryService, *MockCategoryRepository, *MockCategoryFeeRepository) {
	categoryRepo := new(MockCategoryRepository)
	feeRepo := new(MockCategoryFeeRepository)
	return NewCategoryService(categoryRepo, feeRepo, zap.NewNop()), categoryRepo, feeRepo
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates root category", func(t *testing.T) {
		service, categoryRepo, _ := newCategoryService()

		categoryRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

		dto, err := service.Create(ctx, CreateCategoryInput{Name: "Textbooks"})

		require.NoError(t, err)
		assert.Equal(t, "Textbooks", dto.Name)
		assert.Nil(t, dto.ParentID)
	})

	t.Run("creates child under existing parent", func(t *testing.T) {
		service, categoryRepo, _ := newCategoryService()
		parent := newTestCategory(t)

		categoryRepo.On("FindByID", ctx, parent.ID).Return(parent, nil)
		categoryRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

		dto, err := service.Create(ctx, CreateCategoryInput{Name: "Math", ParentID: &parent.ID})

		require.NoError(t, err)
		require.NotNil(t, dto.ParentID)
		assert.Equal(t, parent.ID, *dto.ParentID)
	})

	t.Run("unknown parent", func(t *testing.T) {
		service, categoryRepo, _ := newCategoryService()
		parentID := uuid.New()

		categoryRepo.On("FindByID", ctx, parentID).Return(nil, shared.ErrNotFound)

		_, err := service.Create(ctx, CreateCategoryInput{Name: "Math", ParentID: &parentID})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PARENT_NOT_FOUND", domainErr.Code)
	})
}

func TestCategoryService_Move(t *testing.T) {
	ctx := context.Background()

	t.Run("moving under own descendant is rejected", func(t *testing.T) {
		service, categoryRepo, _ := newCategoryService()

		root := newTestCategory(t)
		child, err := catalog.NewCategory("Math", nil, nil, &root.ID)
		require.NoError(t, err)
		grandchild, err := catalog.NewCategory("Calculus", nil, nil, &child.ID)
		require.NoError(t, err)

		categoryRepo.On("FindByID", ctx, root.ID).Return(root, nil)
		categoryRepo.On("FindByID", ctx, child.ID).Return(child, nil)
		categoryRepo.On("FindByID", ctx, grandchild.ID).Return(grandchild, nil)

		_, err = service.Move(ctx, root.ID, &grandchild.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PARENT", domainErr.Code)
		categoryRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("moving under itself is rejected", func(t *testing.T) {
		service, categoryRepo, _ := newCategoryService()
		category := newTestCategory(t)

		categoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)

		_, err := service.Move(ctx, category.ID, &category.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PARENT", domainErr.Code)
	})

	t.Run("moves to top level", func(t *testing.T) {
		service, categoryRepo, _ := newCategoryService()
		parent := newTestCategory(t)
		child, err := catalog.NewCategory("Math", nil, nil, &parent.ID)
		require.NoError(t, err)

		categoryRepo.On("FindByID", ctx, child.ID).Return(child, nil)
		categoryRepo.On("Update", ctx, child).Return(nil)

		dto, err := service.Move(ctx, child.ID, nil)

		require.NoError(t, err)
		assert.Nil(t, dto.ParentID)
	})

	t.Run("moves under a valid parent", func(t *testing.T) {
		service, categoryRepo, _ := newCategoryService()
		a := newTestCategory(t)
		b, err := catalog.NewCategory("Electronics", nil, nil, nil)
		require.NoError(t, err)

		categoryRepo.On("FindByID", ctx, a.ID).Return(a, nil)
		categoryRepo.On("FindByID", ctx, b.ID).Return(b, nil)
		categoryRepo.On("Update", ctx, a).Return(nil)

		dto, err := service.Move(ctx, a.ID, &b.ID)

		require.NoError(t, err)
		require.NotNil(t, dto.ParentID)
		assert.Equal(t, b.ID, *dto.ParentID)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses when products exist", func(t *testing.T) {
		service, categoryRepo, _ := newCategoryService()
		id := uuid.New()

		categoryRepo.On("CountProducts", ctx, id).Return(int64(4), nil)

		err := service.Delete(ctx, id)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CATEGORY_HAS_PRODUCTS", domainErr.Code)
		categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes empty category", func(t *testing.T) {
		service, categoryRepo, _ := newCategoryService()
		id := uuid.New()

		categoryRepo.On("CountProducts", ctx, id).Return(int64(0), nil)
		categoryRepo.On("Delete", ctx, id).Return(nil)

		require.NoError(t, service.Delete(ctx, id))
		categoryRepo.AssertExpectations(t)
	})
}

func TestCategoryService_SetFee(t *testing.T) {
	ctx := context.Background()

	input := SetFeeInput{
		FeePercentage: decimal.NewFromInt(5),
		MinFee:        decimal.NewFromInt(1),
		MaxFee:        decimal.NewFromInt(50),
	}

	t.Run("creates fee when none exists", func(t *testing.T) {
		service, categoryRepo, feeRepo := newCategoryService()
		category := newTestCategory(t)

		categoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)
		feeRepo.On("FindByCategory", ctx, category.ID).Return(nil, shared.ErrNotFound)
		feeRepo.On("Save", ctx, mock.AnythingOfType("*catalog.CategoryFee")).Return(nil)

		dto, err := service.SetFee(ctx, category.ID, input)

		require.NoError(t, err)
		assert.True(t, dto.FeePercentage.Equal(decimal.NewFromInt(5)))
		assert.True(t, dto.IsActive)
	})

	t.Run("replaces existing fee in place", func(t *testing.T) {
		service, categoryRepo, feeRepo := newCategoryService()
		category := newTestCategory(t)
		existing, err := catalog.NewCategoryFee(category.ID, decimal.NewFromInt(8),
			decimal.NewFromInt(2), decimal.NewFromInt(30))
		require.NoError(t, err)

		categoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)
		feeRepo.On("FindByCategory", ctx, category.ID).Return(existing, nil)
		feeRepo.On("Update", ctx, existing).Return(nil)

		dto, err := service.SetFee(ctx, category.ID, input)

		require.NoError(t, err)
		assert.Equal(t, existing.ID, dto.ID)
		assert.True(t, dto.FeePercentage.Equal(decimal.NewFromInt(5)))
		feeRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects inverted bounds", func(t *testing.T) {
		service, categoryRepo, feeRepo := newCategoryService()
		category := newTestCategory(t)

		categoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)
		feeRepo.On("FindByCategory", ctx, category.ID).Return(nil, shared.ErrNotFound)

		_, err := service.SetFee(ctx, category.ID, SetFeeInput{
			FeePercentage: decimal.NewFromInt(5),
			MinFee:        decimal.NewFromInt(50),
			MaxFee:        decimal.NewFromInt(1),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_FEE_BOUNDS", domainErr.Code)
	})
}

func TestCategoryService_GetTree(t *testing.T) {
	ctx := context.Background()

	t.Run("returns roots with children", func(t *testing.T) {
		service, categoryRepo, _ := newCategoryService()
		root := newTestCategory(t)
		child, err := catalog.NewCategory("Math", nil, nil, &root.ID)
		require.NoError(t, err)

		categoryRepo.On("FindRoots", ctx).Return([]*catalog.Category{root}, nil)
		categoryRepo.On("FindChildren", ctx, root.ID).Return([]*catalog.Category{child}, nil)

		tree, err := service.GetTree(ctx)

		require.NoError(t, err)
		require.Len(t, tree, 1)
		require.Len(t, tree[0].Children, 1)
		assert.Equal(t, "Math", tree[0].Children[0].Name)
	})
}
