package catalog

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/catalog"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService manages listings, their images, and bookmarks
type ProductService struct {
	productRepo  catalog.ProductRepository
	imageRepo    catalog.ProductImageRepository
	savedRepo    catalog.SavedProductRepository
	categoryRepo catalog.CategoryRepository
	feeRepo      catalog.CategoryFeeRepository
	eventBus     shared.EventPublisher
	uploads      config.UploadsConfig
	logger       *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(
	productRepo catalog.ProductRepository,
	imageRepo catalog.ProductImageRepository,
	savedRepo catalog.SavedProductRepository,
	categoryRepo catalog.CategoryRepository,
	feeRepo catalog.CategoryFeeRepository,
	eventBus shared.EventPublisher,
	uploads config.UploadsConfig,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		imageRepo:    imageRepo,
		savedRepo:    savedRepo,
		categoryRepo: categoryRepo,
		feeRepo:      feeRepo,
		eventBus:     eventBus,
		uploads:      uploads,
		logger:       logger,
	}
}

// CreateProductInput contains input for listing creation
type CreateProductInput struct {
	SellerID    uuid.UUID       `json:"-"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Condition   string          `json:"condition"`
	CategoryID  uuid.UUID       `json:"category_id"`
	IsService   bool            `json:"is_service"`
	Location    *string         `json:"location,omitempty"`
	Visibility  string          `json:"visibility"`
}

// Create publishes a new listing in an active category
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	s.logger.Info("Creating product",
		zap.String("seller_id", input.SellerID.String()),
		zap.String("title", input.Title))

	category, err := s.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		s.logger.Error("Failed to find category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create product")
	}
	if !category.IsActive {
		return nil, shared.NewDomainError("CATEGORY_INACTIVE", "Category is not accepting listings")
	}

	product, err := catalog.NewProduct(input.Title, input.Description, input.Price,
		catalog.ProductCondition(input.Condition), input.SellerID, input.CategoryID,
		input.IsService, catalog.ProductVisibility(input.Visibility))
	if err != nil {
		return nil, err
	}
	product.Location = input.Location

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create product")
	}

	s.publishEvents(ctx, product)

	s.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	return toProductDTO(product), nil
}

// GetByID retrieves a listing. Views from anyone but the seller bump
// the view counter.
func (s *ProductService) GetByID(ctx context.Context, id, viewerID uuid.UUID) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if viewerID != uuid.Nil && viewerID != product.SellerID {
		if err := s.productRepo.IncrementViews(ctx, id); err != nil {
			s.logger.Warn("Failed to increment views", zap.Error(err))
		} else {
			product.Views++
		}
	}
	return toProductDTO(product), nil
}

// SearchProductsInput contains listing search filters
type SearchProductsInput struct {
	Page       int
	PageSize   int
	Search     string
	SortBy     string
	SortDir    string
	CategoryID *uuid.UUID
	SellerID   *uuid.UUID
	CampusID   *uuid.UUID
	Status     *string
	Condition  *string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	IsService  *bool
}

// Search retrieves a filtered, paginated listing page
func (s *ProductService) Search(ctx context.Context, input SearchProductsInput) (*ProductListResult, error) {
	search := catalog.ProductSearch{
		Filter:     shared.DefaultFilter(),
		CategoryID: input.CategoryID,
		SellerID:   input.SellerID,
		CampusID:   input.CampusID,
		MinPrice:   input.MinPrice,
		MaxPrice:   input.MaxPrice,
		IsService:  input.IsService,
	}
	if input.Page > 0 {
		search.Page = input.Page
	}
	if input.PageSize > 0 && input.PageSize <= 100 {
		search.PageSize = input.PageSize
	}
	search.Search = input.Search
	if input.SortBy != "" {
		search.OrderBy = input.SortBy
	}
	if input.SortDir != "" {
		search.OrderDir = input.SortDir
	}
	if input.Status != nil {
		status := catalog.ProductStatus(*input.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Invalid product status: "+*input.Status)
		}
		search.Status = &status
	}
	if input.Condition != nil {
		condition := catalog.ProductCondition(*input.Condition)
		if !condition.IsValid() {
			return nil, shared.NewDomainError("INVALID_CONDITION", "Invalid product condition: "+*input.Condition)
		}
		search.Condition = &condition
	}

	page, err := s.productRepo.Search(ctx, search)
	if err != nil {
		s.logger.Error("Failed to search products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to search products")
	}

	items := make([]ProductDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *toProductDTO(&page.Items[i]))
	}
	return &ProductListResult{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// UpdateProductInput contains the editable listing fields
type UpdateProductInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Condition   string          `json:"condition"`
	Location    *string         `json:"location,omitempty"`
	Visibility  string          `json:"visibility"`
}

// Update edits a listing. Only the seller may edit.
func (s *ProductService) Update(ctx context.Context, id, sellerID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.findOwnedProduct(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(input.Title, input.Description, input.Price,
		catalog.ProductCondition(input.Condition), input.Location,
		catalog.ProductVisibility(input.Visibility)); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update product")
	}
	return toProductDTO(product), nil
}

// ChangeCategory moves a listing into another category. The destination
// must be active and must not carry a deactivated fee configuration.
func (s *ProductService) ChangeCategory(ctx context.Context, id, sellerID, categoryID uuid.UUID) (*ProductDTO, error) {
	product, err := s.findOwnedProduct(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		s.logger.Error("Failed to find category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to change category")
	}
	if !category.IsActive {
		return nil, shared.NewDomainError("CATEGORY_INACTIVE", "Category is not accepting listings")
	}

	if fee, err := s.feeRepo.FindByCategory(ctx, categoryID); err == nil {
		if !fee.IsActive {
			return nil, shared.NewDomainError("CATEGORY_FEE_INACTIVE",
				"Destination category's fee configuration is deactivated")
		}
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check destination fee", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to change category")
	}

	if err := product.ChangeCategory(categoryID); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to change category")
	}
	return toProductDTO(product), nil
}

// Reserve holds a listing for a pending sale
func (s *ProductService) Reserve(ctx context.Context, id, sellerID uuid.UUID) (*ProductDTO, error) {
	return s.transition(ctx, id, sellerID, (*catalog.Product).Reserve)
}

// Release returns a reserved listing to Available
func (s *ProductService) Release(ctx context.Context, id, sellerID uuid.UUID) (*ProductDTO, error) {
	return s.transition(ctx, id, sellerID, (*catalog.Product).Release)
}

// MarkSold marks a listing as sold outside of checkout
func (s *ProductService) MarkSold(ctx context.Context, id, sellerID uuid.UUID) (*ProductDTO, error) {
	return s.transition(ctx, id, sellerID, (*catalog.Product).MarkSold)
}

// Delete soft-deletes a listing
func (s *ProductService) Delete(ctx context.Context, id, sellerID uuid.UUID) error {
	_, err := s.transition(ctx, id, sellerID, (*catalog.Product).Delete)
	return err
}

func (s *ProductService) transition(ctx context.Context, id, sellerID uuid.UUID, op func(*catalog.Product) error) (*ProductDTO, error) {
	product, err := s.findOwnedProduct(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}
	if err := op(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update product")
	}
	s.publishEvents(ctx, product)
	return toProductDTO(product), nil
}

// AddImageInput contains input for attaching an image
type AddImageInput struct {
	ImageURL     string `json:"image_url"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayOrder int    `json:"display_order"`
}

// AddImage attaches an image to a listing. Marking it primary clears the
// flag on every other image of the product.
func (s *ProductService) AddImage(ctx context.Context, productID, sellerID uuid.UUID, input AddImageInput) (*ProductImageDTO, error) {
	if _, err := s.findOwnedProduct(ctx, productID, sellerID); err != nil {
		return nil, err
	}

	existing, err := s.imageRepo.FindByProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to load product images", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to add image")
	}
	if len(existing) >= s.uploads.MaxPerProduct {
		return nil, shared.NewDomainErrorWithDetails("TOO_MANY_IMAGES",
			"Listing has reached its image limit",
			map[string]int{"max_per_product": s.uploads.MaxPerProduct})
	}

	// first image becomes primary automatically
	isPrimary := input.IsPrimary || len(existing) == 0

	image, err := catalog.NewProductImage(productID, input.ImageURL, isPrimary, input.DisplayOrder)
	if err != nil {
		return nil, err
	}

	if isPrimary {
		if err := s.imageRepo.ClearPrimary(ctx, productID); err != nil {
			s.logger.Error("Failed to clear primary flags", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to add image")
		}
	}
	if err := s.imageRepo.Save(ctx, image); err != nil {
		s.logger.Error("Failed to save image", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to add image")
	}

	dto := toProductImageDTO(image)
	return &dto, nil
}

// SetPrimaryImage flags one image as primary and clears all others
func (s *ProductService) SetPrimaryImage(ctx context.Context, productID, sellerID, imageID uuid.UUID) error {
	if _, err := s.findOwnedProduct(ctx, productID, sellerID); err != nil {
		return err
	}

	image, err := s.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("IMAGE_NOT_FOUND", "Image not found")
		}
		s.logger.Error("Failed to find image", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to set primary image")
	}
	if image.ProductID != productID {
		return shared.NewDomainError("IMAGE_NOT_FOUND", "Image does not belong to this listing")
	}

	if err := s.imageRepo.ClearPrimary(ctx, productID); err != nil {
		s.logger.Error("Failed to clear primary flags", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to set primary image")
	}

	image.IsPrimary = true
	if err := s.imageRepo.Update(ctx, image); err != nil {
		s.logger.Error("Failed to update image", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to set primary image")
	}
	return nil
}

// ReorderImages rewrites the display order to match the given ID sequence
func (s *ProductService) ReorderImages(ctx context.Context, productID, sellerID uuid.UUID, orderedIDs []uuid.UUID) error {
	if _, err := s.findOwnedProduct(ctx, productID, sellerID); err != nil {
		return err
	}

	images, err := s.imageRepo.FindByProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to load product images", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reorder images")
	}

	byID := make(map[uuid.UUID]*catalog.ProductImage, len(images))
	for _, image := range images {
		byID[image.ID] = image
	}
	if len(orderedIDs) != len(images) {
		return shared.NewDomainError("INVALID_ORDER", "Order must list every image of the listing exactly once")
	}

	for position, id := range orderedIDs {
		image, ok := byID[id]
		if !ok {
			return shared.NewDomainError("IMAGE_NOT_FOUND", "Image does not belong to this listing")
		}
		delete(byID, id)
		image.DisplayOrder = position
		if err := s.imageRepo.Update(ctx, image); err != nil {
			s.logger.Error("Failed to update image order", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to reorder images")
		}
	}
	return nil
}

// RemoveImage deletes an image from a listing
func (s *ProductService) RemoveImage(ctx context.Context, productID, sellerID, imageID uuid.UUID) error {
	if _, err := s.findOwnedProduct(ctx, productID, sellerID); err != nil {
		return err
	}

	image, err := s.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("IMAGE_NOT_FOUND", "Image not found")
		}
		s.logger.Error("Failed to find image", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to remove image")
	}
	if image.ProductID != productID {
		return shared.NewDomainError("IMAGE_NOT_FOUND", "Image does not belong to this listing")
	}

	if err := s.imageRepo.Delete(ctx, imageID); err != nil {
		s.logger.Error("Failed to delete image", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to remove image")
	}
	return nil
}

// SaveProduct bookmarks a listing for a user. Saving twice is a no-op.
func (s *ProductService) SaveProduct(ctx context.Context, userID, productID uuid.UUID) (*SavedProductDTO, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status == catalog.ProductStatusDeleted {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Listing is no longer available")
	}

	if existing, err := s.savedRepo.FindByUserAndProduct(ctx, userID, productID); err == nil {
		return &SavedProductDTO{
			ID:        existing.ID,
			ProductID: existing.ProductID,
			SavedAt:   existing.CreatedAt,
		}, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check bookmark", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save product")
	}

	saved, err := catalog.NewSavedProduct(userID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.savedRepo.Save(ctx, saved); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// concurrent save; fetch the winner
			if existing, findErr := s.savedRepo.FindByUserAndProduct(ctx, userID, productID); findErr == nil {
				return &SavedProductDTO{ID: existing.ID, ProductID: existing.ProductID, SavedAt: existing.CreatedAt}, nil
			}
		}
		s.logger.Error("Failed to save bookmark", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save product")
	}

	return &SavedProductDTO{ID: saved.ID, ProductID: saved.ProductID, SavedAt: saved.CreatedAt}, nil
}

// UnsaveProduct removes a user's bookmark
func (s *ProductService) UnsaveProduct(ctx context.Context, userID, productID uuid.UUID) error {
	saved, err := s.savedRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("BOOKMARK_NOT_FOUND", "Product is not saved")
		}
		s.logger.Error("Failed to find bookmark", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unsave product")
	}
	if err := s.savedRepo.Delete(ctx, saved.ID); err != nil {
		s.logger.Error("Failed to delete bookmark", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unsave product")
	}
	return nil
}

// ListSaved retrieves a user's bookmarked listings
func (s *ProductService) ListSaved(ctx context.Context, userID uuid.UUID, page, pageSize int) (*SavedProductListResult, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 && pageSize <= 100 {
		filter.PageSize = pageSize
	}

	result, err := s.savedRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		s.logger.Error("Failed to list bookmarks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list saved products")
	}

	items := make([]SavedProductDTO, 0, len(result.Items))
	for i := range result.Items {
		saved := &result.Items[i]
		dto := SavedProductDTO{ID: saved.ID, ProductID: saved.ProductID, SavedAt: saved.CreatedAt}
		if product, err := s.productRepo.FindByID(ctx, saved.ProductID); err == nil {
			dto.Product = toProductDTO(product)
		}
		items = append(items, dto)
	}
	return &SavedProductListResult{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

func (s *ProductService) findProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		s.logger.Error("Failed to find product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find product")
	}
	return product, nil
}

func (s *ProductService) findOwnedProduct(ctx context.Context, id, sellerID uuid.UUID) (*catalog.Product, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, shared.NewDomainError("FORBIDDEN", "Only the seller can modify this listing")
	}
	return product, nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
	product.ClearDomainEvents()
}
