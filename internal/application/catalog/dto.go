package catalog

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryDTO represents category data returned to clients
type CategoryDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Icon        *string         `json:"icon,omitempty"`
	ParentID    *uuid.UUID      `json:"parent_id,omitempty"`
	IsActive    bool            `json:"is_active"`
	Children    []CategoryDTO   `json:"children,omitempty"`
	Fee         *CategoryFeeDTO `json:"fee,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CategoryFeeDTO represents fee configuration for a category
type CategoryFeeDTO struct {
	ID            uuid.UUID       `json:"id"`
	CategoryID    uuid.UUID       `json:"category_id"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	MinFee        decimal.Decimal `json:"min_fee"`
	MaxFee        decimal.Decimal `json:"max_fee"`
	IsActive      bool            `json:"is_active"`
}

// ProductImageDTO represents a listing image
type ProductImageDTO struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	ImageURL     string    `json:"image_url"`
	IsPrimary    bool      `json:"is_primary"`
	DisplayOrder int       `json:"display_order"`
}

// ProductDTO represents listing data returned to clients
type ProductDTO struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Condition   string            `json:"condition"`
	SellerID    uuid.UUID         `json:"seller_id"`
	CategoryID  uuid.UUID         `json:"category_id"`
	IsService   bool              `json:"is_service"`
	Location    *string           `json:"location,omitempty"`
	Status      string            `json:"status"`
	Visibility  string            `json:"visibility"`
	Views       int               `json:"views"`
	Images      []ProductImageDTO `json:"images"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductListResult represents a paginated product list
type ProductListResult struct {
	Items      []ProductDTO `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// SavedProductDTO represents a bookmark with its listing
type SavedProductDTO struct {
	ID        uuid.UUID   `json:"id"`
	ProductID uuid.UUID   `json:"product_id"`
	Product   *ProductDTO `json:"product,omitempty"`
	SavedAt   time.Time   `json:"saved_at"`
}

// SavedProductListResult represents a paginated bookmark list
type SavedProductListResult struct {
	Items      []SavedProductDTO `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

func toCategoryDTO(category *catalog.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Icon:        category.Icon,
		ParentID:    category.ParentID,
		IsActive:    category.IsActive,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

func toCategoryFeeDTO(fee *catalog.CategoryFee) *CategoryFeeDTO {
	return &CategoryFeeDTO{
		ID:            fee.ID,
		CategoryID:    fee.CategoryID,
		FeePercentage: fee.FeePercentage,
		MinFee:        fee.MinFee,
		MaxFee:        fee.MaxFee,
		IsActive:      fee.IsActive,
	}
}

func toProductImageDTO(image *catalog.ProductImage) ProductImageDTO {
	return ProductImageDTO{
		ID:           image.ID,
		ProductID:    image.ProductID,
		ImageURL:     image.ImageURL,
		IsPrimary:    image.IsPrimary,
		DisplayOrder: image.DisplayOrder,
	}
}

func toProductDTO(product *catalog.Product) *ProductDTO {
	images := make([]ProductImageDTO, 0, len(product.Images))
	for i := range product.Images {
		images = append(images, toProductImageDTO(&product.Images[i]))
	}
	return &ProductDTO{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price,
		Condition:   string(product.Condition),
		SellerID:    product.SellerID,
		CategoryID:  product.CategoryID,
		IsService:   product.IsService,
		Location:    product.Location,
		Status:      string(product.Status),
		Visibility:  string(product.Visibility),
		Views:       product.Views,
		Images:      images,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
