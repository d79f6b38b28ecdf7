package handler

import (
	"context"
	"net/http"

	"github.com/campusmarket/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler exposes listing management and discovery
type ProductHandler struct {
	productService *catalog.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *catalog.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	sellerID, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var input catalog.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	input.SellerID = sellerID
	product, err := h.productService.Create(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), id, optionalUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Search handles GET /products
func (h *ProductHandler) Search(c *gin.Context) {
	page, pageSize := pagination(c)
	input := catalog.SearchProductsInput{
		Page:      page,
		PageSize:  pageSize,
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortDir:   c.Query("sort_dir"),
		Status:    queryString(c, "status"),
		Condition: queryString(c, "condition"),
	}
	var err error
	if input.CategoryID, err = queryUUID(c, "category_id"); err != nil {
		fail(c, err)
		return
	}
	if input.SellerID, err = queryUUID(c, "seller_id"); err != nil {
		fail(c, err)
		return
	}
	if input.CampusID, err = queryUUID(c, "campus_id"); err != nil {
		fail(c, err)
		return
	}
	if input.MinPrice, err = queryDecimal(c, "min_price"); err != nil {
		fail(c, err)
		return
	}
	if input.MaxPrice, err = queryDecimal(c, "max_price"); err != nil {
		fail(c, err)
		return
	}
	if input.IsService, err = queryBool(c, "is_service"); err != nil {
		fail(c, err)
		return
	}

	result, err := h.productService.Search(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, sellerID, err := h.ownedID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var input catalog.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	product, err := h.productService.Update(c.Request.Context(), id, sellerID, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type changeCategoryRequest struct {
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
}

// ChangeCategory handles PATCH /products/:id/category
func (h *ProductHandler) ChangeCategory(c *gin.Context) {
	id, sellerID, err := h.ownedID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req changeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	product, err := h.productService.ChangeCategory(c.Request.Context(), id, sellerID, req.CategoryID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Reserve handles POST /products/:id/reserve
func (h *ProductHandler) Reserve(c *gin.Context) {
	h.transition(c, h.productService.Reserve)
}

// Release handles POST /products/:id/release
func (h *ProductHandler) Release(c *gin.Context) {
	h.transition(c, h.productService.Release)
}

// MarkSold handles POST /products/:id/sold
func (h *ProductHandler) MarkSold(c *gin.Context) {
	h.transition(c, h.productService.MarkSold)
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, sellerID, err := h.ownedID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id, sellerID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddImage handles POST /products/:id/images
func (h *ProductHandler) AddImage(c *gin.Context) {
	id, sellerID, err := h.ownedID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var input catalog.AddImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, err)
		return
	}
	image, err := h.productService.AddImage(c.Request.Context(), id, sellerID, input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, image)
}

// SetPrimaryImage handles PATCH /products/:id/images/:imageId/primary
func (h *ProductHandler) SetPrimaryImage(c *gin.Context) {
	id, sellerID, err := h.ownedID(c)
	if err != nil {
		fail(c, err)
		return
	}
	imageID, err := pathID(c, "imageId")
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.productService.SetPrimaryImage(c.Request.Context(), id, sellerID, imageID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type reorderImagesRequest struct {
	ImageIDs []uuid.UUID `json:"image_ids" binding:"required"`
}

// ReorderImages handles PUT /products/:id/images/order
func (h *ProductHandler) ReorderImages(c *gin.Context) {
	id, sellerID, err := h.ownedID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req reorderImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}
	if err := h.productService.ReorderImages(c.Request.Context(), id, sellerID, req.ImageIDs); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveImage handles DELETE /products/:id/images/:imageId
func (h *ProductHandler) RemoveImage(c *gin.Context) {
	id, sellerID, err := h.ownedID(c)
	if err != nil {
		fail(c, err)
		return
	}
	imageID, err := pathID(c, "imageId")
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.productService.RemoveImage(c.Request.Context(), id, sellerID, imageID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Save handles POST /products/:id/save
func (h *ProductHandler) Save(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	saved, err := h.productService.SaveProduct(c.Request.Context(), uid, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// Unsave handles DELETE /products/:id/save
func (h *ProductHandler) Unsave(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.productService.UnsaveProduct(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSaved handles GET /products/saved
func (h *ProductHandler) ListSaved(c *gin.Context) {
	uid, err := userID(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, pageSize := pagination(c)
	result, err := h.productService.ListSaved(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProductHandler) ownedID(c *gin.Context) (id, sellerID uuid.UUID, err error) {
	if sellerID, err = userID(c); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if id, err = pathID(c, "id"); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return id, sellerID, nil
}

func (h *ProductHandler) transition(c *gin.Context, op func(ctx context.Context, id, sellerID uuid.UUID) (*catalog.ProductDTO, error)) {
	id, sellerID, err := h.ownedID(c)
	if err != nil {
		fail(c, err)
		return
	}
	product, err := op(c.Request.Context(), id, sellerID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
