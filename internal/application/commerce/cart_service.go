package commerce

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/catalog"
	"github.com/campusmarket/backend/internal/domain/commerce"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService manages the per-user shopping cart
type CartService struct {
	cartRepo    commerce.CartRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a cart service
func NewCartService(cartRepo commerce.CartRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// AddToCartInput carries the data for adding a product to the cart
type AddToCartInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1"`
	Notes     *string   `json:"notes" validate:"omitempty,max=500"`
}

// UpdateCartItemInput carries a quantity change for a cart item
type UpdateCartItemInput struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// GetCart returns the user's cart. A user who never added anything
// gets an empty cart without a row being created.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			dto := CartDTO{UserID: userID, Items: []CartItemDTO{}}
			return &dto, nil
		}
		s.logger.Error("failed to load cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load cart", err)
	}
	dto := toCartDTO(cart)
	return &dto, nil
}

// AddToCart puts a product in the user's cart, creating the cart on
// first use. Re-adding a product increments its quantity.
func (s *CartService) AddToCart(ctx context.Context, userID uuid.UUID, input AddToCartInput) (*CartDTO, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("PRODUCT_NOT_FOUND", "Product not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load product", zap.String("product_id", input.ProductID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load product", err)
	}
	if product.SellerID == userID {
		return nil, shared.NewDomainError("OWN_PRODUCT", "You cannot add your own listing to the cart")
	}
	if !product.IsAvailable() {
		return nil, shared.WrapDomainError("PRODUCT_UNAVAILABLE", "Product is no longer available", shared.ErrProductUnavailable)
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	cart, err := s.cartRepo.FindByUser(ctx, userID)
	created := false
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("failed to load cart", zap.String("user_id", userID.String()), zap.Error(err))
			return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load cart", err)
		}
		cart, err = commerce.NewCart(userID)
		if err != nil {
			return nil, err
		}
		created = true
	}

	if _, err := cart.AddItem(input.ProductID, quantity, input.Notes); err != nil {
		return nil, err
	}

	if created {
		err = s.cartRepo.Save(ctx, cart)
	} else {
		err = s.cartRepo.Update(ctx, cart)
	}
	if err != nil {
		s.logger.Error("failed to persist cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to update cart", err)
	}

	s.logger.Info("product added to cart",
		zap.String("user_id", userID.String()),
		zap.String("product_id", input.ProductID.String()))

	dto := toCartDTO(cart)
	return &dto, nil
}

// UpdateItemQuantity changes the quantity of a cart item
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, input UpdateCartItemInput) (*CartDTO, error) {
	cart, err := s.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.UpdateItemQuantity(itemID, input.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Update(ctx, cart); err != nil {
		s.logger.Error("failed to persist cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to update cart", err)
	}
	dto := toCartDTO(cart)
	return &dto, nil
}

// RemoveItem deletes an item from the user's cart
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	cart, err := s.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cart.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Update(ctx, cart); err != nil {
		s.logger.Error("failed to persist cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to update cart", err)
	}
	dto := toCartDTO(cart)
	return &dto, nil
}

// ClearCart removes every item from the user's cart
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		s.logger.Error("failed to load cart", zap.String("user_id", userID.String()), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to load cart", err)
	}
	cart.Clear()
	if err := s.cartRepo.Update(ctx, cart); err != nil {
		s.logger.Error("failed to persist cart", zap.String("user_id", userID.String()), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to update cart", err)
	}
	return nil
}

func (s *CartService) findCart(ctx context.Context, userID uuid.UUID) (*commerce.Cart, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("CART_NOT_FOUND", "Cart not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load cart", err)
	}
	return cart, nil
}
