package commerce

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/commerce"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService exposes read access to checkout orders
type OrderService struct {
	orderRepo commerce.OrderGroupRepository
	txRepo    commerce.TransactionRepository
	logger    *zap.Logger
}

// NewOrderService creates an order service
func NewOrderService(orderRepo commerce.OrderGroupRepository, txRepo commerce.TransactionRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		txRepo:    txRepo,
		logger:    logger,
	}
}

// ListOrdersInput carries pagination for order listings
type ListOrdersInput struct {
	Page     int `json:"page" validate:"omitempty,min=1"`
	PageSize int `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// GetByID returns an order with its member transactions. Only the
// buyer can see it.
func (s *OrderService) GetByID(ctx context.Context, id, userID uuid.UUID) (*OrderGroupDTO, error) {
	group, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("ORDER_NOT_FOUND", "Order not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load order", zap.String("order_id", id.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load order", err)
	}
	if group.BuyerID != userID {
		return nil, shared.WrapDomainError("FORBIDDEN", "Only the buyer can access this order", shared.ErrForbidden)
	}

	dto := toOrderGroupDTO(group)
	dto.Transactions = make([]TransactionDTO, 0, len(group.Items))
	for i := range group.Items {
		tx, err := s.txRepo.FindByID(ctx, group.Items[i].TransactionID)
		if err != nil {
			s.logger.Warn("failed to load order transaction",
				zap.String("transaction_id", group.Items[i].TransactionID.String()), zap.Error(err))
			continue
		}
		dto.Transactions = append(dto.Transactions, toTransactionDTO(tx))
	}
	return &dto, nil
}

// ListByBuyer returns the user's orders, newest first
func (s *OrderService) ListByBuyer(ctx context.Context, userID uuid.UUID, input ListOrdersInput) (*OrderListResult, error) {
	filter := shared.DefaultFilter()
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	page, err := s.orderRepo.FindByBuyer(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list orders", zap.String("buyer_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list orders", err)
	}

	items := make([]OrderGroupDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toOrderGroupDTO(&page.Items[i]))
	}
	return &OrderListResult{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}
