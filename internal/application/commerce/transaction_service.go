package commerce

import (
	"context"
	"errors"
	"time"

	"github.com/campusmarket/backend/internal/domain/catalog"
	"github.com/campusmarket/backend/internal/domain/commerce"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionService drives the lifecycle of individual sales
type TransactionService struct {
	txRepo      commerce.TransactionRepository
	productRepo catalog.ProductRepository
	orderRepo   commerce.OrderGroupRepository
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewTransactionService creates a transaction service
func NewTransactionService(
	txRepo commerce.TransactionRepository,
	productRepo catalog.ProductRepository,
	orderRepo commerce.OrderGroupRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		txRepo:      txRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// ListTransactionsInput carries filters for transaction queries
type ListTransactionsInput struct {
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=buyer seller"`
	Status   string `json:"status" validate:"omitempty,oneof=Pending Completed Cancelled"`
}

// SetMeetingInput carries the agreed hand-off details
type SetMeetingInput struct {
	Location    string    `json:"location" validate:"required,max=255"`
	MeetingTime time.Time `json:"meeting_time" validate:"required"`
}

// GetByID returns a transaction. Only the buyer and the seller can see it.
func (s *TransactionService) GetByID(ctx context.Context, id, userID uuid.UUID) (*TransactionDTO, error) {
	tx, err := s.findParty(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	dto := toTransactionDTO(tx)
	return &dto, nil
}

// List returns the user's transactions, as buyer by default or as
// seller when requested.
func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, input ListTransactionsInput) (*TransactionListResult, error) {
	search := commerce.TransactionSearch{Filter: shared.DefaultFilter()}
	if input.Page > 0 {
		search.Page = input.Page
	}
	if input.PageSize > 0 {
		search.PageSize = input.PageSize
	}
	if search.PageSize > 100 {
		search.PageSize = 100
	}
	if input.Role == "seller" {
		search.SellerID = &userID
	} else {
		search.BuyerID = &userID
	}
	if input.Status != "" {
		status := commerce.TransactionStatus(input.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Invalid transaction status: "+input.Status)
		}
		search.Status = &status
	}

	page, err := s.txRepo.Search(ctx, search)
	if err != nil {
		s.logger.Error("failed to search transactions", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list transactions", err)
	}

	items := make([]TransactionDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toTransactionDTO(&page.Items[i]))
	}
	return &TransactionListResult{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// SetMeeting records the hand-off location and time on a pending sale
func (s *TransactionService) SetMeeting(ctx context.Context, id, userID uuid.UUID, input SetMeetingInput) (*TransactionDTO, error) {
	tx, err := s.findParty(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.SetMeeting(input.Location, input.MeetingTime); err != nil {
		return nil, err
	}
	if err := s.txRepo.Update(ctx, tx); err != nil {
		s.logger.Error("failed to update transaction", zap.String("transaction_id", id.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to update transaction", err)
	}
	dto := toTransactionDTO(tx)
	return &dto, nil
}

// Complete finalizes a pending sale and marks the product sold. The
// owning order group's status is refreshed from its members.
func (s *TransactionService) Complete(ctx context.Context, id, userID uuid.UUID) (*TransactionDTO, error) {
	tx, err := s.findParty(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Complete(); err != nil {
		return nil, err
	}

	product, err := s.findProduct(ctx, tx.ProductID)
	if err != nil {
		return nil, err
	}
	if err := product.MarkSold(); err != nil {
		return nil, err
	}

	if err := s.txRepo.Update(ctx, tx); err != nil {
		s.logger.Error("failed to update transaction", zap.String("transaction_id", id.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to complete transaction", err)
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("failed to update product", zap.String("product_id", product.ID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to complete transaction", err)
	}

	if err := s.refreshOrderStatus(ctx, tx.ID); err != nil {
		s.logger.Warn("failed to refresh order status", zap.String("transaction_id", tx.ID.String()), zap.Error(err))
	}

	s.publishEvents(ctx, tx.GetDomainEvents(), product.GetDomainEvents())
	tx.ClearDomainEvents()
	product.ClearDomainEvents()

	s.logger.Info("transaction completed",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("product_id", product.ID.String()))

	dto := toTransactionDTO(tx)
	return &dto, nil
}

// Cancel aborts a pending sale and releases the product back to
// Available when it is still reserved.
func (s *TransactionService) Cancel(ctx context.Context, id, userID uuid.UUID) (*TransactionDTO, error) {
	tx, err := s.findParty(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Cancel(); err != nil {
		return nil, err
	}

	product, err := s.findProduct(ctx, tx.ProductID)
	if err != nil {
		return nil, err
	}
	if err := product.Release(); err != nil {
		// The listing may have been sold through another channel;
		// cancellation itself still stands.
		s.logger.Warn("could not release product",
			zap.String("product_id", product.ID.String()),
			zap.String("status", string(product.Status)),
			zap.Error(err))
	} else if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("failed to update product", zap.String("product_id", product.ID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to cancel transaction", err)
	}

	if err := s.txRepo.Update(ctx, tx); err != nil {
		s.logger.Error("failed to update transaction", zap.String("transaction_id", id.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to cancel transaction", err)
	}

	if err := s.refreshOrderStatus(ctx, tx.ID); err != nil {
		s.logger.Warn("failed to refresh order status", zap.String("transaction_id", tx.ID.String()), zap.Error(err))
	}

	s.publishEvents(ctx, tx.GetDomainEvents(), nil)
	tx.ClearDomainEvents()

	s.logger.Info("transaction cancelled", zap.String("transaction_id", tx.ID.String()))

	dto := toTransactionDTO(tx)
	return &dto, nil
}

// refreshOrderStatus derives the owning order group's status from its
// member transactions. Standalone transactions have no group.
func (s *TransactionService) refreshOrderStatus(ctx context.Context, transactionID uuid.UUID) error {
	group, err := s.orderRepo.FindByTransaction(ctx, transactionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	var pending, completed, cancelled int
	for i := range group.Items {
		member, err := s.txRepo.FindByID(ctx, group.Items[i].TransactionID)
		if err != nil {
			return err
		}
		switch member.Status {
		case commerce.TransactionStatusCompleted:
			completed++
		case commerce.TransactionStatusCancelled:
			cancelled++
		default:
			pending++
		}
	}

	if group.Status == commerce.OrderGroupStatusCreated && completed+cancelled > 0 {
		if err := group.StartProcessing(); err != nil {
			return err
		}
	}
	if pending == 0 {
		var err error
		switch {
		case cancelled == 0:
			err = group.Complete()
		case completed == 0:
			err = group.Cancel()
		default:
			err = group.CompletePartially()
		}
		if err != nil {
			return err
		}
	}

	return s.orderRepo.Update(ctx, group)
}

func (s *TransactionService) findParty(ctx context.Context, id, userID uuid.UUID) (*commerce.Transaction, error) {
	tx, err := s.txRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("TRANSACTION_NOT_FOUND", "Transaction not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load transaction", zap.String("transaction_id", id.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load transaction", err)
	}
	if tx.BuyerID != userID && tx.SellerID != userID {
		return nil, shared.WrapDomainError("FORBIDDEN", "Only the buyer or the seller can access this transaction", shared.ErrForbidden)
	}
	return tx, nil
}

func (s *TransactionService) findProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("PRODUCT_NOT_FOUND", "Product not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load product", err)
	}
	return product, nil
}

func (s *TransactionService) publishEvents(ctx context.Context, first, second []shared.DomainEvent) {
	events := append(append([]shared.DomainEvent{}, first...), second...)
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
