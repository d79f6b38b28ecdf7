package billing

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/commerce"
	"github.com/campusmarket/backend/internal/domain/shared"
	infra "github.com/campusmarket/backend/internal/infrastructure/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService collects platform fees and handles refunds. Every
// payment references exactly one transaction or one subscription,
// never both.
type PaymentService struct {
	paymentRepo billing.PaymentRepository
	methodRepo  billing.PaymentMethodRepository
	txRepo      commerce.TransactionRepository
	gateway     PaymentGateway
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewPaymentService creates a payment service
func NewPaymentService(
	paymentRepo billing.PaymentRepository,
	methodRepo billing.PaymentMethodRepository,
	txRepo commerce.TransactionRepository,
	gateway PaymentGateway,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		methodRepo:  methodRepo,
		txRepo:      txRepo,
		gateway:     gateway,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// PayTransactionFeeInput selects the sale and optionally a specific
// payment method; the default method is used otherwise.
type PayTransactionFeeInput struct {
	TransactionID   uuid.UUID  `json:"transaction_id" validate:"required"`
	PaymentMethodID *uuid.UUID `json:"payment_method_id"`
}

// RefundPaymentInput refunds partially when Amount is set
type RefundPaymentInput struct {
	Amount *decimal.Decimal `json:"amount"`
}

// PayTransactionFee charges the seller the platform fee snapshotted on
// a completed sale
func (s *PaymentService) PayTransactionFee(ctx context.Context, userID uuid.UUID, input PayTransactionFeeInput) (*PaymentDTO, error) {
	tx, err := s.txRepo.FindByID(ctx, input.TransactionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("TRANSACTION_NOT_FOUND", "Transaction not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load transaction", zap.String("transaction_id", input.TransactionID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load transaction", err)
	}
	if tx.SellerID != userID {
		return nil, shared.WrapDomainError("FORBIDDEN", "Only the seller owes the platform fee", shared.ErrForbidden)
	}
	if tx.IsFeeExempt {
		return nil, shared.NewDomainError("FEE_EXEMPT", "This sale is exempt from platform fees")
	}
	if tx.FeeAmount == nil || !tx.FeeAmount.IsPositive() {
		return nil, shared.NewDomainError("NO_FEE_DUE", "No platform fee is due for this sale")
	}

	if existing, err := s.paymentRepo.FindByTransaction(ctx, tx.ID); err == nil {
		if existing.Status != billing.PaymentStatusFailed {
			return nil, shared.WrapDomainError("ALREADY_PAID", "The fee for this sale has already been collected", shared.ErrAlreadyExists)
		}
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("failed to look up fee payment", zap.String("transaction_id", tx.ID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to collect fee", err)
	}

	method, err := s.resolveMethod(ctx, userID, input.PaymentMethodID)
	if err != nil {
		return nil, err
	}

	payment, err := billing.NewTransactionFeePayment(userID, tx.ID, method.ID, *tx.FeeAmount)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		s.logger.Error("failed to save payment", zap.String("transaction_id", tx.ID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to collect fee", err)
	}

	if err := s.charge(ctx, payment, method, "Marketplace platform fee"); err != nil {
		return nil, err
	}

	dto := toPaymentDTO(payment)
	return &dto, nil
}

// GetByID returns a payment visible to its owner
func (s *PaymentService) GetByID(ctx context.Context, id, userID uuid.UUID) (*PaymentDTO, error) {
	payment, err := s.findPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, shared.WrapDomainError("FORBIDDEN", "Payment belongs to another user", shared.ErrForbidden)
	}
	dto := toPaymentDTO(payment)
	return &dto, nil
}

// ListByUser returns the user's payments, newest first
func (s *PaymentService) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) (*PaymentListResult, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}

	result, err := s.paymentRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list payments", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list payments", err)
	}

	items := make([]PaymentDTO, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toPaymentDTO(&result.Items[i]))
	}
	return &PaymentListResult{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Refund refunds a completed payment at the provider and records the
// new status, partial when an amount below the total is given.
func (s *PaymentService) Refund(ctx context.Context, id uuid.UUID, input RefundPaymentInput) (*PaymentDTO, error) {
	payment, err := s.findPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != billing.PaymentStatusCompleted && payment.Status != billing.PaymentStatusPartiallyRefunded {
		return nil, shared.WrapDomainError("INVALID_STATE", "Only completed payments can be refunded", shared.ErrInvalidState)
	}
	if payment.ExternalReference == nil {
		return nil, shared.NewDomainError("NO_PROVIDER_CHARGE", "Payment has no provider charge to refund")
	}
	if input.Amount != nil && (input.Amount.IsNegative() || input.Amount.IsZero() || input.Amount.GreaterThan(payment.Amount)) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive and within the payment amount")
	}

	if _, err := s.gateway.Refund(ctx, infra.RefundInput{
		IntentID: *payment.ExternalReference,
		Amount:   input.Amount,
	}); err != nil {
		s.logger.Error("provider refund failed", zap.String("payment_id", id.String()), zap.Error(err))
		return nil, shared.WrapDomainError("PAYMENT_PROVIDER_ERROR", "Payment provider rejected the refund", err)
	}

	if input.Amount != nil && input.Amount.LessThan(payment.Amount) {
		err = payment.RefundPartially()
	} else {
		err = payment.Refund()
	}
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		s.logger.Error("failed to update payment", zap.String("payment_id", id.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to record refund", err)
	}

	s.logger.Info("payment refunded", zap.String("payment_id", id.String()))

	dto := toPaymentDTO(payment)
	return &dto, nil
}

// charge runs the provider charge and settles the payment record
// according to the outcome. Asynchronous outcomes stay pending and are
// resolved by the webhook handler.
func (s *PaymentService) charge(ctx context.Context, payment *billing.Payment, method *billing.PaymentMethod, description string) error {
	details, err := method.DecodeDetails()
	if err != nil {
		return err
	}

	out, chargeErr := s.gateway.Charge(ctx, infra.ChargeInput{
		Amount:             payment.Amount,
		CustomerID:         details.StripeCustomerID,
		PaymentMethodToken: details.StripePaymentMethodID,
		PaymentID:          payment.ID,
		Description:        description,
	})
	if chargeErr != nil {
		if err := payment.Fail(chargeErr.Error()); err == nil {
			if err := s.paymentRepo.Update(ctx, payment); err != nil {
				s.logger.Error("failed to record failed payment", zap.String("payment_id", payment.ID.String()), zap.Error(err))
			}
		}
		s.publishEvents(ctx, payment)
		return shared.WrapDomainError("PAYMENT_FAILED", "Payment was declined", chargeErr)
	}

	switch out.Status {
	case infra.ChargeStatusSucceeded:
		if err := payment.Complete(out.IntentID); err != nil {
			return err
		}
	case infra.ChargeStatusFailed:
		if err := payment.Fail("charge failed"); err != nil {
			return err
		}
	default:
		// processing or requires_action: keep the intent reference so
		// the webhook can settle the payment later
		payment.ExternalReference = &out.IntentID
	}

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		s.logger.Error("failed to update payment", zap.String("payment_id", payment.ID.String()), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to record payment", err)
	}
	s.publishEvents(ctx, payment)
	return nil
}

func (s *PaymentService) resolveMethod(ctx context.Context, userID uuid.UUID, methodID *uuid.UUID) (*billing.PaymentMethod, error) {
	return resolveActiveMethod(ctx, s.methodRepo, userID, methodID, s.logger)
}

// resolveActiveMethod loads the requested method, or the user's
// default when none is named, and verifies ownership and liveness.
func resolveActiveMethod(ctx context.Context, methodRepo billing.PaymentMethodRepository,
	userID uuid.UUID, methodID *uuid.UUID, logger *zap.Logger) (*billing.PaymentMethod, error) {
	var method *billing.PaymentMethod
	var err error
	if methodID != nil {
		method, err = methodRepo.FindByID(ctx, *methodID)
		if err == nil && method.UserID != userID {
			return nil, shared.WrapDomainError("FORBIDDEN", "Payment method belongs to another user", shared.ErrForbidden)
		}
	} else {
		method, err = methodRepo.FindDefaultByUser(ctx, userID)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("METHOD_NOT_FOUND", "No usable payment method", shared.ErrNotFound)
		}
		logger.Error("failed to load payment method", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load payment method", err)
	}
	if !method.IsActive {
		return nil, shared.WrapDomainError("INVALID_STATE", "Payment method has been removed", shared.ErrInvalidState)
	}
	return method, nil
}

func (s *PaymentService) findPayment(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("PAYMENT_NOT_FOUND", "Payment not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load payment", zap.String("payment_id", id.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load payment", err)
	}
	return payment, nil
}

func (s *PaymentService) publishEvents(ctx context.Context, payment *billing.Payment) {
	events := payment.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish payment events", zap.Error(err))
	}
	payment.ClearDomainEvents()
}
