package billing

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/identity"
	"github.com/campusmarket/backend/internal/domain/shared"
	infra "github.com/campusmarket/backend/internal/infrastructure/billing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentMethodService manages stored payment instruments. Card data
// never touches the platform; only the provider token and display
// fields are kept.
type PaymentMethodService struct {
	methodRepo billing.PaymentMethodRepository
	userRepo   identity.UserRepository
	gateway    PaymentGateway
	logger     *zap.Logger
}

// NewPaymentMethodService creates a payment method service
func NewPaymentMethodService(methodRepo billing.PaymentMethodRepository, userRepo identity.UserRepository,
	gateway PaymentGateway, logger *zap.Logger) *PaymentMethodService {
	return &PaymentMethodService{
		methodRepo: methodRepo,
		userRepo:   userRepo,
		gateway:    gateway,
		logger:     logger,
	}
}

// AttachPaymentMethodInput carries a provider token to store
type AttachPaymentMethodInput struct {
	Token      string  `json:"token" validate:"required"`
	MethodType string  `json:"method_type" validate:"required,oneof='Credit Card' PayPal 'Bank Transfer'"`
	LastFour   *string `json:"last_four" validate:"omitempty,len=4,numeric"`
	ExpiryDate *string `json:"expiry_date" validate:"omitempty,max=7"`
	SetDefault bool    `json:"set_default"`
}

// Attach stores a new payment instrument for the user, attaching the
// provider token to the user's processor customer. The first method
// becomes the default automatically.
func (s *PaymentMethodService) Attach(ctx context.Context, userID uuid.UUID, input AttachPaymentMethodInput) (*PaymentMethodDTO, error) {
	methodType := billing.PaymentMethodType(input.MethodType)
	if !methodType.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD_TYPE", "Invalid payment method type: "+input.MethodType)
	}

	existing, err := s.methodRepo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list payment methods", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load payment methods", err)
	}

	customerID, err := s.resolveCustomer(ctx, userID, existing)
	if err != nil {
		return nil, err
	}
	if err := s.gateway.AttachPaymentMethod(ctx, customerID, input.Token); err != nil {
		s.logger.Error("failed to attach payment method", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("PAYMENT_PROVIDER_ERROR", "Payment provider rejected the payment method", err)
	}

	method, err := billing.NewPaymentMethod(userID, methodType, billing.PaymentMethodDetails{
		StripeCustomerID:      customerID,
		StripePaymentMethodID: input.Token,
	}, input.LastFour, input.ExpiryDate)
	if err != nil {
		return nil, err
	}

	if input.SetDefault || len(existing) == 0 {
		if err := s.methodRepo.ClearDefault(ctx, userID); err != nil {
			s.logger.Error("failed to clear default method", zap.String("user_id", userID.String()), zap.Error(err))
			return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to store payment method", err)
		}
		method.MarkDefault()
	}

	if err := s.methodRepo.Save(ctx, method); err != nil {
		s.logger.Error("failed to save payment method", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to store payment method", err)
	}

	s.logger.Info("payment method attached",
		zap.String("user_id", userID.String()),
		zap.String("method_id", method.ID.String()))

	dto := toPaymentMethodDTO(method)
	return &dto, nil
}

// List returns the user's stored methods
func (s *PaymentMethodService) List(ctx context.Context, userID uuid.UUID) ([]PaymentMethodDTO, error) {
	methods, err := s.methodRepo.FindByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list payment methods", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load payment methods", err)
	}
	dtos := make([]PaymentMethodDTO, 0, len(methods))
	for _, m := range methods {
		dtos = append(dtos, toPaymentMethodDTO(m))
	}
	return dtos, nil
}

// SetDefault makes the given method the user's default, clearing the
// flag everywhere else first so at most one default exists.
func (s *PaymentMethodService) SetDefault(ctx context.Context, userID, methodID uuid.UUID) (*PaymentMethodDTO, error) {
	method, err := s.findOwned(ctx, userID, methodID)
	if err != nil {
		return nil, err
	}
	if !method.IsActive {
		return nil, shared.WrapDomainError("INVALID_STATE", "Cannot default a removed payment method", shared.ErrInvalidState)
	}

	if err := s.methodRepo.ClearDefault(ctx, userID); err != nil {
		s.logger.Error("failed to clear default method", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to set default method", err)
	}
	method.MarkDefault()
	if err := s.methodRepo.Update(ctx, method); err != nil {
		s.logger.Error("failed to update payment method", zap.String("method_id", methodID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to set default method", err)
	}

	dto := toPaymentMethodDTO(method)
	return &dto, nil
}

// Remove deactivates a stored method and detaches its token at the
// provider. A provider failure does not keep the method alive.
func (s *PaymentMethodService) Remove(ctx context.Context, userID, methodID uuid.UUID) error {
	method, err := s.findOwned(ctx, userID, methodID)
	if err != nil {
		return err
	}

	details, err := method.DecodeDetails()
	if err == nil && details.StripePaymentMethodID != "" {
		if err := s.gateway.DetachPaymentMethod(ctx, details.StripePaymentMethodID); err != nil {
			s.logger.Warn("failed to detach payment method at provider",
				zap.String("method_id", methodID.String()), zap.Error(err))
		}
	}

	method.Deactivate()
	if err := s.methodRepo.Update(ctx, method); err != nil {
		s.logger.Error("failed to update payment method", zap.String("method_id", methodID.String()), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to remove payment method", err)
	}

	s.logger.Info("payment method removed",
		zap.String("user_id", userID.String()),
		zap.String("method_id", methodID.String()))
	return nil
}

// resolveCustomer reuses the processor customer already referenced by
// the user's methods, creating one on first use.
func (s *PaymentMethodService) resolveCustomer(ctx context.Context, userID uuid.UUID, existing []*billing.PaymentMethod) (string, error) {
	for _, m := range existing {
		details, err := m.DecodeDetails()
		if err == nil && details.StripeCustomerID != "" {
			return details.StripeCustomerID, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.WrapDomainError("USER_NOT_FOUND", "User not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load user", zap.String("user_id", userID.String()), zap.Error(err))
		return "", shared.WrapDomainError("INTERNAL_ERROR", "Failed to load user", err)
	}

	customer, err := s.gateway.CreateCustomer(ctx, infra.CreateCustomerInput{
		UserID: userID,
		Email:  user.Email,
		Name:   user.FullName(),
	})
	if err != nil {
		s.logger.Error("failed to create provider customer", zap.String("user_id", userID.String()), zap.Error(err))
		return "", shared.WrapDomainError("PAYMENT_PROVIDER_ERROR", "Payment provider rejected the customer", err)
	}
	return customer.CustomerID, nil
}

func (s *PaymentMethodService) findOwned(ctx context.Context, userID, methodID uuid.UUID) (*billing.PaymentMethod, error) {
	method, err := s.methodRepo.FindByID(ctx, methodID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("METHOD_NOT_FOUND", "Payment method not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load payment method", zap.String("method_id", methodID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load payment method", err)
	}
	if method.UserID != userID {
		return nil, shared.WrapDomainError("FORBIDDEN", "Payment method belongs to another user", shared.ErrForbidden)
	}
	return method, nil
}
