package billing

import (
	"context"
	"errors"
	"time"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/shared"
	infra "github.com/campusmarket/backend/internal/infrastructure/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SubscriptionService sells and maintains user subscriptions. A
// subscription is Pending until its first payment completes; the
// payment may settle synchronously or through the provider webhook.
type SubscriptionService struct {
	planRepo      billing.SubscriptionPlanRepository
	subRepo       billing.UserSubscriptionRepository
	methodRepo    billing.PaymentMethodRepository
	paymentRepo   billing.PaymentRepository
	exemptionRepo billing.FeeExemptionRepository
	campaignRepo  billing.DiscountCampaignRepository
	usageRepo     billing.DiscountUsageRepository
	gateway       PaymentGateway
	eventBus      shared.EventPublisher
	logger        *zap.Logger
}

// NewSubscriptionService creates a subscription service
func NewSubscriptionService(
	planRepo billing.SubscriptionPlanRepository,
	subRepo billing.UserSubscriptionRepository,
	methodRepo billing.PaymentMethodRepository,
	paymentRepo billing.PaymentRepository,
	exemptionRepo billing.FeeExemptionRepository,
	campaignRepo billing.DiscountCampaignRepository,
	usageRepo billing.DiscountUsageRepository,
	gateway PaymentGateway,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		planRepo:      planRepo,
		subRepo:       subRepo,
		methodRepo:    methodRepo,
		paymentRepo:   paymentRepo,
		exemptionRepo: exemptionRepo,
		campaignRepo:  campaignRepo,
		usageRepo:     usageRepo,
		gateway:       gateway,
		eventBus:      eventBus,
		logger:        logger,
	}
}

// SubscribeInput selects the plan, an optional payment method and an
// optional discount code
type SubscribeInput struct {
	PlanID          uuid.UUID  `json:"plan_id" validate:"required"`
	PaymentMethodID *uuid.UUID `json:"payment_method_id"`
	DiscountCode    *string    `json:"discount_code" validate:"omitempty,min=1,max=50"`
}

// SubscribeResult carries the subscription and its initial payment
type SubscribeResult struct {
	Subscription UserSubscriptionDTO `json:"subscription"`
	Payment      *PaymentDTO         `json:"payment,omitempty"`
}

// Subscribe purchases a plan for the user and charges the first period
func (s *SubscriptionService) Subscribe(ctx context.Context, userID uuid.UUID, input SubscribeInput) (*SubscribeResult, error) {
	plan, err := s.planRepo.FindByID(ctx, input.PlanID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("PLAN_NOT_FOUND", "Subscription plan not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load plan", zap.String("plan_id", input.PlanID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load plan", err)
	}
	if !plan.IsActive {
		return nil, shared.NewDomainError("PLAN_RETIRED", "This plan is no longer open to new subscribers")
	}

	now := time.Now()
	if _, err := s.subRepo.FindCurrentByUser(ctx, userID, now); err == nil {
		return nil, shared.WrapDomainError("ALREADY_SUBSCRIBED", "User already has a current subscription", shared.ErrAlreadyExists)
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("failed to look up current subscription", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to subscribe", err)
	}

	method, err := resolveActiveMethod(ctx, s.methodRepo, userID, input.PaymentMethodID, s.logger)
	if err != nil {
		return nil, err
	}

	price := plan.Price
	var campaign *billing.DiscountCampaign
	var discount decimal.Decimal
	if input.DiscountCode != nil {
		campaign, discount, err = s.redeemCode(ctx, *input.DiscountCode, price, now)
		if err != nil {
			return nil, err
		}
		price = price.Sub(discount)
	}

	sub, err := billing.NewUserSubscription(userID, plan.ID, &method.ID, plan.BillingCycle)
	if err != nil {
		return nil, err
	}
	if err := s.subRepo.Save(ctx, sub); err != nil {
		s.logger.Error("failed to save subscription", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to subscribe", err)
	}

	// A fully discounted first period needs no charge
	if price.IsZero() {
		if err := s.activate(ctx, sub); err != nil {
			return nil, err
		}
		result := &SubscribeResult{Subscription: toSubscriptionDTO(sub)}
		return result, nil
	}

	payment, err := billing.NewSubscriptionPayment(userID, sub.ID, method.ID, price)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		s.logger.Error("failed to save payment", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to subscribe", err)
	}

	details, err := method.DecodeDetails()
	if err != nil {
		return nil, err
	}
	out, chargeErr := s.gateway.Charge(ctx, infra.ChargeInput{
		Amount:             price,
		CustomerID:         details.StripeCustomerID,
		PaymentMethodToken: details.StripePaymentMethodID,
		PaymentID:          payment.ID,
		Description:        "Subscription: " + plan.Name,
	})
	if chargeErr != nil || out.Status == infra.ChargeStatusFailed {
		reason := "charge failed"
		if chargeErr != nil {
			reason = chargeErr.Error()
		}
		s.settleFailure(ctx, sub, payment, reason)
		return nil, shared.WrapDomainError("PAYMENT_FAILED", "Subscription payment was declined", chargeErr)
	}

	if out.Status == infra.ChargeStatusSucceeded {
		if err := payment.Complete(out.IntentID); err != nil {
			return nil, err
		}
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			s.logger.Error("failed to update payment", zap.String("payment_id", payment.ID.String()), zap.Error(err))
			return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to subscribe", err)
		}
		if err := s.activate(ctx, sub); err != nil {
			return nil, err
		}
		if campaign != nil {
			s.recordRedemption(ctx, userID, campaign.ID, payment.ID, discount)
		}
	} else {
		// asynchronous settlement: the webhook activates the
		// subscription when the intent succeeds
		payment.ExternalReference = &out.IntentID
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			s.logger.Error("failed to update payment", zap.String("payment_id", payment.ID.String()), zap.Error(err))
			return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to subscribe", err)
		}
	}

	s.publishEvents(ctx, payment.GetDomainEvents())
	payment.ClearDomainEvents()

	s.logger.Info("subscription purchased",
		zap.String("user_id", userID.String()),
		zap.String("plan_id", plan.ID.String()),
		zap.String("subscription_id", sub.ID.String()))

	paymentDTO := toPaymentDTO(payment)
	return &SubscribeResult{
		Subscription: toSubscriptionDTO(sub),
		Payment:      &paymentDTO,
	}, nil
}

// Cancel stops auto-renewal; benefits run until the period end
func (s *SubscriptionService) Cancel(ctx context.Context, userID, subscriptionID uuid.UUID) (*UserSubscriptionDTO, error) {
	sub, err := s.findOwned(ctx, userID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := sub.Cancel(); err != nil {
		return nil, err
	}
	if err := s.subRepo.Update(ctx, sub); err != nil {
		s.logger.Error("failed to update subscription", zap.String("subscription_id", subscriptionID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to cancel subscription", err)
	}

	s.logger.Info("subscription cancelled", zap.String("subscription_id", subscriptionID.String()))

	dto := toSubscriptionDTO(sub)
	return &dto, nil
}

// GetCurrent returns the user's subscription whose benefits apply now
func (s *SubscriptionService) GetCurrent(ctx context.Context, userID uuid.UUID) (*UserSubscriptionDTO, error) {
	sub, err := s.subRepo.FindCurrentByUser(ctx, userID, time.Now())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("NO_SUBSCRIPTION", "No current subscription", shared.ErrNotFound)
		}
		s.logger.Error("failed to load current subscription", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load subscription", err)
	}
	dto := toSubscriptionDTO(sub)
	return &dto, nil
}

// ListByUser returns the user's subscription history
func (s *SubscriptionService) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) (*SubscriptionListResult, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	result, err := s.subRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list subscriptions", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list subscriptions", err)
	}

	items := make([]UserSubscriptionDTO, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toSubscriptionDTO(&result.Items[i]))
	}
	return &SubscriptionListResult{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// ProcessRenewals charges renewals for subscriptions reaching their
// end date and expires everything that does not renew. Meant to run on
// a schedule.
func (s *SubscriptionService) ProcessRenewals(ctx context.Context) error {
	due, err := s.subRepo.FindExpiring(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to load expiring subscriptions", zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to process renewals", err)
	}

	for _, sub := range due {
		if err := s.renewOne(ctx, sub); err != nil {
			s.logger.Warn("renewal failed",
				zap.String("subscription_id", sub.ID.String()), zap.Error(err))
		}
	}
	return nil
}

func (s *SubscriptionService) renewOne(ctx context.Context, sub *billing.UserSubscription) error {
	if sub.Status != billing.SubscriptionStatusActive || !sub.AutoRenew || sub.PaymentMethodID == nil {
		if err := sub.Expire(); err != nil {
			return err
		}
		return s.subRepo.Update(ctx, sub)
	}

	plan, err := s.planRepo.FindByID(ctx, sub.PlanID)
	if err != nil {
		return err
	}
	method, err := s.methodRepo.FindByID(ctx, *sub.PaymentMethodID)
	if err != nil || !method.IsActive {
		if expireErr := sub.Expire(); expireErr != nil {
			return expireErr
		}
		return s.subRepo.Update(ctx, sub)
	}

	payment, err := billing.NewSubscriptionPayment(sub.UserID, sub.ID, method.ID, plan.Price)
	if err != nil {
		return err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return err
	}

	details, err := method.DecodeDetails()
	if err != nil {
		return err
	}
	out, chargeErr := s.gateway.Charge(ctx, infra.ChargeInput{
		Amount:             plan.Price,
		CustomerID:         details.StripeCustomerID,
		PaymentMethodToken: details.StripePaymentMethodID,
		PaymentID:          payment.ID,
		Description:        "Subscription renewal: " + plan.Name,
	})
	if chargeErr != nil || out.Status != infra.ChargeStatusSucceeded {
		reason := "renewal charge failed"
		if chargeErr != nil {
			reason = chargeErr.Error()
		}
		if err := payment.Fail(reason); err == nil {
			if err := s.paymentRepo.Update(ctx, payment); err != nil {
				s.logger.Error("failed to record failed renewal payment",
					zap.String("payment_id", payment.ID.String()), zap.Error(err))
			}
		}
		if err := sub.Expire(); err != nil {
			return err
		}
		return s.subRepo.Update(ctx, sub)
	}

	if err := payment.Complete(out.IntentID); err != nil {
		return err
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return err
	}
	if err := sub.Renew(plan.BillingCycle); err != nil {
		return err
	}
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return err
	}
	s.grantExemption(ctx, sub)

	s.publishEvents(ctx, payment.GetDomainEvents())
	payment.ClearDomainEvents()

	s.logger.Info("subscription renewed",
		zap.String("subscription_id", sub.ID.String()),
		zap.Time("end_date", sub.EndDate))
	return nil
}

// ActivateFromPayment activates a pending subscription once its
// initial payment settles asynchronously. Already active subscriptions
// are left alone so webhook retries stay idempotent.
func (s *SubscriptionService) ActivateFromPayment(ctx context.Context, subscriptionID uuid.UUID) error {
	sub, err := s.subRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub.Status != billing.SubscriptionStatusPending {
		return nil
	}
	return s.activate(ctx, sub)
}

// FailFromPayment marks a pending subscription failed after its
// initial payment was declined asynchronously.
func (s *SubscriptionService) FailFromPayment(ctx context.Context, subscriptionID uuid.UUID) error {
	sub, err := s.subRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub.Status != billing.SubscriptionStatusPending {
		return nil
	}
	if err := sub.MarkFailed(); err != nil {
		return err
	}
	return s.subRepo.Update(ctx, sub)
}

// activate flips a pending subscription to Active and grants its fee
// exemption for the paid period.
func (s *SubscriptionService) activate(ctx context.Context, sub *billing.UserSubscription) error {
	if err := sub.Activate(); err != nil {
		return err
	}
	if err := s.subRepo.Update(ctx, sub); err != nil {
		s.logger.Error("failed to update subscription", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to activate subscription", err)
	}
	s.grantExemption(ctx, sub)

	s.publishEvents(ctx, sub.GetDomainEvents())
	sub.ClearDomainEvents()
	return nil
}

// grantExemption gives the subscriber a fee exemption covering the
// current paid period. A grant failure never blocks activation.
func (s *SubscriptionService) grantExemption(ctx context.Context, sub *billing.UserSubscription) {
	exemption, err := billing.NewFeeExemption(sub.UserID, billing.ExemptionTypeSubscription, &sub.ID,
		sub.StartDate, sub.EndDate)
	if err != nil {
		s.logger.Warn("could not build fee exemption", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
		return
	}
	if err := s.exemptionRepo.Save(ctx, exemption); err != nil {
		s.logger.Warn("failed to save fee exemption", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
	}
}

func (s *SubscriptionService) redeemCode(ctx context.Context, code string, amount decimal.Decimal, now time.Time) (*billing.DiscountCampaign, decimal.Decimal, error) {
	campaign, err := s.campaignRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, decimal.Zero, shared.WrapDomainError("DISCOUNT_NOT_FOUND", "Discount code not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load discount campaign", zap.String("code", code), zap.Error(err))
		return nil, decimal.Zero, shared.WrapDomainError("INTERNAL_ERROR", "Failed to apply discount", err)
	}
	if campaign.AppliesTo != billing.AppliesToSubscription {
		return nil, decimal.Zero, shared.NewDomainError("DISCOUNT_NOT_APPLICABLE", "This discount does not apply to subscriptions")
	}
	if !campaign.IsRedeemableAt(now) {
		return nil, decimal.Zero, shared.NewDomainError("DISCOUNT_NOT_REDEEMABLE", "This discount is not currently redeemable")
	}

	discount, err := campaign.ComputeDiscount(amount)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if err := s.campaignRepo.IncrementUsage(ctx, campaign.ID); err != nil {
		if errors.Is(err, shared.ErrUsageLimitReached) {
			return nil, decimal.Zero, err
		}
		s.logger.Error("failed to increment discount usage", zap.String("campaign_id", campaign.ID.String()), zap.Error(err))
		return nil, decimal.Zero, shared.WrapDomainError("INTERNAL_ERROR", "Failed to apply discount", err)
	}
	return campaign, discount, nil
}

// recordRedemption writes the usage row tying user, campaign and
// payment together. A duplicate row is logged, not surfaced.
func (s *SubscriptionService) recordRedemption(ctx context.Context, userID, campaignID, paymentID uuid.UUID, amount decimal.Decimal) {
	usage, err := billing.NewDiscountUsage(userID, campaignID, paymentID, amount)
	if err != nil {
		s.logger.Warn("could not build discount usage", zap.String("campaign_id", campaignID.String()), zap.Error(err))
		return
	}
	if err := s.usageRepo.Save(ctx, usage); err != nil {
		s.logger.Warn("failed to save discount usage", zap.String("campaign_id", campaignID.String()), zap.Error(err))
	}
}

func (s *SubscriptionService) settleFailure(ctx context.Context, sub *billing.UserSubscription, payment *billing.Payment, reason string) {
	if err := payment.Fail(reason); err == nil {
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			s.logger.Error("failed to record failed payment", zap.String("payment_id", payment.ID.String()), zap.Error(err))
		}
	}
	if err := sub.MarkFailed(); err == nil {
		if err := s.subRepo.Update(ctx, sub); err != nil {
			s.logger.Error("failed to record failed subscription", zap.String("subscription_id", sub.ID.String()), zap.Error(err))
		}
	}
	s.publishEvents(ctx, payment.GetDomainEvents())
	payment.ClearDomainEvents()
}

func (s *SubscriptionService) findOwned(ctx context.Context, userID, subscriptionID uuid.UUID) (*billing.UserSubscription, error) {
	sub, err := s.subRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("SUBSCRIPTION_NOT_FOUND", "Subscription not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load subscription", zap.String("subscription_id", subscriptionID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load subscription", err)
	}
	if sub.UserID != userID {
		return nil, shared.WrapDomainError("FORBIDDEN", "Subscription belongs to another user", shared.ErrForbidden)
	}
	return sub, nil
}

func (s *SubscriptionService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish billing events", zap.Error(err))
	}
}
