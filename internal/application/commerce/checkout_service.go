package commerce

import (
	"context"
	"errors"
	"time"

	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/catalog"
	"github.com/campusmarket/backend/internal/domain/commerce"
	"github.com/campusmarket/backend/internal/domain/settings"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Platform fee fallbacks, used when no category fee is configured and
// the corresponding app setting is absent.
var (
	fallbackFeePercentage = decimal.NewFromFloat(5.0)
	fallbackMinFee        = decimal.NewFromFloat(1.00)
	fallbackMaxFee        = decimal.NewFromFloat(50.00)
)

// CheckoutService turns a cart into an order group with one pending
// transaction per item. The whole flow runs in a single database
// transaction so reservations, fee snapshots and the order commit or
// roll back together.
type CheckoutService struct {
	uow          commerce.UnitOfWork
	cartRepo     commerce.CartRepository
	productRepo  catalog.ProductRepository
	txRepo       commerce.TransactionRepository
	orderRepo    commerce.OrderGroupRepository
	feeRepo      catalog.CategoryFeeRepository
	exemptions   billing.FeeExemptionRepository
	campaigns    billing.DiscountCampaignRepository
	settingsRepo settings.AppSettingRepository
	logger       *zap.Logger
}

// NewCheckoutService creates a checkout service
func NewCheckoutService(
	uow commerce.UnitOfWork,
	cartRepo commerce.CartRepository,
	productRepo catalog.ProductRepository,
	txRepo commerce.TransactionRepository,
	orderRepo commerce.OrderGroupRepository,
	feeRepo catalog.CategoryFeeRepository,
	exemptions billing.FeeExemptionRepository,
	campaigns billing.DiscountCampaignRepository,
	settingsRepo settings.AppSettingRepository,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		uow:          uow,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		txRepo:       txRepo,
		orderRepo:    orderRepo,
		feeRepo:      feeRepo,
		exemptions:   exemptions,
		campaigns:    campaigns,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// CheckoutInput carries the optional checkout parameters
type CheckoutInput struct {
	DiscountCode *string `json:"discount_code" validate:"omitempty,min=1,max=50"`
}

// Checkout converts the buyer's cart into an order group. Every product
// is revalidated and reserved, prices and platform fees are snapshotted
// onto pending transactions, an optional discount campaign is applied
// and the cart is cleared. Any product that is no longer available
// aborts the whole checkout.
func (s *CheckoutService) Checkout(ctx context.Context, buyerID uuid.UUID, input CheckoutInput) (*CheckoutResult, error) {
	var result *CheckoutResult

	err := s.uow.Execute(ctx, func(ctx context.Context) error {
		cart, err := s.cartRepo.FindByUser(ctx, buyerID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("CART_EMPTY", "Cart is empty")
			}
			s.logger.Error("failed to load cart", zap.String("buyer_id", buyerID.String()), zap.Error(err))
			return shared.WrapDomainError("INTERNAL_ERROR", "Failed to load cart", err)
		}
		if cart.IsEmpty() {
			return shared.NewDomainError("CART_EMPTY", "Cart is empty")
		}

		now := time.Now()
		defaults := s.feeDefaults(ctx)

		total := decimal.Zero
		transactions := make([]*commerce.Transaction, 0, len(cart.Items))
		for i := range cart.Items {
			tx, err := s.checkoutItem(ctx, buyerID, &cart.Items[i], defaults, now)
			if err != nil {
				return err
			}
			transactions = append(transactions, tx)
			total = total.Add(tx.Amount)
		}

		group, err := commerce.NewOrderGroup(buyerID, total, true)
		if err != nil {
			return err
		}
		for _, tx := range transactions {
			if err := group.AddTransaction(tx.ID); err != nil {
				return err
			}
		}

		if input.DiscountCode != nil {
			if err := s.applyDiscount(ctx, group, *input.DiscountCode, now); err != nil {
				return err
			}
		}

		if err := s.orderRepo.Save(ctx, group); err != nil {
			s.logger.Error("failed to save order group", zap.String("buyer_id", buyerID.String()), zap.Error(err))
			return shared.WrapDomainError("INTERNAL_ERROR", "Failed to create order", err)
		}

		cart.Clear()
		if err := s.cartRepo.Update(ctx, cart); err != nil {
			s.logger.Error("failed to clear cart", zap.String("buyer_id", buyerID.String()), zap.Error(err))
			return shared.WrapDomainError("INTERNAL_ERROR", "Failed to clear cart", err)
		}

		txDTOs := make([]TransactionDTO, 0, len(transactions))
		for _, tx := range transactions {
			txDTOs = append(txDTOs, toTransactionDTO(tx))
		}
		result = &CheckoutResult{
			Order:        toOrderGroupDTO(group),
			Transactions: txDTOs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("checkout completed",
		zap.String("buyer_id", buyerID.String()),
		zap.String("order_id", result.Order.ID.String()),
		zap.Int("items", len(result.Transactions)),
		zap.String("total", result.Order.TotalAmount.String()))

	return result, nil
}

// checkoutItem reserves one cart item's product and creates its pending
// transaction with the fee snapshotted.
func (s *CheckoutService) checkoutItem(ctx context.Context, buyerID uuid.UUID, item *commerce.CartItem,
	defaults feeDefaults, now time.Time) (*commerce.Transaction, error) {
	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("INVALID_STATE", "A product in the cart no longer exists", shared.ErrProductUnavailable)
		}
		s.logger.Error("failed to load product", zap.String("product_id", item.ProductID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load product", err)
	}
	if product.SellerID == buyerID {
		return nil, shared.NewDomainError("OWN_PRODUCT", "You cannot buy your own listing")
	}
	if !product.IsAvailable() {
		return nil, shared.WrapDomainError("INVALID_STATE",
			"Product \""+product.Title+"\" is no longer available", shared.ErrProductUnavailable)
	}

	if err := product.Reserve(); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("failed to reserve product", zap.String("product_id", product.ID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to reserve product", err)
	}

	amount := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	tx, err := commerce.NewTransaction(product.ID, buyerID, product.SellerID, amount)
	if err != nil {
		return nil, err
	}

	if err := s.applyFee(ctx, tx, product, now, defaults); err != nil {
		return nil, err
	}

	if err := s.txRepo.Save(ctx, tx); err != nil {
		s.logger.Error("failed to save transaction", zap.String("product_id", product.ID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to create transaction", err)
	}
	return tx, nil
}

// applyFee snapshots the platform fee onto the transaction. Sellers
// with an active exemption pay nothing; otherwise the category fee
// applies, falling back to the platform-wide defaults.
func (s *CheckoutService) applyFee(ctx context.Context, tx *commerce.Transaction, product *catalog.Product,
	now time.Time, defaults feeDefaults) error {
	active, err := s.exemptions.FindActiveByUser(ctx, product.SellerID, now)
	if err != nil {
		s.logger.Error("failed to load fee exemptions", zap.String("seller_id", product.SellerID.String()), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to compute fees", err)
	}
	for _, ex := range active {
		if ex.AppliesAt(now) {
			return tx.ApplyFeeExemption(string(ex.ExemptionType))
		}
	}

	feeCfg, err := s.feeRepo.FindByCategory(ctx, product.CategoryID)
	switch {
	case err == nil:
		fee, err := feeCfg.CalculateFee(valueobject.NewMoneyUSD(tx.Amount))
		if err != nil {
			return err
		}
		return tx.ApplyFee(fee.Amount(), feeCfg.FeePercentage)
	case errors.Is(err, shared.ErrNotFound):
		fee := tx.Amount.Mul(defaults.percentage).Div(decimal.NewFromInt(100))
		if fee.LessThan(defaults.minFee) {
			fee = defaults.minFee
		}
		if fee.GreaterThan(defaults.maxFee) {
			fee = defaults.maxFee
		}
		return tx.ApplyFee(fee.Round(2), defaults.percentage)
	default:
		s.logger.Error("failed to load category fee", zap.String("category_id", product.CategoryID.String()), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to compute fees", err)
	}
}

// applyDiscount validates and redeems a coupon code against the order.
// Usage is incremented atomically so the campaign limit holds under
// concurrent checkouts.
func (s *CheckoutService) applyDiscount(ctx context.Context, group *commerce.OrderGroup, code string, now time.Time) error {
	campaign, err := s.campaigns.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.WrapDomainError("DISCOUNT_NOT_FOUND", "Discount code not found", shared.ErrNotFound)
		}
		s.logger.Error("failed to load discount campaign", zap.String("code", code), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to apply discount", err)
	}
	if campaign.AppliesTo != billing.AppliesToOrder {
		return shared.NewDomainError("DISCOUNT_NOT_APPLICABLE", "This discount does not apply to orders")
	}
	if !campaign.IsRedeemableAt(now) {
		return shared.NewDomainError("DISCOUNT_NOT_REDEEMABLE", "This discount is not currently redeemable")
	}

	discount, err := campaign.ComputeDiscount(group.TotalAmount)
	if err != nil {
		return err
	}

	if err := s.campaigns.IncrementUsage(ctx, campaign.ID); err != nil {
		if errors.Is(err, shared.ErrUsageLimitReached) {
			return err
		}
		s.logger.Error("failed to increment discount usage", zap.String("campaign_id", campaign.ID.String()), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to apply discount", err)
	}

	return group.ApplyDiscount(campaign.ID, discount)
}

type feeDefaults struct {
	percentage decimal.Decimal
	minFee     decimal.Decimal
	maxFee     decimal.Decimal
}

// feeDefaults reads the platform-wide fee settings, falling back to the
// built-in values when a key is missing or malformed.
func (s *CheckoutService) feeDefaults(ctx context.Context) feeDefaults {
	return feeDefaults{
		percentage: s.decimalSetting(ctx, settings.KeyDefaultFeePercentage, fallbackFeePercentage),
		minFee:     s.decimalSetting(ctx, settings.KeyDefaultMinFee, fallbackMinFee),
		maxFee:     s.decimalSetting(ctx, settings.KeyDefaultMaxFee, fallbackMaxFee),
	}
}

func (s *CheckoutService) decimalSetting(ctx context.Context, key string, fallback decimal.Decimal) decimal.Decimal {
	setting, err := s.settingsRepo.FindByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("failed to load setting", zap.String("key", key), zap.Error(err))
		}
		return fallback
	}
	value, err := setting.DecimalValue()
	if err != nil {
		s.logger.Warn("malformed setting value", zap.String("key", key), zap.Error(err))
		return fallback
	}
	return value
}
