package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/campusmarket/backend/internal/application/billing"
	catalogapp "github.com/campusmarket/backend/internal/application/catalog"
	commerceapp "github.com/campusmarket/backend/internal/application/commerce"
	identityapp "github.com/campusmarket/backend/internal/application/identity"
	settingsapp "github.com/campusmarket/backend/internal/application/settings"
	socialapp "github.com/campusmarket/backend/internal/application/social"
	"github.com/campusmarket/backend/internal/infrastructure/auth"
	billinginfra "github.com/campusmarket/backend/internal/infrastructure/billing"
	"github.com/campusmarket/backend/internal/infrastructure/config"
	"github.com/campusmarket/backend/internal/infrastructure/event"
	"github.com/campusmarket/backend/internal/infrastructure/logger"
	"github.com/campusmarket/backend/internal/infrastructure/persistence"
	"github.com/campusmarket/backend/internal/infrastructure/scheduler"
	"github.com/campusmarket/backend/internal/interfaces/http/handler"
	"github.com/campusmarket/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting campus marketplace",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version))

	// Database
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()
	db.DB.Logger = logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Redis-backed token blacklist
	blacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	hasher := auth.NewPasswordHasher()

	// Payment gateway
	gateway, err := billinginfra.NewStripeGateway(&billinginfra.StripeConfig{
		SecretKey:       cfg.Stripe.APIKey,
		WebhookSecret:   cfg.Stripe.WebhookSecret,
		IsTestMode:      cfg.IsDevelopment(),
		DefaultCurrency: "usd",
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize payment gateway", zap.Error(err))
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	campusRepo := persistence.NewGormCampusRepository(db.DB)
	tokenRepo := persistence.NewGormAuthTokenRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	feeRepo := persistence.NewGormCategoryFeeRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	imageRepo := persistence.NewGormProductImageRepository(db.DB)
	savedRepo := persistence.NewGormSavedProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	txRepo := persistence.NewGormTransactionRepository(db.DB)
	orderRepo := persistence.NewGormOrderGroupRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	methodRepo := persistence.NewGormPaymentMethodRepository(db.DB)
	planRepo := persistence.NewGormSubscriptionPlanRepository(db.DB)
	subRepo := persistence.NewGormUserSubscriptionRepository(db.DB)
	exemptionRepo := persistence.NewGormFeeExemptionRepository(db.DB)
	slotRepo := persistence.NewGormPromotionalSlotRepository(db.DB)
	campaignRepo := persistence.NewGormDiscountCampaignRepository(db.DB)
	usageRepo := persistence.NewGormDiscountUsageRepository(db.DB)
	convRepo := persistence.NewGormConversationRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	notifRepo := persistence.NewGormNotificationRepository(db.DB)
	settingRepo := persistence.NewGormAppSettingRepository(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Application services
	authService := identityapp.NewAuthService(userRepo, campusRepo, tokenRepo,
		jwtService, hasher, blacklist, eventBus, cfg.Tokens, log)
	userService := identityapp.NewUserService(userRepo, log)
	campusService := identityapp.NewCampusService(campusRepo, userRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, feeRepo, log)
	productService := catalogapp.NewProductService(productRepo, imageRepo, savedRepo,
		categoryRepo, feeRepo, eventBus, cfg.Uploads, log)
	cartService := commerceapp.NewCartService(cartRepo, productRepo, log)
	checkoutService := commerceapp.NewCheckoutService(uow, cartRepo, productRepo,
		txRepo, orderRepo, feeRepo, exemptionRepo, campaignRepo, settingRepo, log)
	orderService := commerceapp.NewOrderService(orderRepo, txRepo, log)
	transactionService := commerceapp.NewTransactionService(txRepo, productRepo, orderRepo, eventBus, log)
	paymentService := billingapp.NewPaymentService(paymentRepo, methodRepo, txRepo, gateway, eventBus, log)
	methodService := billingapp.NewPaymentMethodService(methodRepo, userRepo, gateway, log)
	planService := billingapp.NewPlanService(planRepo, log)
	subscriptionService := billingapp.NewSubscriptionService(planRepo, subRepo, methodRepo,
		paymentRepo, exemptionRepo, campaignRepo, usageRepo, gateway, eventBus, log)
	promotionService := billingapp.NewPromotionService(uow, slotRepo, subRepo, planRepo, productRepo, log)
	discountService := billingapp.NewDiscountService(campaignRepo, log)
	webhookService := billingapp.NewWebhookService(paymentRepo, subscriptionService, gateway, eventBus, log)
	conversationService := socialapp.NewConversationService(convRepo, messageRepo, productRepo, eventBus, log)
	reviewService := socialapp.NewReviewService(reviewRepo, userRepo, eventBus, log)
	reportService := socialapp.NewReportService(reportRepo, convRepo, log)
	notificationService := socialapp.NewNotificationService(notifRepo, log)
	settingsService := settingsapp.NewService(settingRepo, log)

	// In-app notifications react to domain events
	eventBus.Subscribe(socialapp.NewNotifier(notifRepo, log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Periodic billing work
	jobs := scheduler.NewBillingJobs(scheduler.DefaultBillingJobsConfig(),
		subscriptionService, promotionService, log)
	jobs.Start(context.Background())
	defer jobs.Stop()

	engine := router.New(cfg, log, jwtService, blacklist, settingsService, router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		User:          handler.NewUserHandler(userService),
		Campus:        handler.NewCampusHandler(campusService),
		Category:      handler.NewCategoryHandler(categoryService),
		Product:       handler.NewProductHandler(productService),
		Cart:          handler.NewCartHandler(cartService),
		Order:         handler.NewOrderHandler(checkoutService, orderService),
		Transaction:   handler.NewTransactionHandler(transactionService),
		Payment:       handler.NewPaymentHandler(paymentService),
		PaymentMethod: handler.NewPaymentMethodHandler(methodService),
		Plan:          handler.NewPlanHandler(planService),
		Subscription:  handler.NewSubscriptionHandler(subscriptionService),
		Promotion:     handler.NewPromotionHandler(promotionService),
		Discount:      handler.NewDiscountHandler(discountService),
		Conversation:  handler.NewConversationHandler(conversationService),
		Review:        handler.NewReviewHandler(reviewService),
		Report:        handler.NewReportHandler(reportService),
		Notification:  handler.NewNotificationHandler(notificationService),
		Settings:      handler.NewSettingsHandler(settingsService),
		Webhook:       handler.NewWebhookHandler(webhookService),
		Health:        handler.NewHealthHandler(db.DB, cfg.App.Name, version),
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(context.Background()); err != nil {
		log.Warn("Event bus stop failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
