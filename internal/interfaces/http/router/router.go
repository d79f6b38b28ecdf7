package router

import (
	"github.com/campusmarket/backend/internal/application/settings"
	"github.com/campusmarket/backend/internal/infrastructure/auth"
	"github.com/campusmarket/backend/internal/infrastructure/config"
	"github.com/campusmarket/backend/internal/infrastructure/logger"
	"github.com/campusmarket/backend/internal/interfaces/http/handler"
	"github.com/campusmarket/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Campus        *handler.CampusHandler
	Category      *handler.CategoryHandler
	Product       *handler.ProductHandler
	Cart          *handler.CartHandler
	Order         *handler.OrderHandler
	Transaction   *handler.TransactionHandler
	Payment       *handler.PaymentHandler
	PaymentMethod *handler.PaymentMethodHandler
	Plan          *handler.PlanHandler
	Subscription  *handler.SubscriptionHandler
	Promotion     *handler.PromotionHandler
	Discount      *handler.DiscountHandler
	Conversation  *handler.ConversationHandler
	Review        *handler.ReviewHandler
	Report        *handler.ReportHandler
	Notification  *handler.NotificationHandler
	Settings      *handler.SettingsHandler
	Webhook       *handler.WebhookHandler
	Health        *handler.HealthHandler
}

// New assembles the gin engine with the full middleware chain and
// every route group
func New(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist, settingsService *settings.Service, h Handlers) *gin.Engine {

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	_ = r.SetTrustedProxies(cfg.HTTP.TrustedProxies)

	// RequestID must run before GinMiddleware so the request-scoped
	// logger picks up the id
	r.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(cfg.HTTP),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.ErrorHandler(log, cfg.IsDevelopment()),
	)

	v1 := r.Group("/api/v1")

	// liveness and provider callbacks stay reachable during maintenance
	v1.GET("/health", h.Health.Check)
	v1.POST("/webhooks/stripe", h.Webhook.Stripe)

	open := v1.Group("", middleware.Maintenance(settingsService, log))
	authed := open.Group("", middleware.Auth(jwtService, blacklist, log))

	registerAuth(open, authed, h.Auth)
	registerPublic(open, h)
	registerProtected(authed, h)

	return r
}

func registerAuth(open, authed *gin.RouterGroup, h *handler.AuthHandler) {
	open.POST("/auth/register", h.Register)
	open.POST("/auth/login", h.Login)
	open.POST("/auth/refresh", h.Refresh)
	open.POST("/auth/verify-email", h.VerifyEmail)
	open.POST("/auth/forgot-password", h.RequestPasswordReset)
	open.POST("/auth/reset-password", h.ResetPassword)

	authed.POST("/auth/logout", h.Logout)
	authed.POST("/auth/request-verification", h.RequestVerification)
	authed.POST("/auth/change-password", h.ChangePassword)
}

func registerPublic(g *gin.RouterGroup, h Handlers) {
	g.GET("/campuses", h.Campus.List)
	g.GET("/campuses/:id", h.Campus.GetByID)

	g.GET("/categories", h.Category.Tree)
	g.GET("/categories/:id", h.Category.GetByID)
	g.GET("/categories/:id/fee", h.Category.GetFee)

	g.GET("/products", h.Product.Search)
	g.GET("/products/:id", h.Product.GetByID)
	g.GET("/products/:id/reviews", h.Review.ListByProduct)

	g.GET("/users/:id/reviews", h.Review.ListByUser)

	g.GET("/plans", h.Plan.ListActive)
	g.GET("/plans/:id", h.Plan.GetByID)

	g.GET("/promotions/active", h.Promotion.ListActive)
}

func registerProtected(g *gin.RouterGroup, h Handlers) {
	g.GET("/users", h.User.List)
	g.GET("/users/me", h.User.Me)
	g.PUT("/users/me", h.User.UpdateProfile)
	g.DELETE("/users/me", h.User.Deactivate)
	g.GET("/users/:id", h.User.GetByID)
	g.GET("/users/:id/reports", h.Report.ListByReported)

	g.POST("/campuses", h.Campus.Create)
	g.PUT("/campuses/:id", h.Campus.Update)
	g.PATCH("/campuses/:id/active", h.Campus.SetActive)
	g.DELETE("/campuses/:id", h.Campus.Delete)

	g.POST("/categories", h.Category.Create)
	g.PUT("/categories/:id", h.Category.Update)
	g.PATCH("/categories/:id/parent", h.Category.Move)
	g.PATCH("/categories/:id/active", h.Category.SetActive)
	g.DELETE("/categories/:id", h.Category.Delete)
	g.PUT("/categories/:id/fee", h.Category.SetFee)
	g.PATCH("/categories/:id/fee/active", h.Category.SetFeeActive)

	g.POST("/products", h.Product.Create)
	g.GET("/products/saved", h.Product.ListSaved)
	g.PUT("/products/:id", h.Product.Update)
	g.PATCH("/products/:id/category", h.Product.ChangeCategory)
	g.POST("/products/:id/reserve", h.Product.Reserve)
	g.POST("/products/:id/release", h.Product.Release)
	g.POST("/products/:id/sold", h.Product.MarkSold)
	g.DELETE("/products/:id", h.Product.Delete)
	g.POST("/products/:id/images", h.Product.AddImage)
	g.PUT("/products/:id/images/order", h.Product.ReorderImages)
	g.PATCH("/products/:id/images/:imageId/primary", h.Product.SetPrimaryImage)
	g.DELETE("/products/:id/images/:imageId", h.Product.RemoveImage)
	g.POST("/products/:id/save", h.Product.Save)
	g.DELETE("/products/:id/save", h.Product.Unsave)

	g.GET("/cart", h.Cart.Get)
	g.DELETE("/cart", h.Cart.Clear)
	g.POST("/cart/items", h.Cart.AddItem)
	g.PUT("/cart/items/:id", h.Cart.UpdateItem)
	g.DELETE("/cart/items/:id", h.Cart.RemoveItem)

	g.POST("/checkout", h.Order.Checkout)
	g.GET("/orders", h.Order.List)
	g.GET("/orders/:id", h.Order.GetByID)

	g.GET("/transactions", h.Transaction.List)
	g.GET("/transactions/:id", h.Transaction.GetByID)
	g.PUT("/transactions/:id/meeting", h.Transaction.SetMeeting)
	g.POST("/transactions/:id/complete", h.Transaction.Complete)
	g.POST("/transactions/:id/cancel", h.Transaction.Cancel)

	g.POST("/payments/transaction-fee", h.Payment.PayTransactionFee)
	g.GET("/payments", h.Payment.List)
	g.GET("/payments/:id", h.Payment.GetByID)
	g.POST("/payments/:id/refund", h.Payment.Refund)

	g.POST("/payment-methods", h.PaymentMethod.Attach)
	g.GET("/payment-methods", h.PaymentMethod.List)
	g.PATCH("/payment-methods/:id/default", h.PaymentMethod.SetDefault)
	g.DELETE("/payment-methods/:id", h.PaymentMethod.Remove)

	g.POST("/plans", h.Plan.Create)
	g.PUT("/plans/:id", h.Plan.Update)
	g.DELETE("/plans/:id", h.Plan.Retire)

	g.POST("/subscriptions", h.Subscription.Subscribe)
	g.GET("/subscriptions", h.Subscription.List)
	g.GET("/subscriptions/current", h.Subscription.Current)
	g.POST("/subscriptions/:id/cancel", h.Subscription.Cancel)

	g.POST("/promotions", h.Promotion.CreateSlot)
	g.GET("/promotions", h.Promotion.List)
	g.POST("/promotions/:id/cancel", h.Promotion.CancelSlot)

	g.POST("/discounts", h.Discount.Create)
	g.GET("/discounts", h.Discount.ListActive)
	g.GET("/discounts/:id", h.Discount.GetByID)
	g.POST("/discounts/validate", h.Discount.ValidateCode)
	g.POST("/discounts/:id/deactivate", h.Discount.Deactivate)

	g.POST("/conversations", h.Conversation.Start)
	g.GET("/conversations", h.Conversation.List)
	g.GET("/conversations/unread-count", h.Conversation.UnreadCount)
	g.POST("/conversations/:id/messages", h.Conversation.SendMessage)
	g.GET("/conversations/:id/messages", h.Conversation.Messages)
	g.POST("/conversations/:id/archive", h.Conversation.Archive)

	g.POST("/reviews", h.Review.Create)
	g.PUT("/reviews/:id", h.Review.Update)
	g.DELETE("/reviews/:id", h.Review.Delete)

	g.POST("/reports", h.Report.File)
	g.GET("/reports", h.Report.ListByStatus)
	g.POST("/reports/:id/resolve", h.Report.Resolve)
	g.POST("/reports/:id/dismiss", h.Report.Dismiss)

	g.GET("/notifications", h.Notification.List)
	g.GET("/notifications/unread-count", h.Notification.UnreadCount)
	g.POST("/notifications/read-all", h.Notification.MarkAllRead)
	g.POST("/notifications/:id/read", h.Notification.MarkRead)
	g.DELETE("/notifications/:id", h.Notification.Delete)

	g.GET("/settings", h.Settings.List)
	g.GET("/settings/:key", h.Settings.Get)
	g.PUT("/settings/:key", h.Settings.Set)
	g.DELETE("/settings/:key", h.Settings.Delete)
}
