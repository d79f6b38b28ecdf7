package social

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/identity"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/domain/social"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReviewService handles seller reviews and the cached rating average
type ReviewService struct {
	reviewRepo social.ReviewRepository
	userRepo   identity.UserRepository
	eventBus   shared.EventPublisher
	logger     *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo social.ReviewRepository,
	userRepo identity.UserRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// CreateReviewInput carries the data to submit a review
type CreateReviewInput struct {
	ReviewedID uuid.UUID `json:"reviewed_id" validate:"required"`
	ProductID  uuid.UUID `json:"product_id" validate:"required"`
	Rating     int       `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string   `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// UpdateReviewInput carries the data to edit a review
type UpdateReviewInput struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// Create submits a review. A reviewer can rate a given seller and
// product pair only once.
func (s *ReviewService) Create(ctx context.Context, reviewerID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error) {
	existing, err := s.reviewRepo.FindByTriple(ctx, reviewerID, input.ReviewedID, input.ProductID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("failed to check existing review", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to check existing review", err)
	}
	if existing != nil {
		return nil, shared.WrapDomainError("REVIEW_EXISTS", "You have already reviewed this seller for this product", shared.ErrAlreadyExists)
	}

	review, err := social.NewReview(reviewerID, input.ReviewedID, input.ProductID, input.Rating, input.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, review); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.WrapDomainError("REVIEW_EXISTS", "You have already reviewed this seller for this product", err)
		}
		s.logger.Error("failed to save review", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to save review", err)
	}

	s.refreshRating(ctx, review.ReviewedID)

	if err := s.eventBus.Publish(ctx, social.NewReviewSubmittedEvent(review)); err != nil {
		s.logger.Warn("failed to publish review event", zap.String("review_id", review.ID.String()), zap.Error(err))
	}

	s.logger.Info("review submitted",
		zap.String("review_id", review.ID.String()),
		zap.String("reviewed_id", review.ReviewedID.String()),
		zap.Int("rating", review.Rating))

	dto := toReviewDTO(review)
	return &dto, nil
}

// Update edits the caller's own review
func (s *ReviewService) Update(ctx context.Context, reviewerID, reviewID uuid.UUID, input UpdateReviewInput) (*ReviewDTO, error) {
	review, err := s.findOwned(ctx, reviewID, reviewerID)
	if err != nil {
		return nil, err
	}

	if err := review.Update(input.Rating, input.Comment); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		s.logger.Error("failed to update review", zap.String("review_id", reviewID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to update review", err)
	}

	s.refreshRating(ctx, review.ReviewedID)

	dto := toReviewDTO(review)
	return &dto, nil
}

// Delete removes the caller's own review
func (s *ReviewService) Delete(ctx context.Context, reviewerID, reviewID uuid.UUID) error {
	review, err := s.findOwned(ctx, reviewID, reviewerID)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		s.logger.Error("failed to delete review", zap.String("review_id", reviewID.String()), zap.Error(err))
		return shared.WrapDomainError("INTERNAL_ERROR", "Failed to delete review", err)
	}

	s.refreshRating(ctx, review.ReviewedID)

	s.logger.Info("review deleted", zap.String("review_id", reviewID.String()))
	return nil
}

// ListByReviewed returns the reviews a user has received
func (s *ReviewService) ListByReviewed(ctx context.Context, reviewedID uuid.UUID, page, pageSize int) (*ReviewListResult, error) {
	filter := listFilter(page, pageSize)
	result, err := s.reviewRepo.FindByReviewed(ctx, reviewedID, filter)
	if err != nil {
		s.logger.Error("failed to list reviews", zap.String("reviewed_id", reviewedID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list reviews", err)
	}
	return toReviewListResult(result), nil
}

// ListByProduct returns the reviews written about a product
func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, page, pageSize int) (*ReviewListResult, error) {
	filter := listFilter(page, pageSize)
	result, err := s.reviewRepo.FindByProduct(ctx, productID, filter)
	if err != nil {
		s.logger.Error("failed to list reviews", zap.String("product_id", productID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to list reviews", err)
	}
	return toReviewListResult(result), nil
}

// refreshRating recomputes the reviewed user's cached average. The
// cache is advisory; failures are logged and never fail the request.
func (s *ReviewService) refreshRating(ctx context.Context, reviewedID uuid.UUID) {
	avg, ok, err := s.reviewRepo.AverageRating(ctx, reviewedID)
	if err != nil {
		s.logger.Warn("failed to compute rating average", zap.String("user_id", reviewedID.String()), zap.Error(err))
		return
	}
	if !ok {
		return
	}

	user, err := s.userRepo.FindByID(ctx, reviewedID)
	if err != nil {
		s.logger.Warn("failed to load reviewed user", zap.String("user_id", reviewedID.String()), zap.Error(err))
		return
	}
	if err := user.SetRating(decimal.NewFromFloat(avg).Round(2)); err != nil {
		s.logger.Warn("failed to set rating", zap.String("user_id", reviewedID.String()), zap.Error(err))
		return
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Warn("failed to update reviewed user", zap.String("user_id", reviewedID.String()), zap.Error(err))
	}
}

func (s *ReviewService) findOwned(ctx context.Context, reviewID, reviewerID uuid.UUID) (*social.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError("REVIEW_NOT_FOUND", "Review not found", err)
		}
		s.logger.Error("failed to load review", zap.String("review_id", reviewID.String()), zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to load review", err)
	}
	if review.ReviewerID != reviewerID {
		return nil, shared.WrapDomainError("FORBIDDEN", "Review belongs to another user", shared.ErrForbidden)
	}
	return review, nil
}

func toReviewListResult(result *shared.Paginated[social.Review]) *ReviewListResult {
	items := make([]ReviewDTO, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toReviewDTO(&result.Items[i]))
	}
	return &ReviewListResult{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}

func listFilter(page, pageSize int) shared.Filter {
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
	return filter
}
