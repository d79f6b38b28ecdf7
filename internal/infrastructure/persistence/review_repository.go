package persistence

import (
	"context"
	"errors"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/campusmarket/backend/internal/domain/social"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Save creates a review. One review per (reviewer, reviewed, product)
// triple; duplicates return ErrAlreadyExists.
func (r *GormReviewRepository) Save(ctx context.Context, review *social.Review) error {
	if err := dbFor(ctx, r.db).WithContext(ctx).Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a review by its ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Review, error) {
	var review social.Review
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// FindByReviewed finds reviews received by a user
func (r *GormReviewRepository) FindByReviewed(ctx context.Context, reviewedID uuid.UUID, filter shared.Filter) (*shared.Paginated[social.Review], error) {
	return r.findAll(ctx, filter, "reviewed_id = ?", reviewedID)
}

// FindByProduct finds reviews attached to a product
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[social.Review], error) {
	return r.findAll(ctx, filter, "product_id = ?", productID)
}

func (r *GormReviewRepository) findAll(ctx context.Context, filter shared.Filter, cond string, arg interface{}) (*shared.Paginated[social.Review], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).
		Model(&social.Review{}).
		Where(cond, arg)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var reviews []social.Review
	query = applyListOptions(query, filter, ReviewSortFields, "created_at")
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(reviews, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindByTriple finds a review by its unique triple
func (r *GormReviewRepository) FindByTriple(ctx context.Context, reviewerID, reviewedID, productID uuid.UUID) (*social.Review, error) {
	var review social.Review
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Where("reviewer_id = ? AND reviewed_id = ? AND product_id = ?", reviewerID, reviewedID, productID).
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// AverageRating computes the mean rating received by a user; ok is
// false when the user has no reviews
func (r *GormReviewRepository) AverageRating(ctx context.Context, reviewedID uuid.UUID) (float64, bool, error) {
	var result struct {
		Avg   *float64
		Count int64
	}
	if err := dbFor(ctx, r.db).WithContext(ctx).
		Model(&social.Review{}).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Where("reviewed_id = ?", reviewedID).
		Scan(&result).Error; err != nil {
		return 0, false, err
	}
	if result.Count == 0 || result.Avg == nil {
		return 0, false, nil
	}
	return *result.Avg, true, nil
}

// Update persists changes to a review
func (r *GormReviewRepository) Update(ctx context.Context, review *social.Review) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(review).Error
}

// Delete deletes a review
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).WithContext(ctx).Delete(&social.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormReviewRepository implements ReviewRepository
var _ social.ReviewRepository = (*GormReviewRepository)(nil)

// GormReportRepository implements ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// Save creates a report
func (r *GormReportRepository) Save(ctx context.Context, report *social.Report) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(report).Error
}

// FindByID finds a report by its ID
func (r *GormReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Report, error) {
	var report social.Report
	if err := dbFor(ctx, r.db).WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// FindByStatus finds reports in a given state for moderation queues
func (r *GormReportRepository) FindByStatus(ctx context.Context, status social.ReportStatus, filter shared.Filter) (*shared.Paginated[social.Report], error) {
	return r.findAll(ctx, filter, "status = ?", status)
}

// FindByReported finds reports filed against a user
func (r *GormReportRepository) FindByReported(ctx context.Context, reportedID uuid.UUID, filter shared.Filter) (*shared.Paginated[social.Report], error) {
	return r.findAll(ctx, filter, "reported_id = ?", reportedID)
}

func (r *GormReportRepository) findAll(ctx context.Context, filter shared.Filter, cond string, arg interface{}) (*shared.Paginated[social.Report], error) {
	query := dbFor(ctx, r.db).WithContext(ctx).
		Model(&social.Report{}).
		Where(cond, arg)

	if reason, ok := filter.Filters["reason"]; ok {
		query = query.Where("reason = ?", reason)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var reports []social.Report
	query = applyListOptions(query, filter, ReportSortFields, "created_at")
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(reports, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update persists changes to a report
func (r *GormReportRepository) Update(ctx context.Context, report *social.Report) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(report).Error
}

// Ensure GormReportRepository implements ReportRepository
var _ social.ReportRepository = (*GormReportRepository)(nil)
