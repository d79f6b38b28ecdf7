package social

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Review is a buyer's rating of a seller for one product. A reviewer
// can rate a given seller and product pair only once.
type Review struct {
	shared.BaseEntity
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_triple" json:"reviewer_id"`
	ReviewedID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_triple" json:"reviewed_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_triple" json:"product_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    *string   `gorm:"type:text" json:"comment,omitempty"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a review with a 1 to 5 rating
func NewReview(reviewerID, reviewedID, productID uuid.UUID, rating int, comment *string) (*Review, error) {
	if reviewerID == uuid.Nil || reviewedID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTY", "Reviewer and reviewed user are required")
	}
	if reviewerID == reviewedID {
		return nil, shared.NewDomainError("INVALID_PARTY", "Users cannot review themselves")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}

	return &Review{
		BaseEntity: shared.NewBaseEntity(),
		ReviewerID: reviewerID,
		ReviewedID: reviewedID,
		ProductID:  productID,
		Rating:     rating,
		Comment:    comment,
	}, nil
}

// Update edits the rating and comment
func (r *Review) Update(rating int, comment *string) error {
	if rating < 1 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	r.Rating = rating
	r.Comment = comment
	r.UpdatedAt = time.Now()
	return nil
}
