package identity

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CampusDTO represents campus data returned to clients
type CampusDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	EmailDomain string    `json:"email_domain"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserDTO represents user data returned to clients. The password hash
// never leaves the service layer.
type UserDTO struct {
	ID             uuid.UUID        `json:"id"`
	Email          string           `json:"email"`
	FirstName      string           `json:"first_name"`
	LastName       string           `json:"last_name"`
	FullName       string           `json:"full_name"`
	ProfilePicture *string          `json:"profile_picture,omitempty"`
	StudentID      string           `json:"student_id"`
	Phone          *string          `json:"phone,omitempty"`
	CampusID       uuid.UUID        `json:"campus_id"`
	Major          *string          `json:"major,omitempty"`
	Semester       *int             `json:"semester,omitempty"`
	DateJoined     time.Time        `json:"date_joined"`
	IsVerified     bool             `json:"is_verified"`
	IsActive       bool             `json:"is_active"`
	Rating         *decimal.Decimal `json:"rating,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// CampusListResult represents a paginated campus list
type CampusListResult struct {
	Items      []CampusDTO `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// UserListResult represents a paginated user list
type UserListResult struct {
	Items      []UserDTO `json:"items"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

func toCampusDTO(campus *identity.Campus) *CampusDTO {
	return &CampusDTO{
		ID:          campus.ID,
		Name:        campus.Name,
		Location:    campus.Location,
		EmailDomain: campus.EmailDomain,
		IsActive:    campus.IsActive,
		CreatedAt:   campus.CreatedAt,
		UpdatedAt:   campus.UpdatedAt,
	}
}

func toUserDTO(user *identity.User) *UserDTO {
	return &UserDTO{
		ID:             user.ID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		FullName:       user.FullName(),
		ProfilePicture: user.ProfilePicture,
		StudentID:      user.StudentID,
		Phone:          user.Phone,
		CampusID:       user.CampusID,
		Major:          user.Major,
		Semester:       user.Semester,
		DateJoined:     user.DateJoined,
		IsVerified:     user.IsVerified,
		IsActive:       user.IsActive,
		Rating:         user.Rating,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
