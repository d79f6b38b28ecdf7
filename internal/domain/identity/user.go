package identity

import (
	"strings"
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a marketplace account tied to a campus
type User struct {
	shared.BaseAggregateRoot
	Email          string           `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash   string           `gorm:"type:varchar(255);not null" json:"-"`
	FirstName      string           `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string           `gorm:"type:varchar(100);not null" json:"last_name"`
	ProfilePicture *string          `gorm:"type:varchar(255)" json:"profile_picture,omitempty"`
	StudentID      string           `gorm:"type:varchar(20);not null;uniqueIndex" json:"student_id"`
	Phone          *string          `gorm:"type:varchar(20)" json:"phone,omitempty"`
	CampusID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"campus_id"`
	Major          *string          `gorm:"type:varchar(100)" json:"major,omitempty"`
	Semester       *int             `json:"semester,omitempty"`
	DateJoined     time.Time        `gorm:"not null" json:"date_joined"`
	IsVerified     bool             `gorm:"not null;default:false" json:"is_verified"`
	IsActive       bool             `gorm:"not null;default:true" json:"is_active"`
	Rating         *decimal.Decimal `gorm:"type:decimal(3,2)" json:"rating,omitempty"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user. The password hash must already be computed;
// raw passwords never reach the domain layer.
func NewUser(email, passwordHash, firstName, lastName, studentID string, campusID uuid.UUID) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if firstName == "" || lastName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if studentID == "" {
		return nil, shared.NewDomainError("INVALID_STUDENT_ID", "Student ID cannot be empty")
	}
	if campusID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CAMPUS", "Campus is required")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      passwordHash,
		FirstName:         firstName,
		LastName:          lastName,
		StudentID:         studentID,
		CampusID:          campusID,
		DateJoined:        time.Now(),
		IsActive:          true,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user))
	return user, nil
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UpdateProfile updates the mutable profile fields
func (u *User) UpdateProfile(firstName, lastName string, phone, major *string, semester *int) error {
	if firstName == "" || lastName == "" {
		return shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if semester != nil && *semester < 1 {
		return shared.NewDomainError("INVALID_SEMESTER", "Semester must be positive")
	}

	u.FirstName = firstName
	u.LastName = lastName
	u.Phone = phone
	u.Major = major
	u.Semester = semester
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// SetProfilePicture sets the profile picture path
func (u *User) SetProfilePicture(path string) {
	u.ProfilePicture = &path
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// ChangePassword replaces the stored password hash
func (u *User) ChangePassword(passwordHash string) error {
	if passwordHash == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// MarkVerified marks the user's email as verified
func (u *User) MarkVerified() error {
	if u.IsVerified {
		return shared.NewDomainError("ALREADY_VERIFIED", "User is already verified")
	}
	u.IsVerified = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserVerifiedEvent(u))
	return nil
}

// Deactivate soft-disables the account
func (u *User) Deactivate() error {
	if !u.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "User is already inactive")
	}
	u.IsActive = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// Reactivate re-enables a previously deactivated account
func (u *User) Reactivate() error {
	if u.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.IsActive = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// SetRating replaces the cached average review rating
func (u *User) SetRating(rating decimal.Decimal) error {
	if rating.LessThan(decimal.NewFromInt(1)) || rating.GreaterThan(decimal.NewFromInt(5)) {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	u.Rating = &rating
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	if len(email) > 255 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 255 characters")
	}
	return nil
}
