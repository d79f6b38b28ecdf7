package identity

import (
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	EventUserRegistered = "identity.user.registered"
	EventUserVerified   = "identity.user.verified"
)

// UserRegisteredEvent is raised when a new user account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	CampusID uuid.UUID `json:"campus_id"`
}

// NewUserRegisteredEvent creates a new user registered event
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUserRegistered, user.ID, "User"),
		UserID:          user.ID,
		Email:           user.Email,
		CampusID:        user.CampusID,
	}
}

// UserVerifiedEvent is raised when a user completes email verification
type UserVerifiedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewUserVerifiedEvent creates a new user verified event
func NewUserVerifiedEvent(user *User) *UserVerifiedEvent {
	return &UserVerifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUserVerified, user.ID, "User"),
		UserID:          user.ID,
	}
}
