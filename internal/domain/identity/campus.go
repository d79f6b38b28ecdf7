package identity

import (
	"strings"
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
)

// Campus represents a university campus, the organizational boundary for users
type Campus struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(255);not null;index" json:"name"`
	Location    string `gorm:"type:varchar(255);not null" json:"location"`
	EmailDomain string `gorm:"type:varchar(100);not null;uniqueIndex" json:"email_domain"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (Campus) TableName() string {
	return "campuses"
}

// NewCampus creates a new campus
func NewCampus(name, location, emailDomain string) (*Campus, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Campus name cannot be empty")
	}
	if location == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Campus location cannot be empty")
	}
	if err := validateEmailDomain(emailDomain); err != nil {
		return nil, err
	}

	return &Campus{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Location:          location,
		EmailDomain:       strings.ToLower(emailDomain),
		IsActive:          true,
	}, nil
}

// Update updates the campus basic information
func (c *Campus) Update(name, location string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Campus name cannot be empty")
	}
	if location == "" {
		return shared.NewDomainError("INVALID_LOCATION", "Campus location cannot be empty")
	}

	c.Name = name
	c.Location = location
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Activate activates the campus
func (c *Campus) Activate() error {
	if c.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Campus is already active")
	}
	c.IsActive = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Deactivate deactivates the campus, blocking new registrations
func (c *Campus) Deactivate() error {
	if !c.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Campus is already inactive")
	}
	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// MatchesEmail returns true if the email belongs to this campus's domain
func (c *Campus) MatchesEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.EqualFold(email[at+1:], c.EmailDomain)
}

func validateEmailDomain(domain string) error {
	if domain == "" {
		return shared.NewDomainError("INVALID_EMAIL_DOMAIN", "Campus email domain cannot be empty")
	}
	if strings.ContainsAny(domain, "@ ") {
		return shared.NewDomainError("INVALID_EMAIL_DOMAIN", "Campus email domain must be a bare domain name")
	}
	if !strings.Contains(domain, ".") {
		return shared.NewDomainError("INVALID_EMAIL_DOMAIN", "Campus email domain must contain a dot")
	}
	return nil
}
