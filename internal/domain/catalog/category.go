package catalog

import (
	"time"

	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Category is a product category arranged as an adjacency list.
// Top-level categories have a nil ParentID.
type Category struct {
	shared.BaseAggregateRoot
	Name        string     `gorm:"type:varchar(100);not null;index" json:"name"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	Icon        *string    `gorm:"type:varchar(100)" json:"icon,omitempty"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category, optionally under a parent
func NewCategory(name string, description, icon *string, parentID *uuid.UUID) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Icon:              icon,
		ParentID:          parentID,
		IsActive:          true,
	}, nil
}

// Update updates the category attributes
func (c *Category) Update(name string, description, icon *string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}

	c.Name = name
	c.Description = description
	c.Icon = icon
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetParent moves the category under a new parent. A nil parent makes it
// top-level. Cycle detection requires the full ancestor chain and is done
// by the category service before calling this.
func (c *Category) SetParent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == c.ID {
		return shared.NewDomainError("INVALID_PARENT", "Category cannot be its own parent")
	}
	c.ParentID = parentID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Activate enables the category
func (c *Category) Activate() {
	c.IsActive = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Deactivate disables the category without deleting it
func (c *Category) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
