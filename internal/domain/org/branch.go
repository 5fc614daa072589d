package org

import (
	"strings"
	"time"

	"github.com/realty/backend/internal/domain/shared"
)

// Branch represents an office of the agency
type Branch struct {
	shared.BaseAggregateRoot
	Code      string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name      string `gorm:"type:varchar(100);not null"`
	Address   string `gorm:"type:varchar(500)"`
	City      string `gorm:"type:varchar(100);index"`
	Phone     string `gorm:"type:varchar(50)"`
	Enabled   bool   `gorm:"not null;default:true"`
	IsDefault bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Branch) TableName() string {
	return "branches"
}

// NewBranch creates an enabled branch
func NewBranch(code, name, city string) (*Branch, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_CODE", "Code must be 1-20 characters")
	}
	if name == "" || len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name must be 1-100 characters")
	}
	return &Branch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		City:              city,
		Enabled:           true,
	}, nil
}

// Update updates branch contact details
func (b *Branch) Update(name, address, city, phone string) error {
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name must be 1-100 characters")
	}
	b.Name = name
	b.Address = address
	b.City = city
	b.Phone = phone
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Enable reopens a disabled branch
func (b *Branch) Enable() error {
	if b.Enabled {
		return shared.NewDomainError("INVALID_STATE", "Branch is already enabled")
	}
	b.Enabled = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Disable closes a branch. The default branch cannot be disabled.
func (b *Branch) Disable() error {
	if !b.Enabled {
		return shared.NewDomainError("INVALID_STATE", "Branch is already disabled")
	}
	if b.IsDefault {
		return shared.NewDomainError("INVALID_STATE", "The default branch cannot be disabled")
	}
	b.Enabled = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// MarkDefault makes this the default branch
func (b *Branch) MarkDefault() error {
	if !b.Enabled {
		return shared.NewDomainError("INVALID_STATE", "A disabled branch cannot be the default")
	}
	b.IsDefault = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// UnmarkDefault clears the default flag
func (b *Branch) UnmarkDefault() {
	b.IsDefault = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}
