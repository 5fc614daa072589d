package identity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/realty/backend/internal/domain/shared"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusLocked   UserStatus = "locked"
)

// User represents an account able to authenticate against the API.
// It is the aggregate root for identity operations.
type User struct {
	shared.BaseAggregateRoot
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	FullName     string     `gorm:"type:varchar(200);not null"`
	Phone        string     `gorm:"type:varchar(50)"`
	PasswordHash string     `gorm:"type:varchar(200);not null"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'client';index"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	BranchID     *uuid.UUID `gorm:"type:uuid;index"` // staff assignment, nil for clients
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with a hashed password
func NewUser(email, fullName, password string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	if fullName == "" || len(fullName) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name must be 1-200 characters")
	}
	if !IsValidRole(string(role)) {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(role))
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FullName:          fullName,
		PasswordHash:      hash,
		Role:              role,
		Status:            UserStatusActive,
	}, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	// bcrypt rejects inputs longer than 72 bytes
	if len(password) > 72 {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the stored password hash
func (u *User) ChangePassword(newPassword string) error {
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// Update updates the user's profile fields
func (u *User) Update(fullName, phone string) error {
	if fullName == "" || len(fullName) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Full name must be 1-200 characters")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	u.FullName = fullName
	u.Phone = phone
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// AssignRole changes the user's role
func (u *User) AssignRole(role Role) error {
	if !IsValidRole(string(role)) {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(role))
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// AssignBranch assigns a staff user to a branch
func (u *User) AssignBranch(branchID uuid.UUID) error {
	if !u.Role.IsStaff() {
		return shared.NewDomainError("INVALID_STATE", "Clients cannot be assigned to a branch")
	}
	u.BranchID = &branchID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// Activate enables a deactivated or locked account
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("INVALID_STATE", "User is already active")
	}
	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// Deactivate disables the account
func (u *User) Deactivate() error {
	if u.Status == UserStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "User is already inactive")
	}
	u.Status = UserStatusInactive
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// Lock locks the account, preventing authentication
func (u *User) Lock() error {
	if u.Status == UserStatusLocked {
		return shared.NewDomainError("INVALID_STATE", "User is already locked")
	}
	u.Status = UserStatusLocked
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// CanAuthenticate reports whether the user may log in
func (u *User) CanAuthenticate() bool {
	return u.Status == UserStatusActive
}

// RecordLogin stamps the last successful login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.UpdatedAt = at
}
