package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/realty/backend/internal/domain/identity"
)

// RegisterRequest represents a self-service client registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	FullName string `json:"full_name" binding:"required,min=1,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Phone    string `json:"phone" binding:"max=50"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SSOLoginRequest carries a Clerk session token
type SSOLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest represents a password change for the current user
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// CreateUserRequest represents an admin-side user creation
type CreateUserRequest struct {
	Email    string     `json:"email" binding:"required,email,max=200"`
	FullName string     `json:"full_name" binding:"required,min=1,max=200"`
	Password string     `json:"password" binding:"required,min=8,max=72"`
	Role     string     `json:"role" binding:"required,oneof=ceo manager supervisor hr support agent client"`
	Phone    string     `json:"phone" binding:"max=50"`
	BranchID *uuid.UUID `json:"branch_id"`
}

// UpdateUserRequest represents a profile update
type UpdateUserRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=1,max=200"`
	Phone    *string `json:"phone" binding:"omitempty,max=50"`
}

// AssignRoleRequest changes a user's role
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ceo manager supervisor hr support agent client"`
}

// AssignBranchRequest attaches a staff user to a branch
type AssignBranchRequest struct {
	BranchID uuid.UUID `json:"branch_id" binding:"required"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=ceo manager supervisor hr support agent client"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive locked"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	BranchID    *uuid.UUID `json:"branch_id"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// TokenResponse represents issued tokens plus the authenticated user
type TokenResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// ToUserResponse converts a domain user to its API representation
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		Role:        string(u.Role),
		Status:      string(u.Status),
		BranchID:    u.BranchID,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		Version:     u.Version,
	}
}

// ToUserResponses converts a slice of domain users
func ToUserResponses(users []identity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}
