package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/realty/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll finds all users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// FindByRole finds users with the given role
	FindByRole(ctx context.Context, role Role, filter shared.Filter) ([]User, error)

	// FindByBranch finds staff users assigned to a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByRole counts users with the given role
	CountByRole(ctx context.Context, role Role) (int64, error)

	// ExistsByEmail checks if a user with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
