package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/identity"
	"github.com/realty/backend/internal/domain/shared"
)

// UserService handles administrative user management
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// Create creates a user with an explicit role
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	user, err := identity.NewUser(req.Email, req.FullName, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if req.Phone != "" {
		if err := user.Update(req.FullName, req.Phone); err != nil {
			return nil, err
		}
	}
	if req.BranchID != nil {
		if err := user.AssignBranch(*req.BranchID); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List lists users with pagination and filters
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}

// Update updates a user's profile fields
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fullName := user.FullName
	if req.FullName != nil {
		fullName = *req.FullName
	}
	phone := user.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	if err := user.Update(fullName, phone); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// AssignRole changes a user's role
func (s *UserService) AssignRole(ctx context.Context, id uuid.UUID, req AssignRoleRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.AssignRole(identity.Role(req.Role)); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Role assigned",
		zap.String("user_id", id.String()),
		zap.String("role", req.Role))

	resp := ToUserResponse(user)
	return &resp, nil
}

// AssignBranch attaches a staff user to a branch
func (s *UserService) AssignBranch(ctx context.Context, id uuid.UUID, req AssignBranchRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.AssignBranch(req.BranchID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// Activate re-enables a user account
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.transition(ctx, id, (*identity.User).Activate)
}

// Deactivate disables a user account
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.transition(ctx, id, (*identity.User).Deactivate)
}

// Lock locks a user account
func (s *UserService) Lock(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.transition(ctx, id, (*identity.User).Lock)
}

func (s *UserService) transition(ctx context.Context, id uuid.UUID, op func(*identity.User) error) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}
