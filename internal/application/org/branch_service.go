package org

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/org"
	"github.com/realty/backend/internal/domain/shared"
)

// BranchService handles agency branch management
type BranchService struct {
	branchRepo org.BranchRepository
	recorder   audit.Recorder
	logger     *zap.Logger
}

// NewBranchService creates a new branch service
func NewBranchService(branchRepo org.BranchRepository, recorder audit.Recorder, logger *zap.Logger) *BranchService {
	return &BranchService{
		branchRepo: branchRepo,
		recorder:   recorder,
		logger:     logger,
	}
}

// Create opens a branch. Codes are unique across the agency.
func (s *BranchService) Create(ctx context.Context, actor audit.Actor, req CreateBranchRequest) (*BranchResponse, error) {
	branch, err := org.NewBranch(req.Code, req.Name, req.City)
	if err != nil {
		return nil, err
	}

	if _, err := s.branchRepo.FindByCode(ctx, branch.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Branch code already in use: "+branch.Code)
	} else {
		var derr *shared.DomainError
		if !errors.As(err, &derr) || derr.Code != "NOT_FOUND" {
			return nil, err
		}
	}

	branch.Address = req.Address
	branch.Phone = req.Phone
	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "branch.create", "branch", branch.ID.String(),
		fmt.Sprintf(`{"code":%q}`, branch.Code))
	s.logger.Info("Branch opened",
		zap.String("branch_id", branch.ID.String()),
		zap.String("code", branch.Code))

	resp := ToBranchResponse(branch)
	return &resp, nil
}

// GetByID retrieves a branch by ID
func (s *BranchService) GetByID(ctx context.Context, id uuid.UUID) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBranchResponse(branch)
	return &resp, nil
}

// List lists branches with pagination and filters
func (s *BranchService) List(ctx context.Context, filter BranchListFilter) ([]BranchResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}
	if filter.Enabled != nil {
		domainFilter.Filters["enabled"] = *filter.Enabled
	}

	branches, err := s.branchRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.branchRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToBranchResponses(branches), total, nil
}

// Update updates branch contact details
func (s *BranchService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req UpdateBranchRequest) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := branch.Update(req.Name, req.Address, req.City, req.Phone); err != nil {
		return nil, err
	}
	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "branch.update", "branch", id.String(), "")
	resp := ToBranchResponse(branch)
	return &resp, nil
}

// Enable reopens a disabled branch
func (s *BranchService) Enable(ctx context.Context, actor audit.Actor, id uuid.UUID) (*BranchResponse, error) {
	return s.transition(ctx, actor, id, "branch.enable", (*org.Branch).Enable)
}

// Disable closes a branch
func (s *BranchService) Disable(ctx context.Context, actor audit.Actor, id uuid.UUID) (*BranchResponse, error) {
	return s.transition(ctx, actor, id, "branch.disable", (*org.Branch).Disable)
}

func (s *BranchService) transition(ctx context.Context, actor audit.Actor, id uuid.UUID, action string, op func(*org.Branch) error) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(branch); err != nil {
		return nil, err
	}
	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, action, "branch", id.String(), "")
	resp := ToBranchResponse(branch)
	return &resp, nil
}

// SetDefault makes the branch the agency default, clearing the flag
// from the previous default
func (s *BranchService) SetDefault(ctx context.Context, actor audit.Actor, id uuid.UUID) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current, err := s.branchRepo.FindDefault(ctx)
	if err != nil {
		var derr *shared.DomainError
		if !errors.As(err, &derr) || derr.Code != "NOT_FOUND" {
			return nil, err
		}
	} else if current.ID != branch.ID {
		current.UnmarkDefault()
		if err := s.branchRepo.Save(ctx, current); err != nil {
			return nil, err
		}
	}

	if err := branch.MarkDefault(); err != nil {
		return nil, err
	}
	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "branch.set_default", "branch", id.String(), "")
	s.logger.Info("Default branch changed", zap.String("branch_id", id.String()))

	resp := ToBranchResponse(branch)
	return &resp, nil
}
