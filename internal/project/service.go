package project

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wirasatya/business-management/internal"
	"github.com/wirasatya/business-management/internal/auth"
	"github.com/wirasatya/business-management/internal/rbac"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	Create(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id string) error
}

// Service applies the authorization contract to project storage: every
// mutation passes a guard, every listing passes the access filter.
type Service struct {
	repo   Repository
	guard  *auth.Guard
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, guard *auth.Guard, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		guard:  guard,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateProjectDTO) (*Project, error) {
	identity, err := s.guard.RequirePermission(ctx, rbac.PermProjectsCreate)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	proj := &Project{
		ID:          uuid.NewString(),
		Name:        dto.Name,
		Description: dto.Description,
		Status:      StatusActive,
		CreatedBy:   identity.ID,
		TeamIDs:     dto.TeamIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, proj); err != nil {
		return nil, internal.NewInternalError("failed to create project", err)
	}

	s.logger.Info("project created", "project_id", proj.ID, "user_id", identity.ID)
	return proj, nil
}

// List returns every project the caller may see. The query itself only
// needs authentication; visibility is decided row by row.
func (s *Service) List(ctx context.Context) ([]*Project, error) {
	identity, err := s.guard.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list projects", err)
	}

	return auth.FilterAccessible(identity, projects, rbac.PermProjectsView), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.guard.RequireTeamMemberOrPermission(ctx, append(proj.TeamIDs, proj.CreatedBy), rbac.PermProjectsView); err != nil {
		return nil, err
	}
	return proj, nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateProjectDTO) (*Project, error) {
	proj, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	identity, err := s.guard.RequireOwnershipOrPermission(ctx, proj.CreatedBy, rbac.PermProjectsEdit)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.Name != nil {
		proj.Name = *dto.Name
	}
	if dto.Description != nil {
		proj.Description = *dto.Description
	}
	if dto.Status != nil {
		proj.Status = *dto.Status
	}
	if dto.TeamIDs != nil {
		proj.TeamIDs = dto.TeamIDs
	}
	proj.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, proj); err != nil {
		return nil, internal.NewInternalError("failed to update project", err)
	}

	s.logger.Info("project updated", "project_id", proj.ID, "user_id", identity.ID)
	return proj, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	identity, err := s.guard.RequirePermission(ctx, rbac.PermProjectsDelete)
	if err != nil {
		return err
	}

	proj, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, proj.ID); err != nil {
		return internal.NewInternalError("failed to delete project", err)
	}

	s.logger.Info("project deleted", "project_id", proj.ID, "user_id", identity.ID)
	return nil
}

func (s *Service) find(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up project", err)
	}
	if proj == nil {
		return nil, internal.ErrProjectNotFound
	}
	return proj, nil
}
