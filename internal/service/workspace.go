package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kestrelhq/trackdeck/internal/domain"
)

// WorkspaceService handles workspace and sharing operations, including
// permission resolution for every workspace-scoped request.
type WorkspaceService struct {
	workspaceRepo domain.WorkspaceRepository
	shareRepo     domain.ShareRepository
	userRepo      domain.UserRepository
	projectRepo   domain.ProjectRepository
	auditRepo     domain.AuditRepository
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(
	workspaceRepo domain.WorkspaceRepository,
	shareRepo domain.ShareRepository,
	userRepo domain.UserRepository,
	projectRepo domain.ProjectRepository,
	auditRepo domain.AuditRepository,
) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		shareRepo:     shareRepo,
		userRepo:      userRepo,
		projectRepo:   projectRepo,
		auditRepo:     auditRepo,
	}
}

// ResolvePermission resolves a user's effective permission on a workspace:
// owner if they own it, otherwise the permission of their share grant,
// otherwise none. Returns NotFoundError when the workspace does not exist.
func (s *WorkspaceService) ResolvePermission(ctx context.Context, workspaceID, userID uuid.UUID) (domain.Permission, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return domain.PermissionNone, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return domain.PermissionNone, &domain.NotFoundError{Resource: "workspace"}
	}

	if workspace.OwnerUserID == userID {
		return domain.PermissionOwner, nil
	}

	share, err := s.shareRepo.GetByWorkspaceAndUser(ctx, workspaceID, userID)
	if err != nil {
		return domain.PermissionNone, fmt.Errorf("failed to get share: %w", err)
	}
	if share == nil {
		return domain.PermissionNone, nil
	}

	return share.Permission, nil
}

// RequirePermission resolves the caller's permission and rejects the request
// when it falls short. Viewers attempting writes get a permission error,
// never a silent downgrade.
func (s *WorkspaceService) RequirePermission(ctx context.Context, workspaceID, userID uuid.UUID, required domain.Permission) (domain.Permission, error) {
	actual, err := s.ResolvePermission(ctx, workspaceID, userID)
	if err != nil {
		return domain.PermissionNone, err
	}

	ok := false
	switch required {
	case domain.PermissionOwner:
		ok = actual == domain.PermissionOwner
	case domain.PermissionEditor:
		ok = actual.CanWrite()
	case domain.PermissionViewer:
		ok = actual.CanRead()
	}
	if !ok {
		return actual, &domain.PermissionError{Required: required, Actual: actual}
	}

	return actual, nil
}

// Create creates a workspace owned by the caller
func (s *WorkspaceService) Create(ctx context.Context, userID uuid.UUID, input domain.WorkspaceCreate) (*domain.Workspace, error) {
	now := time.Now()
	workspace := &domain.Workspace{
		ID:          uuid.New(),
		OwnerUserID: userID,
		Name:        input.Name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	return workspace, nil
}

// GetByID retrieves a workspace the caller can read
func (s *WorkspaceService) GetByID(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error) {
	if _, err := s.RequirePermission(ctx, workspaceID, userID, domain.PermissionViewer); err != nil {
		return nil, err
	}
	return s.workspaceRepo.GetByID(ctx, workspaceID)
}

// ListByUser retrieves all workspaces visible to the caller, owned or shared
func (s *WorkspaceService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	workspaces, err := s.workspaceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// ListLinkable returns workspaces the caller could link a project into:
// every workspace where they hold editor or owner permission, minus the
// excluded (home) workspace.
func (s *WorkspaceService) ListLinkable(ctx context.Context, userID, exclude uuid.UUID) ([]domain.Workspace, error) {
	workspaces, err := s.workspaceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	var linkable []domain.Workspace
	for _, w := range workspaces {
		if w.ID == exclude {
			continue
		}
		perm, err := s.ResolvePermission(ctx, w.ID, userID)
		if err != nil {
			return nil, err
		}
		if perm.CanWrite() {
			linkable = append(linkable, w)
		}
	}

	return linkable, nil
}

// Rename renames a workspace (owner only)
func (s *WorkspaceService) Rename(ctx context.Context, userID, workspaceID uuid.UUID, input domain.WorkspaceUpdate) (*domain.Workspace, error) {
	if _, err := s.RequirePermission(ctx, workspaceID, userID, domain.PermissionOwner); err != nil {
		return nil, err
	}

	if err := s.workspaceRepo.Rename(ctx, workspaceID, input.Name); err != nil {
		return nil, fmt.Errorf("failed to rename workspace: %w", err)
	}

	return s.workspaceRepo.GetByID(ctx, workspaceID)
}

// Delete removes a workspace and everything homed in it (owner only).
// Deleting the caller's only owned workspace is rejected so projects always
// retain a possible home. Each project destroyed by the cascade gets its own
// DELETE audit entry before the rows go away.
func (s *WorkspaceService) Delete(ctx context.Context, actor domain.Actor, workspaceID uuid.UUID) error {
	if _, err := s.RequirePermission(ctx, workspaceID, actor.ID, domain.PermissionOwner); err != nil {
		return err
	}

	count, err := s.workspaceRepo.CountOwned(ctx, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to count workspaces: %w", err)
	}
	if count <= 1 {
		return &domain.ValidationError{Message: "cannot delete your only workspace"}
	}

	homed, err := s.projectRepo.ListByHome(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}
	for _, project := range homed {
		recordAudit(ctx, s.auditRepo, project.ODID, actor, domain.ActionDelete, map[string]any{
			"name": project.Name,
		})
	}

	return s.workspaceRepo.DeleteCascade(ctx, workspaceID)
}

// Share grants viewer or editor access on a workspace to another user
// (owner only). Self-shares and duplicate grants are rejected.
func (s *WorkspaceService) Share(ctx context.Context, userID, workspaceID uuid.UUID, input domain.ShareCreate) (*domain.WorkspaceShare, error) {
	if _, err := s.RequirePermission(ctx, workspaceID, userID, domain.PermissionOwner); err != nil {
		return nil, err
	}

	if input.GranteeUserID == userID {
		return nil, &domain.ValidationError{Message: "cannot share a workspace with yourself"}
	}

	grantee, err := s.userRepo.GetByID(ctx, input.GranteeUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get grantee: %w", err)
	}
	if grantee == nil {
		return nil, &domain.NotFoundError{Resource: "user"}
	}

	share := &domain.WorkspaceShare{
		ID:              uuid.New(),
		WorkspaceID:     workspaceID,
		GranteeUserID:   input.GranteeUserID,
		GranteeUsername: grantee.Username,
		Permission:      input.Permission,
		GrantedByUserID: userID,
		CreatedAt:       time.Now(),
	}

	if err := s.shareRepo.Create(ctx, share); err != nil {
		return nil, err
	}

	return share, nil
}

// ListShares retrieves the shares on a workspace (any member can look)
func (s *WorkspaceService) ListShares(ctx context.Context, userID, workspaceID uuid.UUID) ([]domain.WorkspaceShare, error) {
	if _, err := s.RequirePermission(ctx, workspaceID, userID, domain.PermissionViewer); err != nil {
		return nil, err
	}
	return s.shareRepo.ListByWorkspace(ctx, workspaceID)
}

// UpdateShare changes the permission on an existing share (owner only)
func (s *WorkspaceService) UpdateShare(ctx context.Context, userID, workspaceID, shareID uuid.UUID, input domain.ShareUpdate) (*domain.WorkspaceShare, error) {
	if _, err := s.RequirePermission(ctx, workspaceID, userID, domain.PermissionOwner); err != nil {
		return nil, err
	}

	share, err := s.shareRepo.GetByID(ctx, shareID)
	if err != nil {
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	if share == nil || share.WorkspaceID != workspaceID {
		return nil, &domain.NotFoundError{Resource: "share"}
	}

	if err := s.shareRepo.UpdatePermission(ctx, shareID, input.Permission); err != nil {
		return nil, err
	}

	share.Permission = input.Permission
	return share, nil
}

// RemoveShare revokes a share (owner only)
func (s *WorkspaceService) RemoveShare(ctx context.Context, userID, workspaceID, shareID uuid.UUID) error {
	if _, err := s.RequirePermission(ctx, workspaceID, userID, domain.PermissionOwner); err != nil {
		return err
	}

	share, err := s.shareRepo.GetByID(ctx, shareID)
	if err != nil {
		return fmt.Errorf("failed to get share: %w", err)
	}
	if share == nil || share.WorkspaceID != workspaceID {
		return &domain.NotFoundError{Resource: "share"}
	}

	return s.shareRepo.Delete(ctx, shareID)
}

// Leave lets a grantee remove their own share. Ownership is unaffected;
// owners cannot leave their own workspace.
func (s *WorkspaceService) Leave(ctx context.Context, userID, workspaceID uuid.UUID) error {
	share, err := s.shareRepo.GetByWorkspaceAndUser(ctx, workspaceID, userID)
	if err != nil {
		return fmt.Errorf("failed to get share: %w", err)
	}
	if share == nil {
		return &domain.NotFoundError{Resource: "share"}
	}

	return s.shareRepo.DeleteByWorkspaceAndUser(ctx, workspaceID, userID)
}
