package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kestrelhq/trackdeck/internal/domain"
	"github.com/rs/zerolog/log"
)

// ProjectService handles project, link and audit operations
type ProjectService struct {
	projectRepo   domain.ProjectRepository
	linkRepo      domain.LinkRepository
	auditRepo     domain.AuditRepository
	workspaceRepo domain.WorkspaceRepository
	workspaces    *WorkspaceService
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo domain.ProjectRepository,
	linkRepo domain.LinkRepository,
	auditRepo domain.AuditRepository,
	workspaceRepo domain.WorkspaceRepository,
	workspaces *WorkspaceService,
) *ProjectService {
	return &ProjectService{
		projectRepo:   projectRepo,
		linkRepo:      linkRepo,
		auditRepo:     auditRepo,
		workspaceRepo: workspaceRepo,
		workspaces:    workspaces,
	}
}

// ListByWorkspace returns the projects visible in a workspace: those homed
// there plus those linked into it. Status derivation runs on every row
// without being persisted.
func (s *ProjectService) ListByWorkspace(ctx context.Context, actor domain.Actor, workspaceID uuid.UUID) ([]domain.Project, error) {
	if _, err := s.workspaces.RequirePermission(ctx, workspaceID, actor.ID, domain.PermissionViewer); err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range projects {
		domain.Derive(&projects[i], now)
		projects[i].Finished = domain.IsFinished(&projects[i], now)
	}

	return projects, nil
}

// Get retrieves a single project the actor can read, with derivation applied
func (s *ProjectService) Get(ctx context.Context, actor domain.Actor, odid string) (*domain.Project, error) {
	project, err := s.loadProject(ctx, odid)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireProjectPermission(ctx, project, actor, domain.PermissionViewer); err != nil {
		return nil, err
	}

	now := time.Now()
	domain.Derive(project, now)
	project.Finished = domain.IsFinished(project, now)
	return project, nil
}

// Create creates a project homed in the given workspace (editor or owner)
func (s *ProjectService) Create(ctx context.Context, actor domain.Actor, input domain.ProjectCreate) (*domain.Project, error) {
	if _, err := s.workspaces.RequirePermission(ctx, input.WorkspaceID, actor.ID, domain.PermissionEditor); err != nil {
		return nil, err
	}

	now := time.Now()
	project := &domain.Project{
		ODID:            domain.GenerateODID(),
		HomeWorkspaceID: input.WorkspaceID,
		Name:            input.Name,
		Description:     input.Description,
		Owner:           input.Owner,
		Team:            input.Team,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Status:          input.Status,
		Progress:        input.Progress,
		Priority:        input.Priority,
		Tasks:           input.Tasks,
		Notes:           []domain.Note{},
		LastUpdatedBy:   actor.Username,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if project.Status == "" {
		project.Status = domain.StatusActive
	}
	if project.Priority == 0 {
		project.Priority = 3
	}
	if project.Tasks == nil {
		project.Tasks = []domain.Task{}
	}
	domain.Derive(project, now)

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.audit(ctx, project.ODID, actor, domain.ActionCreate, map[string]any{
		"name": project.Name,
	})

	return project, nil
}

// Update saves a full project state. The incoming payload is derived, diffed
// against the stored row into audit entries, and written last-write-wins.
// Edits through a linked workspace hit the same underlying row.
func (s *ProjectService) Update(ctx context.Context, actor domain.Actor, odid string, input domain.ProjectUpdate) (*domain.Project, error) {
	old, err := s.loadProject(ctx, odid)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireProjectPermission(ctx, old, actor, domain.PermissionEditor); err != nil {
		return nil, err
	}

	now := time.Now()
	updated := *old
	updated.Name = input.Name
	updated.Description = input.Description
	updated.Owner = input.Owner
	updated.Team = input.Team
	updated.StartDate = input.StartDate
	updated.EndDate = input.EndDate
	updated.Status = input.Status
	updated.Progress = input.Progress
	updated.Tasks = input.Tasks
	updated.Notes = input.Notes
	updated.LastUpdatedBy = actor.Username
	updated.UpdatedAt = now
	updated.Priority = input.Priority
	if updated.Priority == 0 {
		updated.Priority = 3
	}
	if updated.Tasks == nil {
		updated.Tasks = []domain.Task{}
	}
	if updated.Notes == nil {
		updated.Notes = []domain.Note{}
	}
	// A manual move away from complete drops the completion timestamp before
	// derivation decides whether to re-stamp it.
	if old.Status == domain.StatusComplete && input.Status != domain.StatusComplete {
		updated.CompletedDate = nil
	}
	domain.Derive(&updated, now)

	changes := domain.DetectChanges(old, &updated)

	if err := s.projectRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	for _, c := range changes {
		s.audit(ctx, odid, actor, c.Action, c.Changes)
	}

	updated.Finished = domain.IsFinished(&updated, now)
	return &updated, nil
}

// Delete removes a project. The DELETE audit entry is written before the row
// goes away; audit history is the only place the change record survives.
func (s *ProjectService) Delete(ctx context.Context, actor domain.Actor, odid string) error {
	project, err := s.loadProject(ctx, odid)
	if err != nil {
		return err
	}
	if _, err := s.requireProjectPermission(ctx, project, actor, domain.PermissionEditor); err != nil {
		return err
	}

	s.audit(ctx, odid, actor, domain.ActionDelete, map[string]any{
		"name": project.Name,
	})

	return s.projectRepo.Delete(ctx, odid)
}

// Link makes a project visible in another workspace. The actor needs read
// access on the home workspace and write access on the target.
func (s *ProjectService) Link(ctx context.Context, actor domain.Actor, odid string, targetWorkspaceID uuid.UUID) (*domain.ProjectLink, error) {
	project, err := s.loadProject(ctx, odid)
	if err != nil {
		return nil, err
	}

	if _, err := s.workspaces.RequirePermission(ctx, project.HomeWorkspaceID, actor.ID, domain.PermissionViewer); err != nil {
		return nil, err
	}
	if _, err := s.workspaces.RequirePermission(ctx, targetWorkspaceID, actor.ID, domain.PermissionEditor); err != nil {
		return nil, err
	}

	if targetWorkspaceID == project.HomeWorkspaceID {
		return nil, &domain.ConflictError{Message: "project already belongs to this workspace"}
	}

	target, err := s.workspaceRepo.GetByID(ctx, targetWorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if target == nil {
		return nil, &domain.NotFoundError{Resource: "workspace"}
	}

	link := &domain.ProjectLink{
		ID:                  uuid.New(),
		ProjectODID:         odid,
		TargetWorkspaceID:   targetWorkspaceID,
		LinkedByUserID:      actor.ID,
		CreatedAt:           time.Now(),
		TargetWorkspaceName: target.Name,
	}

	if err := s.linkRepo.Create(ctx, link); err != nil {
		return nil, err
	}

	s.audit(ctx, odid, actor, domain.ActionLink, map[string]any{
		"workspace": target.Name,
	})

	return link, nil
}

// Unlink removes a project from a workspace it was linked into. Authorization
// is checked on the workspace being unlinked from, not the home: a workspace
// may shed a sync it received without rights on the origin.
func (s *ProjectService) Unlink(ctx context.Context, actor domain.Actor, odid string, workspaceID uuid.UUID) error {
	if _, err := s.workspaces.RequirePermission(ctx, workspaceID, actor.ID, domain.PermissionEditor); err != nil {
		return err
	}

	link, err := s.linkRepo.Get(ctx, odid, workspaceID)
	if err != nil {
		return err
	}
	if link == nil {
		return &domain.NotFoundError{Resource: "link"}
	}

	if err := s.linkRepo.Delete(ctx, odid, workspaceID); err != nil {
		return err
	}

	s.audit(ctx, odid, actor, domain.ActionUnlink, map[string]any{
		"workspace": link.TargetWorkspaceName,
	})

	return nil
}

// ListLinks retrieves the links of a project the actor can read
func (s *ProjectService) ListLinks(ctx context.Context, actor domain.Actor, odid string) ([]domain.ProjectLink, error) {
	project, err := s.loadProject(ctx, odid)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireProjectPermission(ctx, project, actor, domain.PermissionViewer); err != nil {
		return nil, err
	}

	return s.linkRepo.ListByProject(ctx, odid)
}

// AuditTrail retrieves a project's audit entries, newest first
func (s *ProjectService) AuditTrail(ctx context.Context, actor domain.Actor, odid string) ([]domain.AuditEntry, error) {
	project, err := s.loadProject(ctx, odid)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireProjectPermission(ctx, project, actor, domain.PermissionViewer); err != nil {
		return nil, err
	}

	return s.auditRepo.ListByProject(ctx, odid)
}

func (s *ProjectService) loadProject(ctx context.Context, odid string) (*domain.Project, error) {
	project, err := s.projectRepo.GetByODID(ctx, odid)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, &domain.NotFoundError{Resource: "project"}
	}
	return project, nil
}

// requireProjectPermission resolves the actor's best permission on a project
// across its home workspace and every workspace it is linked into. Linked and
// native access carry identical mutation semantics.
func (s *ProjectService) requireProjectPermission(ctx context.Context, project *domain.Project, actor domain.Actor, required domain.Permission) (domain.Permission, error) {
	best, err := s.workspaces.ResolvePermission(ctx, project.HomeWorkspaceID, actor.ID)
	if err != nil {
		return domain.PermissionNone, err
	}

	if best != domain.PermissionOwner {
		links, err := s.linkRepo.ListByProject(ctx, project.ODID)
		if err != nil {
			return domain.PermissionNone, err
		}
		for _, link := range links {
			perm, err := s.workspaces.ResolvePermission(ctx, link.TargetWorkspaceID, actor.ID)
			if err != nil {
				// A dangling link reads as absent, not as an error.
				continue
			}
			best = betterPermission(best, perm)
			if best == domain.PermissionOwner {
				break
			}
		}
	}

	ok := false
	switch required {
	case domain.PermissionOwner:
		ok = best == domain.PermissionOwner
	case domain.PermissionEditor:
		ok = best.CanWrite()
	case domain.PermissionViewer:
		ok = best.CanRead()
	}
	if !ok {
		return best, &domain.PermissionError{Required: required, Actual: best}
	}

	return best, nil
}

func betterPermission(a, b domain.Permission) domain.Permission {
	rank := map[domain.Permission]int{
		domain.PermissionNone:   0,
		domain.PermissionViewer: 1,
		domain.PermissionEditor: 2,
		domain.PermissionOwner:  3,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// audit appends one entry, logging and swallowing failures: a failed audit
// write must never fail the user-facing request.
func (s *ProjectService) audit(ctx context.Context, odid string, actor domain.Actor, action domain.ActionKind, changes map[string]any) {
	recordAudit(ctx, s.auditRepo, odid, actor, action, changes)
}

func recordAudit(ctx context.Context, auditRepo domain.AuditRepository, odid string, actor domain.Actor, action domain.ActionKind, changes map[string]any) {
	entry := &domain.AuditEntry{
		ID:             uuid.New(),
		ProjectODID:    odid,
		ActingUserID:   actor.ID,
		ActingUsername: actor.Username,
		Action:         action,
		Changes:        changes,
		Timestamp:      time.Now(),
	}
	if err := auditRepo.Append(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("project_odid", odid).
			Str("action", string(action)).
			Msg("Failed to write audit entry")
	}
}
