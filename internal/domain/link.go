package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProjectLink makes a project visible and editable from a second workspace
// without copying its data. A project is never linked to its own home
// workspace.
type ProjectLink struct {
	ID                uuid.UUID `json:"id"`
	ProjectODID       string    `json:"project_odid"`
	TargetWorkspaceID uuid.UUID `json:"target_workspace_id"`
	LinkedByUserID    uuid.UUID `json:"linked_by_user_id"`
	CreatedAt         time.Time `json:"created_at"`

	// Populated on reads for display.
	TargetWorkspaceName string `json:"target_workspace_name,omitempty"`
}

// LinkCreate represents link creation data
type LinkCreate struct {
	WorkspaceID uuid.UUID `json:"workspace_id" validate:"required"`
}

// LinkRepository defines the interface for project link storage
type LinkRepository interface {
	Create(ctx context.Context, link *ProjectLink) error
	Get(ctx context.Context, projectODID string, workspaceID uuid.UUID) (*ProjectLink, error)
	ListByProject(ctx context.Context, projectODID string) ([]ProjectLink, error)
	Delete(ctx context.Context, projectODID string, workspaceID uuid.UUID) error
	DeleteByProject(ctx context.Context, projectODID string) error
}
