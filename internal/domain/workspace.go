package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Permission is a resolved access level on a workspace. The zero value means
// no access.
type Permission string

const (
	PermissionOwner  Permission = "owner"
	PermissionEditor Permission = "editor"
	PermissionViewer Permission = "viewer"
	PermissionNone   Permission = ""
)

// CanWrite reports whether the permission allows mutations.
func (p Permission) CanWrite() bool {
	return p == PermissionOwner || p == PermissionEditor
}

// CanRead reports whether the permission allows reads.
func (p Permission) CanRead() bool {
	return p != PermissionNone
}

// Workspace is a named container of projects owned by exactly one user
type Workspace struct {
	ID          uuid.UUID `json:"id"`
	OwnerUserID uuid.UUID `json:"owner_user_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultWorkspaceName is created on first login when a user owns no workspace.
const DefaultWorkspaceName = "Default"

// WorkspaceCreate represents workspace creation data
type WorkspaceCreate struct {
	Name string `json:"name" validate:"required,max=255"`
}

// WorkspaceUpdate represents workspace rename data
type WorkspaceUpdate struct {
	Name string `json:"name" validate:"required,max=255"`
}

// WorkspaceShare grants viewer or editor access on a workspace to another user
type WorkspaceShare struct {
	ID              uuid.UUID  `json:"id"`
	WorkspaceID     uuid.UUID  `json:"workspace_id"`
	GranteeUserID   uuid.UUID  `json:"grantee_user_id"`
	GranteeUsername string     `json:"grantee_username,omitempty"`
	Permission      Permission `json:"permission"`
	GrantedByUserID uuid.UUID  `json:"granted_by_user_id"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ShareCreate represents share creation data
type ShareCreate struct {
	GranteeUserID uuid.UUID  `json:"grantee_user_id" validate:"required"`
	Permission    Permission `json:"permission" validate:"required,oneof=viewer editor"`
}

// ShareUpdate represents a permission change on an existing share
type ShareUpdate struct {
	Permission Permission `json:"permission" validate:"required,oneof=viewer editor"`
}

// WorkspaceRepository defines the interface for workspace storage
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *Workspace) error
	GetByID(ctx context.Context, id uuid.UUID) (*Workspace, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Workspace, error)
	ListOwned(ctx context.Context, ownerUserID uuid.UUID) ([]Workspace, error)
	CountOwned(ctx context.Context, ownerUserID uuid.UUID) (int, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	// DeleteCascade removes the workspace, its projects and its shares in a
	// single transaction. Link rows pointing at the workspace are left behind
	// and filtered out by the listing join.
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

// ShareRepository defines the interface for workspace share storage
type ShareRepository interface {
	Create(ctx context.Context, share *WorkspaceShare) error
	GetByID(ctx context.Context, id uuid.UUID) (*WorkspaceShare, error)
	GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*WorkspaceShare, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]WorkspaceShare, error)
	UpdatePermission(ctx context.Context, id uuid.UUID, permission Permission) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) error
}
