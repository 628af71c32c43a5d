package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kestrelhq/trackdeck/internal/domain"
)

// WorkspaceRepository handles workspace data access
type WorkspaceRepository struct {
	db *DB
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Create creates a new workspace
func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	query := `
		INSERT INTO workspaces (id, owner_user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		workspace.ID,
		workspace.OwnerUserID,
		workspace.Name,
		workspace.CreatedAt,
		workspace.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	return nil
}

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	query := `
		SELECT id, owner_user_id, name, created_at, updated_at
		FROM workspaces
		WHERE id = $1
	`

	var workspace domain.Workspace
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&workspace.ID,
		&workspace.OwnerUserID,
		&workspace.Name,
		&workspace.CreatedAt,
		&workspace.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	return &workspace, nil
}

// ListByUser retrieves all workspaces a user owns or has been granted access to
func (r *WorkspaceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	query := `
		SELECT DISTINCT w.id, w.owner_user_id, w.name, w.created_at, w.updated_at
		FROM workspaces w
		LEFT JOIN workspace_shares ws ON w.id = ws.workspace_id
		WHERE w.owner_user_id = $1 OR ws.grantee_user_id = $1
		ORDER BY w.created_at
	`
	return r.list(ctx, query, userID)
}

// ListOwned retrieves the workspaces owned by a user
func (r *WorkspaceRepository) ListOwned(ctx context.Context, ownerUserID uuid.UUID) ([]domain.Workspace, error) {
	query := `
		SELECT id, owner_user_id, name, created_at, updated_at
		FROM workspaces
		WHERE owner_user_id = $1
		ORDER BY created_at
	`
	return r.list(ctx, query, ownerUserID)
}

func (r *WorkspaceRepository) list(ctx context.Context, query string, args ...any) ([]domain.Workspace, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []domain.Workspace
	for rows.Next() {
		var workspace domain.Workspace
		if err := rows.Scan(
			&workspace.ID,
			&workspace.OwnerUserID,
			&workspace.Name,
			&workspace.CreatedAt,
			&workspace.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, workspace)
	}

	return workspaces, nil
}

// CountOwned returns how many workspaces a user owns
func (r *WorkspaceRepository) CountOwned(ctx context.Context, ownerUserID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM workspaces WHERE owner_user_id = $1`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, ownerUserID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count workspaces: %w", err)
	}

	return count, nil
}

// Rename updates a workspace name
func (r *WorkspaceRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	query := `UPDATE workspaces SET name = $2, updated_at = NOW() WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id, name)
	if err != nil {
		return fmt.Errorf("failed to rename workspace: %w", err)
	}

	return nil
}

// DeleteCascade removes the workspace, the projects homed in it and its
// shares in one transaction. Link rows that point at the deleted workspace
// are deliberately left in place; the listing join filters them out.
func (r *WorkspaceRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	statements := []string{
		`DELETE FROM project_links WHERE project_odid IN (SELECT odid FROM projects WHERE home_workspace_id = $1)`,
		`DELETE FROM projects WHERE home_workspace_id = $1`,
		`DELETE FROM workspace_shares WHERE workspace_id = $1`,
		`DELETE FROM workspaces WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete workspace: %w", err)
		}
	}

	return tx.Commit(ctx)
}
