package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kestrelhq/trackdeck/internal/domain"
)

// LinkRepository handles project link data access
type LinkRepository struct {
	db *DB
}

// NewLinkRepository creates a new link repository
func NewLinkRepository(db *DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Create creates a new project link
func (r *LinkRepository) Create(ctx context.Context, link *domain.ProjectLink) error {
	query := `
		INSERT INTO project_links (id, project_odid, target_workspace_id, linked_by_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		link.ID,
		link.ProjectODID,
		link.TargetWorkspaceID,
		link.LinkedByUserID,
		link.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Message: "project already linked to this workspace"}
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

// Get retrieves the link for a (project, workspace) pair
func (r *LinkRepository) Get(ctx context.Context, projectODID string, workspaceID uuid.UUID) (*domain.ProjectLink, error) {
	query := `
		SELECT l.id, l.project_odid, l.target_workspace_id, l.linked_by_user_id, l.created_at, w.name
		FROM project_links l
		JOIN workspaces w ON w.id = l.target_workspace_id
		WHERE l.project_odid = $1 AND l.target_workspace_id = $2
	`

	var link domain.ProjectLink
	err := r.db.Pool.QueryRow(ctx, query, projectODID, workspaceID).Scan(
		&link.ID,
		&link.ProjectODID,
		&link.TargetWorkspaceID,
		&link.LinkedByUserID,
		&link.CreatedAt,
		&link.TargetWorkspaceName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &link, nil
}

// ListByProject retrieves all links of a project. Links whose target
// workspace no longer exists are filtered out by the join.
func (r *LinkRepository) ListByProject(ctx context.Context, projectODID string) ([]domain.ProjectLink, error) {
	query := `
		SELECT l.id, l.project_odid, l.target_workspace_id, l.linked_by_user_id, l.created_at, w.name
		FROM project_links l
		JOIN workspaces w ON w.id = l.target_workspace_id
		WHERE l.project_odid = $1
		ORDER BY l.created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, projectODID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []domain.ProjectLink
	for rows.Next() {
		var link domain.ProjectLink
		if err := rows.Scan(
			&link.ID,
			&link.ProjectODID,
			&link.TargetWorkspaceID,
			&link.LinkedByUserID,
			&link.CreatedAt,
			&link.TargetWorkspaceName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	return links, nil
}

// Delete removes the link for a (project, workspace) pair
func (r *LinkRepository) Delete(ctx context.Context, projectODID string, workspaceID uuid.UUID) error {
	query := `DELETE FROM project_links WHERE project_odid = $1 AND target_workspace_id = $2`

	_, err := r.db.Pool.Exec(ctx, query, projectODID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	return nil
}

// DeleteByProject removes all links of a project
func (r *LinkRepository) DeleteByProject(ctx context.Context, projectODID string) error {
	query := `DELETE FROM project_links WHERE project_odid = $1`

	_, err := r.db.Pool.Exec(ctx, query, projectODID)
	if err != nil {
		return fmt.Errorf("failed to delete links: %w", err)
	}

	return nil
}
