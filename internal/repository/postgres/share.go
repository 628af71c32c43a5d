package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kestrelhq/trackdeck/internal/domain"
)

// ShareRepository handles workspace share data access
type ShareRepository struct {
	db *DB
}

// NewShareRepository creates a new share repository
func NewShareRepository(db *DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// Create creates a new share grant
func (r *ShareRepository) Create(ctx context.Context, share *domain.WorkspaceShare) error {
	query := `
		INSERT INTO workspace_shares (id, workspace_id, grantee_user_id, permission, granted_by_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		share.ID,
		share.WorkspaceID,
		share.GranteeUserID,
		share.Permission,
		share.GrantedByUserID,
		share.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Message: "workspace already shared with this user"}
		}
		return fmt.Errorf("failed to create share: %w", err)
	}

	return nil
}

// GetByID retrieves a share by ID
func (r *ShareRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkspaceShare, error) {
	query := `
		SELECT s.id, s.workspace_id, s.grantee_user_id, u.username, s.permission, s.granted_by_user_id, s.created_at
		FROM workspace_shares s
		JOIN users u ON u.id = s.grantee_user_id
		WHERE s.id = $1
	`
	return r.scanOne(r.db.Pool.QueryRow(ctx, query, id))
}

// GetByWorkspaceAndUser retrieves the share row for a (workspace, grantee) pair
func (r *ShareRepository) GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceShare, error) {
	query := `
		SELECT s.id, s.workspace_id, s.grantee_user_id, u.username, s.permission, s.granted_by_user_id, s.created_at
		FROM workspace_shares s
		JOIN users u ON u.id = s.grantee_user_id
		WHERE s.workspace_id = $1 AND s.grantee_user_id = $2
	`
	return r.scanOne(r.db.Pool.QueryRow(ctx, query, workspaceID, userID))
}

func (r *ShareRepository) scanOne(row pgx.Row) (*domain.WorkspaceShare, error) {
	var share domain.WorkspaceShare
	err := row.Scan(
		&share.ID,
		&share.WorkspaceID,
		&share.GranteeUserID,
		&share.GranteeUsername,
		&share.Permission,
		&share.GrantedByUserID,
		&share.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get share: %w", err)
	}
	return &share, nil
}

// ListByWorkspace retrieves all shares on a workspace
func (r *ShareRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.WorkspaceShare, error) {
	query := `
		SELECT s.id, s.workspace_id, s.grantee_user_id, u.username, s.permission, s.granted_by_user_id, s.created_at
		FROM workspace_shares s
		JOIN users u ON u.id = s.grantee_user_id
		WHERE s.workspace_id = $1
		ORDER BY s.created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	var shares []domain.WorkspaceShare
	for rows.Next() {
		var share domain.WorkspaceShare
		if err := rows.Scan(
			&share.ID,
			&share.WorkspaceID,
			&share.GranteeUserID,
			&share.GranteeUsername,
			&share.Permission,
			&share.GrantedByUserID,
			&share.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, share)
	}

	return shares, nil
}

// UpdatePermission changes the permission on an existing share
func (r *ShareRepository) UpdatePermission(ctx context.Context, id uuid.UUID, permission domain.Permission) error {
	query := `UPDATE workspace_shares SET permission = $2 WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id, permission)
	if err != nil {
		return fmt.Errorf("failed to update share: %w", err)
	}

	return nil
}

// Delete removes a share by ID
func (r *ShareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM workspace_shares WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete share: %w", err)
	}

	return nil
}

// DeleteByWorkspaceAndUser removes a grantee's own share (leave workspace)
func (r *ShareRepository) DeleteByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) error {
	query := `DELETE FROM workspace_shares WHERE workspace_id = $1 AND grantee_user_id = $2`

	_, err := r.db.Pool.Exec(ctx, query, workspaceID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete share: %w", err)
	}

	return nil
}
