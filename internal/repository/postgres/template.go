package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kestrelhq/trackdeck/internal/domain"
)

// TemplateRepository handles project template data access
type TemplateRepository struct {
	db *DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create creates a new template
func (r *TemplateRepository) Create(ctx context.Context, template *domain.ProjectTemplate) error {
	tasks, err := json.Marshal(template.Tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}

	query := `
		INSERT INTO project_templates (id, name, description, tasks, owner_user_id, is_global, created_by_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		template.ID,
		template.Name,
		template.Description,
		tasks,
		template.OwnerUserID,
		template.IsGlobal,
		template.CreatedByUserID,
		template.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

// GetByID retrieves a template by ID
func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectTemplate, error) {
	query := `
		SELECT id, name, description, tasks, owner_user_id, is_global, created_by_user_id, created_at
		FROM project_templates
		WHERE id = $1
	`

	var template domain.ProjectTemplate
	var tasksJSON []byte
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&template.ID,
		&template.Name,
		&template.Description,
		&tasksJSON,
		&template.OwnerUserID,
		&template.IsGlobal,
		&template.CreatedByUserID,
		&template.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	if len(tasksJSON) > 0 {
		if err := json.Unmarshal(tasksJSON, &template.Tasks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tasks: %w", err)
		}
	}

	return &template, nil
}

// ListVisible retrieves global templates plus the user's own
func (r *TemplateRepository) ListVisible(ctx context.Context, userID uuid.UUID) ([]domain.ProjectTemplate, error) {
	query := `
		SELECT id, name, description, tasks, owner_user_id, is_global, created_by_user_id, created_at
		FROM project_templates
		WHERE is_global OR owner_user_id = $1
		ORDER BY is_global DESC, created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.ProjectTemplate
	for rows.Next() {
		var template domain.ProjectTemplate
		var tasksJSON []byte
		if err := rows.Scan(
			&template.ID,
			&template.Name,
			&template.Description,
			&tasksJSON,
			&template.OwnerUserID,
			&template.IsGlobal,
			&template.CreatedByUserID,
			&template.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		if len(tasksJSON) > 0 {
			if err := json.Unmarshal(tasksJSON, &template.Tasks); err != nil {
				return nil, fmt.Errorf("failed to unmarshal tasks: %w", err)
			}
		}
		templates = append(templates, template)
	}

	return templates, nil
}

// Update saves a template
func (r *TemplateRepository) Update(ctx context.Context, template *domain.ProjectTemplate) error {
	tasks, err := json.Marshal(template.Tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}

	query := `
		UPDATE project_templates
		SET name = $2, description = $3, tasks = $4
		WHERE id = $1
	`

	_, err = r.db.Pool.Exec(ctx, query, template.ID, template.Name, template.Description, tasks)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	return nil
}

// Delete removes a template
func (r *TemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM project_templates WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	return nil
}
