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

// ProjectRepository handles project data access
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `odid, home_workspace_id, name, description, owner, team,
	start_date, end_date, status, progress, priority, tasks, notes,
	completed_date, last_updated_by, created_at, updated_at`

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	tasks, notes, err := marshalSubEntities(project)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		project.ODID,
		project.HomeWorkspaceID,
		project.Name,
		project.Description,
		project.Owner,
		project.Team,
		project.StartDate,
		project.EndDate,
		project.Status,
		project.Progress,
		project.Priority,
		tasks,
		notes,
		project.CompletedDate,
		project.LastUpdatedBy,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetByODID retrieves a project by its external identifier
func (r *ProjectRepository) GetByODID(ctx context.Context, odid string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE odid = $1`

	project, err := scanProject(r.db.Pool.QueryRow(ctx, query, odid))
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ListByWorkspace returns the union of projects homed in the workspace and
// projects linked into it. Linked rows carry the home workspace's name and
// only surface while both the project and its home workspace still exist.
func (r *ProjectRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Project, error) {
	query := `
		SELECT p.odid, p.home_workspace_id, p.name, p.description, p.owner, p.team,
			p.start_date, p.end_date, p.status, p.progress, p.priority, p.tasks, p.notes,
			p.completed_date, p.last_updated_by, p.created_at, p.updated_at,
			false AS is_linked, '' AS source_workspace_name
		FROM projects p
		WHERE p.home_workspace_id = $1
		UNION ALL
		SELECT p.odid, p.home_workspace_id, p.name, p.description, p.owner, p.team,
			p.start_date, p.end_date, p.status, p.progress, p.priority, p.tasks, p.notes,
			p.completed_date, p.last_updated_by, p.created_at, p.updated_at,
			true AS is_linked, w.name AS source_workspace_name
		FROM project_links l
		JOIN projects p ON p.odid = l.project_odid
		JOIN workspaces w ON w.id = p.home_workspace_id
		WHERE l.target_workspace_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var project domain.Project
		var tasksJSON, notesJSON []byte
		if err := rows.Scan(
			&project.ODID,
			&project.HomeWorkspaceID,
			&project.Name,
			&project.Description,
			&project.Owner,
			&project.Team,
			&project.StartDate,
			&project.EndDate,
			&project.Status,
			&project.Progress,
			&project.Priority,
			&tasksJSON,
			&notesJSON,
			&project.CompletedDate,
			&project.LastUpdatedBy,
			&project.CreatedAt,
			&project.UpdatedAt,
			&project.IsLinked,
			&project.SourceWorkspaceName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		if err := unmarshalSubEntities(&project, tasksJSON, notesJSON); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, nil
}

// ListByHome returns only the projects homed in the workspace
func (r *ProjectRepository) ListByHome(ctx context.Context, workspaceID uuid.UUID) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE home_workspace_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var project domain.Project
		var tasksJSON, notesJSON []byte
		if err := rows.Scan(
			&project.ODID,
			&project.HomeWorkspaceID,
			&project.Name,
			&project.Description,
			&project.Owner,
			&project.Team,
			&project.StartDate,
			&project.EndDate,
			&project.Status,
			&project.Progress,
			&project.Priority,
			&tasksJSON,
			&notesJSON,
			&project.CompletedDate,
			&project.LastUpdatedBy,
			&project.CreatedAt,
			&project.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		if err := unmarshalSubEntities(&project, tasksJSON, notesJSON); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, nil
}

// Update saves a full project row. Last write wins.
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	tasks, notes, err := marshalSubEntities(project)
	if err != nil {
		return err
	}

	query := `
		UPDATE projects
		SET name = $2, description = $3, owner = $4, team = $5,
		    start_date = $6, end_date = $7, status = $8, progress = $9,
		    priority = $10, tasks = $11, notes = $12, completed_date = $13,
		    last_updated_by = $14, updated_at = NOW()
		WHERE odid = $1
	`

	_, err = r.db.Pool.Exec(ctx, query,
		project.ODID,
		project.Name,
		project.Description,
		project.Owner,
		project.Team,
		project.StartDate,
		project.EndDate,
		project.Status,
		project.Progress,
		project.Priority,
		tasks,
		notes,
		project.CompletedDate,
		project.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	return nil
}

// Delete removes a project and its links. Audit entries are not touched;
// history outlives the row.
func (r *ProjectRepository) Delete(ctx context.Context, odid string) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM project_links WHERE project_odid = $1`, odid); err != nil {
		return fmt.Errorf("failed to delete project links: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE odid = $1`, odid); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return tx.Commit(ctx)
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	var tasksJSON, notesJSON []byte
	err := row.Scan(
		&project.ODID,
		&project.HomeWorkspaceID,
		&project.Name,
		&project.Description,
		&project.Owner,
		&project.Team,
		&project.StartDate,
		&project.EndDate,
		&project.Status,
		&project.Progress,
		&project.Priority,
		&tasksJSON,
		&notesJSON,
		&project.CompletedDate,
		&project.LastUpdatedBy,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if err := unmarshalSubEntities(&project, tasksJSON, notesJSON); err != nil {
		return nil, err
	}
	return &project, nil
}

func marshalSubEntities(project *domain.Project) (tasks, notes []byte, err error) {
	tasks, err = json.Marshal(project.Tasks)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal tasks: %w", err)
	}
	notes, err = json.Marshal(project.Notes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal notes: %w", err)
	}
	return tasks, notes, nil
}

func unmarshalSubEntities(project *domain.Project, tasksJSON, notesJSON []byte) error {
	if len(tasksJSON) > 0 {
		if err := json.Unmarshal(tasksJSON, &project.Tasks); err != nil {
			return fmt.Errorf("failed to unmarshal tasks: %w", err)
		}
	}
	if len(notesJSON) > 0 {
		if err := json.Unmarshal(notesJSON, &project.Notes); err != nil {
			return fmt.Errorf("failed to unmarshal notes: %w", err)
		}
	}
	return nil
}
