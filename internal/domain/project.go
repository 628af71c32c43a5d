package domain

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Project statuses. Derivation only ever writes StatusComplete and
// StatusBehind; the rest are manual.
const (
	StatusDiscovery = "discovery"
	StatusActive    = "active"
	StatusOnTrack   = "on-track"
	StatusBehind    = "behind"
	StatusOnPause   = "on-pause"
	StatusComplete  = "complete"
)

// Task is a named checklist item on a project
type Task struct {
	Name      string `json:"name" validate:"required"`
	Completed bool   `json:"completed"`
}

// Note is a timestamped free-text annotation on a project
type Note struct {
	Text      string    `json:"text" validate:"required"`
	Timestamp time.Time `json:"timestamp"`
}

// Project is the core tracked entity. It is homed in exactly one workspace;
// links may overlay it into others without duplication.
type Project struct {
	ODID            string     `json:"odid"`
	HomeWorkspaceID uuid.UUID  `json:"home_workspace_id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Owner           string     `json:"owner"`
	Team            string     `json:"team"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	Status          string     `json:"status"`
	Progress        int        `json:"progress"`
	Priority        int        `json:"priority"`
	Tasks           []Task     `json:"tasks"`
	Notes           []Note     `json:"notes"`
	CompletedDate   *time.Time `json:"completed_date,omitempty"`
	LastUpdatedBy   string     `json:"last_updated_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Set on listing rows that reach the workspace through a link.
	IsLinked            bool   `json:"is_linked,omitempty"`
	SourceWorkspaceName string `json:"source_workspace_name,omitempty"`

	// Derived on read, never stored: completed at least seven days ago.
	Finished bool `json:"is_finished"`
}

// ProjectCreate represents project creation data
type ProjectCreate struct {
	WorkspaceID uuid.UUID `json:"workspace_id" validate:"required"`
	Name        string    `json:"name" validate:"required,max=255"`
	Description string    `json:"description"`
	Owner       string    `json:"owner" validate:"required,max=255"`
	Team        string    `json:"team"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	Status      string    `json:"status" validate:"omitempty,oneof=discovery active on-track behind on-pause complete"`
	Progress    int       `json:"progress" validate:"min=0,max=100"`
	Priority    int       `json:"priority" validate:"omitempty,min=1,max=5"`
	Tasks       []Task    `json:"tasks"`
}

// ProjectUpdate represents a full project save. Last write wins; there is no
// field-level merge.
type ProjectUpdate struct {
	Name        string    `json:"name" validate:"required,max=255"`
	Description string    `json:"description"`
	Owner       string    `json:"owner" validate:"required,max=255"`
	Team        string    `json:"team"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	Status      string    `json:"status" validate:"required,oneof=discovery active on-track behind on-pause complete"`
	Progress    int       `json:"progress" validate:"min=0,max=100"`
	Priority    int       `json:"priority" validate:"omitempty,min=1,max=5"`
	Tasks       []Task    `json:"tasks"`
	Notes       []Note    `json:"notes"`
}

// GenerateODID mints an opaque stable project identifier: base36 millisecond
// timestamp plus a base36 random suffix. Never reused.
func GenerateODID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	suffix := strconv.FormatInt(rand.Int63n(1<<47), 36)
	return ts + suffix
}

// ProjectRepository defines the interface for project storage
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetByODID(ctx context.Context, odid string) (*Project, error)
	// ListByWorkspace returns the union of projects homed in the workspace and
	// projects linked into it, the latter annotated with IsLinked and
	// SourceWorkspaceName.
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]Project, error)
	// ListByHome returns only the projects homed in the workspace, without
	// linked rows.
	ListByHome(ctx context.Context, workspaceID uuid.UUID) ([]Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, odid string) error
}
