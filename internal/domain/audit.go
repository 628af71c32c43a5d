package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActionKind classifies an audit entry
type ActionKind string

const (
	ActionCreate         ActionKind = "CREATE"
	ActionUpdate         ActionKind = "UPDATE"
	ActionDelete         ActionKind = "DELETE"
	ActionStatusChange   ActionKind = "STATUS_CHANGE"
	ActionProgressUpdate ActionKind = "PROGRESS_UPDATE"
	ActionTimelineChange ActionKind = "TIMELINE_CHANGE"
	ActionNoteAdded      ActionKind = "NOTE_ADDED"
	ActionTaskChange     ActionKind = "TASK_CHANGE"
	ActionReactivate     ActionKind = "REACTIVATE"
	ActionLink           ActionKind = "LINK"
	ActionUnlink         ActionKind = "UNLINK"
)

// AuditEntry is one immutable record of a detected project change. The acting
// username is captured at write time so history survives user renames and
// deletions.
type AuditEntry struct {
	ID             uuid.UUID      `json:"id"`
	ProjectODID    string         `json:"project_odid"`
	ActingUserID   uuid.UUID      `json:"acting_user_id"`
	ActingUsername string         `json:"acting_username"`
	Action         ActionKind     `json:"action"`
	Changes        map[string]any `json:"changes,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}

// AuditRepository defines the interface for the append-only audit log.
// Entries are never updated; deletion of a project leaves its history behind.
type AuditRepository interface {
	Append(ctx context.Context, entry *AuditEntry) error
	// ListByProject returns entries ordered by timestamp descending.
	ListByProject(ctx context.Context, projectODID string) ([]AuditEntry, error)
}
