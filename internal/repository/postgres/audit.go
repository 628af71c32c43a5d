package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kestrelhq/trackdeck/internal/domain"
)

// AuditRepository handles the append-only audit log
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append writes one audit entry. Entries are never updated or deleted;
// project deletion leaves its history behind, keyed by an odid that is
// never reused.
func (r *AuditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	changes, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("failed to marshal changes: %w", err)
	}

	query := `
		INSERT INTO audit_entries (id, project_odid, acting_user_id, acting_username, action, changes, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		entry.ID,
		entry.ProjectODID,
		entry.ActingUserID,
		entry.ActingUsername,
		entry.Action,
		changes,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return nil
}

// ListByProject retrieves a project's audit entries, newest first
func (r *AuditRepository) ListByProject(ctx context.Context, projectODID string) ([]domain.AuditEntry, error) {
	query := `
		SELECT id, project_odid, acting_user_id, acting_username, action, changes, timestamp
		FROM audit_entries
		WHERE project_odid = $1
		ORDER BY timestamp DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, projectODID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var changesJSON []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.ProjectODID,
			&entry.ActingUserID,
			&entry.ActingUsername,
			&entry.Action,
			&changesJSON,
			&entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if len(changesJSON) > 0 {
			if err := json.Unmarshal(changesJSON, &entry.Changes); err != nil {
				return nil, fmt.Errorf("failed to unmarshal changes: %w", err)
			}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
