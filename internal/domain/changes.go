package domain

import "encoding/json"

// Change is one detected difference between two project states, before it is
// attributed and persisted as an AuditEntry.
type Change struct {
	Action  ActionKind
	Changes map[string]any
}

// DetectChanges diffs the previously stored project against the incoming
// state and returns zero or more typed changes. A single save can produce
// several entries. The comparison runs after derivation so automatic
// transitions (complete, behind) are recorded like manual ones.
func DetectChanges(old, updated *Project) []Change {
	var changes []Change

	if old.Status != updated.Status {
		changes = append(changes, Change{
			Action: ActionStatusChange,
			Changes: map[string]any{
				"old": old.Status,
				"new": updated.Status,
			},
		})
	}

	if old.Progress != updated.Progress {
		changes = append(changes, Change{
			Action: ActionProgressUpdate,
			Changes: map[string]any{
				"old": old.Progress,
				"new": updated.Progress,
			},
		})
	}

	// Both field pairs are recorded even when only one date moved.
	if !old.StartDate.Equal(updated.StartDate) || !old.EndDate.Equal(updated.EndDate) {
		changes = append(changes, Change{
			Action: ActionTimelineChange,
			Changes: map[string]any{
				"old_start": old.StartDate,
				"new_start": updated.StartDate,
				"old_end":   old.EndDate,
				"new_end":   updated.EndDate,
			},
		})
	}

	// Length-only detection: edits and removals of existing notes are not
	// observed, only net growth.
	if len(updated.Notes) > len(old.Notes) {
		changes = append(changes, Change{
			Action: ActionNoteAdded,
			Changes: map[string]any{
				"count": len(updated.Notes) - len(old.Notes),
			},
		})
	}

	if tasksDiffer(old.Tasks, updated.Tasks) {
		changes = append(changes, Change{
			Action: ActionTaskChange,
			Changes: map[string]any{
				"old_count": len(old.Tasks),
				"new_count": len(updated.Tasks),
			},
		})
	}

	if old.Status == StatusComplete && old.CompletedDate != nil &&
		(updated.Status != StatusComplete || updated.CompletedDate == nil) {
		changes = append(changes, Change{
			Action: ActionReactivate,
			Changes: map[string]any{
				"previous_completed_date": *old.CompletedDate,
			},
		})
	}

	if fields := scalarChanges(old, updated); len(fields) > 0 {
		changes = append(changes, Change{
			Action:  ActionUpdate,
			Changes: fields,
		})
	}

	return changes
}

// tasksDiffer compares the serialized task arrays. The diff is structural,
// not semantic: any byte-level difference counts.
func tasksDiffer(old, updated []Task) bool {
	a, _ := json.Marshal(old)
	b, _ := json.Marshal(updated)
	return string(a) != string(b)
}

func scalarChanges(old, updated *Project) map[string]any {
	fields := map[string]any{}
	pairs := []struct {
		name          string
		before, after string
	}{
		{"name", old.Name, updated.Name},
		{"description", old.Description, updated.Description},
		{"owner", old.Owner, updated.Owner},
		{"team", old.Team, updated.Team},
	}
	for _, p := range pairs {
		if p.before != p.after {
			fields[p.name] = map[string]any{"old": p.before, "new": p.after}
		}
	}
	return fields
}
