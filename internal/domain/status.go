package domain

import "time"

// FinishedAge is how long a completed project stays in the active overview
// before moving to the finished partition.
const FinishedAge = 7 * 24 * time.Hour

// Derive recomputes a project's status and completion timestamp from its
// progress and dates. It is idempotent and side-effect free; callers apply it
// on every load and again before every save, persisting the result only on
// explicit saves.
//
// Rules, in order:
//   - progress at or above 100 forces status "complete"; completedDate is
//     stamped only when unset, so re-saving a completed project keeps the
//     original timestamp while a rollback-and-return yields a fresh one
//   - progress below 100 on a "complete" project clears completedDate
//     (a manual rollback un-completes it); the stored status is left alone
//   - a past-due project is marked "behind" unless paused or complete
func Derive(p *Project, now time.Time) {
	if p.Progress >= 100 {
		p.Status = StatusComplete
		if p.CompletedDate == nil {
			t := now
			p.CompletedDate = &t
		}
		return
	}
	if p.Status == StatusComplete {
		p.CompletedDate = nil
		return
	}
	if now.After(p.EndDate) && p.Status != StatusOnPause {
		p.Status = StatusBehind
	}
}

// IsFinished reports whether a completed project is old enough to belong to
// the finished (archival) partition. A reactivated project leaves the
// partition immediately because its completedDate is cleared.
func IsFinished(p *Project, now time.Time) bool {
	if p.Status != StatusComplete || p.CompletedDate == nil {
		return false
	}
	return now.Sub(*p.CompletedDate) >= FinishedAge
}
