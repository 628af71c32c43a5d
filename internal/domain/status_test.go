package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	now := time.Now()
	future := now.Add(30 * 24 * time.Hour)
	past := now.Add(-48 * time.Hour)

	t.Run("full progress forces complete", func(t *testing.T) {
		p := &Project{Status: StatusActive, Progress: 100, EndDate: future}
		Derive(p, now)
		assert.Equal(t, StatusComplete, p.Status)
		assert.NotNil(t, p.CompletedDate)
		assert.Equal(t, now, *p.CompletedDate)
	})

	t.Run("existing completed date preserved", func(t *testing.T) {
		stamped := now.Add(-72 * time.Hour)
		p := &Project{Status: StatusComplete, Progress: 100, CompletedDate: &stamped, EndDate: past}
		Derive(p, now)
		assert.Equal(t, stamped, *p.CompletedDate)
	})

	t.Run("rollback clears completed date", func(t *testing.T) {
		stamped := now.Add(-time.Hour)
		p := &Project{Status: StatusComplete, Progress: 80, CompletedDate: &stamped, EndDate: future}
		Derive(p, now)
		assert.Nil(t, p.CompletedDate)
	})

	t.Run("rollback then completion gets a fresh stamp", func(t *testing.T) {
		stamped := now.Add(-72 * time.Hour)
		p := &Project{Status: StatusComplete, Progress: 100, CompletedDate: &stamped, EndDate: future}

		p.Progress = 90
		Derive(p, now)
		assert.Nil(t, p.CompletedDate)

		p.Progress = 100
		later := now.Add(time.Hour)
		Derive(p, later)
		assert.Equal(t, StatusComplete, p.Status)
		assert.Equal(t, later, *p.CompletedDate)
	})

	t.Run("past due becomes behind", func(t *testing.T) {
		p := &Project{Status: StatusOnTrack, Progress: 60, EndDate: past}
		Derive(p, now)
		assert.Equal(t, StatusBehind, p.Status)
	})

	t.Run("paused project stays paused past due", func(t *testing.T) {
		p := &Project{Status: StatusOnPause, Progress: 60, EndDate: past}
		Derive(p, now)
		assert.Equal(t, StatusOnPause, p.Status)
	})

	t.Run("future due date untouched", func(t *testing.T) {
		p := &Project{Status: StatusDiscovery, Progress: 10, EndDate: future}
		Derive(p, now)
		assert.Equal(t, StatusDiscovery, p.Status)
	})

	t.Run("idempotent", func(t *testing.T) {
		p := &Project{Status: StatusActive, Progress: 100, EndDate: past}
		Derive(p, now)
		first := *p.CompletedDate
		Derive(p, now.Add(time.Hour))
		assert.Equal(t, StatusComplete, p.Status)
		assert.Equal(t, first, *p.CompletedDate)
	})
}

func TestIsFinished(t *testing.T) {
	now := time.Now()

	t.Run("recently completed is not finished", func(t *testing.T) {
		stamped := now.Add(-24 * time.Hour)
		p := &Project{Status: StatusComplete, CompletedDate: &stamped}
		assert.False(t, IsFinished(p, now))
	})

	t.Run("old completion is finished", func(t *testing.T) {
		stamped := now.Add(-FinishedAge)
		p := &Project{Status: StatusComplete, CompletedDate: &stamped}
		assert.True(t, IsFinished(p, now))
	})

	t.Run("incomplete never finished", func(t *testing.T) {
		p := &Project{Status: StatusActive}
		assert.False(t, IsFinished(p, now))
	})

	t.Run("complete without stamp not finished", func(t *testing.T) {
		p := &Project{Status: StatusComplete}
		assert.False(t, IsFinished(p, now))
	})
}

func TestGenerateODID(t *testing.T) {
	a := GenerateODID()
	b := GenerateODID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
