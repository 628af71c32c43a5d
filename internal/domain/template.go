package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProjectTemplate is a reusable task list. Global templates are visible to
// everyone but writable only by admins; personal templates belong to one user.
type ProjectTemplate struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Tasks           []Task     `json:"tasks"`
	OwnerUserID     *uuid.UUID `json:"owner_user_id,omitempty"`
	IsGlobal        bool       `json:"is_global"`
	CreatedByUserID uuid.UUID  `json:"created_by_user_id"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TemplateCreate represents template creation data
type TemplateCreate struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Tasks       []Task `json:"tasks"`
	IsGlobal    bool   `json:"is_global"`
}

// TemplateUpdate represents a template save
type TemplateUpdate struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Tasks       []Task `json:"tasks"`
}

// TemplateRepository defines the interface for template storage
type TemplateRepository interface {
	Create(ctx context.Context, template *ProjectTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*ProjectTemplate, error)
	// ListVisible returns global templates plus the user's own.
	ListVisible(ctx context.Context, userID uuid.UUID) ([]ProjectTemplate, error)
	Update(ctx context.Context, template *ProjectTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
}
