package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kestrelhq/trackdeck/internal/domain"
)

// TemplateService handles project template operations
type TemplateService struct {
	templateRepo domain.TemplateRepository
}

// NewTemplateService creates a new template service
func NewTemplateService(templateRepo domain.TemplateRepository) *TemplateService {
	return &TemplateService{templateRepo: templateRepo}
}

// List returns the templates visible to the actor: global ones plus their own
func (s *TemplateService) List(ctx context.Context, actor domain.Actor) ([]domain.ProjectTemplate, error) {
	return s.templateRepo.ListVisible(ctx, actor.ID)
}

// Create creates a template. Global templates are admin-only; personal ones
// are owned by the actor.
func (s *TemplateService) Create(ctx context.Context, actor domain.Actor, input domain.TemplateCreate) (*domain.ProjectTemplate, error) {
	if input.IsGlobal && !actor.IsAdmin {
		return nil, &domain.PermissionError{Required: domain.PermissionOwner, Actual: domain.PermissionNone}
	}

	template := &domain.ProjectTemplate{
		ID:              uuid.New(),
		Name:            input.Name,
		Description:     input.Description,
		Tasks:           input.Tasks,
		IsGlobal:        input.IsGlobal,
		CreatedByUserID: actor.ID,
		CreatedAt:       time.Now(),
	}
	if template.Tasks == nil {
		template.Tasks = []domain.Task{}
	}
	if !input.IsGlobal {
		ownerID := actor.ID
		template.OwnerUserID = &ownerID
	}

	if err := s.templateRepo.Create(ctx, template); err != nil {
		return nil, err
	}

	return template, nil
}

// Update saves a template the actor may modify
func (s *TemplateService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input domain.TemplateUpdate) (*domain.ProjectTemplate, error) {
	template, err := s.loadWritable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	template.Name = input.Name
	template.Description = input.Description
	template.Tasks = input.Tasks
	if template.Tasks == nil {
		template.Tasks = []domain.Task{}
	}

	if err := s.templateRepo.Update(ctx, template); err != nil {
		return nil, err
	}

	return template, nil
}

// Delete removes a template the actor may modify
func (s *TemplateService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if _, err := s.loadWritable(ctx, actor, id); err != nil {
		return err
	}
	return s.templateRepo.Delete(ctx, id)
}

func (s *TemplateService) loadWritable(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.ProjectTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, &domain.NotFoundError{Resource: "template"}
	}

	if template.IsGlobal {
		if !actor.IsAdmin {
			return nil, &domain.PermissionError{Required: domain.PermissionOwner, Actual: domain.PermissionNone}
		}
		return template, nil
	}
	if template.OwnerUserID == nil || *template.OwnerUserID != actor.ID {
		// Personal templates of other users are invisible, not forbidden.
		return nil, &domain.NotFoundError{Resource: "template"}
	}
	return template, nil
}
