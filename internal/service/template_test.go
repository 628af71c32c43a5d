package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kestrelhq/trackdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTemplateService_Create(t *testing.T) {
	ctx := context.Background()
	user := domain.Actor{ID: uuid.New(), Username: "alice"}
	admin := domain.Actor{ID: uuid.New(), Username: "admin", IsAdmin: true}

	t.Run("personal template owned by actor", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		templateRepo.On("Create", ctx, mock.AnythingOfType("*domain.ProjectTemplate")).Return(nil)

		svc := NewTemplateService(templateRepo)

		template, err := svc.Create(ctx, user, domain.TemplateCreate{
			Name:  "Sprint checklist",
			Tasks: []domain.Task{{Name: "plan"}, {Name: "review"}},
		})
		assert.NoError(t, err)
		assert.False(t, template.IsGlobal)
		assert.NotNil(t, template.OwnerUserID)
		assert.Equal(t, user.ID, *template.OwnerUserID)
	})

	t.Run("global requires admin", func(t *testing.T) {
		svc := NewTemplateService(new(MockTemplateRepository))

		_, err := svc.Create(ctx, user, domain.TemplateCreate{Name: "Org standard", IsGlobal: true})
		var permErr *domain.PermissionError
		assert.ErrorAs(t, err, &permErr)
	})

	t.Run("admin creates global", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		templateRepo.On("Create", ctx, mock.AnythingOfType("*domain.ProjectTemplate")).Return(nil)

		svc := NewTemplateService(templateRepo)

		template, err := svc.Create(ctx, admin, domain.TemplateCreate{Name: "Org standard", IsGlobal: true})
		assert.NoError(t, err)
		assert.True(t, template.IsGlobal)
		assert.Nil(t, template.OwnerUserID)
	})
}

func TestTemplateService_Update(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	owner := domain.Actor{ID: ownerID, Username: "alice"}
	templateID := uuid.New()

	t.Run("other user's personal template looks absent", func(t *testing.T) {
		otherOwner := uuid.New()
		templateRepo := new(MockTemplateRepository)
		templateRepo.On("GetByID", ctx, templateID).Return(&domain.ProjectTemplate{
			ID:          templateID,
			Name:        "Private",
			OwnerUserID: &otherOwner,
		}, nil)

		svc := NewTemplateService(templateRepo)

		_, err := svc.Update(ctx, owner, templateID, domain.TemplateUpdate{Name: "Hijack"})
		var notFound *domain.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("owner updates own", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		templateRepo.On("GetByID", ctx, templateID).Return(&domain.ProjectTemplate{
			ID:          templateID,
			Name:        "Sprint checklist",
			OwnerUserID: &ownerID,
		}, nil)
		templateRepo.On("Update", ctx, mock.AnythingOfType("*domain.ProjectTemplate")).Return(nil)

		svc := NewTemplateService(templateRepo)

		template, err := svc.Update(ctx, owner, templateID, domain.TemplateUpdate{
			Name:  "Sprint checklist v2",
			Tasks: []domain.Task{{Name: "plan"}},
		})
		assert.NoError(t, err)
		assert.Equal(t, "Sprint checklist v2", template.Name)
	})

	t.Run("global writable by admin only", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		templateRepo.On("GetByID", ctx, templateID).Return(&domain.ProjectTemplate{
			ID:       templateID,
			Name:     "Org standard",
			IsGlobal: true,
		}, nil)

		svc := NewTemplateService(templateRepo)

		_, err := svc.Update(ctx, owner, templateID, domain.TemplateUpdate{Name: "Edited"})
		var permErr *domain.PermissionError
		assert.ErrorAs(t, err, &permErr)
	})
}
