package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kestrelhq/trackdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestWorkspaceService_ResolvePermission(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	otherID := uuid.New()
	workspaceID := uuid.New()
	workspace := &domain.Workspace{ID: workspaceID, OwnerUserID: ownerID, Name: "Team Alpha"}

	t.Run("owner", func(t *testing.T) {
		workspaceRepo := new(MockWorkspaceRepository)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(workspace, nil)

		svc := NewWorkspaceService(workspaceRepo, new(MockShareRepository), new(MockUserRepository), new(MockProjectRepository), new(MockAuditRepository))

		perm, err := svc.ResolvePermission(ctx, workspaceID, ownerID)
		assert.NoError(t, err)
		assert.Equal(t, domain.PermissionOwner, perm)
	})

	t.Run("granted editor", func(t *testing.T) {
		workspaceRepo := new(MockWorkspaceRepository)
		shareRepo := new(MockShareRepository)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(workspace, nil)
		shareRepo.On("GetByWorkspaceAndUser", ctx, workspaceID, otherID).Return(&domain.WorkspaceShare{
			WorkspaceID:   workspaceID,
			GranteeUserID: otherID,
			Permission:    domain.PermissionEditor,
		}, nil)

		svc := NewWorkspaceService(workspaceRepo, shareRepo, new(MockUserRepository), new(MockProjectRepository), new(MockAuditRepository))

		perm, err := svc.ResolvePermission(ctx, workspaceID, otherID)
		assert.NoError(t, err)
		assert.Equal(t, domain.PermissionEditor, perm)
	})

	t.Run("no grant", func(t *testing.T) {
		workspaceRepo := new(MockWorkspaceRepository)
		shareRepo := new(MockShareRepository)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(workspace, nil)
		shareRepo.On("GetByWorkspaceAndUser", ctx, workspaceID, otherID).Return(nil, nil)

		svc := NewWorkspaceService(workspaceRepo, shareRepo, new(MockUserRepository), new(MockProjectRepository), new(MockAuditRepository))

		perm, err := svc.ResolvePermission(ctx, workspaceID, otherID)
		assert.NoError(t, err)
		assert.Equal(t, domain.PermissionNone, perm)
	})

	t.Run("workspace not found", func(t *testing.T) {
		workspaceRepo := new(MockWorkspaceRepository)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(nil, nil)

		svc := NewWorkspaceService(workspaceRepo, new(MockShareRepository), new(MockUserRepository), new(MockProjectRepository), new(MockAuditRepository))

		_, err := svc.ResolvePermission(ctx, workspaceID, ownerID)
		var notFound *domain.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestWorkspaceService_RequirePermission(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	viewerID := uuid.New()
	workspaceID := uuid.New()
	workspace := &domain.Workspace{ID: workspaceID, OwnerUserID: ownerID}

	workspaceRepo := new(MockWorkspaceRepository)
	shareRepo := new(MockShareRepository)
	workspaceRepo.On("GetByID", ctx, workspaceID).Return(workspace, nil)
	shareRepo.On("GetByWorkspaceAndUser", ctx, workspaceID, viewerID).Return(&domain.WorkspaceShare{
		WorkspaceID:   workspaceID,
		GranteeUserID: viewerID,
		Permission:    domain.PermissionViewer,
	}, nil)

	svc := NewWorkspaceService(workspaceRepo, shareRepo, new(MockUserRepository), new(MockProjectRepository), new(MockAuditRepository))

	t.Run("viewer can read", func(t *testing.T) {
		perm, err := svc.RequirePermission(ctx, workspaceID, viewerID, domain.PermissionViewer)
		assert.NoError(t, err)
		assert.Equal(t, domain.PermissionViewer, perm)
	})

	t.Run("viewer cannot write", func(t *testing.T) {
		_, err := svc.RequirePermission(ctx, workspaceID, viewerID, domain.PermissionEditor)
		var permErr *domain.PermissionError
		assert.ErrorAs(t, err, &permErr)
		assert.Equal(t, domain.PermissionEditor, permErr.Required)
		assert.Equal(t, domain.PermissionViewer, permErr.Actual)
	})

	t.Run("owner satisfies editor", func(t *testing.T) {
		perm, err := svc.RequirePermission(ctx, workspaceID, ownerID, domain.PermissionEditor)
		assert.NoError(t, err)
		assert.Equal(t, domain.PermissionOwner, perm)
	})
}

func TestWorkspaceService_Delete(t *testing.T) {
	ctx := context.Background()
	owner := domain.Actor{ID: uuid.New(), Username: "alice"}
	workspaceID := uuid.New()
	workspace := &domain.Workspace{ID: workspaceID, OwnerUserID: owner.ID}

	t.Run("last workspace rejected", func(t *testing.T) {
		workspaceRepo := new(MockWorkspaceRepository)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(workspace, nil)
		workspaceRepo.On("CountOwned", ctx, owner.ID).Return(1, nil)

		svc := NewWorkspaceService(workspaceRepo, new(MockShareRepository), new(MockUserRepository), new(MockProjectRepository), new(MockAuditRepository))

		err := svc.Delete(ctx, owner, workspaceID)
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		workspaceRepo.AssertNotCalled(t, "DeleteCascade", ctx, workspaceID)
	})

	t.Run("cascade when more than one", func(t *testing.T) {
		workspaceRepo := new(MockWorkspaceRepository)
		projectRepo := new(MockProjectRepository)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(workspace, nil)
		workspaceRepo.On("CountOwned", ctx, owner.ID).Return(2, nil)
		workspaceRepo.On("DeleteCascade", ctx, workspaceID).Return(nil)
		projectRepo.On("ListByHome", ctx, workspaceID).Return([]domain.Project{}, nil)

		svc := NewWorkspaceService(workspaceRepo, new(MockShareRepository), new(MockUserRepository), projectRepo, new(MockAuditRepository))

		err := svc.Delete(ctx, owner, workspaceID)
		assert.NoError(t, err)
		workspaceRepo.AssertExpectations(t)
	})

	t.Run("cascade audits each homed project", func(t *testing.T) {
		workspaceRepo := new(MockWorkspaceRepository)
		projectRepo := new(MockProjectRepository)
		auditRepo := new(MockAuditRepository)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(workspace, nil)
		workspaceRepo.On("CountOwned", ctx, owner.ID).Return(2, nil)
		workspaceRepo.On("DeleteCascade", ctx, workspaceID).Return(nil)
		projectRepo.On("ListByHome", ctx, workspaceID).Return([]domain.Project{
			{ODID: "od-1", Name: "Migration"},
			{ODID: "od-2", Name: "Rollout"},
		}, nil)
		auditRepo.On("Append", ctx, mock.MatchedBy(func(e *domain.AuditEntry) bool {
			return e.ProjectODID == "od-1" && e.Action == domain.ActionDelete &&
				e.Changes["name"] == "Migration" && e.ActingUsername == "alice"
		})).Return(nil).Once()
		auditRepo.On("Append", ctx, mock.MatchedBy(func(e *domain.AuditEntry) bool {
			return e.ProjectODID == "od-2" && e.Action == domain.ActionDelete &&
				e.Changes["name"] == "Rollout"
		})).Return(nil).Once()

		svc := NewWorkspaceService(workspaceRepo, new(MockShareRepository), new(MockUserRepository), projectRepo, auditRepo)

		err := svc.Delete(ctx, owner, workspaceID)
		assert.NoError(t, err)
		auditRepo.AssertExpectations(t)
		workspaceRepo.AssertExpectations(t)
	})

	t.Run("audit failure does not block the cascade", func(t *testing.T) {
		workspaceRepo := new(MockWorkspaceRepository)
		projectRepo := new(MockProjectRepository)
		auditRepo := new(MockAuditRepository)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(workspace, nil)
		workspaceRepo.On("CountOwned", ctx, owner.ID).Return(2, nil)
		workspaceRepo.On("DeleteCascade", ctx, workspaceID).Return(nil)
		projectRepo.On("ListByHome", ctx, workspaceID).Return([]domain.Project{
			{ODID: "od-1", Name: "Migration"},
		}, nil)
		auditRepo.On("Append", ctx, mock.Anything).Return(assert.AnError)

		svc := NewWorkspaceService(workspaceRepo, new(MockShareRepository), new(MockUserRepository), projectRepo, auditRepo)

		err := svc.Delete(ctx, owner, workspaceID)
		assert.NoError(t, err)
		workspaceRepo.AssertExpectations(t)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		other := domain.Actor{ID: uuid.New(), Username: "bob"}
		workspaceRepo := new(MockWorkspaceRepository)
		shareRepo := new(MockShareRepository)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(workspace, nil)
		shareRepo.On("GetByWorkspaceAndUser", ctx, workspaceID, other.ID).Return(&domain.WorkspaceShare{
			WorkspaceID:   workspaceID,
			GranteeUserID: other.ID,
			Permission:    domain.PermissionEditor,
		}, nil)

		svc := NewWorkspaceService(workspaceRepo, shareRepo, new(MockUserRepository), new(MockProjectRepository), new(MockAuditRepository))

		err := svc.Delete(ctx, other, workspaceID)
		var permErr *domain.PermissionError
		assert.ErrorAs(t, err, &permErr)
	})
}

func TestWorkspaceService_Share(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	granteeID := uuid.New()
	workspaceID := uuid.New()
	workspace := &domain.Workspace{ID: workspaceID, OwnerUserID: ownerID}

	t.Run("success", func(t *testing.T) {
		workspaceRepo := new(MockWorkspaceRepository)
		shareRepo := new(MockShareRepository)
		userRepo := new(MockUserRepository)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(workspace, nil)
		userRepo.On("GetByID", ctx, granteeID).Return(&domain.User{ID: granteeID, Username: "bob"}, nil)
		shareRepo.On("Create", ctx, mock.AnythingOfType("*domain.WorkspaceShare")).Return(nil)

		svc := NewWorkspaceService(workspaceRepo, shareRepo, userRepo, new(MockProjectRepository), new(MockAuditRepository))

		share, err := svc.Share(ctx, ownerID, workspaceID, domain.ShareCreate{
			GranteeUserID: granteeID,
			Permission:    domain.PermissionViewer,
		})
		assert.NoError(t, err)
		assert.Equal(t, "bob", share.GranteeUsername)
		assert.Equal(t, domain.PermissionViewer, share.Permission)
		assert.Equal(t, ownerID, share.GrantedByUserID)
		shareRepo.AssertExpectations(t)
	})

	t.Run("self share rejected", func(t *testing.T) {
		workspaceRepo := new(MockWorkspaceRepository)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(workspace, nil)

		svc := NewWorkspaceService(workspaceRepo, new(MockShareRepository), new(MockUserRepository), new(MockProjectRepository), new(MockAuditRepository))

		_, err := svc.Share(ctx, ownerID, workspaceID, domain.ShareCreate{
			GranteeUserID: ownerID,
			Permission:    domain.PermissionEditor,
		})
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("unknown grantee", func(t *testing.T) {
		workspaceRepo := new(MockWorkspaceRepository)
		userRepo := new(MockUserRepository)
		workspaceRepo.On("GetByID", ctx, workspaceID).Return(workspace, nil)
		userRepo.On("GetByID", ctx, granteeID).Return(nil, nil)

		svc := NewWorkspaceService(workspaceRepo, new(MockShareRepository), userRepo, new(MockProjectRepository), new(MockAuditRepository))

		_, err := svc.Share(ctx, ownerID, workspaceID, domain.ShareCreate{
			GranteeUserID: granteeID,
			Permission:    domain.PermissionEditor,
		})
		var notFound *domain.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestWorkspaceService_Leave(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	workspaceID := uuid.New()

	t.Run("grantee leaves", func(t *testing.T) {
		shareRepo := new(MockShareRepository)
		shareRepo.On("GetByWorkspaceAndUser", ctx, workspaceID, userID).Return(&domain.WorkspaceShare{
			WorkspaceID:   workspaceID,
			GranteeUserID: userID,
			Permission:    domain.PermissionViewer,
		}, nil)
		shareRepo.On("DeleteByWorkspaceAndUser", ctx, workspaceID, userID).Return(nil)

		svc := NewWorkspaceService(new(MockWorkspaceRepository), shareRepo, new(MockUserRepository), new(MockProjectRepository), new(MockAuditRepository))

		assert.NoError(t, svc.Leave(ctx, userID, workspaceID))
		shareRepo.AssertExpectations(t)
	})

	t.Run("no share to leave", func(t *testing.T) {
		shareRepo := new(MockShareRepository)
		shareRepo.On("GetByWorkspaceAndUser", ctx, workspaceID, userID).Return(nil, nil)

		svc := NewWorkspaceService(new(MockWorkspaceRepository), shareRepo, new(MockUserRepository), new(MockProjectRepository), new(MockAuditRepository))

		err := svc.Leave(ctx, userID, workspaceID)
		var notFound *domain.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestWorkspaceService_ListLinkable(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	home := domain.Workspace{ID: uuid.New(), OwnerUserID: userID, Name: "Home"}
	owned := domain.Workspace{ID: uuid.New(), OwnerUserID: userID, Name: "Owned"}
	viewed := domain.Workspace{ID: uuid.New(), OwnerUserID: uuid.New(), Name: "ViewOnly"}

	workspaceRepo := new(MockWorkspaceRepository)
	shareRepo := new(MockShareRepository)
	workspaceRepo.On("ListByUser", ctx, userID).Return([]domain.Workspace{home, owned, viewed}, nil)
	workspaceRepo.On("GetByID", ctx, owned.ID).Return(&owned, nil)
	workspaceRepo.On("GetByID", ctx, viewed.ID).Return(&viewed, nil)
	shareRepo.On("GetByWorkspaceAndUser", ctx, viewed.ID, userID).Return(&domain.WorkspaceShare{
		WorkspaceID:   viewed.ID,
		GranteeUserID: userID,
		Permission:    domain.PermissionViewer,
	}, nil)

	svc := NewWorkspaceService(workspaceRepo, shareRepo, new(MockUserRepository), new(MockProjectRepository), new(MockAuditRepository))

	linkable, err := svc.ListLinkable(ctx, userID, home.ID)
	assert.NoError(t, err)
	assert.Len(t, linkable, 1)
	assert.Equal(t, owned.ID, linkable[0].ID)
}
