package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kestrelhq/trackdeck/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	args := m.Called(ctx, id, email)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockWorkspaceRepository mocks the WorkspaceRepository interface
type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Workspace, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListOwned(ctx context.Context, ownerUserID uuid.UUID) ([]domain.Workspace, error) {
	args := m.Called(ctx, ownerUserID)
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) CountOwned(ctx context.Context, ownerUserID uuid.UUID) (int, error) {
	args := m.Called(ctx, ownerUserID)
	return args.Int(0), args.Error(1)
}

func (m *MockWorkspaceRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockShareRepository mocks the ShareRepository interface
type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Create(ctx context.Context, share *domain.WorkspaceShare) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

func (m *MockShareRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkspaceShare, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceShare), args.Error(1)
}

func (m *MockShareRepository) GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.WorkspaceShare, error) {
	args := m.Called(ctx, workspaceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceShare), args.Error(1)
}

func (m *MockShareRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.WorkspaceShare, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]domain.WorkspaceShare), args.Error(1)
}

func (m *MockShareRepository) UpdatePermission(ctx context.Context, id uuid.UUID, permission domain.Permission) error {
	args := m.Called(ctx, id, permission)
	return args.Error(0)
}

func (m *MockShareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShareRepository) DeleteByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) error {
	args := m.Called(ctx, workspaceID, userID)
	return args.Error(0)
}

// MockProjectRepository mocks the ProjectRepository interface
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByODID(ctx context.Context, odid string) (*domain.Project, error) {
	args := m.Called(ctx, odid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Project, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListByHome(ctx context.Context, workspaceID uuid.UUID) ([]domain.Project, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, odid string) error {
	args := m.Called(ctx, odid)
	return args.Error(0)
}

// MockLinkRepository mocks the LinkRepository interface
type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) Create(ctx context.Context, link *domain.ProjectLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockLinkRepository) Get(ctx context.Context, projectODID string, workspaceID uuid.UUID) (*domain.ProjectLink, error) {
	args := m.Called(ctx, projectODID, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectLink), args.Error(1)
}

func (m *MockLinkRepository) ListByProject(ctx context.Context, projectODID string) ([]domain.ProjectLink, error) {
	args := m.Called(ctx, projectODID)
	return args.Get(0).([]domain.ProjectLink), args.Error(1)
}

func (m *MockLinkRepository) Delete(ctx context.Context, projectODID string, workspaceID uuid.UUID) error {
	args := m.Called(ctx, projectODID, workspaceID)
	return args.Error(0)
}

func (m *MockLinkRepository) DeleteByProject(ctx context.Context, projectODID string) error {
	args := m.Called(ctx, projectODID)
	return args.Error(0)
}

// MockAuditRepository mocks the AuditRepository interface
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByProject(ctx context.Context, projectODID string) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, projectODID)
	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}

// MockTemplateRepository mocks the TemplateRepository interface
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Create(ctx context.Context, template *domain.ProjectTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectTemplate), args.Error(1)
}

func (m *MockTemplateRepository) ListVisible(ctx context.Context, userID uuid.UUID) ([]domain.ProjectTemplate, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.ProjectTemplate), args.Error(1)
}

func (m *MockTemplateRepository) Update(ctx context.Context, template *domain.ProjectTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
