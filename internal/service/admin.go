package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kestrelhq/trackdeck/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AdminService handles administrative user management. Every method assumes
// the caller already verified the actor is an admin; the handlers enforce it
// through middleware.
type AdminService struct {
	userRepo      domain.UserRepository
	workspaceRepo domain.WorkspaceRepository
	projectRepo   domain.ProjectRepository
	auditRepo     domain.AuditRepository
}

// NewAdminService creates a new admin service
func NewAdminService(
	userRepo domain.UserRepository,
	workspaceRepo domain.WorkspaceRepository,
	projectRepo domain.ProjectRepository,
	auditRepo domain.AuditRepository,
) *AdminService {
	return &AdminService{
		userRepo:      userRepo,
		workspaceRepo: workspaceRepo,
		projectRepo:   projectRepo,
		auditRepo:     auditRepo,
	}
}

// ListUsers returns every user account
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

// CreateUser creates a local account. Duplicate usernames surface as a
// conflict from the repository.
func (s *AdminService) CreateUser(ctx context.Context, input domain.UserCreate) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: string(hash),
		IsAdmin:      input.IsAdmin,
		AuthProvider: domain.AuthProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ResetPassword sets a new password for a user without checking the old one
func (s *AdminService) ResetPassword(ctx context.Context, userID uuid.UUID, input domain.PasswordReset) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return &domain.NotFoundError{Resource: "user"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}

// UpdateEmail sets the email linked to an account
func (s *AdminService) UpdateEmail(ctx context.Context, userID uuid.UUID, input domain.EmailUpdate) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return &domain.NotFoundError{Resource: "user"}
	}

	return s.userRepo.UpdateEmail(ctx, userID, input.Email)
}

// DeleteUser removes a user and everything they own: their workspaces, the
// projects homed there, and their shares on both sides. An admin cannot
// delete their own account.
func (s *AdminService) DeleteUser(ctx context.Context, actor domain.Actor, userID uuid.UUID) error {
	if actor.ID == userID {
		return &domain.ValidationError{Message: "cannot delete your own account"}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return &domain.NotFoundError{Resource: "user"}
	}

	// Projects homed in the user's workspaces are destroyed by the cascade;
	// each one gets a DELETE audit entry before the rows go away.
	owned, err := s.workspaceRepo.ListOwned(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}
	for _, workspace := range owned {
		homed, err := s.projectRepo.ListByHome(ctx, workspace.ID)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		for _, project := range homed {
			recordAudit(ctx, s.auditRepo, project.ODID, actor, domain.ActionDelete, map[string]any{
				"name": project.Name,
			})
		}
	}

	return s.userRepo.Delete(ctx, userID)
}

// EnsureBootstrapAdmin creates the initial admin account when it does not
// exist, so a fresh deployment is reachable. The configured password is only
// applied at creation; later password changes stick.
func (s *AdminService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      true,
		AuthProvider: domain.AuthProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	log.Info().Str("username", username).Msg("Created bootstrap admin user")
	return nil
}
