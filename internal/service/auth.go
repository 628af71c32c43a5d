package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kestrelhq/trackdeck/internal/domain"
	"github.com/kestrelhq/trackdeck/internal/security"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo      domain.UserRepository
	workspaceRepo domain.WorkspaceRepository
	jwtManager    *security.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	workspaceRepo domain.WorkspaceRepository,
	jwtManager *security.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		workspaceRepo: workspaceRepo,
		jwtManager:    jwtManager,
	}
}

// Login verifies credentials and issues a bearer token. A user logging in
// without any owned workspace gets a "Default" one, so projects always have
// a home to go to.
func (s *AuthService) Login(ctx context.Context, input domain.UserLogin) (*domain.AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.ensureDefaultWorkspace(ctx, user.ID); err != nil {
		return nil, err
	}

	token, err := s.jwtManager.Generate(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &domain.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) ensureDefaultWorkspace(ctx context.Context, userID uuid.UUID) error {
	count, err := s.workspaceRepo.CountOwned(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count workspaces: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	workspace := &domain.Workspace{
		ID:          uuid.New(),
		OwnerUserID: userID,
		Name:        domain.DefaultWorkspaceName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		return fmt.Errorf("failed to create default workspace: %w", err)
	}

	log.Info().Str("user_id", userID.String()).Msg("Created default workspace on first login")
	return nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ChangePassword performs a self-service password change after verifying the
// current password.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input domain.PasswordChange) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return &domain.NotFoundError{Resource: "user"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return &domain.AuthError{Message: "current password is incorrect"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}
