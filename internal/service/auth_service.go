package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"donation-platform/internal/core/domain"
	"donation-platform/internal/core/ports"
	"donation-platform/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 4
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo  ports.UserRepository
	accounts  ports.AccountService
	hashSvc   ports.HashService
	tokenSvc  ports.TokenService
	blocklist ports.TokenBlocklist // nil = logout is client-side only
	log       zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	userRepo ports.UserRepository,
	accounts ports.AccountService,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	blocklist ports.TokenBlocklist,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:  userRepo,
		accounts:  accounts,
		hashSvc:   hashSvc,
		tokenSvc:  tokenSvc,
		blocklist: blocklist,
		log:       log,
	}
}

// Register signs up a donor or recipient.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.User, error) {
	if !req.Role.SelfRegisterable() {
		return nil, apperror.Validation("Role must be DONOR or RECIPIENT")
	}
	return s.Provision(ctx, req)
}

// Provision creates a user of any role. Donor-capable users get a donor account.
func (s *AuthServiceImpl) Provision(ctx context.Context, req ports.RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if n := len(username); n < minUsernameLen || n > maxUsernameLen {
		return nil, apperror.Validation(fmt.Sprintf("Username must be %d to %d characters", minUsernameLen, maxUsernameLen))
	}
	if len(req.Password) < minPasswordLen {
		return nil, apperror.Validation(fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}
	switch req.Role {
	case domain.RoleAdmin, domain.RoleDonor, domain.RoleRecipient, domain.RoleStaff:
	default:
		return nil, apperror.Validation("Unknown role")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrUsernameExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         req.Role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if apperror.HasCode(err, apperror.CodeUsernameExists) {
			return nil, err
		}
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	if user.Role.CanDonate() {
		if _, err := s.accounts.Open(ctx, user.ID); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("open donor account: %w", err))
		}
	}

	s.log.Info().
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Str("role", string(user.Role)).
		Msg("user registered")

	return user, nil
}

// Login validates credentials and returns a JWT session.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return nil, apperror.ErrInvalidCredentials()
	}

	token, expiresAt, err := s.tokenSvc.Generate(user)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout revokes the session token until it would have expired anyway.
func (s *AuthServiceImpl) Logout(ctx context.Context, claims *ports.TokenClaims) error {
	if s.blocklist == nil || claims == nil || claims.TokenID == "" {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.blocklist.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return apperror.ErrDependencyUnavailable("token blocklist", err)
	}
	s.log.Info().Str("user_id", claims.UserID.String()).Msg("session revoked")
	return nil
}

// Profile returns the user behind a session.
func (s *AuthServiceImpl) Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("User")
	}
	return user, nil
}
