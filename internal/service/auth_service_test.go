package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"donation-platform/internal/core/domain"
	"donation-platform/internal/core/ports"
	"donation-platform/internal/core/ports/mocks"
	"donation-platform/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authMocks struct {
	users     *mocks.MockUserRepository
	accounts  *mocks.MockAccountService
	hash      *mocks.MockHashService
	token     *mocks.MockTokenService
	blocklist *mocks.MockTokenBlocklist
}

func setupAuthService(t *testing.T) (*AuthServiceImpl, authMocks) {
	ctrl := gomock.NewController(t)
	m := authMocks{
		users:     mocks.NewMockUserRepository(ctrl),
		accounts:  mocks.NewMockAccountService(ctrl),
		hash:      mocks.NewMockHashService(ctrl),
		token:     mocks.NewMockTokenService(ctrl),
		blocklist: mocks.NewMockTokenBlocklist(ctrl),
	}
	svc := NewAuthService(m.users, m.accounts, m.hash, m.token, m.blocklist, newTestLogger())
	return svc, m
}

func TestAuthService_Register_DonorOpensAccount(t *testing.T) {
	svc, m := setupAuthService(t)
	ctx := context.Background()

	m.users.EXPECT().GetByUsername(ctx, "alice").Return(nil, nil)
	m.hash.EXPECT().Hash("secret").Return("$argon2id$hashed", nil)
	m.users.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	m.accounts.EXPECT().Open(ctx, gomock.Any()).Return(&domain.DonorAccount{}, nil)

	user, err := svc.Register(ctx, ports.RegisterRequest{Username: "  alice ", Password: "secret", Role: domain.RoleDonor})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, domain.RoleDonor, user.Role)
	assert.Equal(t, "$argon2id$hashed", user.PasswordHash)
	assert.NotEqual(t, uuid.Nil, user.ID)
}

func TestAuthService_Register_RecipientHasNoAccount(t *testing.T) {
	svc, m := setupAuthService(t)
	ctx := context.Background()

	m.users.EXPECT().GetByUsername(ctx, "bob").Return(nil, nil)
	m.hash.EXPECT().Hash("secret").Return("$argon2id$hashed", nil)
	m.users.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	// No Open call expected.

	user, err := svc.Register(ctx, ports.RegisterRequest{Username: "bob", Password: "secret", Role: domain.RoleRecipient})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleRecipient, user.Role)
}

func TestAuthService_Register_RejectsPrivilegedRoles(t *testing.T) {
	svc, _ := setupAuthService(t)

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleStaff, "GUEST"} {
		_, err := svc.Register(context.Background(), ports.RegisterRequest{Username: "mallory", Password: "secret", Role: role})
		assertAppError(t, err, apperror.CodeValidation)
	}
}

func TestAuthService_Register_InputRules(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, ports.RegisterRequest{Username: "ab", Password: "secret", Role: domain.RoleDonor})
	assertAppError(t, err, apperror.CodeValidation)

	_, err = svc.Register(ctx, ports.RegisterRequest{Username: "abc", Password: "123", Role: domain.RoleDonor})
	assertAppError(t, err, apperror.CodeValidation)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc, m := setupAuthService(t)
	ctx := context.Background()

	m.users.EXPECT().GetByUsername(ctx, "Alice").Return(&domain.User{Username: "alice"}, nil)

	user, err := svc.Register(ctx, ports.RegisterRequest{Username: "Alice", Password: "secret", Role: domain.RoleDonor})
	assert.Nil(t, user)
	assertAppError(t, err, apperror.CodeUsernameExists)
}

func TestAuthService_Register_RaceOnCreate(t *testing.T) {
	svc, m := setupAuthService(t)
	ctx := context.Background()

	m.users.EXPECT().GetByUsername(ctx, "carol").Return(nil, nil)
	m.hash.EXPECT().Hash("secret").Return("h", nil)
	m.users.EXPECT().Create(ctx, gomock.Any()).Return(apperror.ErrUsernameExists())

	_, err := svc.Register(ctx, ports.RegisterRequest{Username: "carol", Password: "secret", Role: domain.RoleRecipient})
	assertAppError(t, err, apperror.CodeUsernameExists)
}

func TestAuthService_Provision_Staff(t *testing.T) {
	svc, m := setupAuthService(t)
	ctx := context.Background()

	m.users.EXPECT().GetByUsername(ctx, "staffer").Return(nil, nil)
	m.hash.EXPECT().Hash("secret").Return("h", nil)
	m.users.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	m.accounts.EXPECT().Open(ctx, gomock.Any()).Return(&domain.DonorAccount{}, nil)

	user, err := svc.Provision(ctx, ports.RegisterRequest{Username: "staffer", Password: "secret", Role: domain.RoleStaff})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, user.Role)
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, m := setupAuthService(t)
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), Username: "alice", PasswordHash: "$argon2id$hashed", Role: domain.RoleDonor}
	expiry := time.Now().Add(time.Hour)

	m.users.EXPECT().GetByUsername(ctx, "alice").Return(user, nil)
	m.hash.EXPECT().Verify("correct", "$argon2id$hashed").Return(true, nil)
	m.token.EXPECT().Generate(user).Return("jwt_token_here", expiry, nil)

	res, err := svc.Login(ctx, "alice", "correct")
	require.NoError(t, err)
	assert.Equal(t, "jwt_token_here", res.Token)
	assert.Equal(t, expiry, res.ExpiresAt)
	assert.Equal(t, user, res.User)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, m := setupAuthService(t)
	ctx := context.Background()

	m.users.EXPECT().GetByUsername(ctx, "nobody").Return(nil, nil)

	_, err := svc.Login(ctx, "nobody", "password")
	assertAppError(t, err, apperror.CodeInvalidCredentials)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, m := setupAuthService(t)
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), Username: "alice", PasswordHash: "h", Role: domain.RoleDonor}
	m.users.EXPECT().GetByUsername(ctx, "alice").Return(user, nil)
	m.hash.EXPECT().Verify("wrong", "h").Return(false, nil)

	_, err := svc.Login(ctx, "alice", "wrong")
	assertAppError(t, err, apperror.CodeInvalidCredentials)
}

func TestAuthService_Login_RepoError(t *testing.T) {
	svc, m := setupAuthService(t)
	ctx := context.Background()

	m.users.EXPECT().GetByUsername(ctx, "alice").Return(nil, errors.New("boom"))

	_, err := svc.Login(ctx, "alice", "pw")
	assertAppError(t, err, apperror.CodeInternal)
}

func TestAuthService_Logout_RevokesUntilExpiry(t *testing.T) {
	svc, m := setupAuthService(t)
	ctx := context.Background()

	claims := &ports.TokenClaims{UserID: uuid.New(), TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}
	m.blocklist.EXPECT().Revoke(ctx, "jti-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, ttl time.Duration) error {
			assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)
			return nil
		},
	)

	require.NoError(t, svc.Logout(ctx, claims))
}

func TestAuthService_Logout_ExpiredTokenIsNoop(t *testing.T) {
	svc, _ := setupAuthService(t)

	claims := &ports.TokenClaims{TokenID: "jti-2", ExpiresAt: time.Now().Add(-time.Minute)}
	assert.NoError(t, svc.Logout(context.Background(), claims))
}

func TestAuthService_Logout_BlocklistDown(t *testing.T) {
	svc, m := setupAuthService(t)
	ctx := context.Background()

	claims := &ports.TokenClaims{TokenID: "jti-3", ExpiresAt: time.Now().Add(time.Hour)}
	m.blocklist.EXPECT().Revoke(ctx, "jti-3", gomock.Any()).Return(errors.New("redis down"))

	err := svc.Logout(ctx, claims)
	assertAppError(t, err, apperror.CodeDependencyUnavailable)
}

func TestAuthService_Logout_WithoutBlocklist(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewAuthService(mocks.NewMockUserRepository(ctrl), nil, nil, nil, nil, newTestLogger())

	claims := &ports.TokenClaims{TokenID: "jti-4", ExpiresAt: time.Now().Add(time.Hour)}
	assert.NoError(t, svc.Logout(context.Background(), claims))
}

func TestAuthService_Profile(t *testing.T) {
	svc, m := setupAuthService(t)
	ctx := context.Background()
	id := uuid.New()

	m.users.EXPECT().GetByID(ctx, id).Return(&domain.User{ID: id, Username: "alice"}, nil)
	user, err := svc.Profile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	missing := uuid.New()
	m.users.EXPECT().GetByID(ctx, missing).Return(nil, nil)
	_, err = svc.Profile(ctx, missing)
	assertAppError(t, err, apperror.CodeNotFound)
}
