package service

import (
	"context"
	"errors"
	"testing"

	"donation-platform/internal/adapter/storage/memory"
	"donation-platform/internal/core/domain"
	"donation-platform/internal/core/ports"
	"donation-platform/internal/core/ports/mocks"
	"donation-platform/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/multierr"
)

// fastHash skips argon2 so seeding tests stay quick.
type fastHash struct{}

func (fastHash) Hash(p string) (string, error)    { return "plain:" + p, nil }
func (fastHash) Verify(p, h string) (bool, error) { return h == "plain:"+p, nil }

type seedFixture struct {
	seeder   *Seeder
	users    *memory.UserRepo
	accounts *AccountServiceImpl
	ledger   *LedgerServiceImpl
}

func setupSeeder(t *testing.T) seedFixture {
	t.Helper()
	ledger, accounts := setupLedger(t)
	users := memory.NewUserRepo()
	auth := NewAuthService(users, accounts, fastHash{}, nil, nil, newTestLogger())
	return seedFixture{
		seeder:   NewSeeder(auth, accounts, ledger, newTestLogger()),
		users:    users,
		accounts: accounts,
		ledger:   ledger,
	}
}

func TestSeeder_BootstrapAdmin(t *testing.T) {
	f := setupSeeder(t)
	ctx := context.Background()

	require.NoError(t, f.seeder.BootstrapAdmin(ctx, "admin", "s3cret"))

	admin, err := f.users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	// Admins cannot donate, so no account is opened.
	_, err = f.accounts.Get(ctx, admin.ID)
	assertAppError(t, err, apperror.CodeNotFound)

	// Second run is a no-op.
	require.NoError(t, f.seeder.BootstrapAdmin(ctx, "admin", "s3cret"))
}

func TestSeeder_BootstrapAdmin_DisabledWithoutPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	seeder := NewSeeder(mocks.NewMockAuthService(ctrl), nil, nil, newTestLogger())

	assert.NoError(t, seeder.BootstrapAdmin(context.Background(), "admin", ""))
}

func TestSeeder_BootstrapAdmin_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthService(ctrl)
	seeder := NewSeeder(auth, nil, nil, newTestLogger())

	auth.EXPECT().Provision(gomock.Any(), gomock.Any()).Return(nil, errors.New("store offline"))

	err := seeder.BootstrapAdmin(context.Background(), "admin", "s3cret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bootstrap admin")
}

func TestSeeder_SeedDemo(t *testing.T) {
	f := setupSeeder(t)
	ctx := context.Background()

	require.NoError(t, f.seeder.SeedDemo(ctx))

	counts, err := f.users.CountByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[domain.RoleDonor])
	assert.Equal(t, int64(2), counts[domain.RoleRecipient])

	approved, err := f.ledger.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 2)
	assert.Equal(t, "Emergency surgery", approved[0].Reason)
	assert.Equal(t, int64(750_00), approved[0].RemainingAmount)
	assert.Equal(t, "Rent arrears", approved[1].Reason)

	pending, err := f.ledger.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	all, err := f.ledger.Snapshot(ctx)
	require.NoError(t, err)
	var fulfilled int
	for _, r := range all {
		if r.Status == domain.RequestStatusFulfilled {
			fulfilled++
		}
	}
	assert.Equal(t, 1, fulfilled)

	donor, err := f.users.GetByUsername(ctx, "demo_donor_1")
	require.NoError(t, err)
	acc, err := f.accounts.Get(ctx, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500_00-300_00-80_00), acc.Balance)
	assert.Equal(t, 2, acc.PaidRequestsCount)

	total, err := f.accounts.TotalDonated(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(530_00), total)
}

func TestSeeder_SeedDemo_CollectsErrors(t *testing.T) {
	f := setupSeeder(t)
	ctx := context.Background()

	// A clashing username makes that donor fail; everything else still seeds.
	require.NoError(t, f.users.Create(ctx, &domain.User{ID: uuid.New(), Username: "demo_donor_2", Role: domain.RoleRecipient}))

	err := f.seeder.SeedDemo(ctx)
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 1)
	assert.True(t, apperror.HasCode(errs[0], apperror.CodeUsernameExists))

	approved, err := f.ledger.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 2)
	// Only demo_donor_1's share reached the surgery request.
	assert.Equal(t, int64(900_00), approved[0].RemainingAmount)
}

func TestSeeder_SeedDemo_LedgerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthService(ctrl)
	accounts := mocks.NewMockAccountService(ctrl)
	ledger := mocks.NewMockLedgerService(ctrl)
	seeder := NewSeeder(auth, accounts, ledger, newTestLogger())

	auth.EXPECT().Provision(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req ports.RegisterRequest) (*domain.User, error) {
			return &domain.User{ID: uuid.New(), Username: req.Username, Role: req.Role}, nil
		},
	).Times(4)
	accounts.EXPECT().Deposit(gomock.Any(), gomock.Any()).Return(&domain.Transaction{}, int64(0), nil).Times(2)
	ledger.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("ledger closed")).Times(len(demoRequests))

	err := seeder.SeedDemo(context.Background())
	assert.Len(t, multierr.Errors(err), len(demoRequests))
}
