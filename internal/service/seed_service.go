package service

import (
	"context"
	"fmt"

	"donation-platform/internal/core/domain"
	"donation-platform/internal/core/ports"
	"donation-platform/pkg/apperror"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

const (
	demoPassword = "demo1234"
	demoCard     = "4111111111111111"
)

type demoRequest struct {
	recipient int
	amount    int64
	priority  int
	reason    string
	details   string
	approve   bool
	funding   []demoPayment
}

type demoPayment struct {
	donor  int
	amount int64
}

var (
	demoDonors = []struct {
		username string
		deposit  int64
	}{
		{"demo_donor_1", 500_00},
		{"demo_donor_2", 250_00},
	}
	demoRecipients = []string{"demo_recipient_1", "demo_recipient_2"}
	demoRequests   = []demoRequest{
		{recipient: 0, amount: 1200_00, priority: 1, reason: "Emergency surgery", details: "Hospital deposit due this week", approve: true,
			funding: []demoPayment{{donor: 0, amount: 300_00}, {donor: 1, amount: 150_00}}},
		{recipient: 1, amount: 80_00, priority: 2, reason: "School supplies", approve: true,
			funding: []demoPayment{{donor: 0, amount: 80_00}}},
		{recipient: 1, amount: 400_00, priority: 3, reason: "Rent arrears", details: "Two months behind", approve: true},
		{recipient: 0, amount: 60_00, priority: 2, reason: "Winter clothing"},
	}
)

// Seeder provisions startup data: the bootstrap administrator and optional demo content.
type Seeder struct {
	auth     ports.AuthService
	accounts ports.AccountService
	ledger   ports.LedgerService
	log      zerolog.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(auth ports.AuthService, accounts ports.AccountService, ledger ports.LedgerService, log zerolog.Logger) *Seeder {
	return &Seeder{auth: auth, accounts: accounts, ledger: ledger, log: log}
}

// BootstrapAdmin creates the administrator account. An empty password skips
// the bootstrap; an existing account with that username is left untouched.
func (s *Seeder) BootstrapAdmin(ctx context.Context, username, password string) error {
	if password == "" {
		s.log.Info().Msg("admin bootstrap disabled (no password configured)")
		return nil
	}
	_, err := s.auth.Provision(ctx, ports.RegisterRequest{Username: username, Password: password, Role: domain.RoleAdmin})
	if apperror.HasCode(err, apperror.CodeUsernameExists) {
		s.log.Info().Str("username", username).Msg("admin already exists, skipping bootstrap")
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	s.log.Info().Str("username", username).Msg("admin account created")
	return nil
}

// SeedDemo loads a small set of donors, recipients and requests.
// Steps that fail are collected; the rest of the seed still runs.
func (s *Seeder) SeedDemo(ctx context.Context) error {
	var errs error

	donors := make([]*domain.User, len(demoDonors))
	for i, d := range demoDonors {
		user, err := s.provision(ctx, d.username, domain.RoleDonor)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		donors[i] = user
		if _, _, err := s.accounts.Deposit(ctx, ports.DepositInput{DonorID: user.ID, Amount: d.deposit, CardNumber: demoCard}); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("deposit for %s: %w", d.username, err))
		}
	}

	recipients := make([]*domain.User, len(demoRecipients))
	for i, name := range demoRecipients {
		user, err := s.provision(ctx, name, domain.RoleRecipient)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		recipients[i] = user
	}

	var created int
	for _, r := range demoRequests {
		owner := recipients[r.recipient]
		if owner == nil {
			continue
		}
		if err := s.seedRequest(ctx, owner, r, donors); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		created++
	}

	s.log.Info().
		Int("donors", len(demoDonors)).
		Int("recipients", len(demoRecipients)).
		Int("requests", created).
		Int("errors", len(multierr.Errors(errs))).
		Msg("demo data seeded")
	return errs
}

func (s *Seeder) provision(ctx context.Context, username string, role domain.Role) (*domain.User, error) {
	user, err := s.auth.Provision(ctx, ports.RegisterRequest{Username: username, Password: demoPassword, Role: role})
	if err != nil {
		return nil, fmt.Errorf("provision %s: %w", username, err)
	}
	return user, nil
}

func (s *Seeder) seedRequest(ctx context.Context, owner *domain.User, r demoRequest, donors []*domain.User) error {
	req, err := s.ledger.Create(ctx, ports.CreateRequestInput{
		RecipientID:       owner.ID,
		RecipientUsername: owner.Username,
		Amount:            r.amount,
		Priority:          r.priority,
		Reason:            r.reason,
		Details:           r.details,
	})
	if err != nil {
		return fmt.Errorf("create request %q: %w", r.reason, err)
	}
	if !r.approve {
		return nil
	}
	if _, err := s.ledger.Approve(ctx, req.ID, r.priority); err != nil {
		return fmt.Errorf("approve request %q: %w", r.reason, err)
	}

	var errs error
	for _, p := range r.funding {
		donor := donors[p.donor]
		if donor == nil {
			continue
		}
		_, err := s.ledger.ApplyPayment(ctx, ports.PaymentInput{RequestID: req.ID, DonorID: donor.ID, Amount: p.amount})
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("fund request %q: %w", r.reason, err))
		}
	}
	return errs
}
