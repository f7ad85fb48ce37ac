package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"donation-platform/internal/core/domain"
	"donation-platform/internal/core/ports"
	"donation-platform/pkg/apperror"
	"donation-platform/pkg/metrics"
	"donation-platform/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type donorEntry struct {
	mu           sync.Mutex
	account      domain.DonorAccount
	transactions []domain.Transaction // oldest first
}

// AccountServiceImpl implements ports.AccountService with process-local state.
// Each account carries its own lock; the map lock only guards the index.
type AccountServiceImpl struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*donorEntry
	donated  atomic.Int64
	metrics  *metrics.DonationMetrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewAccountService creates an empty account registry.
func NewAccountService(m *metrics.DonationMetrics, log zerolog.Logger) *AccountServiceImpl {
	return &AccountServiceImpl{
		accounts: make(map[uuid.UUID]*donorEntry),
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Open creates the donor's account if it does not exist yet.
func (s *AccountServiceImpl) Open(ctx context.Context, donorID uuid.UUID) (*domain.DonorAccount, error) {
	s.mu.Lock()
	entry, ok := s.accounts[donorID]
	if !ok {
		entry = &donorEntry{account: domain.DonorAccount{
			DonorID:   donorID,
			Rank:      domain.RankFor(0),
			CreatedAt: s.now().UTC(),
		}}
		s.accounts[donorID] = entry
	}
	s.mu.Unlock()

	if !ok {
		s.log.Debug().Str("donor_id", donorID.String()).Msg("donor account opened")
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	acc := entry.account
	return &acc, nil
}

// Deposit credits the donor's balance from a card and records the movement.
func (s *AccountServiceImpl) Deposit(ctx context.Context, req ports.DepositInput) (*domain.Transaction, int64, error) {
	if !money.Valid(req.Amount) {
		return nil, 0, apperror.ErrInvalidAmount()
	}
	if !domain.ValidCardNumber(req.CardNumber) {
		return nil, 0, apperror.Validation("Card number must be exactly 16 digits")
	}

	entry, err := s.lookup(req.DonorID)
	if err != nil {
		return nil, 0, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	balance, ok := money.Add(entry.account.Balance, req.Amount)
	if !ok {
		return nil, 0, apperror.ErrInvalidAmount()
	}

	last4 := req.CardNumber[len(req.CardNumber)-4:]
	txn := domain.Transaction{
		ID:              uuid.New(),
		DonorID:         req.DonorID,
		TransactionType: domain.TransactionTypeDeposit,
		Amount:          req.Amount,
		CardLast4:       last4,
		Description:     "Deposit via card ending in " + last4,
		CreatedAt:       s.now().UTC(),
	}
	entry.account.Balance = balance
	entry.transactions = append(entry.transactions, txn)

	s.metrics.Deposited(req.Amount)
	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("donor_id", req.DonorID.String()).
		Int64("amount", req.Amount).
		Msg("deposit processed successfully")

	return &txn, entry.account.Balance, nil
}

// Charge debits the donor for a payment toward a request.
// Balance is checked before the request limit.
func (s *AccountServiceImpl) Charge(ctx context.Context, req ports.ChargeInput) (*ports.ChargeResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	entry, err := s.lookup(req.DonorID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.account.Balance < req.Amount {
		return nil, apperror.ErrInsufficientBalance()
	}
	if req.Amount > req.Limit {
		return nil, apperror.ErrAmountExceedsRemaining()
	}

	if err := s.addDonated(req.Amount); err != nil {
		return nil, err
	}

	entry.account.Balance -= req.Amount
	if entry.account.Balance < 0 {
		panic(fmt.Sprintf("donor %s balance went negative", req.DonorID))
	}
	entry.account.PaidRequestsCount++
	entry.account.Rank = domain.RankFor(entry.account.PaidRequestsCount)

	requestID := req.RequestID
	txn := domain.Transaction{
		ID:               uuid.New(),
		DonorID:          req.DonorID,
		TransactionType:  domain.TransactionTypePayment,
		Amount:           req.Amount,
		RelatedRequestID: &requestID,
		Recipient:        req.RecipientUsername,
		Description:      paymentDescription(req),
		CreatedAt:        s.now().UTC(),
	}
	entry.transactions = append(entry.transactions, txn)

	return &ports.ChargeResult{
		TransactionID:     txn.ID,
		NewBalance:        entry.account.Balance,
		PaidRequestsCount: entry.account.PaidRequestsCount,
		NewRank:           entry.account.Rank,
	}, nil
}

// Get returns a snapshot of the donor's account.
func (s *AccountServiceImpl) Get(ctx context.Context, donorID uuid.UUID) (*domain.DonorAccount, error) {
	entry, err := s.lookup(donorID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	acc := entry.account
	return &acc, nil
}

// Transactions returns the donor's history, most recent first.
func (s *AccountServiceImpl) Transactions(ctx context.Context, donorID uuid.UUID) ([]domain.Transaction, error) {
	entry, err := s.lookup(donorID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	out := make([]domain.Transaction, len(entry.transactions))
	for i, txn := range entry.transactions {
		out[len(out)-1-i] = txn
	}
	return out, nil
}

// TotalDonated returns the sum of all payment amounts across donors.
func (s *AccountServiceImpl) TotalDonated(ctx context.Context) (int64, error) {
	return s.donated.Load(), nil
}

func paymentDescription(req ports.ChargeInput) string {
	amount := money.Format(req.Amount)
	switch {
	case req.RecipientUsername != "" && req.Reason != "":
		return fmt.Sprintf("Donation: %s to %s for %s", amount, req.RecipientUsername, req.Reason)
	case req.Reason != "":
		return fmt.Sprintf("Donation: %s to %s", amount, req.Reason)
	default:
		return fmt.Sprintf("Donation: %s to request %s", amount, req.RequestID)
	}
}

// addDonated bumps the platform total, refusing sums that would not fit in an int64.
func (s *AccountServiceImpl) addDonated(amount int64) error {
	for {
		cur := s.donated.Load()
		next, ok := money.Add(cur, amount)
		if !ok {
			return apperror.InternalError(fmt.Errorf("total donated overflows: %d + %d", cur, amount))
		}
		if s.donated.CompareAndSwap(cur, next) {
			return nil
		}
	}
}

func (s *AccountServiceImpl) lookup(donorID uuid.UUID) (*donorEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.accounts[donorID]
	if !ok {
		return nil, apperror.ErrNotFound("Donor account")
	}
	return entry, nil
}
