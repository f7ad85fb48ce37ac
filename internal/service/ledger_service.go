package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"donation-platform/internal/core/domain"
	"donation-platform/internal/core/ports"
	"donation-platform/pkg/apperror"
	"donation-platform/pkg/metrics"
	"donation-platform/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type requestEntry struct {
	mu  sync.Mutex
	req domain.DonationRequest
}

// LedgerServiceImpl implements ports.LedgerService.
//
// Every request has its own lock. ApplyPayment holds the request lock while it
// charges the donor account, so lock order is always request then account.
type LedgerServiceImpl struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]*requestEntry
	accounts ports.AccountService
	metrics  *metrics.DonationMetrics
	log      zerolog.Logger
	now      func() time.Time
}

// NewLedgerService creates an empty request ledger that charges donors through accounts.
func NewLedgerService(accounts ports.AccountService, m *metrics.DonationMetrics, log zerolog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		requests: make(map[uuid.UUID]*requestEntry),
		accounts: accounts,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Create registers a new pending request.
func (s *LedgerServiceImpl) Create(ctx context.Context, in ports.CreateRequestInput) (*domain.DonationRequest, error) {
	if !money.Valid(in.Amount) {
		return nil, apperror.ErrInvalidAmount()
	}
	if in.Priority < 1 {
		return nil, apperror.ErrInvalidPriority()
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate request id: %w", err))
	}

	entry := &requestEntry{req: domain.DonationRequest{
		ID:                id,
		RecipientID:       in.RecipientID,
		RecipientUsername: in.RecipientUsername,
		TotalAmount:       in.Amount,
		RemainingAmount:   in.Amount,
		PriorityLevel:     in.Priority,
		Reason:            in.Reason,
		CaseDetails:       in.Details,
		Status:            domain.RequestStatusPending,
		CreatedAt:         s.now().UTC(),
	}}

	s.mu.Lock()
	s.requests[id] = entry
	s.mu.Unlock()

	s.metrics.RequestTransition(string(domain.RequestStatusPending))
	s.log.Info().
		Str("request_id", id.String()).
		Str("recipient_id", in.RecipientID.String()).
		Int64("amount", in.Amount).
		Int("priority", in.Priority).
		Msg("donation request created")

	out := entry.req
	return &out, nil
}

// Approve moves a pending request into the donatable set with the given priority.
func (s *LedgerServiceImpl) Approve(ctx context.Context, id uuid.UUID, priority int) (*domain.DonationRequest, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.req.Status != domain.RequestStatusPending {
		return nil, apperror.ErrInvalidState(fmt.Sprintf("Donation request is %s, not PENDING", entry.req.Status))
	}
	if priority < 1 {
		return nil, apperror.ErrInvalidPriority()
	}

	now := s.now().UTC()
	entry.req.Status = domain.RequestStatusApproved
	entry.req.PriorityLevel = priority
	entry.req.ApprovedAt = &now

	s.metrics.RequestTransition(string(domain.RequestStatusApproved))
	s.log.Info().Str("request_id", id.String()).Int("priority", priority).Msg("donation request approved")

	out := entry.req
	return &out, nil
}

// Decline terminally rejects a pending request.
func (s *LedgerServiceImpl) Decline(ctx context.Context, id uuid.UUID) (*domain.DonationRequest, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.req.Status != domain.RequestStatusPending {
		return nil, apperror.ErrInvalidState(fmt.Sprintf("Donation request is %s, not PENDING", entry.req.Status))
	}

	now := s.now().UTC()
	entry.req.Status = domain.RequestStatusDeclined
	entry.req.DeclinedAt = &now

	s.metrics.RequestTransition(string(domain.RequestStatusDeclined))
	s.log.Info().Str("request_id", id.String()).Msg("donation request declined")

	out := entry.req
	return &out, nil
}

// ApplyPayment pays toward an approved request from the donor's balance.
//
// Checks run in order and the first failure wins: the request exists and is
// approved, the amount is positive, the donor can afford it, and it does not
// exceed what is still outstanding.
func (s *LedgerServiceImpl) ApplyPayment(ctx context.Context, in ports.PaymentInput) (*ports.PaymentResult, error) {
	entry, err := s.lookup(in.RequestID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.req.Status != domain.RequestStatusApproved {
		return nil, apperror.ErrInvalidState(fmt.Sprintf("Donation request is %s, not APPROVED", entry.req.Status))
	}

	amount := in.Amount
	if in.PayRemaining {
		amount = entry.req.RemainingAmount
	}
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	charge, err := s.accounts.Charge(ctx, ports.ChargeInput{
		DonorID:   in.DonorID,
		RequestID: in.RequestID,
		Amount:    amount,
		Limit:     entry.req.RemainingAmount,

		RecipientUsername: entry.req.RecipientUsername,
		Reason:            entry.req.Reason,
	})
	if err != nil {
		return nil, err
	}

	entry.req.RemainingAmount -= amount
	if entry.req.RemainingAmount < 0 || entry.req.RemainingAmount > entry.req.TotalAmount {
		panic(fmt.Sprintf("request %s remaining amount %d out of range", in.RequestID, entry.req.RemainingAmount))
	}

	fulfilled := entry.req.RemainingAmount == 0
	if fulfilled {
		now := s.now().UTC()
		entry.req.Status = domain.RequestStatusFulfilled
		entry.req.FulfilledAt = &now
		s.metrics.RequestTransition(string(domain.RequestStatusFulfilled))
	}

	s.log.Info().
		Str("request_id", in.RequestID.String()).
		Str("donor_id", in.DonorID.String()).
		Str("tx_id", charge.TransactionID.String()).
		Int64("amount", amount).
		Int64("remaining", entry.req.RemainingAmount).
		Bool("fulfilled", fulfilled).
		Msg("payment applied")

	return &ports.PaymentResult{
		TransactionID:   charge.TransactionID,
		RequestID:       in.RequestID,
		Amount:          amount,
		Fulfilled:       fulfilled,
		RemainingAmount: entry.req.RemainingAmount,
		NewBalance:      charge.NewBalance,
		NewRank:         charge.NewRank,
	}, nil
}

// Get returns a snapshot of a request in any status.
func (s *LedgerServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.DonationRequest, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	out := entry.req
	return &out, nil
}

// ListApproved returns requests still accepting donations, most urgent and oldest first.
func (s *LedgerServiceImpl) ListApproved(ctx context.Context) ([]domain.DonationRequest, error) {
	out := s.collect(func(r *domain.DonationRequest) bool { return r.Status == domain.RequestStatusApproved })
	sortByPriority(out)
	return out, nil
}

// ListPending returns the review queue in the same order as ListApproved.
func (s *LedgerServiceImpl) ListPending(ctx context.Context) ([]domain.DonationRequest, error) {
	out := s.collect(func(r *domain.DonationRequest) bool { return r.Status == domain.RequestStatusPending })
	sortByPriority(out)
	return out, nil
}

// ListByRecipient returns all requests submitted by a recipient, newest first.
func (s *LedgerServiceImpl) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]domain.DonationRequest, error) {
	out := s.collect(func(r *domain.DonationRequest) bool { return r.RecipientID == recipientID })
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out, nil
}

// Snapshot returns every request in the ledger.
func (s *LedgerServiceImpl) Snapshot(ctx context.Context) ([]domain.DonationRequest, error) {
	return s.collect(func(*domain.DonationRequest) bool { return true }), nil
}

func (s *LedgerServiceImpl) lookup(id uuid.UUID) (*requestEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.requests[id]
	if !ok {
		return nil, apperror.ErrNotFound("Donation request")
	}
	return entry, nil
}

// collect copies the requests matching keep. Each entry is read under its own lock.
func (s *LedgerServiceImpl) collect(keep func(*domain.DonationRequest) bool) []domain.DonationRequest {
	s.mu.RLock()
	entries := make([]*requestEntry, 0, len(s.requests))
	for _, e := range s.requests {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]domain.DonationRequest, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if keep(&e.req) {
			out = append(out, e.req)
		}
		e.mu.Unlock()
	}
	return out
}

func sortByPriority(reqs []domain.DonationRequest) {
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].Less(&reqs[j]) })
}
