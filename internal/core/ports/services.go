//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

package ports

import (
	"context"
	"time"

	"donation-platform/internal/core/domain"

	"github.com/google/uuid"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(user *domain.User) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID    uuid.UUID
	Username  string
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// IdempotencyCache is the Redis-layer idempotency store for donations.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Claim marks key as in flight. Returns false if another caller holds it.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// TokenBlocklist tracks revoked session tokens until they expire.
type TokenBlocklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// --- Service Ports (Business Logic) ---

// LedgerService owns the set of donation requests and their lifecycle.
type LedgerService interface {
	Create(ctx context.Context, req CreateRequestInput) (*domain.DonationRequest, error)
	Approve(ctx context.Context, id uuid.UUID, priority int) (*domain.DonationRequest, error)
	Decline(ctx context.Context, id uuid.UUID) (*domain.DonationRequest, error)
	ApplyPayment(ctx context.Context, req PaymentInput) (*PaymentResult, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.DonationRequest, error)
	ListApproved(ctx context.Context) ([]domain.DonationRequest, error)
	ListPending(ctx context.Context) ([]domain.DonationRequest, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]domain.DonationRequest, error)
	Snapshot(ctx context.Context) ([]domain.DonationRequest, error)
}

// CreateRequestInput holds validated input for a new donation request.
type CreateRequestInput struct {
	RecipientID       uuid.UUID
	RecipientUsername string
	Amount            int64
	Priority          int
	Reason            string
	Details           string
}

// PaymentInput holds validated input for paying toward a request.
type PaymentInput struct {
	RequestID uuid.UUID
	DonorID   uuid.UUID
	Amount    int64
	// PayRemaining pays whatever is still outstanding; Amount is ignored.
	PayRemaining bool
}

// PaymentResult describes a successful payment.
type PaymentResult struct {
	TransactionID   uuid.UUID   `json:"transaction_id"`
	RequestID       uuid.UUID   `json:"request_id"`
	Amount          int64       `json:"amount"`
	Fulfilled       bool        `json:"fulfilled"`
	RemainingAmount int64       `json:"remaining_amount"`
	NewBalance      int64       `json:"new_balance"`
	NewRank         domain.Rank `json:"new_rank"`
}

// AccountService owns donor balances, transaction history and ranks.
type AccountService interface {
	Open(ctx context.Context, donorID uuid.UUID) (*domain.DonorAccount, error)
	Deposit(ctx context.Context, req DepositInput) (*domain.Transaction, int64, error) // transaction, new balance, error
	// Charge debits the donor for a payment toward a request. It is called by
	// the ledger while the request is locked; limit is the request's remaining amount.
	Charge(ctx context.Context, req ChargeInput) (*ChargeResult, error)
	Get(ctx context.Context, donorID uuid.UUID) (*domain.DonorAccount, error)
	Transactions(ctx context.Context, donorID uuid.UUID) ([]domain.Transaction, error)
	TotalDonated(ctx context.Context) (int64, error)
}

// DepositInput holds validated input for a deposit.
type DepositInput struct {
	DonorID    uuid.UUID
	Amount     int64
	CardNumber string
}

// ChargeInput holds the parameters of a donor debit.
type ChargeInput struct {
	DonorID   uuid.UUID
	RequestID uuid.UUID
	Amount    int64
	Limit     int64

	// Recorded on the donor's payment entry.
	RecipientUsername string
	Reason            string
}

// ChargeResult holds the donor's state after a debit.
type ChargeResult struct {
	TransactionID     uuid.UUID
	NewBalance        int64
	PaidRequestsCount int
	NewRank           domain.Rank
}

// DonationService is the donor-facing payment use case.
type DonationService interface {
	Donate(ctx context.Context, req DonateRequest) (*PaymentResult, error)
}

// DonateRequest wraps a payment with an optional client idempotency key.
type DonateRequest struct {
	PaymentInput
	IdempotencyKey string
}

// StatsService aggregates platform-wide figures.
type StatsService interface {
	GetStats(ctx context.Context) (*PlatformStats, error)
}

// PlatformStats holds aggregate platform figures. Amounts are in minor units.
type PlatformStats struct {
	TotalUsers          int64
	TotalDonors         int64
	TotalRecipients     int64
	PendingRequests     int64
	ApprovedRequests    int64
	FulfilledRequests   int64
	DeclinedRequests    int64
	TotalRequests       int64
	TotalDonated        int64
	TotalRequestsAmount int64
	PlatformEfficiency  float64
}

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	// Provision creates a user of any role. Used for bootstrap and seeding.
	Provision(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, claims *TokenClaims) error
	Profile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// RegisterRequest holds input for user registration.
type RegisterRequest struct {
	Username string
	Password string
	Role     domain.Role
}

// LoginResult holds a freshly issued session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuditService records audited actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
