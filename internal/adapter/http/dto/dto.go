package dto

import (
	"time"

	"donation-platform/internal/core/domain"
	"donation-platform/internal/core/ports"
	"donation-platform/pkg/money"
)

// RegisterRequest is the request body for sign-up.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=4,max=128"`
	Role     string `json:"role" binding:"required,self_role"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires_at"` // Unix timestamp
	User      UserResponse `json:"user"`
}

// UserResponse describes a user. Donor fields are set only for donor-capable roles.
type UserResponse struct {
	ID                string        `json:"id"`
	Username          string        `json:"username"`
	Role              domain.Role   `json:"role"`
	CreatedAt         string        `json:"created_at"`
	Balance           *money.Amount `json:"balance,omitempty"`
	PaidRequestsCount *int          `json:"paid_requests_count,omitempty"`
	Rank              *domain.Rank  `json:"rank,omitempty"`
}

// DepositRequest is the request body for adding funds.
type DepositRequest struct {
	Amount     money.Amount `json:"amount"`
	CardNumber string       `json:"card_number" binding:"required,card16"`
}

// DepositResponse is the response body for a deposit.
type DepositResponse struct {
	TransactionID string       `json:"transaction_id"`
	Amount        money.Amount `json:"amount"`
	NewBalance    money.Amount `json:"new_balance"`
}

// BalanceResponse is the response for a balance query.
type BalanceResponse struct {
	Balance           money.Amount `json:"balance"`
	PaidRequestsCount int          `json:"paid_requests_count"`
	Rank              domain.Rank  `json:"rank"`
}

// TransactionResponse is one entry of a donor's history.
type TransactionResponse struct {
	ID               string                 `json:"id"`
	TransactionType  domain.TransactionType `json:"transaction_type"`
	Amount           money.Amount           `json:"amount"`
	RelatedRequestID *string                `json:"related_request_id,omitempty"`
	Recipient        string                 `json:"recipient,omitempty"`
	CardLast4        string                 `json:"card_last4,omitempty"`
	Description      string                 `json:"description"`
	CreatedAt        string                 `json:"created_at"`
}

// DonateRequest is the request body for paying toward a request.
// With FullPayment set, Amount is ignored and the remaining amount is paid.
type DonateRequest struct {
	RequestID   string       `json:"request_id" binding:"required,uuid"`
	Amount      money.Amount `json:"amount"`
	FullPayment bool         `json:"full_payment"`
}

// DonateResponse is the response body for a payment.
type DonateResponse struct {
	TransactionID   string       `json:"transaction_id"`
	RequestID       string       `json:"request_id"`
	Fulfilled       bool         `json:"fulfilled"`
	AmountDonated   money.Amount `json:"amount_donated"`
	NewBalance      money.Amount `json:"new_balance"`
	RemainingAmount money.Amount `json:"remaining_amount"`
	NewRank         domain.Rank  `json:"new_rank"`
}

// CreateRequestRequest is the request body for submitting a funding request.
type CreateRequestRequest struct {
	Amount        money.Amount `json:"amount"`
	PriorityLevel int          `json:"priority_level" binding:"required,min=1"`
	Reason        string       `json:"reason" binding:"required,max=255"`
	CaseDetails   string       `json:"case_details" binding:"max=5000"`
}

// ApproveRequest is the request body for approving a pending request.
type ApproveRequest struct {
	PriorityLevel int `json:"priority_level" binding:"required,min=1"`
}

// RequestResponse describes a donation request.
type RequestResponse struct {
	ID                 string               `json:"id"`
	RecipientID        string               `json:"recipient_id"`
	RecipientUsername  string               `json:"recipient_username"`
	TotalAmount        money.Amount         `json:"total_amount"`
	RemainingAmount    money.Amount         `json:"remaining_amount"`
	AmountRaised       money.Amount         `json:"amount_raised"`
	ProgressPercentage float64              `json:"progress_percentage"`
	PriorityLevel      int                  `json:"priority_level"`
	Reason             string               `json:"reason"`
	CaseDetails        string               `json:"case_details,omitempty"`
	Status             domain.RequestStatus `json:"status"`
	CreatedAt          string               `json:"created_at"`
	ApprovedAt         *string              `json:"approved_at,omitempty"`
	DeclinedAt         *string              `json:"declined_at,omitempty"`
	FulfilledAt        *string              `json:"fulfilled_at,omitempty"`
}

// StatsResponse is the public platform summary.
type StatsResponse struct {
	TotalUsers          int64        `json:"total_users"`
	TotalDonors         int64        `json:"total_donors"`
	TotalRecipients     int64        `json:"total_recipients"`
	PendingRequests     int64        `json:"pending_requests"`
	ApprovedRequests    int64        `json:"approved_requests"`
	FulfilledRequests   int64        `json:"fulfilled_requests"`
	DeclinedRequests    int64        `json:"declined_requests"`
	TotalRequests       int64        `json:"total_requests"`
	TotalDonated        money.Amount `json:"total_donated"`
	TotalRequestsAmount money.Amount `json:"total_requests_amount"`
	PlatformEfficiency  float64      `json:"platform_efficiency"`
}

// NewUserResponse maps a user, adding donor details when acc is non-nil.
func NewUserResponse(u *domain.User, acc *domain.DonorAccount) UserResponse {
	resp := UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: formatTime(u.CreatedAt),
	}
	if acc != nil {
		balance := money.Amount(acc.Balance)
		paid := acc.PaidRequestsCount
		rank := acc.Rank
		resp.Balance = &balance
		resp.PaidRequestsCount = &paid
		resp.Rank = &rank
	}
	return resp
}

// NewBalanceResponse maps a donor account.
func NewBalanceResponse(acc *domain.DonorAccount) BalanceResponse {
	return BalanceResponse{
		Balance:           money.Amount(acc.Balance),
		PaidRequestsCount: acc.PaidRequestsCount,
		Rank:              acc.Rank,
	}
}

// NewTransactionResponses maps a donor's history, keeping its order.
func NewTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		out[i] = TransactionResponse{
			ID:              t.ID.String(),
			TransactionType: t.TransactionType,
			Amount:          money.Amount(t.Amount),
			Recipient:       t.Recipient,
			CardLast4:       t.CardLast4,
			Description:     t.Description,
			CreatedAt:       formatTime(t.CreatedAt),
		}
		if t.RelatedRequestID != nil {
			s := t.RelatedRequestID.String()
			out[i].RelatedRequestID = &s
		}
	}
	return out
}

// NewDonateResponse maps a payment result.
func NewDonateResponse(r *ports.PaymentResult) DonateResponse {
	return DonateResponse{
		TransactionID:   r.TransactionID.String(),
		RequestID:       r.RequestID.String(),
		Fulfilled:       r.Fulfilled,
		AmountDonated:   money.Amount(r.Amount),
		NewBalance:      money.Amount(r.NewBalance),
		RemainingAmount: money.Amount(r.RemainingAmount),
		NewRank:         r.NewRank,
	}
}

// NewRequestResponse maps a donation request.
func NewRequestResponse(r *domain.DonationRequest) RequestResponse {
	return RequestResponse{
		ID:                 r.ID.String(),
		RecipientID:        r.RecipientID.String(),
		RecipientUsername:  r.RecipientUsername,
		TotalAmount:        money.Amount(r.TotalAmount),
		RemainingAmount:    money.Amount(r.RemainingAmount),
		AmountRaised:       money.Amount(r.AmountRaised()),
		ProgressPercentage: r.ProgressPercentage(),
		PriorityLevel:      r.PriorityLevel,
		Reason:             r.Reason,
		CaseDetails:        r.CaseDetails,
		Status:             r.Status,
		CreatedAt:          formatTime(r.CreatedAt),
		ApprovedAt:         formatTimePtr(r.ApprovedAt),
		DeclinedAt:         formatTimePtr(r.DeclinedAt),
		FulfilledAt:        formatTimePtr(r.FulfilledAt),
	}
}

// NewRequestResponses maps a listing, keeping its order.
func NewRequestResponses(reqs []domain.DonationRequest) []RequestResponse {
	out := make([]RequestResponse, len(reqs))
	for i := range reqs {
		out[i] = NewRequestResponse(&reqs[i])
	}
	return out
}

// NewStatsResponse maps platform statistics.
func NewStatsResponse(s *ports.PlatformStats) StatsResponse {
	return StatsResponse{
		TotalUsers:          s.TotalUsers,
		TotalDonors:         s.TotalDonors,
		TotalRecipients:     s.TotalRecipients,
		PendingRequests:     s.PendingRequests,
		ApprovedRequests:    s.ApprovedRequests,
		FulfilledRequests:   s.FulfilledRequests,
		DeclinedRequests:    s.DeclinedRequests,
		TotalRequests:       s.TotalRequests,
		TotalDonated:        money.Amount(s.TotalDonated),
		TotalRequestsAmount: money.Amount(s.TotalRequestsAmount),
		PlatformEfficiency:  s.PlatformEfficiency,
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
