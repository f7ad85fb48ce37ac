package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the kind of money movement on a donor account.
type TransactionType string

const (
	TransactionTypeDeposit TransactionType = "DEPOSIT"
	TransactionTypePayment TransactionType = "PAYMENT"
)

// Transaction is an immutable entry in a donor account's history.
type Transaction struct {
	ID               uuid.UUID       `json:"id"`
	DonorID          uuid.UUID       `json:"donor_id"`
	TransactionType  TransactionType `json:"transaction_type"`
	Amount           int64           `json:"amount"` // minor units
	RelatedRequestID *uuid.UUID      `json:"related_request_id,omitempty"`
	Recipient        string          `json:"recipient,omitempty"`
	CardLast4        string          `json:"card_last4,omitempty"`
	Description      string          `json:"description"`
	CreatedAt        time.Time       `json:"created_at"`
}

// DonorAccount is the spendable balance and reputation of a donor.
type DonorAccount struct {
	DonorID           uuid.UUID `json:"donor_id"`
	Balance           int64     `json:"balance"`
	PaidRequestsCount int       `json:"paid_requests_count"`
	Rank              Rank      `json:"rank"`
	CreatedAt         time.Time `json:"created_at"`
}

// ValidCardNumber reports whether s is exactly 16 ASCII digits.
func ValidCardNumber(s string) bool {
	if len(s) != 16 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
