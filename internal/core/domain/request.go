package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus represents the lifecycle state of a donation request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusApproved  RequestStatus = "APPROVED"
	RequestStatusDeclined  RequestStatus = "DECLINED"
	RequestStatusFulfilled RequestStatus = "FULFILLED"
)

// DonationRequest is a recipient's plea for a specific amount of money.
// Amounts are in minor units (cents).
type DonationRequest struct {
	ID                uuid.UUID     `json:"id"`
	RecipientID       uuid.UUID     `json:"recipient_id"`
	RecipientUsername string        `json:"recipient_username"`
	TotalAmount       int64         `json:"total_amount"`
	RemainingAmount   int64         `json:"remaining_amount"`
	PriorityLevel     int           `json:"priority_level"` // 1 is the most urgent
	Reason            string        `json:"reason"`
	CaseDetails       string        `json:"case_details"`
	Status            RequestStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	ApprovedAt        *time.Time    `json:"approved_at,omitempty"`
	DeclinedAt        *time.Time    `json:"declined_at,omitempty"`
	FulfilledAt       *time.Time    `json:"fulfilled_at,omitempty"`
}

// IsTerminal returns true if no further transition is possible.
func (r *DonationRequest) IsTerminal() bool {
	return r.Status == RequestStatusDeclined || r.Status == RequestStatusFulfilled
}

// AcceptsPayments returns true if donors can currently pay toward the request.
func (r *DonationRequest) AcceptsPayments() bool {
	return r.Status == RequestStatusApproved && r.RemainingAmount > 0
}

// IsPublic returns true if anonymous callers may read the request.
func (r *DonationRequest) IsPublic() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusFulfilled
}

// VisibleTo reports whether the caller may read the request. Pending and
// declined requests are limited to reviewers and the owning recipient.
// userID is uuid.Nil for anonymous callers.
func (r *DonationRequest) VisibleTo(userID uuid.UUID, role Role) bool {
	if r.IsPublic() || role.CanReview() {
		return true
	}
	return userID != uuid.Nil && userID == r.RecipientID
}

// AmountRaised returns how much has been paid so far.
func (r *DonationRequest) AmountRaised() int64 {
	return r.TotalAmount - r.RemainingAmount
}

// ProgressPercentage returns (total - remaining) / total * 100.
func (r *DonationRequest) ProgressPercentage() float64 {
	if r.TotalAmount == 0 {
		return 0
	}
	return float64(r.AmountRaised()) / float64(r.TotalAmount) * 100
}

// Less orders requests by priority, then creation time, then id.
func (r *DonationRequest) Less(other *DonationRequest) bool {
	if r.PriorityLevel != other.PriorityLevel {
		return r.PriorityLevel < other.PriorityLevel
	}
	if !r.CreatedAt.Equal(other.CreatedAt) {
		return r.CreatedAt.Before(other.CreatedAt)
	}
	return r.ID.String() < other.ID.String()
}
