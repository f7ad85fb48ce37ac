package dto

import (
	"encoding/json"
	"testing"
	"time"

	"donation-platform/internal/core/domain"
	"donation-platform/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestResponse_Progress(t *testing.T) {
	approved := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	r := &domain.DonationRequest{
		ID:              uuid.New(),
		RecipientID:     uuid.New(),
		TotalAmount:     10000,
		RemainingAmount: 4000,
		PriorityLevel:   2,
		Reason:          "tuition",
		Status:          domain.RequestStatusApproved,
		CreatedAt:       approved.Add(-time.Hour),
		ApprovedAt:      &approved,
	}

	resp := NewRequestResponse(r)
	assert.Equal(t, 60.0, resp.ProgressPercentage)
	assert.Equal(t, "2024-03-01T10:00:00Z", *resp.ApprovedAt)
	assert.Nil(t, resp.FulfilledAt)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"total_amount":"100.00"`)
	assert.Contains(t, string(raw), `"remaining_amount":"40.00"`)
	assert.Contains(t, string(raw), `"amount_raised":"60.00"`)
	assert.NotContains(t, string(raw), "declined_at")
}

func TestNewUserResponse_DonorFieldsOnlyForAccounts(t *testing.T) {
	u := &domain.User{ID: uuid.New(), Username: "bob", Role: domain.RoleRecipient}
	raw, err := json.Marshal(NewUserResponse(u, nil))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "balance")

	u.Role = domain.RoleDonor
	acc := &domain.DonorAccount{Balance: 1234, PaidRequestsCount: 5, Rank: domain.RankLifelineSupporter}
	raw, err = json.Marshal(NewUserResponse(u, acc))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"balance":"12.34"`)
	assert.Contains(t, string(raw), `"rank":"Lifeline Supporter"`)
}

func TestNewDonateResponse(t *testing.T) {
	res := &ports.PaymentResult{
		TransactionID:   uuid.New(),
		RequestID:       uuid.New(),
		Amount:          4000,
		Fulfilled:       true,
		RemainingAmount: 0,
		NewBalance:      5000,
		NewRank:         domain.RankHopeGiver,
	}

	raw, err := json.Marshal(NewDonateResponse(res))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"transaction_id": "`+res.TransactionID.String()+`",
		"request_id": "`+res.RequestID.String()+`",
		"fulfilled": true,
		"amount_donated": "40.00",
		"new_balance": "50.00",
		"remaining_amount": "0.00",
		"new_rank": "Hope Giver"
	}`, string(raw))
}

func TestNewTransactionResponses(t *testing.T) {
	reqID := uuid.New()
	txns := []domain.Transaction{
		{ID: uuid.New(), TransactionType: domain.TransactionTypePayment, Amount: 100, RelatedRequestID: &reqID},
		{ID: uuid.New(), TransactionType: domain.TransactionTypeDeposit, Amount: 500, CardLast4: "4242"},
	}

	out := NewTransactionResponses(txns)
	require.Len(t, out, 2)
	require.NotNil(t, out[0].RelatedRequestID)
	assert.Equal(t, reqID.String(), *out[0].RelatedRequestID)
	assert.Nil(t, out[1].RelatedRequestID)
	assert.Equal(t, "4242", out[1].CardLast4)
}

func TestDepositRequest_AmountParsing(t *testing.T) {
	var req DepositRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"25.50","card_number":"4111111111111111"}`), &req))
	assert.Equal(t, int64(2550), req.Amount.Int64())

	require.NoError(t, json.Unmarshal([]byte(`{"amount":10,"card_number":"4111111111111111"}`), &req))
	assert.Equal(t, int64(1000), req.Amount.Int64())

	assert.Error(t, json.Unmarshal([]byte(`{"amount":"1.234"}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"amount":"abc"}`), &req))
}
