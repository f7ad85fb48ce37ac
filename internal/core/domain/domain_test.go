package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRankFor(t *testing.T) {
	tests := []struct {
		count int
		want  Rank
	}{
		{0, RankHopeGiver},
		{4, RankHopeGiver},
		{5, RankLifelineSupporter},
		{9, RankLifelineSupporter},
		{10, RankHeartOfGold},
		{19, RankHeartOfGold},
		{20, RankBeaconOfLight},
		{500, RankBeaconOfLight},
		{-1, RankHopeGiver},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			assert.Equal(t, tt.want, RankFor(tt.count))
		})
	}
}

func TestDonationRequest_ProgressPercentage(t *testing.T) {
	r := &DonationRequest{TotalAmount: 10000, RemainingAmount: 4000}
	assert.InDelta(t, 60.0, r.ProgressPercentage(), 0.0001)
	assert.Equal(t, int64(6000), r.AmountRaised())

	r.RemainingAmount = 10000
	assert.Equal(t, 0.0, r.ProgressPercentage())

	r.RemainingAmount = 0
	assert.Equal(t, 100.0, r.ProgressPercentage())

	assert.Equal(t, 0.0, (&DonationRequest{}).ProgressPercentage())
}

func TestDonationRequest_StatusHelpers(t *testing.T) {
	tests := []struct {
		name      string
		status    RequestStatus
		remaining int64
		terminal  bool
		payable   bool
	}{
		{"pending", RequestStatusPending, 100, false, false},
		{"approved", RequestStatusApproved, 100, false, true},
		{"declined", RequestStatusDeclined, 100, true, false},
		{"fulfilled", RequestStatusFulfilled, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &DonationRequest{Status: tt.status, TotalAmount: 100, RemainingAmount: tt.remaining}
			assert.Equal(t, tt.terminal, r.IsTerminal())
			assert.Equal(t, tt.payable, r.AcceptsPayments())
		})
	}
}

func TestDonationRequest_VisibleTo(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		name    string
		status  RequestStatus
		userID  uuid.UUID
		role    Role
		visible bool
	}{
		{"approved anonymous", RequestStatusApproved, uuid.Nil, "", true},
		{"fulfilled anonymous", RequestStatusFulfilled, uuid.Nil, "", true},
		{"pending anonymous", RequestStatusPending, uuid.Nil, "", false},
		{"declined anonymous", RequestStatusDeclined, uuid.Nil, "", false},
		{"pending donor", RequestStatusPending, stranger, RoleDonor, false},
		{"pending other recipient", RequestStatusPending, stranger, RoleRecipient, false},
		{"pending owner", RequestStatusPending, owner, RoleRecipient, true},
		{"declined owner", RequestStatusDeclined, owner, RoleRecipient, true},
		{"pending admin", RequestStatusPending, stranger, RoleAdmin, true},
		{"declined staff", RequestStatusDeclined, stranger, RoleStaff, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &DonationRequest{RecipientID: owner, Status: tt.status}
			assert.Equal(t, tt.visible, r.VisibleTo(tt.userID, tt.role))
			assert.Equal(t, tt.status == RequestStatusApproved || tt.status == RequestStatusFulfilled, r.IsPublic())
		})
	}
}

func TestDonationRequest_Less(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &DonationRequest{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), PriorityLevel: 2, CreatedAt: t0}
	b := &DonationRequest{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), PriorityLevel: 1, CreatedAt: t0.Add(time.Hour)}
	c := &DonationRequest{ID: uuid.MustParse("00000000-0000-0000-0000-000000000003"), PriorityLevel: 2, CreatedAt: t0}
	d := &DonationRequest{ID: uuid.MustParse("00000000-0000-0000-0000-000000000004"), PriorityLevel: 2, CreatedAt: t0.Add(time.Minute)}

	assert.True(t, b.Less(a), "lower priority level sorts first")
	assert.True(t, a.Less(d), "older request sorts first at equal priority")
	assert.True(t, a.Less(c), "id breaks exact ties")
	assert.False(t, c.Less(a))
}

func TestRole_Capabilities(t *testing.T) {
	tests := []struct {
		role           Role
		selfRegister   bool
		donate, review bool
	}{
		{RoleAdmin, false, false, true},
		{RoleDonor, true, true, false},
		{RoleRecipient, true, false, false},
		{RoleStaff, false, true, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.selfRegister, tt.role.SelfRegisterable())
			assert.Equal(t, tt.donate, tt.role.CanDonate())
			assert.Equal(t, tt.review, tt.role.CanReview())
		})
	}
}

func TestBuildDonationIdempotencyKey(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	key := BuildDonationIdempotencyKey(id, "abc-1")
	assert.Equal(t, "donate:550e8400-e29b-41d4-a716-446655440000:abc-1", key)
}

func TestValidCardNumber(t *testing.T) {
	assert.True(t, ValidCardNumber("4111111111111111"))
	assert.False(t, ValidCardNumber("411111111111111"))
	assert.False(t, ValidCardNumber("41111111111111112"))
	assert.False(t, ValidCardNumber("4111-1111-1111-11"))
	assert.False(t, ValidCardNumber(""))
}
