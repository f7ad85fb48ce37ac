package domain

import (
	"github.com/google/uuid"
)

// BuildDonationIdempotencyKey scopes a client-supplied Idempotency-Key to the donor.
func BuildDonationIdempotencyKey(donorID uuid.UUID, clientKey string) string {
	return "donate:" + donorID.String() + ":" + clientKey
}
