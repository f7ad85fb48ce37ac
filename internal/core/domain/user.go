package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role represents what a user is allowed to do on the platform.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleDonor     Role = "DONOR"
	RoleRecipient Role = "RECIPIENT"
	RoleStaff     Role = "STAFF"
)

// SelfRegisterable returns true for roles users may pick at sign-up.
func (r Role) SelfRegisterable() bool {
	return r == RoleDonor || r == RoleRecipient
}

// CanDonate returns true if users with this role hold a donor account.
func (r Role) CanDonate() bool {
	return r == RoleDonor || r == RoleStaff
}

// CanReview returns true if users with this role may approve or decline requests.
func (r Role) CanReview() bool {
	return r == RoleAdmin || r == RoleStaff
}

// User is a registered platform user.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
