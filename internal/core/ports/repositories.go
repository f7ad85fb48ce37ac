//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

package ports

import (
	"context"

	"donation-platform/internal/core/domain"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for platform users.
// Lookups return nil, nil when the user does not exist.
type UserRepository interface {
	// Create stores a new user. Usernames are unique case-insensitively;
	// a clash returns apperror.ErrUsernameExists.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}
