package memory

import (
	"context"
	"strings"
	"sync"

	"donation-platform/internal/core/domain"
	"donation-platform/pkg/apperror"

	"github.com/google/uuid"
)

// UserRepo implements ports.UserRepository in process memory.
// Usernames are indexed in lower case so uniqueness ignores case.
type UserRepo struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]domain.User
	byUsername map[string]uuid.UUID
}

// NewUserRepo creates an empty user registry.
func NewUserRepo() *UserRepo {
	return &UserRepo{
		users:      make(map[uuid.UUID]domain.User),
		byUsername: make(map[string]uuid.UUID),
	}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	key := strings.ToLower(user.Username)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUsername[key]; ok {
		return apperror.ErrUsernameExists()
	}
	r.users[user.ID] = *user
	r.byUsername[key] = user.ID
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[strings.ToLower(username)]
	if !ok {
		return nil, nil
	}
	u := r.users[id]
	return &u, nil
}

func (r *UserRepo) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[domain.Role]int64)
	for _, u := range r.users {
		out[u.Role]++
	}
	return out, nil
}
