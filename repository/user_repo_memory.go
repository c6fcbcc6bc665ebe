package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"invoicepro/models"
)

// MemoryUserRepo keeps accounts in process memory, for tests and the
// in-memory drive mode.
type MemoryUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]models.AppUser
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]models.AppUser)}
}

func (r *MemoryUserRepo) CreateUser(_ context.Context, user *models.AppUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := r.users[key]; ok {
		return ErrEmailTaken
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.nextID++
	user.ID = r.nextID
	r.users[key] = *user
	return nil
}

func (r *MemoryUserRepo) GetUserByEmail(_ context.Context, email string) (*models.AppUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
