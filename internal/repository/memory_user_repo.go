package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mohammadf16/numberhunt/internal/model"
)

// memoryUserRepo backs development runs without a database.
type memoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

// NewMemoryUserRepo creates an in-memory user repository.
func NewMemoryUserRepo() UserRepo {
	return &memoryUserRepo{users: make(map[string]*model.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.CreatedAt = time.Now()
	cp := *user
	r.users[strings.ToLower(user.Username)] = &cp
	return nil
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[strings.ToLower(username)]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}
