// Package memory provides an in-memory UserRepository with the same
// uniqueness semantics as the Postgres implementation. It backs unit tests
// and local experiments; it is not meant for production use.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/intesigroup/user-registry/internal/domain/entity"
	"github.com/intesigroup/user-registry/internal/domain/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entity.User
	order []string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*entity.User)}
}

func clone(u *entity.User) *entity.User {
	cp := *u
	cp.Roles = append([]entity.Role(nil), u.Roles...)
	return &cp
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) FindByCodiceFiscale(_ context.Context, cf string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.CodiceFiscale == cf {
			return clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrEmailTaken
		}
	}
	for _, existing := range r.users {
		if existing.CodiceFiscale == u.CodiceFiscale {
			return repository.ErrCodiceFiscaleTaken
		}
	}
	r.users[u.ID] = clone(u)
	r.order = append(r.order, u.ID)
	return nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range r.users {
		if existing.ID == u.ID {
			continue
		}
		if existing.Email == u.Email {
			return repository.ErrEmailTaken
		}
		if existing.CodiceFiscale == u.CodiceFiscale {
			return repository.ErrCodiceFiscaleTaken
		}
	}
	r.users[u.ID] = clone(u)
	return nil
}

func (r *UserRepository) ListExcludingStatus(_ context.Context, status entity.Status, page repository.Page) ([]*entity.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := append([]string(nil), r.order...)
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := r.users[ids[i]], r.users[ids[j]]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	matched := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		if u := r.users[id]; u.Status != status {
			matched = append(matched, clone(u))
		}
	}
	total := int64(len(matched))

	start := page.Offset()
	if start >= len(matched) {
		return []*entity.User{}, total, nil
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
