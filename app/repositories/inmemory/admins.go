package inmemory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sharikirostov/balloon-store/app/models"
)

type adminRepository struct {
	store *Store
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, a := range r.store.data.admins {
		if a.Email == email {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *adminRepository) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.data.admins[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, a := range r.store.data.admins {
		if a.Email == admin.Email {
			return fmt.Errorf("admin %s: %w", admin.Email, ErrDuplicateKey)
		}
	}
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	r.store.data.admins[admin.ID] = *admin
	return nil
}

func (r *adminRepository) DeleteByEmail(ctx context.Context, email string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, a := range r.store.data.admins {
		if a.Email == email {
			delete(r.store.data.admins, id)
		}
	}
	return nil
}
