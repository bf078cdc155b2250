package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/peopleops/user-directory/internal/core/domain"
)

// UserRepository is the key-value directory store boundary. Each record is
// stored under its user id; there are no multi-key transactions, so callers
// sequencing writes across records get best-effort consistency only.
type UserRepository interface {
	// Get returns the record stored under id, or domain.ErrUserNotFound.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// Set persists the record under its own id, overwriting any previous value.
	Set(ctx context.Context, user *domain.User) error
	// Delete removes the record stored under id. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteAll wipes the whole directory.
	DeleteAll(ctx context.Context) error
	// List returns up to limit records in store-defined order. limit <= 0
	// means no cap.
	List(ctx context.Context, limit int) ([]*domain.User, error)
}
