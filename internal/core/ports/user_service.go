package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/peopleops/user-directory/internal/core/domain"
)

// CreateUserInput carries all data needed to create a new directory record.
type CreateUserInput struct {
	// ID is optional; a fresh UUID is generated when nil. Supplying an id that
	// is already taken fails with domain.ErrUserExists.
	ID        *uuid.UUID
	FirstName string
	LastName  string
	Gender    string
	Roles     []string
	// Password is the plaintext credential. It is one-way hashed before
	// storage and never persisted as-is.
	Password  string
	ManagedBy *uuid.UUID
	InCharge  []uuid.UUID
}

// UpdateUserInput is a full replacement of every mutable field. ID,
// ActivatedAt, and the credential hash are preserved from the stored record.
type UpdateUserInput struct {
	FirstName string
	LastName  string
	Gender    string
	Roles     []string
	ManagedBy *uuid.UUID
	InCharge  []uuid.UUID
}

// PatchUserInput replaces only the fields that are explicitly supplied.
// Nil fields retain the stored value. ClearManagedBy removes the manager
// link; it takes precedence over ManagedBy.
type PatchUserInput struct {
	FirstName      *string
	LastName       *string
	Gender         *string
	Roles          []string
	ManagedBy      *uuid.UUID
	ClearManagedBy bool
	InCharge       []uuid.UUID
}

// Empty reports whether the patch supplies no fields at all.
func (in PatchUserInput) Empty() bool {
	return in.FirstName == nil &&
		in.LastName == nil &&
		in.Gender == nil &&
		in.Roles == nil &&
		in.ManagedBy == nil &&
		!in.ClearManagedBy &&
		in.InCharge == nil
}

// UserService defines the directory use-cases. Every mutation returns the
// canonical record re-read from the store after the write, never the
// in-memory candidate.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, limit int) ([]*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.User, error)
	Patch(ctx context.Context, id uuid.UUID, input PatchUserInput) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) (*domain.User, error)
	DeleteAll(ctx context.Context) error
}
