package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/peopleops/user-directory/internal/core/domain"
)

// AuthService authenticates directory users and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, userID uuid.UUID, password string) (string, *domain.User, error)
}

// PasswordHasher derives an opaque one-way hash from a plaintext credential.
// There is no corresponding unhash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}
