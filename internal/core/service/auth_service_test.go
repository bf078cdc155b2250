package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/peopleops/user-directory/internal/core/domain"
)

func seedWithPassword(store *stubStore, password string, roles []domain.Role) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := seedUser(store, roles, nil)
	u.HashedPassword = string(hash)
	store.users[u.ID] = u
	return u
}

func TestAuthService_Login_Success(t *testing.T) {
	store := newStubStore()
	svc := NewAuthService(store, "secret", time.Hour)
	user := seedWithPassword(store, "s3cret", []domain.Role{domain.RoleAdmin, domain.RoleManager})

	token, got, err := svc.Login(context.Background(), user.ID, "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected token, got empty")
	}
	if got == nil || got.ID != user.ID {
		t.Fatalf("unexpected user: %+v", got)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != user.ID.String() {
		t.Errorf("expected sub %s, got %v", user.ID, claims["sub"])
	}
	roles, _ := claims["roles"].([]interface{})
	if len(roles) != 2 || roles[0] != "admin" {
		t.Errorf("unexpected roles claim: %v", claims["roles"])
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	store := newStubStore()
	svc := NewAuthService(store, "secret", time.Hour)
	user := seedWithPassword(store, "goodpass", []domain.Role{domain.RoleUser})

	if _, _, err := svc.Login(context.Background(), user.ID, "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_EmptyPassword(t *testing.T) {
	store := newStubStore()
	svc := NewAuthService(store, "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), uuid.New(), ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	store := newStubStore()
	svc := NewAuthService(store, "secret", time.Hour)

	if _, _, err := svc.Login(context.Background(), uuid.New(), "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
