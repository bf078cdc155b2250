package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/peopleops/user-directory/internal/core/domain"
)

type stubAuthService struct {
	token string
	user  *domain.User
	err   error

	gotID       uuid.UUID
	gotPassword string
}

func (s *stubAuthService) Login(_ context.Context, userID uuid.UUID, password string) (string, *domain.User, error) {
	s.gotID = userID
	s.gotPassword = password
	return s.token, s.user, s.err
}

func TestAuthHandler_Login(t *testing.T) {
	user := sampleUser()
	svc := &stubAuthService{token: "signed-token", user: user}
	h := NewAuthHandler(svc)

	body := `{"user_id":"` + user.ID.String() + `","password":"secret-pass"}`
	c, rec := newTestContext(http.MethodPost, "/auth/login", body)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if svc.gotID != user.ID || svc.gotPassword != "secret-pass" {
		t.Errorf("service received id=%s password=%q", svc.gotID, svc.gotPassword)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Token != "signed-token" {
		t.Errorf("token = %q, want %q", resp.Token, "signed-token")
	}
	if resp.User.ID != user.ID.String() {
		t.Errorf("user id = %s, want %s", resp.User.ID, user.ID)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, _ := newTestContext(http.MethodPost, "/auth/login", `{"user_id":"not-a-uuid"}`)

	err := h.Login(c)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestAuthHandler_Login_ServiceErrorPassesThrough(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: domain.ErrInvalidCredentials})
	body := `{"user_id":"` + uuid.NewString() + `","password":"wrong"}`
	c, _ := newTestContext(http.MethodPost, "/auth/login", body)

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials to reach the central handler", err)
	}
}
