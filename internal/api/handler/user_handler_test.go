package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/peopleops/user-directory/internal/core/domain"
	"github.com/peopleops/user-directory/internal/core/ports"
)

// stubUserService returns canned results and records the inputs it receives.
type stubUserService struct {
	user  *domain.User
	users []*domain.User
	err   error

	createInput ports.CreateUserInput
	patchInput  ports.PatchUserInput
	gotID       uuid.UUID
	gotLimit    int
}

func (s *stubUserService) Create(_ context.Context, input ports.CreateUserInput) (*domain.User, error) {
	s.createInput = input
	return s.user, s.err
}

func (s *stubUserService) Get(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.gotID = id
	return s.user, s.err
}

func (s *stubUserService) List(_ context.Context, limit int) ([]*domain.User, error) {
	s.gotLimit = limit
	return s.users, s.err
}

func (s *stubUserService) Update(_ context.Context, id uuid.UUID, _ ports.UpdateUserInput) (*domain.User, error) {
	s.gotID = id
	return s.user, s.err
}

func (s *stubUserService) Patch(_ context.Context, id uuid.UUID, input ports.PatchUserInput) (*domain.User, error) {
	s.gotID = id
	s.patchInput = input
	return s.user, s.err
}

func (s *stubUserService) Delete(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.gotID = id
	return s.user, s.err
}

func (s *stubUserService) DeleteAll(_ context.Context) error {
	return s.err
}

func sampleUser() *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:             uuid.New(),
		FirstName:      "Ana",
		Gender:         domain.GenderFemale,
		Roles:          []domain.Role{domain.RoleUser},
		HashedPassword: "hash",
		ActivatedAt:    now,
		UpdatedAt:      now,
	}
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response envelope: %v", err)
	}
	return resp
}

func TestUserHandler_Create(t *testing.T) {
	svc := &stubUserService{user: sampleUser()}
	h := NewUserHandler(svc)

	body := `{"first_name":"Ana","gender":"female","roles":["user"],"password":"secret-pass"}`
	c, rec := newTestContext(http.MethodPost, "/v1/users", body)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	resp := decodeEnvelope(t, rec)
	if !resp.Success {
		t.Error("expected success envelope")
	}
	if svc.createInput.FirstName != "Ana" || svc.createInput.Password != "secret-pass" {
		t.Errorf("service received unexpected input: %+v", svc.createInput)
	}
	if strings.Contains(rec.Body.String(), "hashed_password") {
		t.Error("credential hash leaked into the response")
	}
}

func TestUserHandler_Create_InvalidJSON(t *testing.T) {
	h := NewUserHandler(&stubUserService{})
	c, _ := newTestContext(http.MethodPost, "/v1/users", `{"first_name":`)

	err := h.Create(c)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestUserHandler_Create_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing first_name", `{"gender":"female","roles":["user"],"password":"secret-pass"}`},
		{"bad gender", `{"first_name":"Ana","gender":"robot","roles":["user"],"password":"secret-pass"}`},
		{"bad role", `{"first_name":"Ana","gender":"female","roles":["root"],"password":"secret-pass"}`},
		{"short password", `{"first_name":"Ana","gender":"female","roles":["user"],"password":"short"}`},
		{"bad managed_by", `{"first_name":"Ana","gender":"female","roles":["user"],"password":"secret-pass","managed_by":"not-a-uuid"}`},
	}

	h := NewUserHandler(&stubUserService{})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/v1/users", tc.body)
			err := h.Create(c)
			assertHTTPStatus(t, err, http.StatusUnprocessableEntity)
		})
	}
}

func TestUserHandler_Create_ServiceErrorPassesThrough(t *testing.T) {
	h := NewUserHandler(&stubUserService{err: domain.ErrUserExists})
	body := `{"first_name":"Ana","gender":"female","roles":["user"],"password":"secret-pass"}`
	c, _ := newTestContext(http.MethodPost, "/v1/users", body)

	err := h.Create(c)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("error = %v, want ErrUserExists to reach the central handler", err)
	}
}

func TestUserHandler_Get(t *testing.T) {
	user := sampleUser()
	svc := &stubUserService{user: user}
	h := NewUserHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/", "")
	c.SetParamNames("user_id")
	c.SetParamValues(user.ID.String())

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if svc.gotID != user.ID {
		t.Errorf("service queried %s, want %s", svc.gotID, user.ID)
	}
}

func TestUserHandler_Get_BadID(t *testing.T) {
	h := NewUserHandler(&stubUserService{})
	c, _ := newTestContext(http.MethodGet, "/", "")
	c.SetParamNames("user_id")
	c.SetParamValues("nope")

	err := h.Get(c)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestUserHandler_List(t *testing.T) {
	svc := &stubUserService{users: []*domain.User{sampleUser(), sampleUser()}}
	h := NewUserHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/v1/users?limit=10", "")
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if svc.gotLimit != 10 {
		t.Errorf("limit = %d, want 10", svc.gotLimit)
	}
}

func TestUserHandler_List_NegativeLimit(t *testing.T) {
	h := NewUserHandler(&stubUserService{})
	c, _ := newTestContext(http.MethodGet, "/v1/users?limit=-1", "")

	err := h.List(c)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestUserHandler_Patch_ClearManager(t *testing.T) {
	user := sampleUser()
	svc := &stubUserService{user: user}
	h := NewUserHandler(svc)

	c, rec := newTestContext(http.MethodPatch, "/", `{"managed_by":""}`)
	c.SetParamNames("user_id")
	c.SetParamValues(user.ID.String())

	if err := h.Patch(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !svc.patchInput.ClearManagedBy {
		t.Error("empty managed_by must translate to a clear request")
	}
	if svc.patchInput.ManagedBy != nil {
		t.Errorf("ManagedBy = %v, want nil on clear", svc.patchInput.ManagedBy)
	}
}

func TestUserHandler_Patch_SetManager(t *testing.T) {
	user := sampleUser()
	managerID := uuid.New()
	svc := &stubUserService{user: user}
	h := NewUserHandler(svc)

	c, _ := newTestContext(http.MethodPatch, "/", `{"managed_by":"`+managerID.String()+`"}`)
	c.SetParamNames("user_id")
	c.SetParamValues(user.ID.String())

	if err := h.Patch(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.patchInput.ClearManagedBy {
		t.Error("supplying a manager id must not request a clear")
	}
	if svc.patchInput.ManagedBy == nil || *svc.patchInput.ManagedBy != managerID {
		t.Errorf("ManagedBy = %v, want %s", svc.patchInput.ManagedBy, managerID)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	user := sampleUser()
	svc := &stubUserService{user: user}
	h := NewUserHandler(svc)

	c, rec := newTestContext(http.MethodDelete, "/", "")
	c.SetParamNames("user_id")
	c.SetParamValues(user.ID.String())

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Data == nil {
		t.Error("delete response should carry the record's last-known state")
	}
}

func TestUserHandler_DeleteAll(t *testing.T) {
	h := NewUserHandler(&stubUserService{})
	c, rec := newTestContext(http.MethodDelete, "/v1/users", "")

	if err := h.DeleteAll(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func assertHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != want {
		t.Errorf("status = %d, want %d", httpErr.Code, want)
	}
}
