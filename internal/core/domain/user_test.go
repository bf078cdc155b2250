package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUser_Validate(t *testing.T) {
	id := uuid.New()

	u := &User{ID: id, Gender: GenderFemale, Roles: []Role{RoleUser}}
	if err := u.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	u.Gender = "banana"
	if err := u.Validate(); !errors.Is(err, ErrUnknownGender) {
		t.Errorf("expected ErrUnknownGender, got %v", err)
	}

	u.Gender = GenderMale
	u.Roles = []Role{"root"}
	if err := u.Validate(); !errors.Is(err, ErrUnknownRole) {
		t.Errorf("expected ErrUnknownRole, got %v", err)
	}

	u.Roles = []Role{RoleUser}
	u.ManagedBy = &id
	if err := u.Validate(); !errors.Is(err, ErrSelfManagement) {
		t.Errorf("expected ErrSelfManagement, got %v", err)
	}
}

func TestUser_CanManage(t *testing.T) {
	cases := []struct {
		roles []Role
		want  bool
	}{
		{[]Role{RoleUser}, false},
		{[]Role{RoleManager}, true},
		{[]Role{RoleAdmin}, true},
		{[]Role{RoleUser, RoleManager}, true},
		{nil, false},
	}
	for _, tc := range cases {
		u := &User{Roles: tc.roles}
		if got := u.CanManage(); got != tc.want {
			t.Errorf("roles %v: expected %v, got %v", tc.roles, tc.want, got)
		}
	}
}

func TestUser_SubordinateSet(t *testing.T) {
	u := &User{}
	a, b := uuid.New(), uuid.New()

	u.AddSubordinate(a)
	u.AddSubordinate(a) // duplicate insert is a no-op
	u.AddSubordinate(b)
	if len(u.InCharge) != 2 {
		t.Fatalf("expected 2 subordinates, got %v", u.InCharge)
	}

	u.RemoveSubordinate(a)
	if len(u.InCharge) != 1 || u.InCharge[0] != b {
		t.Fatalf("expected {b}, got %v", u.InCharge)
	}

	u.RemoveSubordinate(uuid.New()) // removing an absent member is a no-op
	if len(u.InCharge) != 1 {
		t.Fatalf("expected {b}, got %v", u.InCharge)
	}
}

func TestUser_Clone_Independent(t *testing.T) {
	mgr := uuid.New()
	u := &User{
		ID:        uuid.New(),
		Roles:     []Role{RoleUser},
		ManagedBy: &mgr,
		InCharge:  []uuid.UUID{uuid.New()},
	}

	clone := u.Clone()
	clone.Roles[0] = RoleAdmin
	clone.AddSubordinate(uuid.New())
	*clone.ManagedBy = uuid.New()

	if u.Roles[0] != RoleUser {
		t.Error("clone must not alias roles")
	}
	if len(u.InCharge) != 1 {
		t.Error("clone must not alias in_charge")
	}
	if *u.ManagedBy != mgr {
		t.Error("clone must not alias managed_by")
	}
}

func TestStoreError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("io timeout")
	err := NewStoreError("save user", cause)

	if !strings.Contains(err.Error(), "partially applied") {
		t.Errorf("message must note possible partial application: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("StoreError must unwrap to its cause")
	}

	// Wrapping an existing StoreError must not double-wrap.
	again := NewStoreError("other op", err)
	var se *StoreError
	if !errors.As(again, &se) || se.Op != "save user" {
		t.Errorf("expected original StoreError preserved, got %v", again)
	}
}
