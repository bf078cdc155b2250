package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Gender is the enumerated gender of a user record.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Role is a capability tag. A user may hold several at once.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrManagerNotFound = errors.New("manager does not exist")
var ErrInvalidManagerRole = errors.New("manager lacks the manager or admin role")
var ErrSelfManagement = errors.New("user cannot be its own manager")
var ErrUnknownGender = errors.New("unknown gender")
var ErrUnknownRole = errors.New("unknown role")
var ErrEmptyPatch = errors.New("no fields supplied to patch")
var ErrInvalidCredentials = errors.New("invalid credentials")

// Valid reports whether g is one of the known gender values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Valid reports whether r is one of the known role tags.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// User is the directory record. ID and ActivatedAt never change after
// creation; UpdatedAt is bumped on every mutation. ManagedBy and InCharge
// are the two sides of the manager/subordinate relation and must stay
// mirrored across records (eventually, not transactionally).
type User struct {
	ID             uuid.UUID   `json:"id"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name,omitempty"`
	Gender         Gender      `json:"gender"`
	Roles          []Role      `json:"roles"`
	ManagedBy      *uuid.UUID  `json:"managed_by,omitempty"`
	InCharge       []uuid.UUID `json:"in_charge"`
	HashedPassword string      `json:"hashed_password"`
	ActivatedAt    time.Time   `json:"activated_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Validate checks the construction-time rules: known enum values and no
// self-management.
func (u *User) Validate() error {
	if !u.Gender.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownGender, u.Gender)
	}
	for _, r := range u.Roles {
		if !r.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownRole, r)
		}
	}
	if u.ManagedBy != nil && *u.ManagedBy == u.ID {
		return ErrSelfManagement
	}
	return nil
}

// HasRole reports whether the user carries the given role tag.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanManage reports whether this record may appear as someone's managed_by
// target: only manager or admin roles qualify.
func (u *User) CanManage() bool {
	return u.HasRole(RoleManager) || u.HasRole(RoleAdmin)
}

// AddSubordinate inserts id into the in_charge set. Duplicate inserts are
// no-ops.
func (u *User) AddSubordinate(id uuid.UUID) {
	for _, existing := range u.InCharge {
		if existing == id {
			return
		}
	}
	u.InCharge = append(u.InCharge, id)
}

// RemoveSubordinate deletes id from the in_charge set if present.
func (u *User) RemoveSubordinate(id uuid.UUID) {
	for i, existing := range u.InCharge {
		if existing == id {
			u.InCharge = append(u.InCharge[:i], u.InCharge[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy, so a candidate record can be mutated without
// aliasing the snapshot it was derived from.
func (u *User) Clone() *User {
	clone := *u
	if u.ManagedBy != nil {
		managedBy := *u.ManagedBy
		clone.ManagedBy = &managedBy
	}
	clone.Roles = append([]Role(nil), u.Roles...)
	clone.InCharge = append([]uuid.UUID(nil), u.InCharge...)
	return &clone
}

// StoreError wraps an unexpected failure of the underlying key-value store.
// Multi-record operations are not rolled back, so the message makes the
// possible partial application explicit to the caller.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v (the mutation may have been partially applied)", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err in a StoreError unless it already is one.
func NewStoreError(op string, err error) error {
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
