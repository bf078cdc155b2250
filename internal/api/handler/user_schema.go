package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// apiResponse is the envelope the clients consume:
// {"success": ..., "message": ..., "data": ...}.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Request types ---

type createUserRequest struct {
	ID        string   `json:"id"         validate:"omitempty,uuid"`
	FirstName string   `json:"first_name" validate:"required"`
	LastName  string   `json:"last_name"`
	Gender    string   `json:"gender"     validate:"required,oneof=male female other"`
	Roles     []string `json:"roles"      validate:"required,min=1,dive,oneof=admin manager user"`
	Password  string   `json:"password"   validate:"required,min=8"`
	ManagedBy string   `json:"managed_by" validate:"omitempty,uuid"`
	InCharge  []string `json:"in_charge"  validate:"omitempty,dive,uuid"`
}

type updateUserRequest struct {
	FirstName string   `json:"first_name" validate:"required"`
	LastName  string   `json:"last_name"`
	Gender    string   `json:"gender"     validate:"required,oneof=male female other"`
	Roles     []string `json:"roles"      validate:"required,min=1,dive,oneof=admin manager user"`
	ManagedBy string   `json:"managed_by" validate:"omitempty,uuid"`
	InCharge  []string `json:"in_charge"  validate:"omitempty,dive,uuid"`
}

// patchUserRequest uses pointers to distinguish "absent" from "supplied".
// For managed_by, an explicit empty string clears the manager link.
type patchUserRequest struct {
	FirstName *string  `json:"first_name"`
	LastName  *string  `json:"last_name"`
	Gender    *string  `json:"gender"     validate:"omitempty,oneof=male female other"`
	Roles     []string `json:"roles"      validate:"omitempty,min=1,dive,oneof=admin manager user"`
	ManagedBy *string  `json:"managed_by" validate:"omitempty,uuid"`
	InCharge  []string `json:"in_charge"  validate:"omitempty,dive,uuid"`
}

// --- Response types ---

// userResponse is the external projection of a directory record. It is
// intentionally separate from domain.User so the JSON contract is not coupled
// to internal model changes; the credential hash never leaves the service.
type userResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name,omitempty"`
	Gender      string    `json:"gender"`
	Roles       []string  `json:"roles"`
	ManagedBy   *string   `json:"managed_by"`
	InCharge    []string  `json:"in_charge"`
	ActivatedAt time.Time `json:"activated_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
