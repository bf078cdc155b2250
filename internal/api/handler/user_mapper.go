package handler

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/peopleops/user-directory/internal/core/domain"
	"github.com/peopleops/user-directory/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createUserRequest) (ports.CreateUserInput, error) {
	in := ports.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Roles:     req.Roles,
		Password:  req.Password,
	}

	var err error
	if in.ID, err = parseOptionalID("id", req.ID); err != nil {
		return ports.CreateUserInput{}, err
	}
	if in.ManagedBy, err = parseOptionalID("managed_by", req.ManagedBy); err != nil {
		return ports.CreateUserInput{}, err
	}
	if in.InCharge, err = parseIDs(req.InCharge); err != nil {
		return ports.CreateUserInput{}, err
	}
	return in, nil
}

func toUpdateInput(req updateUserRequest) (ports.UpdateUserInput, error) {
	in := ports.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Roles:     req.Roles,
	}

	var err error
	if in.ManagedBy, err = parseOptionalID("managed_by", req.ManagedBy); err != nil {
		return ports.UpdateUserInput{}, err
	}
	if in.InCharge, err = parseIDs(req.InCharge); err != nil {
		return ports.UpdateUserInput{}, err
	}
	return in, nil
}

func toPatchInput(req patchUserRequest) (ports.PatchUserInput, error) {
	in := ports.PatchUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Roles:     req.Roles,
	}

	if req.ManagedBy != nil {
		if *req.ManagedBy == "" {
			in.ClearManagedBy = true
		} else {
			id, err := uuid.Parse(*req.ManagedBy)
			if err != nil {
				return ports.PatchUserInput{}, fmt.Errorf("managed_by: %w", err)
			}
			in.ManagedBy = &id
		}
	}

	var err error
	if in.InCharge, err = parseIDs(req.InCharge); err != nil {
		return ports.PatchUserInput{}, err
	}
	return in, nil
}

func parseOptionalID(field, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &id, nil
}

func parseIDs(values []string) ([]uuid.UUID, error) {
	if values == nil {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("in_charge: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}

	inCharge := make([]string, 0, len(u.InCharge))
	for _, id := range u.InCharge {
		inCharge = append(inCharge, id.String())
	}

	var managedBy *string
	if u.ManagedBy != nil {
		s := u.ManagedBy.String()
		managedBy = &s
	}

	return userResponse{
		ID:          u.ID.String(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Gender:      string(u.Gender),
		Roles:       roles,
		ManagedBy:   managedBy,
		InCharge:    inCharge,
		ActivatedAt: u.ActivatedAt.UTC(),
		UpdatedAt:   u.UpdatedAt.UTC(),
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}
