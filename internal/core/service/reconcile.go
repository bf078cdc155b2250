package service

import (
	"github.com/google/uuid"

	"github.com/peopleops/user-directory/internal/core/domain"
)

type linkAction string

const (
	linkDetach linkAction = "detach"
	linkAttach linkAction = "attach"
)

// linkMutation is a single required write to a manager's in_charge set.
type linkMutation struct {
	Action      linkAction
	ManagerID   uuid.UUID
	Subordinate uuid.UUID
}

// managerLinkChanges compares the persisted and the candidate snapshot of the
// same user and returns the manager-side writes required to keep the
// managed_by/in_charge mirror intact once the candidate commits.
//
// An unchanged managed_by, including both-unset, yields no mutations. When it
// changed, the detach from the previous manager always precedes the attach to
// the new one. The detach removes the subordinate's id, never the manager's
// own.
func managerLinkChanges(outdated, updated *domain.User) []linkMutation {
	if uuidPtrEqual(outdated.ManagedBy, updated.ManagedBy) {
		return nil
	}

	var mutations []linkMutation
	if outdated.ManagedBy != nil {
		mutations = append(mutations, linkMutation{
			Action:      linkDetach,
			ManagerID:   *outdated.ManagedBy,
			Subordinate: outdated.ID,
		})
	}
	if updated.ManagedBy != nil {
		mutations = append(mutations, linkMutation{
			Action:      linkAttach,
			ManagerID:   *updated.ManagedBy,
			Subordinate: updated.ID,
		})
	}
	return mutations
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
