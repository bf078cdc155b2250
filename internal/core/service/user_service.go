package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/peopleops/user-directory/internal/api/metrics"
	"github.com/peopleops/user-directory/internal/core/domain"
	"github.com/peopleops/user-directory/internal/core/ports"
)

// UserService orchestrates directory CRUD and keeps the managed_by/in_charge
// relation mirrored across records. The store has no multi-key transactions,
// so the two-record writes here are sequential and best-effort: a failure in
// between surfaces as a StoreError and is never rolled back.
type UserService struct {
	store  ports.UserRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewUserService(store ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{store: store, hasher: hasher, logger: logger}
}

// Create persists a new record. When a manager is supplied it must exist and
// carry the manager or admin role; the new id is then added to the manager's
// in_charge set. Returns the canonical record re-read from the store.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	id := uuid.New()
	if in.ID != nil {
		id = *in.ID
		switch _, err := s.store.Get(ctx, id); {
		case err == nil:
			return nil, domain.ErrUserExists
		case !errors.Is(err, domain.ErrUserNotFound):
			return nil, domain.NewStoreError("load user", err)
		}
	}

	gender, roles, err := parseEnums(in.Gender, in.Roles)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             id,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Gender:         gender,
		Roles:          roles,
		ManagedBy:      in.ManagedBy,
		InCharge:       dedupeIDs(in.InCharge),
		HashedPassword: hash,
		ActivatedAt:    now,
		UpdatedAt:      now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	var manager *domain.User
	if user.ManagedBy != nil {
		manager, err = s.loadManager(ctx, *user.ManagedBy)
		if err != nil {
			return nil, err
		}
	}

	if err := s.store.Set(ctx, user); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("create user").Inc()
		return nil, domain.NewStoreError("create user", err)
	}
	if manager != nil {
		manager.AddSubordinate(user.ID)
		if err := s.store.Set(ctx, manager); err != nil {
			metrics.StoreErrorsTotal.WithLabelValues("attach manager link").Inc()
			return nil, domain.NewStoreError("attach manager link", err)
		}
		metrics.ManagerLinksTotal.WithLabelValues("attach").Inc()
	}

	metrics.UsersCreatedTotal.Inc()
	s.logger.Info().Str("user_id", user.ID.String()).Msg("user created")

	return s.canonical(ctx, user.ID)
}

// Get returns the record stored under id. No side effects.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, domain.NewStoreError("load user", err)
	}
	return user, nil
}

// List returns up to limit records in store-defined order. An empty directory
// yields an empty slice, not an error.
func (s *UserService) List(ctx context.Context, limit int) ([]*domain.User, error) {
	users, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, domain.NewStoreError("list users", err)
	}
	return users, nil
}

// Update replaces every mutable field, preserving id, activation time, and
// the credential hash, then reconciles manager links and persists.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, in ports.UpdateUserInput) (*domain.User, error) {
	outdated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	gender, roles, err := parseEnums(in.Gender, in.Roles)
	if err != nil {
		return nil, err
	}

	updated := &domain.User{
		ID:             outdated.ID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Gender:         gender,
		Roles:          roles,
		ManagedBy:      in.ManagedBy,
		InCharge:       dedupeIDs(in.InCharge),
		HashedPassword: outdated.HashedPassword,
		ActivatedAt:    outdated.ActivatedAt,
		UpdatedAt:      time.Now().UTC(),
	}

	return s.commit(ctx, outdated, updated)
}

// Patch replaces only the supplied fields. An empty patch is rejected before
// any store access.
func (s *UserService) Patch(ctx context.Context, id uuid.UUID, in ports.PatchUserInput) (*domain.User, error) {
	if in.Empty() {
		return nil, domain.ErrEmptyPatch
	}

	outdated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := outdated.Clone()
	if in.FirstName != nil {
		updated.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		updated.LastName = *in.LastName
	}
	if in.Gender != nil {
		gender := domain.Gender(*in.Gender)
		if !gender.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownGender, gender)
		}
		updated.Gender = gender
	}
	if in.Roles != nil {
		roles, err := parseRoles(in.Roles)
		if err != nil {
			return nil, err
		}
		updated.Roles = roles
	}
	switch {
	case in.ClearManagedBy:
		updated.ManagedBy = nil
	case in.ManagedBy != nil:
		managedBy := *in.ManagedBy
		updated.ManagedBy = &managedBy
	}
	if in.InCharge != nil {
		updated.InCharge = dedupeIDs(in.InCharge)
	}
	updated.UpdatedAt = time.Now().UTC()

	return s.commit(ctx, outdated, updated)
}

// Delete removes a record, detaching it from its manager's in_charge set
// first. Returns the deleted record's last-known state.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.ManagedBy != nil {
		manager, err := s.store.Get(ctx, *user.ManagedBy)
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			// Manager record already gone; nothing to detach from.
			s.logger.Warn().
				Str("user_id", id.String()).
				Str("manager_id", user.ManagedBy.String()).
				Msg("manager record missing on delete, skipping detach")
		case err != nil:
			return nil, domain.NewStoreError("load manager", err)
		default:
			manager.RemoveSubordinate(id)
			if err := s.store.Set(ctx, manager); err != nil {
				metrics.StoreErrorsTotal.WithLabelValues("detach manager link").Inc()
				return nil, domain.NewStoreError("detach manager link", err)
			}
			metrics.ManagerLinksTotal.WithLabelValues("detach").Inc()
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("delete user").Inc()
		return nil, domain.NewStoreError("delete user", err)
	}

	metrics.UsersDeletedTotal.WithLabelValues("single").Inc()
	s.logger.Info().Str("user_id", id.String()).Msg("user deleted")

	return user, nil
}

// DeleteAll wipes the whole directory. The graph is discarded at once, so no
// per-record reconciliation runs.
func (s *UserService) DeleteAll(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("delete all users").Inc()
		return domain.NewStoreError("delete all users", err)
	}
	metrics.UsersDeletedTotal.WithLabelValues("bulk").Inc()
	s.logger.Info().Msg("directory wiped")
	return nil
}

// commit validates the candidate, applies manager-link reconciliation, and
// persists it, returning the canonical re-read record.
func (s *UserService) commit(ctx context.Context, outdated, updated *domain.User) (*domain.User, error) {
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	if err := s.applyManagerLinks(ctx, outdated, updated); err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, updated); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("save user").Inc()
		return nil, domain.NewStoreError("save user", err)
	}
	return s.canonical(ctx, updated.ID)
}

// applyManagerLinks executes the mutations produced by managerLinkChanges.
// The attach target is validated before the first write so that a bad manager
// assignment leaves the directory untouched.
func (s *UserService) applyManagerLinks(ctx context.Context, outdated, updated *domain.User) error {
	mutations := managerLinkChanges(outdated, updated)
	if len(mutations) == 0 {
		return nil
	}

	attachTargets := make(map[uuid.UUID]*domain.User, 1)
	for _, m := range mutations {
		if m.Action != linkAttach {
			continue
		}
		manager, err := s.loadManager(ctx, m.ManagerID)
		if err != nil {
			return err
		}
		attachTargets[m.ManagerID] = manager
	}

	for _, m := range mutations {
		switch m.Action {
		case linkDetach:
			manager, err := s.store.Get(ctx, m.ManagerID)
			if errors.Is(err, domain.ErrUserNotFound) {
				// Previous manager vanished; the mirror is already broken on
				// that side and there is nothing left to detach from.
				s.logger.Warn().
					Str("user_id", m.Subordinate.String()).
					Str("manager_id", m.ManagerID.String()).
					Msg("previous manager missing, skipping detach")
				continue
			}
			if err != nil {
				return domain.NewStoreError("load manager", err)
			}
			manager.RemoveSubordinate(m.Subordinate)
			if err := s.store.Set(ctx, manager); err != nil {
				metrics.StoreErrorsTotal.WithLabelValues("detach manager link").Inc()
				return domain.NewStoreError("detach manager link", err)
			}
			metrics.ManagerLinksTotal.WithLabelValues("detach").Inc()
		case linkAttach:
			manager := attachTargets[m.ManagerID]
			manager.AddSubordinate(m.Subordinate)
			if err := s.store.Set(ctx, manager); err != nil {
				metrics.StoreErrorsTotal.WithLabelValues("attach manager link").Inc()
				return domain.NewStoreError("attach manager link", err)
			}
			metrics.ManagerLinksTotal.WithLabelValues("attach").Inc()
		}
	}
	return nil
}

// loadManager fetches a managed_by target and enforces that it exists and may
// manage: absent → ErrManagerNotFound, wrong roles → ErrInvalidManagerRole.
func (s *UserService) loadManager(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	manager, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrManagerNotFound, id)
		}
		return nil, domain.NewStoreError("load manager", err)
	}
	if !manager.CanManage() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidManagerRole, id)
	}
	return manager, nil
}

// canonical re-reads a record after a write; the store-owned bytes are
// authoritative over any in-memory candidate.
func (s *UserService) canonical(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, domain.NewStoreError("reload user", err)
	}
	return user, nil
}

func parseEnums(gender string, roles []string) (domain.Gender, []domain.Role, error) {
	g := domain.Gender(gender)
	if !g.Valid() {
		return "", nil, fmt.Errorf("%w: %q", domain.ErrUnknownGender, gender)
	}
	parsed, err := parseRoles(roles)
	if err != nil {
		return "", nil, err
	}
	return g, parsed, nil
}

func parseRoles(roles []string) ([]domain.Role, error) {
	parsed := make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		role := domain.Role(r)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRole, r)
		}
		parsed = append(parsed, role)
	}
	return parsed, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
