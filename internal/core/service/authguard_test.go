package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/devlink/bookings-api/internal/core/domain"
)

// stubProfileRepo counts lookups so tests can assert the fast path never
// touches the store.
type stubProfileRepo struct {
	profiles map[string]*domain.Profile
	findByID int
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (r *stubProfileRepo) Create(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	for _, existing := range r.profiles {
		if existing.Email == p.Email {
			return nil, domain.ErrProfileExists
		}
	}
	clone := *p
	if clone.ID == "" {
		clone.ID = p.Email
	}
	r.profiles[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	r.findByID++
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) FindByEmail(_ context.Context, email string) (*domain.Profile, error) {
	for _, p := range r.profiles {
		if p.Email == email {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubProfileRepo) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	p.Role = role
	clone := *p
	return &clone, nil
}

func newTestGuard(profiles *stubProfileRepo) *AuthGuard {
	tokens := NewTokenManager("secret", 0)
	if profiles == nil {
		return NewAuthGuard(tokens, nil, zerolog.Nop())
	}
	return NewAuthGuard(tokens, profiles, zerolog.Nop())
}

func TestAuthenticate_MissingToken(t *testing.T) {
	guard := newTestGuard(newStubProfileRepo())

	if _, err := guard.Authenticate(context.Background(), ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	guard := newTestGuard(newStubProfileRepo())

	if _, err := guard.Authenticate(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tokens := NewTokenManager("secret", 0)
	guard := NewAuthGuard(tokens, newStubProfileRepo(), zerolog.Nop())

	signed, err := tokens.Issue(&domain.Profile{ID: "p1", Email: "a@b.com", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	principal, err := guard.Authenticate(context.Background(), signed)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if principal.ID != "p1" {
		t.Fatalf("unexpected principal ID: %s", principal.ID)
	}
	if principal.EmbeddedRole != domain.RoleAdmin {
		t.Fatalf("expected embedded role admin, got %s", principal.EmbeddedRole)
	}
}

func TestAuthorize_NilPrincipal(t *testing.T) {
	guard := newTestGuard(newStubProfileRepo())

	if _, err := guard.Authorize(context.Background(), nil, domain.RoleAdmin); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthorize_FastPath_NoStoreRead(t *testing.T) {
	repo := newStubProfileRepo()
	guard := newTestGuard(repo)

	principal := &domain.Principal{ID: "p1", EmbeddedRole: domain.RoleAdmin}
	role, err := guard.Authorize(context.Background(), principal, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %s", role)
	}
	if repo.findByID != 0 {
		t.Fatalf("fast path consulted the store %d times", repo.findByID)
	}
}

func TestAuthorize_FallbackConsultsStoreOnce(t *testing.T) {
	repo := newStubProfileRepo()
	repo.profiles["p1"] = &domain.Profile{ID: "p1", Role: domain.RoleAdmin}
	guard := newTestGuard(repo)

	principal := &domain.Principal{ID: "p1"}
	role, err := guard.Authorize(context.Background(), principal, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %s", role)
	}
	if repo.findByID != 1 {
		t.Fatalf("expected exactly one store read, got %d", repo.findByID)
	}
}

func TestAuthorize_InsufficientEmbeddedRole_FallsBackToStore(t *testing.T) {
	// The store holds a fresher, sufficient role than the stale claim.
	repo := newStubProfileRepo()
	repo.profiles["p1"] = &domain.Profile{ID: "p1", Role: domain.RoleAdmin}
	guard := newTestGuard(repo)

	principal := &domain.Principal{ID: "p1", EmbeddedRole: domain.RoleCustomer}
	role, err := guard.Authorize(context.Background(), principal, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if role != domain.RoleAdmin {
		t.Fatalf("expected promoted admin role, got %s", role)
	}
	if repo.findByID != 1 {
		t.Fatalf("expected exactly one store read, got %d", repo.findByID)
	}
}

func TestAuthorize_NoProfile_Forbidden(t *testing.T) {
	repo := newStubProfileRepo()
	guard := newTestGuard(repo)

	principal := &domain.Principal{ID: "ghost"}
	if _, err := guard.Authorize(context.Background(), principal, domain.RoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.findByID != 1 {
		t.Fatalf("expected exactly one store read, got %d", repo.findByID)
	}
}

func TestAuthorize_RoleNotAllowed_Forbidden(t *testing.T) {
	repo := newStubProfileRepo()
	repo.profiles["p1"] = &domain.Profile{ID: "p1", Role: domain.RoleCustomer}
	guard := newTestGuard(repo)

	// Insufficient via both sources: stale claim and store agree on customer.
	principal := &domain.Principal{ID: "p1", EmbeddedRole: domain.RoleCustomer}
	if _, err := guard.Authorize(context.Background(), principal, domain.RoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthorize_StoreUnconfigured_Misconfigured(t *testing.T) {
	guard := newTestGuard(nil)

	principal := &domain.Principal{ID: "p1"}
	if _, err := guard.Authorize(context.Background(), principal, domain.RoleAdmin); !errors.Is(err, domain.ErrServerMisconfigured) {
		t.Fatalf("expected ErrServerMisconfigured, got %v", err)
	}
}

func TestAuthorize_StoreUnconfigured_FastPathStillWorks(t *testing.T) {
	guard := newTestGuard(nil)

	principal := &domain.Principal{ID: "p1", EmbeddedRole: domain.RoleAdmin}
	role, err := guard.Authorize(context.Background(), principal, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %s", role)
	}
}

func TestResolveRole_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection reset")
	_, err := resolveRole("", []domain.Role{domain.RoleAdmin}, func() (*domain.Profile, error) {
		return nil, storeErr
	})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("store failure must not be reported as Forbidden")
	}
}
