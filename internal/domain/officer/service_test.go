package officer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pickme/intel-api/internal/middleware"
	"github.com/pickme/intel-api/internal/pkg/jwt"
	"github.com/pickme/intel-api/internal/pkg/password"
)

type fakeRepo struct {
	officers   map[uuid.UUID]*Officer
	referenced map[uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		officers:   make(map[uuid.UUID]*Officer),
		referenced: make(map[uuid.UUID]bool),
	}
}

func (f *fakeRepo) Create(_ context.Context, o *Officer) error {
	for _, existing := range f.officers {
		if existing.Mobile == o.Mobile {
			return ErrMobileTaken
		}
	}
	cp := *o
	f.officers[o.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Officer, error) {
	o, ok := f.officers[id]
	if !ok {
		return nil, ErrOfficerNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeRepo) GetByIdentifier(_ context.Context, identifier string) (*Officer, error) {
	normalized := NormalizeMobile(identifier)
	for _, o := range f.officers {
		if (o.Email.Valid && o.Email.String == identifier) || o.Mobile == normalized {
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrOfficerNotFound
}

func (f *fakeRepo) List(_ context.Context, _ Filter) ([]Officer, int, error) {
	out := make([]Officer, 0, len(f.officers))
	for _, o := range f.officers {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, o *Officer) error {
	if _, ok := f.officers[o.ID]; !ok {
		return ErrOfficerNotFound
	}
	cp := *o
	f.officers[o.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status) error {
	o, ok := f.officers[id]
	if !ok {
		return ErrOfficerNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.officers[id]; !ok {
		return ErrOfficerNotFound
	}
	delete(f.officers, id)
	return nil
}

func (f *fakeRepo) HasReferences(_ context.Context, id uuid.UUID) (bool, error) {
	return f.referenced[id], nil
}

func (f *fakeRepo) TouchLastActive(_ context.Context, _ uuid.UUID) error {
	return nil
}

func newTestService(repo Repository) *Service {
	jwtSvc := jwt.NewService("test-secret", jwt.SubjectOfficer, time.Hour)
	return NewService(repo, jwtSvc, 100)
}

func seedOfficer(t *testing.T, repo *fakeRepo, mobile, plaintext string, status Status) uuid.UUID {
	t.Helper()

	hash, err := password.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	o := &Officer{
		ID:           uuid.New(),
		Name:         "Test Officer",
		Mobile:       NormalizeMobile(mobile),
		PasswordHash: hash,
		Status:       status,
	}
	repo.officers[o.ID] = o
	return o.ID
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := seedOfficer(t, repo, "+91 97911-03607", "officer123", StatusActive)

	t.Run("valid mobile with formatting", func(t *testing.T) {
		result, err := svc.Authenticate(context.Background(), "+91 97911 03607", "officer123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Token == "" {
			t.Fatal("expected a token")
		}
		if result.Officer.ID != id {
			t.Fatal("wrong officer returned")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "+919791103607", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "nobody@example.com", "officer123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("suspended officer", func(t *testing.T) {
		suspendedRepo := newFakeRepo()
		suspendedSvc := newTestService(suspendedRepo)
		seedOfficer(t, suspendedRepo, "+911234567890", "pw1234", StatusSuspended)

		_, err := suspendedSvc.Authenticate(context.Background(), "+911234567890", "pw1234")
		if !errors.Is(err, ErrOfficerSuspended) {
			t.Fatalf("expected ErrOfficerSuspended, got %v", err)
		}
	})
}

func TestVerifyActive(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := seedOfficer(t, repo, "+911111111111", "pw1234", StatusActive)

	if err := svc.VerifyActive(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.officers[id].Status = StatusSuspended
	if err := svc.VerifyActive(context.Background(), id); !errors.Is(err, middleware.ErrIdentitySuspended) {
		t.Fatalf("expected ErrIdentitySuspended, got %v", err)
	}

	if err := svc.VerifyActive(context.Background(), uuid.New()); !errors.Is(err, middleware.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}

func TestDeleteReferencedOfficer(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	id := seedOfficer(t, repo, "+912222222222", "pw1234", StatusActive)
	repo.referenced[id] = true

	if err := svc.Delete(context.Background(), id); !errors.Is(err, ErrOfficerReferenced) {
		t.Fatalf("expected ErrOfficerReferenced, got %v", err)
	}
	if _, ok := repo.officers[id]; !ok {
		t.Fatal("officer must not be deleted")
	}

	repo.referenced[id] = false
	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	o, err := svc.Create(context.Background(), CreateRequest{
		Name:     "Inspector Kumar",
		Mobile:   "+91 97911 03607",
		Password: "officer123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if o.Mobile != "+919791103607" {
		t.Fatalf("mobile not normalized: %q", o.Mobile)
	}
	if o.Status != StatusActive {
		t.Fatalf("expected Active, got %q", o.Status)
	}
	if o.RateLimitPerHour != 100 {
		t.Fatalf("expected default rate limit 100, got %d", o.RateLimitPerHour)
	}

	_, err = svc.Create(context.Background(), CreateRequest{
		Name:     "Duplicate",
		Mobile:   "+919791103607",
		Password: "officer123",
	})
	if !errors.Is(err, ErrMobileTaken) {
		t.Fatalf("expected ErrMobileTaken, got %v", err)
	}
}

func TestNormalizeMobile(t *testing.T) {
	cases := map[string]string{
		"+91 97911 03607": "+919791103607",
		"+91-97911-03607": "+919791103607",
		"(091) 9791103":   "0919791103",
		"9791103607":      "9791103607",
	}
	for in, want := range cases {
		if got := NormalizeMobile(in); got != want {
			t.Errorf("NormalizeMobile(%q) = %q, want %q", in, got, want)
		}
	}
}
