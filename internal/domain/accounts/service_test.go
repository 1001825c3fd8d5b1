package accounts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"medication-manager/internal/adapters/storage/collection"
	"medication-manager/internal/adapters/storage/memory"
	"medication-manager/internal/ports/auth"

	"golang.org/x/crypto/bcrypt"
)

type fakeIssuer struct{ issued []auth.Claims }

func (f *fakeIssuer) Issue(c auth.Claims) (string, error) {
	f.issued = append(f.issued, c)
	return "token-" + c.UserID, nil
}

func newTestService(t *testing.T) (*Service, *memory.KV, *fakeIssuer) {
	t.Helper()

	kv := memory.NewKV()
	users := collection.New[string, RegisteredUser](kv, RegistryKey, "", RegisteredUser.Key)
	session := collection.NewCell[Account](kv, SessionKey)
	issuer := &fakeIssuer{}

	return NewService(users, session, issuer).WithCost(bcrypt.MinCost), kv, issuer
}

func TestService_RegisterLogoutLogin(t *testing.T) {
	svc, _, issuer := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "A", "a@x.com", "p")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if reg.Account.ID == "" || reg.Token != "token-"+reg.Account.ID {
		t.Fatalf("unexpected register result: %#v", reg)
	}

	cur, ok, err := svc.CurrentUser(ctx)
	if err != nil || !ok || cur.Email != "a@x.com" {
		t.Fatalf("expected session for a@x.com, got ok=%v %#v err=%v", ok, cur, err)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, ok, _ := svc.CurrentUser(ctx); ok {
		t.Fatalf("expected no session after logout")
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("second Logout must be a no-op, got %v", err)
	}

	if _, err := svc.Login(ctx, "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	res, err := svc.Login(ctx, "a@x.com", "p")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Account.ID != reg.Account.ID {
		t.Fatalf("expected same account id, got %s vs %s", res.Account.ID, reg.Account.ID)
	}
	if len(issuer.issued) != 2 {
		t.Fatalf("expected 2 tokens issued, got %d", len(issuer.issued))
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "a@x.com", "p"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.Register(ctx, "B", "a@x.com", "other"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestService_Login_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Login(context.Background(), "ghost@x.com", "p"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestService_PasswordNeverStoredInPlaintext(t *testing.T) {
	svc, kv, _ := newTestService(t)
	ctx := context.Background()

	const password = "super-secret-password"
	if _, err := svc.Register(ctx, "A", "a@x.com", password); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	raw, ok, err := kv.Get(ctx, RegistryKey)
	if err != nil || !ok {
		t.Fatalf("expected registry entry, ok=%v err=%v", ok, err)
	}
	if strings.Contains(string(raw), password) {
		t.Fatalf("registry contains plaintext password: %s", raw)
	}

	sess, _, _ := kv.Get(ctx, SessionKey)
	if strings.Contains(string(sess), password) {
		t.Fatalf("session contains plaintext password: %s", sess)
	}
}

func TestService_UpdateProfile_NoSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	name := "New"
	if _, err := svc.UpdateProfile(context.Background(), Patch{Name: &name}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestService_UpdateProfile_MergesSessionAndRegistry(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "a@x.com", "p"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	name, email := "Alice", "alice@x.com"
	got, err := svc.UpdateProfile(ctx, Patch{Name: &name, Email: &email})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if got.Name != "Alice" || got.Email != "alice@x.com" {
		t.Fatalf("unexpected account: %#v", got)
	}

	cur, _, _ := svc.CurrentUser(ctx)
	if cur.Name != "Alice" || cur.Email != "alice@x.com" {
		t.Fatalf("session not updated: %#v", cur)
	}

	// el login usa el email nuevo
	_ = svc.Logout(ctx)
	if _, err := svc.Login(ctx, "a@x.com", "p"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old email must not log in, got %v", err)
	}
	if _, err := svc.Login(ctx, "alice@x.com", "p"); err != nil {
		t.Fatalf("new email must log in, got %v", err)
	}
}

func TestService_UpdateProfile_EmailTaken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "B", "b@x.com", "p"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.Register(ctx, "A", "a@x.com", "p"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	email := "b@x.com"
	if _, err := svc.UpdateProfile(ctx, Patch{Email: &email}); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// el propio email no cuenta como ocupado
	own := "a@x.com"
	if _, err := svc.UpdateProfile(ctx, Patch{Email: &own}); err != nil {
		t.Fatalf("setting own email returned error: %v", err)
	}
}

func TestService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Register(context.Background(), "A", " ", "p"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "A", "a@x.com", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty password, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "A", "a@x.com", strings.Repeat("p", MaxPasswordBytes+1)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a password over %d bytes, got %v", MaxPasswordBytes, err)
	}
	if _, err := svc.Register(context.Background(), "A", "a@x.com", strings.Repeat("p", MaxPasswordBytes)); err != nil {
		t.Fatalf("a %d-byte password must be accepted, got %v", MaxPasswordBytes, err)
	}
}
