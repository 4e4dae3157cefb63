package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ogurasousui/employee-awards/internal/core/employee"
	"golang.org/x/crypto/bcrypt"
)

type fakeFinder struct {
	byID map[string]*employee.Employee
	err  error
}

func newFakeFinder(t *testing.T, emps ...*employee.Employee) *fakeFinder {
	t.Helper()
	f := &fakeFinder{byID: make(map[string]*employee.Employee)}
	for _, e := range emps {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeFinder) FindByID(_ context.Context, id string) (*employee.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeFinder) FindByEmail(_ context.Context, email string) (*employee.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.byID {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func newIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}
	return issuer
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := newIssuer(t)
	fixed := time.Now().UTC().Truncate(time.Second)
	issuer.now = func() time.Time { return fixed }

	token, exp, err := issuer.Issue("emp-1", true, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if !exp.Equal(fixed.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %v", exp)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.EmployeeID != "emp-1" || !claims.IsStaff {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	_, rememberExp, err := issuer.Issue("emp-1", false, true)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if !rememberExp.Equal(fixed.Add(24 * time.Hour)) {
		t.Fatalf("remember should extend expiry, got %v", rememberExp)
	}
}

func TestTokenIssuer_RejectsInvalidTokens(t *testing.T) {
	t.Parallel()

	issuer := newIssuer(t)

	expired := newIssuer(t)
	expired.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expiredToken, _, err := expired.Issue("emp-1", false, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	other, err := NewTokenIssuer("other-secret", time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer returned error: %v", err)
	}
	foreignToken, _, err := other.Issue("emp-1", true, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not.a.token",
		"expired":      expiredToken,
		"wrong secret": foreignToken,
	}
	for name, token := range cases {
		token := token
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := issuer.Parse(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestNewTokenIssuer_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenIssuer(" ", time.Hour, time.Hour); err == nil {
		t.Fatal("expected error for blank secret")
	}
	if _, err := NewTokenIssuer("s", 0, time.Hour); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	alice := &employee.Employee{ID: "emp-1", Name: "Alice", Email: "alice@example.com", PasswordHash: hashed(t, "password1")}
	svc := NewService(newFakeFinder(t, alice), newIssuer(t))

	session, err := svc.Login(context.Background(), " ALICE@example.com ", "password1", false)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.Token == "" || session.Identity.EmployeeID != "emp-1" || session.Identity.IsStaff {
		t.Fatalf("unexpected session: %+v", session)
	}

	for name, creds := range map[string][2]string{
		"wrong password": {"alice@example.com", "password2"},
		"unknown email":  {"bob@example.com", "password1"},
		"invalid email":  {"bob", "password1"},
	} {
		if _, err := svc.Login(context.Background(), creds[0], creds[1], false); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}

func TestService_Login_StoreFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	finder := newFakeFinder(t)
	finder.err = boom
	svc := NewService(finder, newIssuer(t))

	_, err := svc.Login(context.Background(), "alice@example.com", "password1", false)
	if !errors.Is(err, boom) || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestService_Authenticate(t *testing.T) {
	t.Parallel()

	staff := &employee.Employee{ID: "emp-9", Name: "Staff", Email: "staff@example.com", IsStaff: true}
	finder := newFakeFinder(t, staff)
	issuer := newIssuer(t)
	svc := NewService(finder, issuer)

	token, _, err := issuer.Issue("emp-9", false, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	id, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if !id.IsStaff {
		t.Fatal("staff flag should come from the stored employee")
	}

	ghost, _, err := issuer.Issue("emp-404", false, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), ghost); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for removed employee, got %v", err)
	}
}

func TestRequireLoginAndStaff(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		id        *Identity
		wantLogin Decision
		wantStaff Decision
	}{
		{"anonymous", nil, AuthenticationRequired, AuthenticationRequired},
		{"empty identity", &Identity{}, AuthenticationRequired, AuthenticationRequired},
		{"employee", &Identity{EmployeeID: "e"}, Allowed, Forbidden},
		{"staff", &Identity{EmployeeID: "s", IsStaff: true}, Allowed, Allowed},
	}

	for _, tc := range cases {
		if got := RequireLogin(tc.id); got != tc.wantLogin {
			t.Fatalf("%s: RequireLogin = %v, want %v", tc.name, got, tc.wantLogin)
		}
		if got := RequireStaff(tc.id); got != tc.wantStaff {
			t.Fatalf("%s: RequireStaff = %v, want %v", tc.name, got, tc.wantStaff)
		}
	}

	if !errors.Is(Forbidden.Err(), ErrForbidden) || !errors.Is(AuthenticationRequired.Err(), ErrAuthenticationRequired) || Allowed.Err() != nil {
		t.Fatal("unexpected Decision.Err mapping")
	}
}
