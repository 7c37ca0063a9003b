package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Rahulsaha30/projectmanagement/internal/api"
)

type fakeAuthAPI struct {
	loginFn   func(ctx context.Context, email, password string) (api.TokenResponse, error)
	signupFn  func(ctx context.Context, in api.SignupRequest) (api.TokenResponse, error)
	forgotFn  func(ctx context.Context, in api.ForgotPasswordRequest) error
	refreshFn func(ctx context.Context, refreshToken string) (api.TokenResponse, error)
}

func (f *fakeAuthAPI) Login(ctx context.Context, email, password string) (api.TokenResponse, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeAuthAPI) Signup(ctx context.Context, in api.SignupRequest) (api.TokenResponse, error) {
	return f.signupFn(ctx, in)
}

func (f *fakeAuthAPI) ForgotPassword(ctx context.Context, in api.ForgotPasswordRequest) error {
	return f.forgotFn(ctx, in)
}

func (f *fakeAuthAPI) RefreshToken(ctx context.Context, refreshToken string) (api.TokenResponse, error) {
	return f.refreshFn(ctx, refreshToken)
}

// makeToken builds an unsigned JWT carrying the claims the store decodes.
func makeToken(t *testing.T, role string, empID int, exp time.Time) string {
	t.Helper()
	encode := func(v any) string {
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal segment: %v", err)
		}
		return base64.RawURLEncoding.EncodeToString(data)
	}
	header := encode(map[string]string{"alg": "HS256", "typ": "JWT"})
	payload := encode(map[string]any{
		"sub":    "jane@x.com",
		"role":   role,
		"emp_id": empID,
		"exp":    exp.Unix(),
	})
	sig := base64.RawURLEncoding.EncodeToString([]byte("sig"))
	return header + "." + payload + "." + sig
}

func newTestStore(t *testing.T, a authAPI, opts ...Option) *Store {
	t.Helper()
	storage := NewStorage(filepath.Join(t.TempDir(), "session.json"))
	return NewStore(a, storage, opts...)
}

func (s *Store) timerArmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func TestLoginDecodesClaims(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	exp := now.Add(time.Hour)
	fake := &fakeAuthAPI{
		loginFn: func(ctx context.Context, email, password string) (api.TokenResponse, error) {
			return api.TokenResponse{
				AccessToken:  makeToken(t, RoleManager, 7, exp),
				RefreshToken: "refresh-1",
				TokenType:    "bearer",
			}, nil
		},
	}
	s := newTestStore(t, fake, WithClock(func() time.Time { return now }))

	if err := s.Login(context.Background(), "jane@x.com", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !s.Authenticated() {
		t.Fatal("expected authenticated state")
	}
	if s.Role() != RoleManager {
		t.Fatalf("role = %q, want %q", s.Role(), RoleManager)
	}
	if s.EmpID() != 7 {
		t.Fatalf("emp id = %d, want 7", s.EmpID())
	}
	if got := s.Expiry().Unix(); got != exp.Unix() {
		t.Fatalf("expiry = %d, want %d", got, exp.Unix())
	}
	if !s.timerArmed() {
		t.Fatal("expected refresh timer to be armed after login")
	}

	// State survives a restart through storage.
	restored := NewStore(fake, s.storage)
	if err := restored.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !restored.Authenticated() || restored.Role() != RoleManager {
		t.Fatalf("restored state mismatch: %+v", restored.state)
	}
}

func TestLoginRejected(t *testing.T) {
	fake := &fakeAuthAPI{
		loginFn: func(ctx context.Context, email, password string) (api.TokenResponse, error) {
			return api.TokenResponse{}, &api.Error{Kind: api.KindAuth, Status: 401, Message: "Invalid credentials"}
		},
	}
	s := newTestStore(t, fake)

	err := s.Login(context.Background(), "jane@x.com", "wrong")
	if !errors.Is(err, api.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if s.Authenticated() {
		t.Fatal("login failure must not authenticate")
	}
	if s.timerArmed() {
		t.Fatal("login failure must not arm a timer")
	}
}

func TestRefreshDelay(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name   string
		expiry time.Time
		want   time.Duration
	}{
		{name: "one hour out", expiry: now.Add(time.Hour), want: 55 * time.Minute},
		{name: "400 seconds out clamps to minimum", expiry: now.Add(400 * time.Second), want: time.Minute},
		{name: "under lead time clamps to minimum", expiry: now.Add(2 * time.Minute), want: time.Minute},
		{name: "already expired clamps to minimum", expiry: now.Add(-time.Minute), want: time.Minute},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := refreshDelay(tc.expiry, now); got != tc.want {
				t.Fatalf("refreshDelay = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLogoutIdempotent(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	fake := &fakeAuthAPI{
		loginFn: func(ctx context.Context, email, password string) (api.TokenResponse, error) {
			return api.TokenResponse{AccessToken: makeToken(t, RoleEmployee, 3, exp), RefreshToken: "rt"}, nil
		},
	}
	s := newTestStore(t, fake)
	if err := s.Login(context.Background(), "jane@x.com", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	s.Logout()
	s.Logout()

	if s.Authenticated() {
		t.Fatal("expected logged-out state")
	}
	if s.AccessToken() != "" {
		t.Fatal("expected cleared access token")
	}
	if s.timerArmed() {
		t.Fatal("expected timer cancelled by logout")
	}

	// CheckExpiry after logout must not arm a timer or refresh.
	if err := s.CheckExpiry(context.Background()); err != nil {
		t.Fatalf("CheckExpiry: %v", err)
	}
	if s.Authenticated() || s.timerArmed() {
		t.Fatal("CheckExpiry after logout must stay logged out with no timer")
	}
}

func TestRefreshFailureForcesLogout(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	fake := &fakeAuthAPI{
		loginFn: func(ctx context.Context, email, password string) (api.TokenResponse, error) {
			return api.TokenResponse{AccessToken: makeToken(t, RoleEmployee, 3, exp), RefreshToken: "rt"}, nil
		},
		refreshFn: func(ctx context.Context, refreshToken string) (api.TokenResponse, error) {
			return api.TokenResponse{}, &api.Error{Kind: api.KindAuth, Status: 401, Message: "Invalid refresh token"}
		},
	}
	s := newTestStore(t, fake)
	if err := s.Login(context.Background(), "jane@x.com", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if s.Authenticated() {
		t.Fatal("rejected refresh must force logout")
	}
	if s.timerArmed() {
		t.Fatal("rejected refresh must cancel the timer")
	}
}

func TestRefreshWithoutTokenForcesLogout(t *testing.T) {
	s := newTestStore(t, &fakeAuthAPI{})

	err := s.Refresh(context.Background())
	if !errors.Is(err, ErrNoRefreshToken) {
		t.Fatalf("expected ErrNoRefreshToken, got %v", err)
	}
	if s.Authenticated() {
		t.Fatal("expected logged-out state")
	}
}

func TestRefreshSingleFlight(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	var calls int32
	entered := make(chan struct{})
	release := make(chan struct{})
	fake := &fakeAuthAPI{
		refreshFn: func(ctx context.Context, refreshToken string) (api.TokenResponse, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				close(entered)
			}
			<-release
			return api.TokenResponse{AccessToken: makeToken(t, RoleEmployee, 3, exp)}, nil
		},
	}
	s := newTestStore(t, fake)
	s.mu.Lock()
	s.state = State{RefreshToken: "rt", Authenticated: true, Expiry: exp}
	s.mu.Unlock()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = s.Refresh(context.Background())
	}()
	<-entered
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[1] = s.Refresh(context.Background())
	}()

	// Give the second caller time to park on the in-flight refresh.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one refresh request, got %d", got)
	}
	if errs[0] != nil || errs[1] != nil {
		t.Fatalf("unexpected errors: %v, %v", errs[0], errs[1])
	}
	if !s.Authenticated() {
		t.Fatal("expected authenticated state after refresh")
	}
}

func TestCheckExpiryRefreshesExpiredToken(t *testing.T) {
	now := time.Now()
	var calls int32
	fake := &fakeAuthAPI{
		refreshFn: func(ctx context.Context, refreshToken string) (api.TokenResponse, error) {
			atomic.AddInt32(&calls, 1)
			return api.TokenResponse{AccessToken: makeToken(t, RoleEmployee, 3, now.Add(time.Hour))}, nil
		},
	}
	s := newTestStore(t, fake)
	s.mu.Lock()
	s.state = State{RefreshToken: "rt", Authenticated: true, Expiry: now.Add(-time.Minute)}
	s.mu.Unlock()

	if err := s.CheckExpiry(context.Background()); err != nil {
		t.Fatalf("CheckExpiry: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one refresh for the expired token, got %d", got)
	}
	if !s.timerArmed() {
		t.Fatal("expected timer re-armed after refresh")
	}
}

func TestCheckExpiryArmsTimerForLiveToken(t *testing.T) {
	s := newTestStore(t, &fakeAuthAPI{})
	s.mu.Lock()
	s.state = State{RefreshToken: "rt", Authenticated: true, Expiry: time.Now().Add(time.Hour)}
	s.mu.Unlock()

	if err := s.CheckExpiry(context.Background()); err != nil {
		t.Fatalf("CheckExpiry: %v", err)
	}
	if !s.timerArmed() {
		t.Fatal("expected timer armed for live token")
	}
}

func TestSignupBehavesLikeLogin(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	fake := &fakeAuthAPI{
		signupFn: func(ctx context.Context, in api.SignupRequest) (api.TokenResponse, error) {
			if in.Role != RoleEmployee || in.Pin != "emp123" {
				t.Errorf("unexpected signup payload: %+v", in)
			}
			return api.TokenResponse{AccessToken: makeToken(t, RoleEmployee, 9, exp), RefreshToken: "rt"}, nil
		},
	}
	s := newTestStore(t, fake)

	if err := s.Signup(context.Background(), "Jane.Doe", "jane@x.com", "secret1!", RoleEmployee, "emp123"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if !s.Authenticated() || s.EmpID() != 9 || !s.timerArmed() {
		t.Fatal("signup must authenticate and arm the refresh timer")
	}
}

func TestDecodeClaimsRejectsMalformedToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not a jwt", token: "garbage"},
		{name: "missing role", token: func() string {
			header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256"}`))
			payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"x","exp":9999999999}`))
			return header + "." + payload + "." + base64.RawURLEncoding.EncodeToString([]byte("s"))
		}()},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := decodeClaims(tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
