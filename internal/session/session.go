package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Rahulsaha30/projectmanagement/internal/api"
	"github.com/Rahulsaha30/projectmanagement/internal/obs"
)

// Roles issued by the server.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

const (
	// Refresh fires this long before the access token expires.
	refreshLead = 5 * time.Minute
	// A token about to expire still gets one attempt, but never sooner
	// than this, so the timer cannot fire in the past or immediately.
	minRefreshDelay = time.Minute
)

var (
	ErrNotAuthenticated = errors.New("session: not authenticated")
	ErrNoRefreshToken   = errors.New("session: no refresh token held")
	ErrInvalidToken     = errors.New("session: token claims missing or malformed")
)

// authAPI is the slice of the client the session store depends on.
type authAPI interface {
	Login(ctx context.Context, email, password string) (api.TokenResponse, error)
	Signup(ctx context.Context, in api.SignupRequest) (api.TokenResponse, error)
	ForgotPassword(ctx context.Context, in api.ForgotPasswordRequest) error
	RefreshToken(ctx context.Context, refreshToken string) (api.TokenResponse, error)
}

// Store is the single source of truth for who is logged in, with what
// role, until when. It owns the proactive refresh timer and persists
// state after every mutating operation.
type Store struct {
	api     authAPI
	storage *Storage
	now     func() time.Time

	mu    sync.Mutex
	state State
	timer *time.Timer

	// At most one refresh is in flight; concurrent callers wait on it.
	refreshDone chan struct{}
	refreshErr  error
}

// Option configures Store behavior.
type Option func(*Store)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewStore constructs a session store over the given API and storage.
func NewStore(a authAPI, storage *Storage, opts ...Option) *Store {
	s := &Store{
		api:     a,
		storage: storage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads persisted state. Call once at startup, before CheckExpiry.
func (s *Store) Restore() error {
	state, err := s.storage.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return nil
}

// Login authenticates and arms the refresh timer.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.applyTokens(resp)
}

// Signup registers an account; the returned token pair logs the caller in.
func (s *Store) Signup(ctx context.Context, name, email, password, role, pin string) error {
	resp, err := s.api.Signup(ctx, api.SignupRequest{
		EmpName:  name,
		Email:    email,
		Password: password,
		Role:     role,
		Pin:      pin,
	})
	if err != nil {
		return err
	}
	return s.applyTokens(resp)
}

// ForgotPassword resets the account password. Session state is untouched.
func (s *Store) ForgotPassword(ctx context.Context, email, pin, newPassword string) error {
	return s.api.ForgotPassword(ctx, api.ForgotPasswordRequest{
		Email:       email,
		Pin:         pin,
		NewPassword: newPassword,
	})
}

// Logout cancels any pending refresh and clears all session state.
// Safe to call repeatedly.
func (s *Store) Logout() {
	s.mu.Lock()
	s.stopTimerLocked()
	s.state = State{}
	s.persistLocked()
	s.mu.Unlock()
}

// Refresh exchanges the held refresh token for a new access token.
// A second caller while one refresh is in flight awaits its outcome
// instead of issuing another request. Irrecoverable failure forces Logout.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if done := s.refreshDone; done != nil {
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
		err := s.refreshErr
		s.mu.Unlock()
		return err
	}
	refreshToken := s.state.RefreshToken
	if refreshToken == "" {
		s.mu.Unlock()
		s.Logout()
		return ErrNoRefreshToken
	}
	done := make(chan struct{})
	s.refreshDone = done
	s.mu.Unlock()

	resp, err := s.api.RefreshToken(ctx, refreshToken)
	obs.ObserveRefresh(err)
	if err == nil {
		err = s.applyTokens(resp)
	}

	s.mu.Lock()
	s.refreshErr = err
	s.refreshDone = nil
	close(done)
	s.mu.Unlock()

	if err != nil {
		obs.Logger().WithField("err", err).Warn("token refresh failed, logging out")
		s.Logout()
	}
	return err
}

// CheckExpiry restores the refresh schedule at process start: an already
// expired token is refreshed immediately, a live one arms the timer for
// its remaining lifetime.
func (s *Store) CheckExpiry(ctx context.Context) error {
	s.mu.Lock()
	if !s.state.Authenticated || s.state.Expiry.IsZero() {
		s.mu.Unlock()
		return nil
	}
	expired := !s.now().Before(s.state.Expiry)
	if !expired {
		s.scheduleRefreshLocked()
	}
	s.mu.Unlock()

	if expired {
		return s.Refresh(ctx)
	}
	return nil
}

// AccessToken returns the current bearer token; empty when logged out.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

// Authenticated reports whether a login or signup has succeeded and not
// been revoked.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Authenticated
}

// Role returns the decoded role claim.
func (s *Store) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Role
}

// EmpID returns the decoded employee id claim.
func (s *Store) EmpID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.EmpID
}

// Subject returns the decoded subject claim.
func (s *Store) Subject() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Subject
}

// Expiry returns the access token expiry instant.
func (s *Store) Expiry() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Expiry
}

// applyTokens decodes the access token, updates state, persists it and
// re-arms the refresh timer.
func (s *Store) applyTokens(resp api.TokenResponse) error {
	claims, err := decodeClaims(resp.AccessToken)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state.AccessToken = resp.AccessToken
	if resp.RefreshToken != "" {
		s.state.RefreshToken = resp.RefreshToken
	}
	s.state.Role = claims.Role
	s.state.EmpID = claims.empID()
	s.state.Subject = claims.Subject
	s.state.Expiry = claims.ExpiresAt.Time
	s.state.Authenticated = true
	s.persistLocked()
	s.scheduleRefreshLocked()
	s.mu.Unlock()
	return nil
}

// scheduleRefreshLocked arms the refresh timer, cancelling any previous
// one. Exactly one timer is live at a time. Caller holds s.mu.
func (s *Store) scheduleRefreshLocked() {
	s.stopTimerLocked()
	if s.state.Expiry.IsZero() {
		return
	}
	delay := refreshDelay(s.state.Expiry, s.now())
	s.timer = time.AfterFunc(delay, func() {
		_ = s.Refresh(context.Background())
	})
}

func (s *Store) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	if err := s.storage.Save(s.state); err != nil {
		obs.Logger().WithField("err", err).Warn("persist session state")
	}
}

// refreshDelay computes how long to wait before refreshing a token that
// expires at expiry: the lead time before expiry, clamped to the minimum.
func refreshDelay(expiry, now time.Time) time.Duration {
	delay := expiry.Sub(now) - refreshLead
	if delay < minRefreshDelay {
		return minRefreshDelay
	}
	return delay
}

// tokenClaims is the decoded access token payload.
type tokenClaims struct {
	Role  string `json:"role"`
	EmpID any    `json:"emp_id"`
	jwt.RegisteredClaims
}

// empID tolerates servers that encode emp_id as a string.
func (c *tokenClaims) empID() int {
	switch v := c.EmpID.(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

// decodeClaims extracts role, subject, employee id and expiry from the
// access token. The client holds no signing key, so the signature is
// not verified here; the server rejects forged tokens on every request.
func decodeClaims(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
