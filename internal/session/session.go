// Package session owns the authenticated user state: login, registration,
// logout, profile updates and the token persisted between runs.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/mealtrackr/mealtrackr/internal/apiclient"
	"github.com/mealtrackr/mealtrackr/internal/types"
)

// DefaultDailyCalorieGoal is used when the backend omits a goal.
const DefaultDailyCalorieGoal = 2000

// Store holds the current user and token. All methods are safe for
// concurrent use.
type Store struct {
	client *apiclient.Client
	tokens TokenStore
	log    *logrus.Entry

	mu      sync.RWMutex
	user    *types.UserProfile
	loading bool
	lastErr string
}

// New creates a session store. If a token was persisted from a previous run
// the store starts in the loading state until Init verifies it; callers must
// not treat a nil user as "logged out" while Loading reports true.
func New(client *apiclient.Client, tokens TokenStore, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{
		client:  client,
		tokens:  tokens,
		log:     logger.WithField("component", "session"),
		loading: tokens.Token() != "",
	}
}

// Init verifies a persisted token against the profile endpoint. An invalid or
// expired token clears session state immediately.
func (s *Store) Init(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	token := s.tokens.Token()
	if token == "" {
		return
	}

	if tokenExpired(token) {
		s.log.Debug("persisted token is expired, clearing session")
		s.clearLocal()
		return
	}

	var resp types.ProfileResponse
	if err := s.client.Get(ctx, "/auth/profile", nil, &resp); err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) || errors.Is(err, apiclient.ErrNotFound) {
			s.log.WithError(err).Debug("persisted token rejected, clearing session")
			s.clearLocal()
			return
		}
		// The backend being unreachable says nothing about the token.
		s.log.WithError(err).Warn("could not verify persisted token")
		s.setErr(err.Error())
		return
	}

	s.mu.Lock()
	s.user = &resp.Data
	s.lastErr = ""
	s.mu.Unlock()
}

// Loading reports whether token verification is still pending.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// User returns a snapshot of the current profile, or nil when logged out.
func (s *Store) User() *types.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Err returns the last human-readable error recorded by a session operation.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// DailyCalorieGoal returns the user's goal, defaulting when the backend
// omits it or nobody is logged in.
func (s *Store) DailyCalorieGoal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.user.DailyCalorieGoal <= 0 {
		return DefaultDailyCalorieGoal
	}
	return s.user.DailyCalorieGoal
}

// Login authenticates with an email address or username. Failures are
// recorded in Err rather than returned.
func (s *Store) Login(ctx context.Context, identifier, password string) bool {
	var resp types.AuthResponse
	err := s.client.Post(ctx, "/auth/login", types.LoginRequest{
		EmailOrUsername: identifier,
		Password:        password,
	}, &resp)
	if err != nil {
		s.log.WithError(err).Info("login failed")
		s.setErr(loginErrMessage(err))
		return false
	}

	if err := s.tokens.Save(resp.Data.Token); err != nil {
		s.log.WithError(err).Error("failed to persist token")
		s.setErr("could not save session")
		return false
	}

	user := resp.Data.User
	if user == nil {
		var profile types.ProfileResponse
		if err := s.client.Get(ctx, "/auth/profile", nil, &profile); err != nil {
			s.log.WithError(err).Error("profile fetch after login failed")
			s.setErr("logged in but could not load profile")
			return false
		}
		user = &profile.Data
	}

	s.mu.Lock()
	s.user = user
	s.lastErr = ""
	s.mu.Unlock()
	return true
}

// Register creates an account. When the backend returns a token directly it
// is adopted; otherwise the store falls back to a normal login with the
// provided credentials.
func (s *Store) Register(ctx context.Context, req types.RegisterRequest) bool {
	var resp types.AuthResponse
	if err := s.client.Post(ctx, "/auth/register", req, &resp); err != nil {
		s.log.WithError(err).Info("registration failed")
		s.setErr(loginErrMessage(err))
		return false
	}

	if resp.Data.Token == "" {
		return s.Login(ctx, req.Email, req.Password)
	}

	if err := s.tokens.Save(resp.Data.Token); err != nil {
		s.log.WithError(err).Error("failed to persist token")
		s.setErr("could not save session")
		return false
	}

	user := resp.Data.User
	if user == nil {
		var profile types.ProfileResponse
		if err := s.client.Get(ctx, "/auth/profile", nil, &profile); err != nil {
			s.log.WithError(err).Error("profile fetch after registration failed")
			s.setErr("registered but could not load profile")
			return false
		}
		user = &profile.Data
	}

	s.mu.Lock()
	s.user = user
	s.lastErr = ""
	s.mu.Unlock()
	return true
}

// Logout invalidates the session server-side on a best-effort basis, then
// unconditionally clears local state.
func (s *Store) Logout(ctx context.Context) {
	if s.tokens.Token() != "" {
		if err := s.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
			s.log.WithError(err).Warn("server-side logout failed")
		}
	}
	s.clearLocal()
}

// UpdateProfile applies a partial profile update. A 401 forces a logout
// before the error is surfaced.
func (s *Store) UpdateProfile(ctx context.Context, req types.UpdateProfileRequest) error {
	var resp types.ProfileResponse
	if err := s.client.Put(ctx, "/auth/profile", req, &resp); err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			s.Logout(ctx)
		}
		s.setErr(err.Error())
		return err
	}

	s.mu.Lock()
	s.user = &resp.Data
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// HandleUnauthorized clears local state without a server call. Wired as the
// API client's 401 hook.
func (s *Store) HandleUnauthorized() {
	s.clearLocal()
}

func (s *Store) clearLocal() {
	if err := s.tokens.Clear(); err != nil {
		s.log.WithError(err).Warn("failed to clear persisted token")
	}
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

func (s *Store) setErr(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

// tokenExpired peeks at the token's exp claim without verifying the
// signature; verification is the backend's job.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false // opaque tokens are verified over the network instead
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func loginErrMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
