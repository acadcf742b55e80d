// Package session owns the authentication lifecycle and the current-user
// cache. All session state mutations flow through here and each one emits
// exactly one state-change broadcast.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Likhith-Bhargav/talent-link/internal/api"
	"github.com/Likhith-Bhargav/talent-link/internal/models"
	"github.com/Likhith-Bhargav/talent-link/internal/observability/metrics"
	"github.com/Likhith-Bhargav/talent-link/internal/store"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service is the session manager contract.
type Service interface {
	Initialize(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, creds Credentials) Result
	Register(ctx context.Context, reg Registration) Result
	Logout(ctx context.Context) Result
	FetchCurrentUser(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, fields map[string]any) (*models.User, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword1, newPassword2 string) Result
	ForgotPassword(ctx context.Context, email string) Result
	ResetPassword(ctx context.Context, uid, token, newPassword1, newPassword2 string) Result

	CurrentUser() *models.User
	Token() string
	State() models.AuthState
	IsAuthenticated() bool
	IsEmployer() bool
	IsJobSeeker() bool
	TokenExpiry() (time.Time, bool)
	Subscribe() (<-chan models.AuthState, func())
}

// ServiceImpl implements Service over the API client and a credential
// store. Token and current user are set and cleared together.
type ServiceImpl struct {
	client  *api.Client
	store   store.Store
	logger  *zap.Logger
	metrics *metrics.AppMetrics

	mu    sync.RWMutex
	token string
	user  *models.User
	subs  []chan models.AuthState

	sf singleflight.Group
}

// NewService creates a session manager. The stored token, if any, is
// adopted immediately; the user snapshot stays unset until Initialize
// confirms it with the backend.
func NewService(client *api.Client, st store.Store, logger *zap.Logger) *ServiceImpl {
	s := &ServiceImpl{
		client:  client,
		store:   st,
		logger:  logger,
		metrics: metrics.Get(),
	}
	if creds, err := st.Load(); err == nil && creds != nil {
		s.token = creds.Token
		client.SetToken(creds.Token)
	}
	return s
}

// Initialize is idempotent and coalesces concurrent callers into one
// in-flight pass: fetch a CSRF token, then confirm the stored session by
// fetching the current user. A failed confirmation clears the session.
func (s *ServiceImpl) Initialize(ctx context.Context) (*models.User, error) {
	v, err, _ := s.sf.Do("initialize", func() (any, error) {
		l := s.logger.With(zap.String("method", "Initialize"))

		if _, err := s.client.CSRFToken(ctx); err != nil {
			l.Warn("CSRF token fetch failed, proceeding without", zap.Error(err))
		}

		if s.Token() == "" {
			return (*models.User)(nil), nil
		}

		user, err := s.FetchCurrentUser(ctx)
		if err != nil {
			l.Warn("stored session rejected, clearing", zap.Error(err))
			s.clearSession()
			return (*models.User)(nil), nil
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.User), nil
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login submits credentials and on success stores the token and user and
// broadcasts once. Expected failures come back as a Result, never an error.
func (s *ServiceImpl) Login(ctx context.Context, creds Credentials) Result {
	l := s.logger.With(zap.String("method", "Login"), zap.String("username", creds.Username))
	l.Debug("Attempting login")

	if _, err := s.client.CSRFToken(ctx); err != nil {
		l.Warn("CSRF token fetch failed before login", zap.Error(err))
	}

	var resp loginResponse
	header, err := s.client.PostWithHeaders(ctx, "/auth/login/", creds, &resp)
	if err != nil {
		s.metrics.AuthRequestsTotal.WithLabelValues("login", "failure").Inc()
		return loginFailure(err)
	}

	token := resp.Token
	if token == "" {
		if auth := header.Get("Authorization"); strings.HasPrefix(auth, "Token ") {
			token = strings.TrimPrefix(auth, "Token ")
		}
	}
	if token == "" {
		s.metrics.AuthRequestsTotal.WithLabelValues("login", "failure").Inc()
		return Result{Success: false, Error: msgLoginInvalid}
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.client.SetToken(token)

	user := resp.User
	if user == nil {
		fetched, err := s.fetchUser(ctx)
		if err != nil {
			l.Warn("user fetch after login failed", zap.Error(err))
			s.clearSession()
			s.metrics.AuthRequestsTotal.WithLabelValues("login", "failure").Inc()
			return loginFailure(err)
		}
		user = fetched
	} else {
		s.setSession(token, user)
	}

	l.Info("Login successful")
	s.metrics.AuthRequestsTotal.WithLabelValues("login", "success").Inc()
	return Result{Success: true, User: user, Message: msgLoginOK}
}

// loginFailure maps an error to the user-displayable login Result. The
// server's own message wins when it offered one; status-keyed fallbacks
// cover the rest.
func loginFailure(err error) Result {
	res := Result{Success: false}
	var ae *api.Error
	switch {
	case errors.As(err, &ae):
		res.Details = ae.Fields
		res.Error = ae.Message
		if res.Error == "" || res.Error == "Something went wrong" {
			switch ae.StatusCode {
			case 400:
				res.Error = msgLoginInvalid
			case 401:
				res.Error = msgAccountInactive
			default:
				res.Error = "Login failed. Please try again."
			}
		} else if ae.StatusCode == 401 {
			res.Error = msgAccountInactive
		}
	case api.IsNetworkError(err) || api.IsTimeout(err):
		res.Error = msgNoConnection
	default:
		res.Error = "Login failed. Please try again."
	}
	return res
}

type registerResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register submits a sign-up. A user object in the response means the
// backend auto-logged the account in; otherwise email verification is
// pending.
func (s *ServiceImpl) Register(ctx context.Context, reg Registration) Result {
	l := s.logger.With(zap.String("method", "Register"), zap.String("email", reg.Email))
	l.Debug("Attempting registration")

	if _, err := s.client.CSRFToken(ctx); err != nil {
		l.Warn("CSRF token fetch failed before registration", zap.Error(err))
	}

	var resp registerResponse
	if err := s.client.Post(ctx, "/auth/register/", reg, &resp); err != nil {
		s.metrics.AuthRequestsTotal.WithLabelValues("register", "failure").Inc()
		return registrationFailure(err)
	}

	s.metrics.AuthRequestsTotal.WithLabelValues("register", "success").Inc()
	if resp.User != nil {
		token := resp.Token
		if token == "" {
			token = s.Token()
		}
		s.client.SetToken(token)
		s.setSession(token, resp.User)
		l.Info("Registration successful, auto-logged in")
		return Result{Success: true, User: resp.User, Message: msgRegisteredLogin}
	}

	l.Info("Registration successful, verification required")
	return Result{Success: true, RequiresVerification: true, Message: msgRegisteredVerify}
}

func registrationFailure(err error) Result {
	res := Result{Success: false, Error: "Registration failed. Please try again."}
	var ae *api.Error
	switch {
	case errors.As(err, &ae):
		res.Details = ae.Fields
		// Field-specific messages beat the generic extraction order.
		for _, field := range []string{"non_field_errors", "email", "username", "password1"} {
			if m := ae.FieldMessage(field); m != "" {
				res.Error = m
				return res
			}
		}
		if ae.Message != "" {
			res.Error = ae.Message
		}
	case api.IsNetworkError(err) || api.IsTimeout(err):
		res.Error = msgNoConnection
	}
	return res
}

// Logout invalidates the session server-side on a best-effort basis and
// always clears local state, even when the network call fails.
func (s *ServiceImpl) Logout(ctx context.Context) Result {
	l := s.logger.With(zap.String("method", "Logout"))

	if s.Token() != "" {
		if err := s.client.Post(ctx, "/auth/logout/", nil, nil); err != nil {
			l.Warn("server-side logout failed, clearing locally anyway", zap.Error(err))
		}
	}

	s.clearSession()
	l.Info("Logged out")
	s.metrics.AuthRequestsTotal.WithLabelValues("logout", "success").Inc()
	return Result{Success: true}
}

// FetchCurrentUser refreshes the user snapshot. Requires a stored token; a
// 401 clears the session before the error is returned. Concurrent callers
// share one in-flight fetch.
func (s *ServiceImpl) FetchCurrentUser(ctx context.Context) (*models.User, error) {
	v, err, _ := s.sf.Do("fetch-user", func() (any, error) {
		return s.fetchUser(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.User), nil
}

func (s *ServiceImpl) fetchUser(ctx context.Context) (*models.User, error) {
	token := s.Token()
	if token == "" {
		return nil, models.ErrNoToken
	}

	var user models.User
	if err := s.client.Get(ctx, "/auth/user/", nil, &user); err != nil {
		if api.IsStatus(err, 401) {
			// Expired or revoked token; the session is gone.
			s.logger.Info("current-user fetch returned 401, clearing session")
			s.clearSession()
			return nil, errors.Wrap(models.ErrUnauthenticated, err.Error())
		}
		return nil, err
	}

	s.setSession(token, &user)
	return &user, nil
}

// UpdateProfile patches the account and refreshes the cached snapshot.
func (s *ServiceImpl) UpdateProfile(ctx context.Context, fields map[string]any) (*models.User, error) {
	if s.Token() == "" {
		return nil, models.ErrNoToken
	}
	var user models.User
	if err := s.client.Patch(ctx, "/auth/user/", fields, &user); err != nil {
		return nil, err
	}
	s.setSession(s.Token(), &user)
	return &user, nil
}

// ChangePassword converts backend field errors into one displayable
// message, preferring the most specific field.
func (s *ServiceImpl) ChangePassword(ctx context.Context, oldPassword, newPassword1, newPassword2 string) Result {
	body := map[string]string{
		"old_password":  oldPassword,
		"new_password1": newPassword1,
		"new_password2": newPassword2,
	}
	var resp struct {
		Detail string `json:"detail"`
	}
	if err := s.client.Post(ctx, "/auth/password/change/", body, &resp); err != nil {
		res := Result{Success: false, Error: "Failed to change password. Please try again."}
		var ae *api.Error
		if errors.As(err, &ae) {
			res.Details = ae.Fields
			for _, field := range []string{"old_password", "new_password2", "non_field_errors"} {
				if m := ae.FieldMessage(field); m != "" {
					res.Error = m
					break
				}
			}
		} else if api.IsNetworkError(err) || api.IsTimeout(err) {
			res.Error = msgNoConnection
		}
		return res
	}
	return Result{Success: true, Message: resp.Detail}
}

func (s *ServiceImpl) ForgotPassword(ctx context.Context, email string) Result {
	if err := s.client.Post(ctx, "/auth/password/reset/", map[string]string{"email": email}, nil); err != nil {
		return passwordFailure(err)
	}
	return Result{Success: true, Message: "Password reset email sent."}
}

func (s *ServiceImpl) ResetPassword(ctx context.Context, uid, token, newPassword1, newPassword2 string) Result {
	body := map[string]string{
		"uid":           uid,
		"token":         token,
		"new_password1": newPassword1,
		"new_password2": newPassword2,
	}
	var resp struct {
		Detail string `json:"detail"`
	}
	if err := s.client.Post(ctx, "/auth/password/reset/confirm/", body, &resp); err != nil {
		return passwordFailure(err)
	}
	return Result{Success: true, Message: resp.Detail}
}

func passwordFailure(err error) Result {
	res := Result{Success: false, Error: "Password operation failed. Please try again."}
	var ae *api.Error
	if errors.As(err, &ae) {
		res.Details = ae.Fields
		if ae.Message != "" {
			res.Error = ae.Message
		}
	} else if api.IsNetworkError(err) || api.IsTimeout(err) {
		res.Error = msgNoConnection
	}
	return res
}

// --- state accessors ---

func (s *ServiceImpl) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *ServiceImpl) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *ServiceImpl) State() models.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.AuthState{IsAuthenticated: s.token != "" && s.user != nil, User: s.user}
}

func (s *ServiceImpl) IsAuthenticated() bool {
	return s.State().IsAuthenticated
}

func (s *ServiceImpl) IsEmployer() bool {
	return s.CurrentUser().IsEmployer()
}

func (s *ServiceImpl) IsJobSeeker() bool {
	return s.CurrentUser().IsJobSeeker()
}

// TokenExpiry reports the token's exp claim when the backend issued a JWT.
// The claim is read without signature verification; the backend stays
// authoritative on validity.
func (s *ServiceImpl) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Subscribe registers a listener for state-change broadcasts. The returned
// cancel func must be called when the listener goes away.
func (s *ServiceImpl) Subscribe() (<-chan models.AuthState, func()) {
	ch := make(chan models.AuthState, 16)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub == ch {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
	return ch, cancel
}

// setSession replaces token and user together, persists them, and emits
// one broadcast.
func (s *ServiceImpl) setSession(token string, user *models.User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	if err := s.store.Save(&store.Credentials{Token: token, User: user}); err != nil {
		s.logger.Warn("failed to persist credentials", zap.Error(err))
	}
	s.broadcast()
}

// clearSession drops token and user together, wipes storage, and emits one
// broadcast. It must succeed locally regardless of network state.
func (s *ServiceImpl) clearSession() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.client.SetToken("")
	if err := s.store.Clear(); err != nil {
		s.logger.Warn("failed to clear stored credentials", zap.Error(err))
	}
	s.broadcast()
}

func (s *ServiceImpl) broadcast() {
	state := s.State()
	s.mu.RLock()
	subs := make([]chan models.AuthState, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, ch := range subs {
		select {
		case ch <- state:
		default:
			// A stalled listener must not block state transitions.
		}
	}
}
