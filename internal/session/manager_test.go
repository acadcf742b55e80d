package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Likhith-Bhargav/talent-link/internal/api"
	"github.com/Likhith-Bhargav/talent-link/internal/models"
	"github.com/Likhith-Bhargav/talent-link/internal/store"
)

// withCSRF registers the token-issuing endpoint every session flow hits
// first.
func withCSRF(mux *http.ServeMux) *http.ServeMux {
	mux.HandleFunc("/api/auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"csrfToken":"test-csrf"}`))
	})
	return mux
}

func newTestService(t *testing.T, mux *http.ServeMux) (*ServiceImpl, store.Store) {
	t.Helper()
	srv := httptest.NewServer(withCSRF(mux))
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	st := store.NewMemoryStore()
	return NewService(client, st, zap.NewNop()), st
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func TestLoginSuccessWithBodyToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"token":"tok-1","user":{"id":1,"username":"ada","user_type":"job_seeker"}}`)
	})
	s, st := newTestService(t, mux)

	result := s.Login(context.Background(), Credentials{Username: "ada", Password: "pw"})

	require.True(t, result.Success)
	assert.Equal(t, "ada", result.User.Username)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "tok-1", s.Token())

	creds, err := st.Load()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "tok-1", creds.Token)
}

func TestLoginTokenFromAuthorizationHeader(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Authorization", "Token header-tok")
		writeJSON(w, http.StatusOK, `{"user":{"id":2,"username":"bob","user_type":"employer"}}`)
	})
	s, _ := newTestService(t, mux)

	result := s.Login(context.Background(), Credentials{Username: "bob", Password: "pw"})

	require.True(t, result.Success)
	assert.Equal(t, "header-tok", s.Token())
	assert.True(t, s.IsEmployer())
}

func TestLoginServerMessageWins(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"non_field_errors":["Unable to log in with provided credentials."]}`)
	})
	s, _ := newTestService(t, mux)

	result := s.Login(context.Background(), Credentials{Username: "ada", Password: "wrong"})

	require.False(t, result.Success)
	assert.Equal(t, "Unable to log in with provided credentials.", result.Error)
	assert.False(t, s.IsAuthenticated())
}

func TestLoginStatusFallbackMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"bare 400", http.StatusBadRequest, `{}`, "Invalid email/username or password."},
		{"401 inactive", http.StatusUnauthorized, `{"detail":"Account disabled"}`,
			"Your account is not active. Please check your email for an activation link."},
		{"bare 500", http.StatusInternalServerError, ``, "Login failed. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			s, _ := newTestService(t, mux)

			result := s.Login(context.Background(), Credentials{Username: "x", Password: "y"})
			require.False(t, result.Success)
			assert.Equal(t, tt.expected, result.Error)
		})
	}
}

func TestLoginUnreachableServer(t *testing.T) {
	client, err := api.New("http://127.0.0.1:1", time.Second, zap.NewNop())
	require.NoError(t, err)
	s := NewService(client, store.NewMemoryStore(), zap.NewNop())

	result := s.Login(context.Background(), Credentials{Username: "ada", Password: "pw"})

	require.False(t, result.Success)
	assert.Equal(t, "Unable to connect to the server. Please check your internet connection.", result.Error)
}

func TestLoginMissingTokenFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"user":{"id":1,"username":"ada"}}`)
	})
	s, _ := newTestService(t, mux)

	result := s.Login(context.Background(), Credentials{Username: "ada", Password: "pw"})

	require.False(t, result.Success)
	assert.Equal(t, "Invalid email/username or password.", result.Error)
	assert.False(t, s.IsAuthenticated())
}

func TestSessionBroadcastsOncePerTransition(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"token":"tok","user":{"id":1,"username":"ada","user_type":"job_seeker"}}`)
	})
	mux.HandleFunc("/api/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	s, _ := newTestService(t, mux)

	ch, cancel := s.Subscribe()
	defer cancel()

	result := s.Login(context.Background(), Credentials{Username: "ada", Password: "pw"})
	require.True(t, result.Success)

	first := <-ch
	assert.True(t, first.IsAuthenticated)
	assert.Equal(t, "ada", first.User.Username)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra broadcast after login: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}

	logout := s.Logout(context.Background())
	require.True(t, logout.Success)

	second := <-ch
	assert.False(t, second.IsAuthenticated)
	assert.Nil(t, second.User)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra broadcast after logout: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLogoutClearsLocallyWhenServerFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"token":"tok","user":{"id":1,"username":"ada"}}`)
	})
	mux.HandleFunc("/api/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"detail":"boom"}`)
	})
	s, st := newTestService(t, mux)

	require.True(t, s.Login(context.Background(), Credentials{Username: "ada", Password: "pw"}).Success)
	result := s.Logout(context.Background())

	assert.True(t, result.Success)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	creds, err := st.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestInitializeConfirmsStoredSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/user/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token stored-tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"id":5,"username":"carol","user_type":"recruiter"}`)
	})
	srv := httptest.NewServer(withCSRF(mux))
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	st := store.NewMemoryStore()
	require.NoError(t, st.Save(&store.Credentials{Token: "stored-tok"}))

	s := NewService(client, st, zap.NewNop())
	user, err := s.Initialize(context.Background())

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "carol", user.Username)
	assert.True(t, s.IsAuthenticated())
}

func TestInitializeRejectedTokenClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/user/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Invalid token."}`)
	})
	srv := httptest.NewServer(withCSRF(mux))
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	st := store.NewMemoryStore()
	require.NoError(t, st.Save(&store.Credentials{Token: "dead-tok"}))

	s := NewService(client, st, zap.NewNop())
	user, err := s.Initialize(context.Background())

	require.NoError(t, err)
	assert.Nil(t, user)
	assert.False(t, s.IsAuthenticated())
	creds, err := st.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestInitializeWithoutToken(t *testing.T) {
	s, _ := newTestService(t, http.NewServeMux())
	user, err := s.Initialize(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestRegisterRequiresVerification(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"detail":"Verification e-mail sent."}`)
	})
	s, _ := newTestService(t, mux)

	result := s.Register(context.Background(), Registration{
		Username: "dana", Email: "dana@example.com",
		Password1: "pw12345!", Password2: "pw12345!",
		UserType: models.UserTypeJobSeeker,
	})

	require.True(t, result.Success)
	assert.True(t, result.RequiresVerification)
	assert.False(t, s.IsAuthenticated())
}

func TestRegisterAutoLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"token":"new-tok","user":{"id":9,"username":"dana","user_type":"job_seeker"}}`)
	})
	s, _ := newTestService(t, mux)

	result := s.Register(context.Background(), Registration{Username: "dana", Email: "d@example.com", Password1: "x", Password2: "x"})

	require.True(t, result.Success)
	assert.False(t, result.RequiresVerification)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "new-tok", s.Token())
}

func TestRegisterFieldErrorPriority(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"username":["Taken."],"email":["Enter a valid email address."]}`)
	})
	s, _ := newTestService(t, mux)

	result := s.Register(context.Background(), Registration{Username: "dana", Email: "bad"})

	require.False(t, result.Success)
	// email outranks username in the displayed message.
	assert.Equal(t, "Enter a valid email address.", result.Error)
}

func TestChangePasswordFieldPriority(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/password/change/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"old_password":["Wrong password."],"new_password2":["Too short."]}`)
	})
	s, _ := newTestService(t, mux)

	result := s.ChangePassword(context.Background(), "old", "new1", "new1")

	require.False(t, result.Success)
	assert.Equal(t, "Wrong password.", result.Error)
}

func TestTokenExpiry(t *testing.T) {
	s, _ := newTestService(t, http.NewServeMux())

	// Opaque DRF-style tokens carry no expiry.
	s.mu.Lock()
	s.token = "opaque-token"
	s.mu.Unlock()
	_, ok := s.TokenExpiry()
	assert.False(t, ok)

	// A JWT with an exp claim does.
	// header {"alg":"none"} payload {"exp":4102444800} (2100-01-01)
	s.mu.Lock()
	s.token = "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJleHAiOjQxMDI0NDQ4MDB9."
	s.mu.Unlock()
	exp, ok := s.TokenExpiry()
	require.True(t, ok)
	assert.Equal(t, 2100, exp.UTC().Year())
}
