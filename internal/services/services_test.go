package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"mealcircle-client/internal/api"
	"mealcircle-client/internal/models"
	"mealcircle-client/internal/sandbox"
	"mealcircle-client/internal/storage"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	sb      *sandbox.Server
	srv     *httptest.Server
	client  *api.Client
	store   *storage.MemoryStore
	session *Session
}

// newTestEnv starts a sandbox backend. wrap, when given, can intercept
// requests before they reach it.
func newTestEnv(t *testing.T, wrap func(http.Handler) http.Handler) *testEnv {
	t.Helper()

	sb := sandbox.New("test-secret")
	handler := sb.Handler()
	if wrap != nil {
		handler = wrap(handler)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := api.New(srv.URL+"/api", api.Options{Timeout: 2 * time.Second})
	store := storage.NewMemoryStore()
	return &testEnv{
		sb:      sb,
		srv:     srv,
		client:  client,
		store:   store,
		session: NewSession(client, store),
	}
}

// login signs the env's session in as a fresh user
func (e *testEnv) login(t *testing.T, email, name string) *models.User {
	t.Helper()
	oneTimeID := "login-" + email
	e.sb.RegisterLogin(oneTimeID, email, name)
	require.NoError(t, e.session.ProcessSessionID(context.Background(), oneTimeID))
	user := e.session.User()
	require.NotNil(t, user)
	return user
}

// otherUser creates a second account and returns a client acting as it
func (e *testEnv) otherUser(t *testing.T, email, name string) (*api.Client, models.User) {
	t.Helper()
	user := e.sb.CreateUser(email, name)
	token, err := e.sb.IssueToken(user.ID)
	require.NoError(t, err)
	return e.client.WithToken(token), user
}

func failPath(method, path string, status int) func(http.Handler) http.Handler {
	on := &atomic.Bool{}
	on.Store(true)
	return failPathWhen(on, method, path, status)
}

// failPathWhen fails method+path with status while on is set
func failPathWhen(on *atomic.Bool, method, path string, status int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if on.Load() && r.Method == method && r.URL.Path == path {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				w.Write([]byte(`{"detail":"backend unavailable"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
