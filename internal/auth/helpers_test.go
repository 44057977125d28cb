package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/login-portal/internal/config"
	"github.com/yourusername/login-portal/internal/session"
	"github.com/yourusername/login-portal/internal/users"
	"github.com/yourusername/login-portal/internal/users/userstest"
	"github.com/yourusername/login-portal/internal/views"
)

func testConfig() *config.Config {
	return &config.Config{
		GinMode:            gin.TestMode,
		SessionSecret:      "test-secret",
		SessionMaxLifetime: time.Hour,
		SessionIdleTimeout: 30 * time.Minute,
		BcryptCost:         bcrypt.MinCost,
		LoginMaxAttempts:   5,
		LoginWindow:        15 * time.Minute,
		LoginLockDuration:  10 * time.Minute,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// flakyStore は Delete の失敗を切り替えられる session.Store です。
type flakyStore struct {
	*session.MemoryStore
	failDelete atomic.Bool
}

func (s *flakyStore) Delete(ctx context.Context, token string) error {
	if s.failDelete.Load() {
		return errors.New("store unavailable")
	}
	return s.MemoryStore.Delete(ctx, token)
}

type fixture struct {
	manager *Manager
	repo    *userstest.Repository
	store   *flakyStore
	hasher  *users.BcryptHasher
}

func newFixture(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()
	repo := userstest.NewRepository()
	store := &flakyStore{MemoryStore: session.NewMemoryStore(cfg.SessionMaxLifetime)}
	hasher := users.NewBcryptHasher(bcrypt.MinCost)
	return &fixture{
		manager: NewManager(cfg, repo, hasher, store, discardLogger()),
		repo:    repo,
		store:   store,
		hasher:  hasher,
	}
}

func (f *fixture) seedUser(t *testing.T, name, email, password string) *users.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	u, err := f.repo.Create(context.Background(), &users.User{Name: name, Email: email, PasswordHash: hash})
	require.NoError(t, err)
	return u
}

func (f *fixture) router(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	require.NoError(t, views.Load(router))
	router.Use(sessions.Sessions(SessionCookieName, cookie.NewStore([]byte("test-secret"))))
	router.Use(f.manager.LoadPrincipal())

	router.GET("/users/login", f.manager.RedirectIfAuthenticated(), f.manager.ShowLogin)
	router.GET("/users/dashboard", f.manager.RequireLogin(), f.manager.Dashboard)
	router.GET("/users/logout", f.manager.Logout)
	router.POST("/users/login", f.manager.Login)
	return router
}

// browser はCookieを保持し、リダイレクトを追わないクライアントです。
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, handler http.Handler) *browser {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: srv.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type page struct {
	status   int
	location string
	body     string
}

func (b *browser) get(path string) page {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	return readPage(b.t, resp)
}

func (b *browser) postForm(path string, form url.Values) page {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	return readPage(b.t, resp)
}

func readPage(t *testing.T, resp *http.Response) page {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return page{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		body:     string(body),
	}
}

func (p page) contains(s string) bool {
	return strings.Contains(p.body, s)
}

func loginValues(email, password string) url.Values {
	return url.Values{"email": {email}, "password": {password}}
}
