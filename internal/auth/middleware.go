package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/login-portal/internal/users"
)

// リダイレクト先
const (
	LoginPath     = "/users/login"
	DashboardPath = "/users/dashboard"
)

// LoadPrincipal はセッションCookieのトークンからユーザーを復元し、コンテキストに載せるミドルウェアです。
// 未ログインでも処理は続行し、判定はガード側で行います。
func (m *Manager) LoadPrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		token, _ := sess.Get(sessionKeyToken).(string)
		if token == "" {
			c.Next()
			return
		}

		principal, err := m.resolve(c.Request.Context(), token)
		if err != nil {
			// ストア障害時は未ログインとして扱う
			m.logger.ErrorContext(c.Request.Context(), "failed to load session", "err", err)
			c.Next()
			return
		}
		if principal == nil {
			sess.Delete(sessionKeyToken)
			if err := sess.Save(); err != nil {
				m.logger.WarnContext(c.Request.Context(), "failed to clear stale session", "err", err)
			}
			c.Next()
			return
		}

		c.Set(ContextPrincipalKey, principal)
		c.Next()
	}
}

// RedirectIfAuthenticated はログイン済みならダッシュボードへ送るガードです。
func (m *Manager) RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAuthenticated(c) {
			c.Redirect(http.StatusFound, DashboardPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireLogin は未ログインならログイン画面へ送るガードです。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentPrincipal はリクエストに紐づくログイン中のユーザーを返します。
func CurrentPrincipal(c *gin.Context) (*users.Principal, bool) {
	v, ok := c.Get(ContextPrincipalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*users.Principal)
	return p, ok && p != nil
}

// IsAuthenticated はリクエストがログイン済みかを返します。
func IsAuthenticated(c *gin.Context) bool {
	_, ok := CurrentPrincipal(c)
	return ok
}
