package auth

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/login-portal/internal/users"
	"github.com/yourusername/login-portal/internal/views"
)

const (
	msgLoginFailed     = "An error occurred during login"
	msgTooManyAttempts = "Too many login attempts. Try again later."
)

// LoginForm は POST /users/login のフォームです。
type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// ShowLogin は GET /users/login のハンドラーです。
func (m *Manager) ShowLogin(c *gin.Context) {
	views.Render(c, http.StatusOK, "login.html", gin.H{"title": "Login"})
}

// Dashboard は GET /users/dashboard のハンドラーです。RequireLogin の後ろに置きます。
func (m *Manager) Dashboard(c *gin.Context) {
	principal, _ := CurrentPrincipal(c)
	views.Render(c, http.StatusOK, "dashboard.html", gin.H{
		"title": "Dashboard",
		"user":  principal,
	})
}

// Login は POST /users/login のハンドラーです。
// 成功時はダッシュボード、失敗時は理由をフラッシュに積んでログイン画面へリダイレクトします。
func (m *Manager) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var form LoginForm
	_ = c.ShouldBind(&form)
	if form.Email == "" || form.Password == "" {
		m.failLogin(c, ReasonMissingCredentials)
		return
	}

	ip := c.ClientIP()
	if retryAfter := m.checkLock(ip); retryAfter > 0 {
		m.logger.WarnContext(ctx, "login locked", "ip", ip, "retry_after", retryAfter)
		m.failLogin(c, msgTooManyAttempts)
		return
	}

	principal, err := m.Authenticate(ctx, form.Email, form.Password)
	if err != nil {
		var authErr *Error
		if errors.As(err, &authErr) {
			remaining := m.recordFailure(ip)
			m.logger.InfoContext(ctx, "login rejected", "reason", authErr.Reason, "remaining_attempts", remaining)
			m.failLogin(c, authErr.Reason)
			return
		}
		m.logger.ErrorContext(ctx, "login failed", "err", err)
		m.failLogin(c, msgLoginFailed)
		return
	}

	m.resetAttempts(ip)

	if err := m.establish(c, principal); err != nil {
		m.logger.ErrorContext(ctx, "failed to establish session", "user_id", principal.ID, "err", err)
		m.failLogin(c, msgLoginFailed)
		return
	}

	c.Redirect(http.StatusFound, DashboardPath)
}

// Logout は GET /users/logout のハンドラーです。
// 保存済みセッションの削除に失敗した場合はダッシュボードへ戻します。
func (m *Manager) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	sess := sessions.Default(c)

	if token, _ := sess.Get(sessionKeyToken).(string); token != "" {
		if err := m.store.Delete(ctx, token); err != nil {
			m.logger.ErrorContext(ctx, "logout failed", "err", err)
			c.Redirect(http.StatusFound, DashboardPath)
			return
		}
	}

	sess.Delete(sessionKeyToken)
	if err := sess.Save(); err != nil {
		m.logger.ErrorContext(ctx, "logout failed", "err", err)
		c.Redirect(http.StatusFound, DashboardPath)
		return
	}
	c.Redirect(http.StatusFound, LoginPath)
}

// establish は新しいトークンでセッションを発行し、Cookieに保存します。
// 以前のトークンが残っていれば破棄します。
func (m *Manager) establish(c *gin.Context, principal *users.Principal) error {
	ctx := c.Request.Context()
	sess := sessions.Default(c)

	if old, _ := sess.Get(sessionKeyToken).(string); old != "" {
		if err := m.store.Delete(ctx, old); err != nil {
			m.logger.WarnContext(ctx, "failed to drop previous session", "err", err)
		}
	}

	record, err := m.store.Create(ctx, principal.ID)
	if err != nil {
		return err
	}
	sess.Set(sessionKeyToken, record.Token)
	if err := sess.Save(); err != nil {
		_ = m.store.Delete(ctx, record.Token)
		return err
	}
	return nil
}

func (m *Manager) failLogin(c *gin.Context, message string) {
	views.AddFlash(c, views.FlashError, message)
	if err := sessions.Default(c).Save(); err != nil {
		m.logger.WarnContext(c.Request.Context(), "failed to save flash", "err", err)
	}
	c.Redirect(http.StatusFound, LoginPath)
}
