package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/login-portal/internal/views"
)

// LoginPath は登録成功後のリダイレクト先です。
const LoginPath = "/users/login"

// Registrar はユーザー登録を行うサービスが実装します。
type Registrar interface {
	Register(ctx context.Context, form RegistrationForm) (*User, error)
}

// RegisterFormHandler は GET /users/register のハンドラーを返します。
func RegisterFormHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		views.Render(c, http.StatusOK, "register.html", gin.H{
			"title": "Register",
			"name":  "",
			"email": "",
		})
	}
}

// RegisterHandler は POST /users/register のハンドラーを返します。
// 入力不備・重複・障害のいずれもフォームの再描画（200）で応答します。
func RegisterHandler(svc Registrar, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form RegistrationForm
		// 不正な本文でも空フォームとして検証に回す
		_ = c.ShouldBind(&form)

		user, err := svc.Register(c.Request.Context(), form)
		if err != nil {
			var validationErr *ValidationError
			switch {
			case errors.As(err, &validationErr):
				renderRegister(c, form, validationErr.Messages)
			case errors.Is(err, ErrUserExists):
				renderRegister(c, form, []string{MsgUserExists})
			default:
				logger.ErrorContext(c.Request.Context(), "registration failed",
					"email", form.Email, "err", err)
				renderRegister(c, form, []string{MsgRegisterFailed})
			}
			return
		}

		logger.InfoContext(c.Request.Context(), "user registered", "user_id", user.ID)

		views.AddFlash(c, views.FlashSuccess, MsgRegistered)
		if err := sessions.Default(c).Save(); err != nil {
			logger.WarnContext(c.Request.Context(), "failed to save flash", "err", err)
		}
		c.Redirect(http.StatusFound, LoginPath)
	}
}

func renderRegister(c *gin.Context, form RegistrationForm, messages []string) {
	views.Render(c, http.StatusOK, "register.html", gin.H{
		"title":  "Register",
		"errors": messages,
		"name":   form.Name,
		"email":  form.Email,
	})
}
