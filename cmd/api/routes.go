package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/login-portal/internal/auth"
	"github.com/yourusername/login-portal/internal/config"
	"github.com/yourusername/login-portal/internal/session"
	"github.com/yourusername/login-portal/internal/users"
	"github.com/yourusername/login-portal/internal/views"
)

type routerDeps struct {
	cfg      *config.Config
	users    users.Repository
	sessions session.Store
	logger   *slog.Logger
}

// newRouter はミドルウェアとルーティングを組み立てます。
// 順序: Logger/Recovery → CORS → セッションCookie → ログインユーザー復元 → 各ルートのガード → ハンドラー
func newRouter(deps routerDeps) (*gin.Engine, error) {
	cfg := deps.cfg

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	if err := views.Load(router); err != nil {
		return nil, err
	}

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// セッションCookieにはトークンとフラッシュだけを入れる
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxLifetime.Seconds()),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, store))

	hasher := users.NewBcryptHasher(cfg.BcryptCost)
	authManager := auth.NewManager(cfg, deps.users, hasher, deps.sessions, deps.logger)
	userService := users.NewService(deps.users, hasher)

	router.Use(authManager.LoadPrincipal())

	router.GET("/health", handleHealth)
	router.GET("/", handleIndex)

	userRoutes := router.Group("/users")
	{
		userRoutes.GET("/register", authManager.RedirectIfAuthenticated(), users.RegisterFormHandler())
		userRoutes.GET("/login", authManager.RedirectIfAuthenticated(), authManager.ShowLogin)
		userRoutes.GET("/dashboard", authManager.RequireLogin(), authManager.Dashboard)
		userRoutes.GET("/logout", authManager.Logout)

		// POST はガードしない（ログイン済みでも再送できる）
		userRoutes.POST("/register", users.RegisterHandler(userService, deps.logger))
		userRoutes.POST("/login", authManager.Login)
	}

	return router, nil
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "login-portal",
	})
}

func handleIndex(c *gin.Context) {
	views.Render(c, http.StatusOK, "index.html", gin.H{"title": "Home"})
}
