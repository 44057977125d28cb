// Package auth は認証・認可機能を提供します。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yourusername/login-portal/internal/config"
	"github.com/yourusername/login-portal/internal/session"
	"github.com/yourusername/login-portal/internal/users"
)

const (
	SessionCookieName = "lp_session"
	sessionKeyToken   = "session_token"
)

// ContextPrincipalKey は、ハンドラー間でログイン済みユーザーを共有するためのキーです。
const ContextPrincipalKey = "auth.principal"

// 認証失敗の理由
const (
	ReasonIncorrectEmail     = "incorrect email"
	ReasonIncorrectPassword  = "incorrect password"
	ReasonMissingCredentials = "Missing credentials"
)

// Error は利用者の入力が原因の認証失敗です。
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "authentication failed: " + e.Reason
}

// UserFinder は認証に必要なユーザー検索です。
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	FindByID(ctx context.Context, id int64) (*users.User, error)
}

type attemptState struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// Manager は認証処理と状態をまとめた構造体です。
type Manager struct {
	cfg    *config.Config
	users  UserFinder
	hasher users.PasswordHasher
	store  session.Store
	logger *slog.Logger
	now    func() time.Time

	lock     sync.Mutex
	attempts map[string]*attemptState
}

// NewManager は認証マネージャーを作成します。
func NewManager(cfg *config.Config, finder UserFinder, hasher users.PasswordHasher, store session.Store, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		users:    finder,
		hasher:   hasher,
		store:    store,
		logger:   logger,
		now:      time.Now,
		attempts: make(map[string]*attemptState),
	}
}

// Authenticate はメールアドレスとパスワードを照合し、成功すれば Principal を返します。
// 入力に起因する失敗は *Error、それ以外は基盤側の障害です。
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*users.Principal, error) {
	user, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, &Error{Reason: ReasonIncorrectEmail}
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := m.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &Error{Reason: ReasonIncorrectPassword}
	}
	return user.Principal(), nil
}

// resolve はトークンからログイン中のユーザーを復元します。
// 期限切れやユーザー削除でセッションが無効なら nil, nil を返し、保存済みのセッションを消します。
func (m *Manager) resolve(ctx context.Context, token string) (*users.Principal, error) {
	record, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	now := m.now()
	if now.Sub(record.CreatedAt) > m.cfg.SessionMaxLifetime || now.Sub(record.LastActiveAt) > m.cfg.SessionIdleTimeout {
		if err := m.store.Delete(ctx, token); err != nil {
			return nil, err
		}
		return nil, nil
	}

	user, err := m.users.FindByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			if err := m.store.Delete(ctx, token); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return nil, err
	}

	if err := m.store.Touch(ctx, token, now); err != nil {
		// 最終アクセス時刻の更新失敗ではログインを取り消さない
		m.logger.WarnContext(ctx, "failed to touch session", "err", err)
	}
	return user.Principal(), nil
}

func (m *Manager) throttleEnabled() bool {
	return m.cfg.LoginMaxAttempts > 0
}

func (m *Manager) checkLock(key string) time.Duration {
	if !m.throttleEnabled() {
		return 0
	}
	m.lock.Lock()
	defer m.lock.Unlock()

	state, ok := m.attempts[key]
	if !ok {
		return 0
	}
	now := m.now()
	if now.After(state.lockedUntil) {
		return 0
	}
	return state.lockedUntil.Sub(now)
}

func (m *Manager) recordFailure(key string) int {
	if !m.throttleEnabled() {
		return 0
	}
	m.lock.Lock()
	defer m.lock.Unlock()

	now := m.now()
	state, ok := m.attempts[key]
	if !ok || now.Sub(state.firstAttempt) > m.cfg.LoginWindow {
		state = &attemptState{firstAttempt: now}
		m.attempts[key] = state
	}

	state.count++
	if state.count >= m.cfg.LoginMaxAttempts {
		state.lockedUntil = now.Add(m.cfg.LoginLockDuration)
		state.count = m.cfg.LoginMaxAttempts
	}

	remaining := m.cfg.LoginMaxAttempts - state.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (m *Manager) resetAttempts(key string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.attempts, key)
}
