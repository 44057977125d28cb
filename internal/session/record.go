// Package session はサーバー側のセッション状態を保存します。
//
// クライアントには署名付きCookieで不透明なトークンだけを渡し、
// トークンとユーザーの対応はここで管理します。
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record はサーバー側に保存するセッションです。ユーザー本体は持たず ID だけを参照します。
type Record struct {
	Token        string    `json:"token"`
	UserID       int64     `json:"userId"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

// Store はセッションの保存先です。
type Store interface {
	// Create は新しいトークンでセッションを作成します。
	Create(ctx context.Context, userID int64) (*Record, error)
	// Get はセッションを返します。存在しない（期限切れを含む）場合は nil, nil を返します。
	Get(ctx context.Context, token string) (*Record, error)
	// Touch は最終アクセス時刻を更新します。
	Touch(ctx context.Context, token string, at time.Time) error
	// Delete はセッションを削除します。存在しなくてもエラーにはなりません。
	Delete(ctx context.Context, token string) error
}

func newToken() string {
	return uuid.NewString()
}
