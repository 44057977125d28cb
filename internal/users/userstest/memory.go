// Package userstest はテスト用のインメモリ users.Repository を提供します。
package userstest

import (
	"context"
	"sync"

	"github.com/yourusername/login-portal/internal/users"
)

// Repository は users テーブルの一意制約を真似たインメモリ実装です。
type Repository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*users.User
	err    error
}

// NewRepository は空の Repository を返します。
func NewRepository() *Repository {
	return &Repository{byID: make(map[int64]*users.User)}
}

// FindByEmail implements users.Repository.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, users.ErrNotFound
}

// FindByID implements users.Repository.
func (r *Repository) FindByID(ctx context.Context, id int64) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// Create implements users.Repository.
func (r *Repository) Create(ctx context.Context, user *users.User) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, users.ErrUserExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.byID[user.ID] = &cp
	return user, nil
}

// SetErr は以降の全操作が返すエラーを設定します。nil で解除します。
func (r *Repository) SetErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Delete はユーザーを削除します（管理操作の代わり）。
func (r *Repository) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// CountByEmail は指定メールアドレスの行数を返します。
func (r *Repository) CountByEmail(email string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.byID {
		if u.Email == email {
			n++
		}
	}
	return n
}

// Len は保存されているユーザー数を返します。
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
