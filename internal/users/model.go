// Package users はユーザー登録と資格情報の保存を扱います。
package users

import "strings"

// User は users テーブルの1行を表します。
type User struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password"`
}

// Principal はセッションに紐づく認証済みユーザーです。パスワードハッシュは含みません。
type Principal struct {
	ID    int64
	Name  string
	Email string
}

// Principal は User から Principal を作ります。
func (u *User) Principal() *Principal {
	return &Principal{ID: u.ID, Name: u.Name, Email: u.Email}
}

// RegistrationForm は POST /users/register のフォームです。
type RegistrationForm struct {
	Name      string `form:"name"`
	Email     string `form:"email"`
	Password  string `form:"password"`
	Password2 string `form:"password2"`
}

// ValidationError は入力の不備をまとめて保持します。
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}
