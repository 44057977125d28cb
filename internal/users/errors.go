package users

import "errors"

var (
	// ErrNotFound は該当ユーザーが存在しないことを表します。
	ErrNotFound = errors.New("user not found")
	// ErrUserExists は同じメールアドレスのユーザーが既に存在することを表します。
	ErrUserExists = errors.New("user already exists")
)

// 画面に表示するメッセージ
const (
	MsgMissingFields    = "Enter all the fields!"
	MsgPasswordMismatch = "Password and Confirm Password do not match!"
	MsgPasswordTooShort = "Password should be more than 6 characters long!"
	MsgUserExists       = "User Already Exists."
	MsgRegisterFailed   = "An error occurred during registration"
	MsgRegistered       = "You are now registered. Please log in."
)
