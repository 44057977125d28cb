package users

import "unicode/utf8"

// MinPasswordLength はパスワードの最小文字数です。
const MinPasswordLength = 6

// Validate はフォームを検証し、見つかった不備をすべて返します。
// 各チェックは独立して評価されるため、複数のメッセージが同時に返ることがあります。
func (f RegistrationForm) Validate() []string {
	var messages []string
	if f.Name == "" || f.Email == "" || f.Password == "" || f.Password2 == "" {
		messages = append(messages, MsgMissingFields)
	}
	if f.Password != f.Password2 {
		messages = append(messages, MsgPasswordMismatch)
	}
	if utf8.RuneCountInString(f.Password) < MinPasswordLength {
		messages = append(messages, MsgPasswordTooShort)
	}
	return messages
}
