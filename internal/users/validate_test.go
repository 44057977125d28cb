package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistrationFormValidate(t *testing.T) {
	tests := []struct {
		name string
		form RegistrationForm
		want []string
	}{
		{
			name: "valid",
			form: RegistrationForm{Name: "Alice", Email: "a@b.com", Password: "secret1", Password2: "secret1"},
			want: nil,
		},
		{
			name: "exactly six characters",
			form: RegistrationForm{Name: "Alice", Email: "a@b.com", Password: "abcdef", Password2: "abcdef"},
			want: nil,
		},
		{
			name: "missing name",
			form: RegistrationForm{Email: "a@b.com", Password: "secret1", Password2: "secret1"},
			want: []string{MsgMissingFields},
		},
		{
			name: "missing confirmation",
			form: RegistrationForm{Name: "Alice", Email: "a@b.com", Password: "secret1"},
			want: []string{MsgMissingFields, MsgPasswordMismatch},
		},
		{
			name: "mismatch",
			form: RegistrationForm{Name: "Alice", Email: "a@b.com", Password: "secret1", Password2: "secret2"},
			want: []string{MsgPasswordMismatch},
		},
		{
			name: "too short",
			form: RegistrationForm{Name: "Alice", Email: "a@b.com", Password: "abc", Password2: "abc"},
			want: []string{MsgPasswordTooShort},
		},
		{
			name: "short mismatched and missing",
			form: RegistrationForm{Email: "a@b.com", Password: "abc", Password2: "abd"},
			want: []string{MsgMissingFields, MsgPasswordMismatch, MsgPasswordTooShort},
		},
		{
			name: "everything empty",
			form: RegistrationForm{},
			want: []string{MsgMissingFields, MsgPasswordTooShort},
		},
		{
			name: "multibyte counted as characters",
			form: RegistrationForm{Name: "太郎", Email: "t@b.com", Password: "パスワード", Password2: "パスワード"},
			want: []string{MsgPasswordTooShort},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.form.Validate())
		})
	}
}
