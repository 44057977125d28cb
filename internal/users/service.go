package users

import (
	"context"
	"errors"
	"fmt"
)

// Service はユーザー登録の業務ロジックです。
type Service struct {
	repo   Repository
	hasher PasswordHasher
}

// NewService は Service を作成します。
func NewService(repo Repository, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Register はフォームを検証してユーザーを作成します。
//
// 戻り値のエラーは次のいずれかです。
//   - *ValidationError: 入力の不備（DBには触れない）
//   - ErrUserExists: 同じメールアドレスが登録済み
//   - それ以外: ハッシュ化や DB の障害
//
// 事前の存在確認は参考程度で、最終的な一意性は DB の制約が保証します。
func (s *Service) Register(ctx context.Context, form RegistrationForm) (*User, error) {
	if messages := form.Validate(); len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	hash, err := s.hasher.Hash(form.Password)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, form.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	user, err := s.repo.Create(ctx, &User{
		Name:         form.Name,
		Email:        form.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return user, nil
}
