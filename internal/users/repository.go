package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// uniqueViolation は PostgreSQL の一意制約違反コードです。
const uniqueViolation = "23505"

// Repository はユーザーの永続化を担います。
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
}

// PostgresRepository は users テーブルに対する Repository です。
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository は PostgresRepository を作成します。
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByEmail はメールアドレスでユーザーを検索します。見つからない場合は ErrNotFound を返します。
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, name, email, password FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

// FindByID はIDでユーザーを検索します。
func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, name, email, password FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &u, nil
}

// Create はユーザーを挿入し、採番された ID を設定して返します。
// 一意制約に弾かれた場合は ErrUserExists を返します。
func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`,
		user.Name, user.Email, user.PasswordHash,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
