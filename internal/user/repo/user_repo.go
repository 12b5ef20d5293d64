package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-activity-go-stdlib/pkg/utilities"
)

// UserRepo provides data access for accounts using sqlx. Its methods keep
// the backend's raw sentinel conventions (zero id, sql.ErrNoRows); the
// service layer owns classifying them.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// EnsureTable creates the accounts table if not exists (idempotent).
// This is a convenience for early development; prefer migrations in production.
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS accounts (
  id BIGINT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  is_admin BOOLEAN NOT NULL DEFAULT false,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_accounts_username ON accounts(username);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Register inserts a new account and returns its id. Returns 0 with a nil
// error when the username or email is already taken; the insert is skipped
// via ON CONFLICT DO NOTHING so no rows come back.
func (r *UserRepo) Register(ctx context.Context, username, email, passwordHash string) (int64, error) {
	const q = `INSERT INTO accounts (id, username, email, password_hash)
	  VALUES ($1, $2, $3, $4)
	  ON CONFLICT DO NOTHING
	  RETURNING id`
	id := utilities.NewSnowflakeID()
	var returned int64
	if err := r.db.GetContext(ctx, &returned, q, id, username, email, passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return returned, nil
}

// GetByUsername fetches an account by username or returns sql.ErrNoRows.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.Account, error) {
	const q = `SELECT id, username, email, password_hash, is_admin, created_at
	  FROM accounts WHERE username=$1`
	var row entity.Account
	if err := r.db.GetContext(ctx, &row, q, username); err != nil {
		return nil, err
	}
	return &row, nil
}
