package entity

import "time"

// Account is a row in the `accounts` table. The API only ever exposes the
// identifier; credentials never leave the user service.
type Account struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
}
