package entity

import (
	"database/sql"
	"time"
)

type User struct {
	ID           uint64
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	LastLogin    sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PasswordResetToken stores only the sha256 digest of the secret sent to the
// user; the raw secret is never persisted.
type PasswordResetToken struct {
	ID          uint64
	UserID      uint64
	TokenDigest string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}
