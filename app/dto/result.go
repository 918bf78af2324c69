package dto

import "github.com/vibast-solutions/ms-go-accounts/app/entity"

type AuthResult struct {
	User        *entity.User
	AccessToken string
	ExpiresIn   int64
}

// PasswordResetIssued carries the raw one-time secret back to the caller for
// out-of-band delivery. It is never persisted.
type PasswordResetIssued struct {
	Email     string
	Name      string
	RawSecret string
}
