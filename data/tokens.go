package data

import (
	"time"

	"github.com/emzola/libraria/internal/validator"
)

const ScopeRefresh = "refresh"

// Token defines an opaque refresh token. Only its SHA-256 hash is stored.
type Token struct {
	Plaintext string    `json:"token"`
	Hash      []byte    `json:"-"`
	StaffID   int64     `json:"-"`
	Expiry    time.Time `json:"expiry"`
	Scope     string    `json:"-"`
}

// Session is what a staff member holds after logging in: a short-lived access
// token sent on every request and a refresh token used to obtain the next session.
type Session struct {
	Staff         *Staff    `json:"staff"`
	AccessToken   string    `json:"access_token"`
	AccessExpiry  time.Time `json:"access_expiry"`
	RefreshToken  string    `json:"refresh_token"`
	RefreshExpiry time.Time `json:"refresh_expiry"`
}

func ValidateTokenPlaintext(v *validator.Validator, tokenPlaintext string) {
	v.Check(tokenPlaintext != "", "token", "must be provided")
	v.Check(len(tokenPlaintext) == 26, "token", "must be 26 bytes long")
}
