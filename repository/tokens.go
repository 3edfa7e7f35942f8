package repository

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"time"

	"github.com/emzola/libraria/data"
)

type tokens interface {
	CreateNewToken(staffID int64, ttl time.Duration, scope string) (*data.Token, error)
	ConsumeToken(scope, plaintext string) (*data.Staff, error)
	DeleteAllTokensForStaff(scope string, staffID int64) error
}

// generateToken generates a new opaque token for a staff account.
func generateToken(staffID int64, ttl time.Duration, scope string) (*data.Token, error) {
	token := &data.Token{
		StaffID: staffID,
		Expiry:  time.Now().Add(ttl),
		Scope:   scope,
	}
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return nil, err
	}
	token.Plaintext = base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	token.Hash = tokenHash(token.Plaintext)
	return token, nil
}

// CreateNewToken generates and stores a new token record.
func (r *repository) CreateNewToken(staffID int64, ttl time.Duration, scope string) (*data.Token, error) {
	token, err := generateToken(staffID, ttl, scope)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO tokens (hash, staff_id, expiry, scope)
		VALUES ($1, $2, $3, $4)`
	args := []any{token.Hash, token.StaffID, token.Expiry, token.Scope}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return token, nil
}

// DeleteAllTokensForStaff deletes all tokens of a scope held by a staff account.
func (r *repository) DeleteAllTokensForStaff(scope string, staffID int64) error {
	if staffID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM tokens
		WHERE scope = $1 AND staff_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	_, err := r.db.ExecContext(ctx, query, scope, staffID)
	return err
}
