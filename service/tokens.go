package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/emzola/libraria/data"
	"github.com/emzola/libraria/data/dto"
	"github.com/emzola/libraria/internal/validator"
	"github.com/emzola/libraria/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type sessions interface {
	CreateSession(requestBody dto.CreateAuthenticationTokenRequestBody) (*data.Session, error)
	RefreshSession(requestBody dto.RefreshTokenRequestBody) (*data.Session, error)
	DeleteSession(staffID int64) error
	AuthenticateToken(accessToken string) (int64, error)
}

// CreateSession service logs a staff member in with email and password.
func (s *service) CreateSession(requestBody dto.CreateAuthenticationTokenRequestBody) (*data.Session, error) {
	v := validator.New()
	data.ValidateEmail(v, requestBody.Email)
	data.ValidatePasswordPlaintext(v, requestBody.Password)
	if !v.Valid() {
		return nil, failedValidation(v)
	}
	account, err := s.repo.GetStaffByEmail(requestBody.Email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}
	if !account.Active {
		return nil, ErrInvalidCredentials
	}
	match, err := account.Password.Matches(requestBody.Password)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrInvalidCredentials
	}
	session, err := s.newSession(account)
	if err != nil {
		return nil, err
	}
	s.recordAudit(data.NewAuditEntry(account, data.ActionLogin, data.EntityStaff, account.ID))
	return session, nil
}

// RefreshSession service exchanges a refresh token for a new session. The
// presented token is consumed, so it cannot be used again.
func (s *service) RefreshSession(requestBody dto.RefreshTokenRequestBody) (*data.Session, error) {
	v := validator.New()
	if data.ValidateTokenPlaintext(v, requestBody.RefreshToken); !v.Valid() {
		return nil, failedValidation(v)
	}
	account, err := s.repo.ConsumeToken(data.ScopeRefresh, requestBody.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}
	return s.newSession(account)
}

// DeleteSession service logs a staff member out everywhere by deleting all
// their refresh tokens. Access tokens already issued expire on their own.
func (s *service) DeleteSession(staffID int64) error {
	return s.repo.DeleteAllTokensForStaff(data.ScopeRefresh, staffID)
}

// newSession issues a signed access token and a stored refresh token.
func (s *service) newSession(account *data.Staff) (*data.Session, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatInt(account.ID, 10),
		Issuer:    s.config.Auth.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Auth.AccessTTL)),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Auth.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	refresh, err := s.repo.CreateNewToken(account.ID, s.config.Auth.RefreshTTL, data.ScopeRefresh)
	if err != nil {
		return nil, err
	}
	return &data.Session{
		Staff:         account,
		AccessToken:   accessToken,
		AccessExpiry:  claims.ExpiresAt.Time,
		RefreshToken:  refresh.Plaintext,
		RefreshExpiry: refresh.Expiry,
	}, nil
}

// AuthenticateToken service validates an access token and returns the ID of
// the staff member it was issued to.
func (s *service) AuthenticateToken(accessToken string) (int64, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(accessToken, &claims, func(token *jwt.Token) (any, error) {
		return []byte(s.config.Auth.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.Auth.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidCredentials
	}
	staffID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || staffID < 1 {
		return 0, ErrInvalidCredentials
	}
	return staffID, nil
}
