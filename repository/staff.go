package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emzola/libraria/data"
)

type staff interface {
	CreateStaff(staff *data.Staff) error
	GetStaffByID(staffID int64) (*data.Staff, error)
	GetStaffByEmail(email string) (*data.Staff, error)
	GetAllStaff(search string, filters data.Filters) ([]*data.Staff, data.Metadata, error)
	UpdateStaff(staff *data.Staff) error
	CountStaff() (int, error)
}

const staffColumns = `id, created_at, name, email, password_hash, role, active, version`

func scanStaff(row interface{ Scan(...any) error }, s *data.Staff) error {
	return row.Scan(
		&s.ID,
		&s.CreatedAt,
		&s.Name,
		&s.Email,
		&s.Password.Hash,
		&s.Role,
		&s.Active,
		&s.Version,
	)
}

// CreateStaff creates a new staff account.
func (r *repository) CreateStaff(s *data.Staff) error {
	query := `
		INSERT INTO staff (name, email, password_hash, role, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version`
	args := []any{s.Name, s.Email, s.Password.Hash, s.Role, s.Active}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.Version)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetStaffByID retrieves a staff account by its ID.
func (r *repository) GetStaffByID(staffID int64) (*data.Staff, error) {
	if staffID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	return r.getStaff(query, staffID)
}

// GetStaffByEmail retrieves a staff account by its email.
func (r *repository) GetStaffByEmail(email string) (*data.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE email = $1`
	return r.getStaff(query, email)
}

func (r *repository) getStaff(query string, arg any) (*data.Staff, error) {
	var s data.Staff
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := scanStaff(r.db.QueryRowContext(ctx, query, arg), &s)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &s, nil
}

// GetAllStaff retrieves a paginated list of staff accounts.
func (r *repository) GetAllStaff(search string, filters data.Filters) ([]*data.Staff, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), %s
		FROM staff
		WHERE (name ILIKE '%%' || $1 || '%%' OR email ILIKE '%%' || $1 || '%%' OR $1 = '')
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`,
		staffColumns, filters.SortColumn(), filters.SortDirection(),
	)
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, search, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	accounts := []*data.Staff{}
	for rows.Next() {
		var s data.Staff
		err := rows.Scan(
			&totalRecords,
			&s.ID,
			&s.CreatedAt,
			&s.Name,
			&s.Email,
			&s.Password.Hash,
			&s.Role,
			&s.Active,
			&s.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		accounts = append(accounts, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return accounts, metadata, nil
}

// UpdateStaff updates a staff account.
func (r *repository) UpdateStaff(s *data.Staff) error {
	query := `
		UPDATE staff
		SET name = $1, email = $2, password_hash = $3, role = $4, active = $5, version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version`
	args := []any{s.Name, s.Email, s.Password.Hash, s.Role, s.Active, s.ID, s.Version}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.Version)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrDuplicateRecord
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// CountStaff returns the number of staff accounts.
func (r *repository) CountStaff() (int, error) {
	var n int
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM staff`).Scan(&n)
	return n, err
}

// tokenHash returns the stored form of a token plaintext.
func tokenHash(plaintext string) []byte {
	hash := sha256.Sum256([]byte(plaintext))
	return hash[:]
}

// ConsumeToken deletes an unexpired token and returns the active staff account
// it belonged to. A token can be consumed at most once.
func (r *repository) ConsumeToken(scope, plaintext string) (*data.Staff, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	var s data.Staff
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var staffID int64
		query := `
			DELETE FROM tokens
			WHERE hash = $1 AND scope = $2 AND expiry > $3
			RETURNING staff_id`
		err := tx.QueryRowContext(ctx, query, tokenHash(plaintext), scope, time.Now()).Scan(&staffID)
		if err != nil {
			return err
		}
		query = `SELECT ` + staffColumns + ` FROM staff WHERE id = $1 AND active`
		return scanStaff(tx.QueryRowContext(ctx, query, staffID), &s)
	})
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &s, nil
}
