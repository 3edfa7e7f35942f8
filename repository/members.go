package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emzola/libraria/data"
)

type members interface {
	CreateMember(member *data.Member) error
	GetMember(memberID int64) (*data.Member, error)
	GetMemberByIdentifier(identifier data.BorrowerIdentifier) (*data.Member, error)
	GetAllMembers(search string, filters data.Filters) ([]*data.Member, data.Metadata, error)
	UpdateMember(member *data.Member) error
	DeleteMember(memberID int64) error
}

const memberColumns = `id, created_at, member_id, nic, name, email, phone, address, version`

func scanMember(row interface{ Scan(...any) error }, member *data.Member) error {
	return row.Scan(
		&member.ID,
		&member.CreatedAt,
		&member.MemberID,
		&member.NIC,
		&member.Name,
		&member.Email,
		&member.Phone,
		&member.Address,
		&member.Version,
	)
}

// CreateMember creates a new member record.
func (r *repository) CreateMember(member *data.Member) error {
	query := `
		INSERT INTO members (member_id, nic, name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version`
	args := []any{member.MemberID, member.NIC, member.Name, member.Email, member.Phone, member.Address}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&member.ID, &member.CreatedAt, &member.Version)
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

// GetMember retrieves a member record by its internal ID.
func (r *repository) GetMember(memberID int64) (*data.Member, error) {
	if memberID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1 AND deleted_at IS NULL`
	return r.getMember(query, memberID)
}

// GetMemberByIdentifier retrieves a member record by member ID or NIC.
func (r *repository) GetMemberByIdentifier(identifier data.BorrowerIdentifier) (*data.Member, error) {
	var query string
	switch identifier.(type) {
	case data.MemberCode:
		query = `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1 AND deleted_at IS NULL`
	case data.NIC:
		query = `SELECT ` + memberColumns + ` FROM members WHERE upper(nic) = upper($1) AND deleted_at IS NULL`
	default:
		return nil, ErrRecordNotFound
	}
	return r.getMember(query, identifier.Value())
}

func (r *repository) getMember(query string, arg any) (*data.Member, error) {
	var member data.Member
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := scanMember(r.db.QueryRowContext(ctx, query, arg), &member)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &member, nil
}

// GetAllMembers retrieves a paginated list of members searched by name,
// member ID or NIC.
func (r *repository) GetAllMembers(search string, filters data.Filters) ([]*data.Member, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), %s
		FROM members
		WHERE deleted_at IS NULL
		AND (name ILIKE '%%' || $1 || '%%' OR member_id ILIKE $1 || '%%' OR upper(nic) = upper($1) OR $1 = '')
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`,
		memberColumns, filters.SortColumn(), filters.SortDirection(),
	)
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, search, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	members := []*data.Member{}
	for rows.Next() {
		var member data.Member
		err := rows.Scan(
			&totalRecords,
			&member.ID,
			&member.CreatedAt,
			&member.MemberID,
			&member.NIC,
			&member.Name,
			&member.Email,
			&member.Phone,
			&member.Address,
			&member.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		members = append(members, &member)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return members, metadata, nil
}

// UpdateMember updates a member record using optimistic locking.
func (r *repository) UpdateMember(member *data.Member) error {
	query := `
		UPDATE members
		SET member_id = $1, nic = $2, name = $3, email = $4, phone = $5, address = $6, version = version + 1
		WHERE id = $7 AND version = $8 AND deleted_at IS NULL
		RETURNING version`
	args := []any{
		member.MemberID,
		member.NIC,
		member.Name,
		member.Email,
		member.Phone,
		member.Address,
		member.ID,
		member.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&member.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		case isUniqueViolation(err):
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// DeleteMember soft-deletes a member record.
func (r *repository) DeleteMember(memberID int64) error {
	if memberID < 1 {
		return ErrRecordNotFound
	}
	query := `
		UPDATE members
		SET deleted_at = now(), version = version + 1
		WHERE id = $1 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, memberID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
