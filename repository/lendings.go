package repository

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/emzola/libraria/data"
)

type lendings interface {
	CreateLending(lending *data.Lending, audit *data.AuditEntry) error
	ReturnLending(lendingID int64, settle func(*data.Lending) error, audit *data.AuditEntry) (*data.Lending, error)
	GetLending(lendingID int64) (*data.Lending, error)
	GetAllLendings(search string) ([]*data.Lending, error)
	GetReturnedOverdue(search string) ([]*data.Lending, error)
	CountOpenLendingsForMember(memberID int64) (int, error)
	CountOpenLendingsForBook(bookID int64) (int, error)
}

var lendingColumns = []string{
	"l.id", "l.lend_date", "l.due_date", "l.return_date", "l.is_returned", "l.fine_amount", "l.version",
	"b.id", "b.created_at", "b.isbn", "b.title", "b.author", "b.genre", "b.description", "b.published_date", "b.copies_available", "b.version",
	"m.id", "m.created_at", "m.member_id", "m.nic", "m.name", "m.email", "m.phone", "m.address", "m.version",
}

// selectLendings joins every lending with its book and member. Soft-deleted
// books and members are still joined so history stays readable.
func selectLendings() sq.SelectBuilder {
	return psql.Select(lendingColumns...).
		From("lendings l").
		Join("books b ON b.id = l.book_id").
		Join("members m ON m.id = l.member_id")
}

func scanLending(row interface{ Scan(...any) error }, l *data.Lending) error {
	return row.Scan(
		&l.ID,
		&l.LendDate,
		&l.DueDate,
		&l.ReturnDate,
		&l.IsReturned,
		&l.FineAmount,
		&l.Version,
		&l.Book.ID,
		&l.Book.CreatedAt,
		&l.Book.Isbn,
		&l.Book.Title,
		&l.Book.Author,
		&l.Book.Genre,
		&l.Book.Description,
		&l.Book.PublishedDate,
		&l.Book.CopiesAvailable,
		&l.Book.Version,
		&l.Member.ID,
		&l.Member.CreatedAt,
		&l.Member.MemberID,
		&l.Member.NIC,
		&l.Member.Name,
		&l.Member.Email,
		&l.Member.Phone,
		&l.Member.Address,
		&l.Member.Version,
	)
}

// CreateLending takes one copy of lending.Book and records the loan in a single
// transaction. The decrement only succeeds while a copy is available, so
// concurrent lends of the last copy leave exactly one winner.
func (r *repository) CreateLending(lending *data.Lending, audit *data.AuditEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return r.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE books
			SET copies_available = copies_available - 1, version = version + 1
			WHERE id = $1 AND deleted_at IS NULL AND copies_available > 0
			RETURNING copies_available, version`
		err := tx.QueryRowContext(ctx, query, lending.Book.ID).Scan(&lending.Book.CopiesAvailable, &lending.Book.Version)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				return ErrUnavailable
			default:
				return err
			}
		}
		query = `
			INSERT INTO lendings (book_id, member_id, lend_date, due_date)
			VALUES ($1, $2, $3, $4)
			RETURNING id, version`
		args := []any{lending.Book.ID, lending.Member.ID, lending.LendDate, lending.DueDate}
		err = tx.QueryRowContext(ctx, query, args...).Scan(&lending.ID, &lending.Version)
		if err != nil {
			return err
		}
		if audit != nil {
			audit.EntityID = lending.ID
			return insertAudit(ctx, tx, audit)
		}
		return nil
	})
}

// ReturnLending closes an open lending. The row is locked, passed to settle to
// fill in the return fields, written back and the copy returned to the book,
// all in one transaction.
func (r *repository) ReturnLending(lendingID int64, settle func(*data.Lending) error, audit *data.AuditEntry) (*data.Lending, error) {
	if lendingID < 1 {
		return nil, ErrRecordNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	var lending data.Lending
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		query, args, err := selectLendings().Where(sq.Eq{"l.id": lendingID}).Suffix("FOR UPDATE OF l").ToSql()
		if err != nil {
			return err
		}
		err = scanLending(tx.QueryRowContext(ctx, query, args...), &lending)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				return ErrRecordNotFound
			default:
				return err
			}
		}
		if lending.IsReturned {
			return ErrAlreadyReturned
		}
		if err := settle(&lending); err != nil {
			return err
		}
		query = `
			UPDATE lendings
			SET return_date = $1, is_returned = $2, fine_amount = $3, version = version + 1
			WHERE id = $4 AND version = $5 AND NOT is_returned
			RETURNING version`
		args = []any{lending.ReturnDate, lending.IsReturned, lending.FineAmount, lending.ID, lending.Version}
		err = tx.QueryRowContext(ctx, query, args...).Scan(&lending.Version)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				return ErrEditConflict
			default:
				return err
			}
		}
		query = `
			UPDATE books
			SET copies_available = copies_available + 1, version = version + 1
			WHERE id = $1
			RETURNING copies_available, version`
		err = tx.QueryRowContext(ctx, query, lending.Book.ID).Scan(&lending.Book.CopiesAvailable, &lending.Book.Version)
		if err != nil {
			return err
		}
		if audit != nil {
			audit.EntityID = lending.ID
			return insertAudit(ctx, tx, audit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &lending, nil
}

// GetLending retrieves a lending record with its book and member.
func (r *repository) GetLending(lendingID int64) (*data.Lending, error) {
	if lendingID < 1 {
		return nil, ErrRecordNotFound
	}
	query, args, err := selectLendings().Where(sq.Eq{"l.id": lendingID}).ToSql()
	if err != nil {
		return nil, err
	}
	var lending data.Lending
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err = scanLending(r.db.QueryRowContext(ctx, query, args...), &lending)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &lending, nil
}

// searchLendings matches search case-insensitively against the member's name,
// member ID and NIC and the book's title and ISBN.
func searchLendings(b sq.SelectBuilder, search string) sq.SelectBuilder {
	if search == "" {
		return b
	}
	pattern := "%" + search + "%"
	return b.Where(sq.Or{
		sq.ILike{"m.name": pattern},
		sq.ILike{"m.member_id": pattern},
		sq.ILike{"m.nic": pattern},
		sq.ILike{"b.title": pattern},
		sq.ILike{"b.isbn": pattern},
	})
}

// GetAllLendings retrieves every lending matching search, oldest first.
// Status, sorting and pagination are applied by the caller.
func (r *repository) GetAllLendings(search string) ([]*data.Lending, error) {
	return r.queryLendings(searchLendings(selectLendings(), search).OrderBy("l.id ASC"))
}

// GetReturnedOverdue retrieves returned lendings that were charged a fine.
func (r *repository) GetReturnedOverdue(search string) ([]*data.Lending, error) {
	b := searchLendings(selectLendings(), search).
		Where(sq.Eq{"l.is_returned": true}).
		Where(sq.Gt{"l.fine_amount": 0}).
		OrderBy("l.return_date DESC", "l.id ASC")
	return r.queryLendings(b)
}

func (r *repository) queryLendings(b sq.SelectBuilder) ([]*data.Lending, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lendings := []*data.Lending{}
	for rows.Next() {
		var lending data.Lending
		if err := scanLending(rows, &lending); err != nil {
			return nil, err
		}
		lendings = append(lendings, &lending)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return lendings, nil
}

// CountOpenLendingsForMember returns how many books a member currently holds.
func (r *repository) CountOpenLendingsForMember(memberID int64) (int, error) {
	return r.countOpenLendings(sq.Eq{"member_id": memberID})
}

// CountOpenLendingsForBook returns how many copies of a book are on loan.
func (r *repository) CountOpenLendingsForBook(bookID int64) (int, error) {
	return r.countOpenLendings(sq.Eq{"book_id": bookID})
}

func (r *repository) countOpenLendings(pred sq.Eq) (int, error) {
	query, args, err := psql.Select("count(*)").From("lendings").Where(pred).Where("NOT is_returned").ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}
