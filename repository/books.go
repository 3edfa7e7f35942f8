package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emzola/libraria/data"
)

type books interface {
	CreateBook(book *data.Book) error
	GetBook(bookID int64) (*data.Book, error)
	GetBookByIsbn(isbn string) (*data.Book, error)
	GetAllBooks(search, genre string, filters data.Filters) ([]*data.Book, data.Metadata, error)
	UpdateBook(book *data.Book) error
	DeleteBook(bookID int64) error
}

const bookColumns = `id, created_at, isbn, title, author, genre, description, published_date, copies_available, version`

func scanBook(row interface{ Scan(...any) error }, book *data.Book) error {
	return row.Scan(
		&book.ID,
		&book.CreatedAt,
		&book.Isbn,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.Description,
		&book.PublishedDate,
		&book.CopiesAvailable,
		&book.Version,
	)
}

// CreateBook creates a new book record.
func (r *repository) CreateBook(book *data.Book) error {
	query := `
		INSERT INTO books (isbn, title, author, genre, description, published_date, copies_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version`
	args := []any{
		book.Isbn,
		book.Title,
		book.Author,
		book.Genre,
		book.Description,
		book.PublishedDate,
		book.CopiesAvailable,
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.ID, &book.CreatedAt, &book.Version)
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

// GetBook retrieves a book record by its ID.
func (r *repository) GetBook(bookID int64) (*data.Book, error) {
	if bookID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1 AND deleted_at IS NULL`
	var book data.Book
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := scanBook(r.db.QueryRowContext(ctx, query, bookID), &book)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// GetBookByIsbn retrieves a book record by its normalized ISBN.
func (r *repository) GetBookByIsbn(isbn string) (*data.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1 AND deleted_at IS NULL`
	var book data.Book
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := scanBook(r.db.QueryRowContext(ctx, query, isbn), &book)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// GetAllBooks retrieves a paginated list of books. Records can be searched by
// title, author or ISBN, filtered by genre and sorted.
func (r *repository) GetAllBooks(search, genre string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), %s
		FROM books
		WHERE deleted_at IS NULL
		AND (title ILIKE '%%' || $1 || '%%' OR author ILIKE '%%' || $1 || '%%' OR isbn = $1 OR $1 = '')
		AND (LOWER(genre) = LOWER($2) OR $2 = '')
		ORDER BY %s %s, id ASC
		LIMIT $3 OFFSET $4`,
		bookColumns, filters.SortColumn(), filters.SortDirection(),
	)
	args := []any{search, genre, filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	books := []*data.Book{}
	for rows.Next() {
		var book data.Book
		err := rows.Scan(
			&totalRecords,
			&book.ID,
			&book.CreatedAt,
			&book.Isbn,
			&book.Title,
			&book.Author,
			&book.Genre,
			&book.Description,
			&book.PublishedDate,
			&book.CopiesAvailable,
			&book.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		books = append(books, &book)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return books, metadata, nil
}

// UpdateBook updates a book record, failing with ErrEditConflict when the
// record changed since it was read.
func (r *repository) UpdateBook(book *data.Book) error {
	query := `
		UPDATE books
		SET isbn = $1, title = $2, author = $3, genre = $4, description = $5, published_date = $6,
			copies_available = $7, version = version + 1
		WHERE id = $8 AND version = $9 AND deleted_at IS NULL
		RETURNING version`
	args := []any{
		book.Isbn,
		book.Title,
		book.Author,
		book.Genre,
		book.Description,
		book.PublishedDate,
		book.CopiesAvailable,
		book.ID,
		book.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.Version)
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

// DeleteBook soft-deletes a book record. Lending records keep referring to it.
func (r *repository) DeleteBook(bookID int64) error {
	if bookID < 1 {
		return ErrRecordNotFound
	}
	query := `
		UPDATE books
		SET deleted_at = now(), version = version + 1
		WHERE id = $1 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, bookID)
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
