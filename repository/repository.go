package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
)

type Repository interface {
	books
	members
	lendings
	staff
	tokens
	audit
}

// queryTimeout bounds every statement issued by the repository.
const queryTimeout = 3 * time.Second

// psql builds statements with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository defines the app's repository layer.
type repository struct {
	db *sql.DB
}

// New creates a new instance of Repository.
func New(db *sql.DB) *repository {
	return &repository{db: db}
}

// withTx runs fn inside a transaction, committing when fn returns nil.
func (r *repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
