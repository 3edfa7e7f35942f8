package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/emzola/libraria/data"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func lendingRow(now time.Time, returned bool) *sqlmock.Rows {
	var returnDate any
	if returned {
		returnDate = now
	}
	return sqlmock.NewRows([]string{
		"id", "lend_date", "due_date", "return_date", "is_returned", "fine_amount", "version",
		"id", "created_at", "isbn", "title", "author", "genre", "description", "published_date", "copies_available", "version",
		"id", "created_at", "member_id", "nic", "name", "email", "phone", "address", "version",
	}).AddRow(
		7, now.Add(-17*24*time.Hour), now.Add(-3*24*time.Hour), returnDate, returned, nil, 1,
		3, now, "9780140449136", "The Odyssey", "Homer", "Epic", "", "", 0, 4,
		5, now, "M-001", "901234567V", "Ada", "ada@example.com", "", "", 1,
	)
}

func TestCreateLending(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "copy available",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`UPDATE books`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"copies_available", "version"}).AddRow(1, 5))
				mock.ExpectQuery(`INSERT INTO lendings`).
					WithArgs(int64(3), int64(5), sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"id", "version"}).AddRow(11, 1))
				mock.ExpectQuery(`INSERT INTO audit_entries`).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))
				mock.ExpectCommit()
			},
		},
		{
			name: "no copies left",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`UPDATE books`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows([]string{"copies_available", "version"}))
				mock.ExpectRollback()
			},
			wantErr: ErrUnavailable,
		},
		{
			name: "insert fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`UPDATE books`).
					WillReturnRows(sqlmock.NewRows([]string{"copies_available", "version"}).AddRow(0, 2))
				mock.ExpectQuery(`INSERT INTO lendings`).
					WillReturnError(errors.New("boom"))
				mock.ExpectRollback()
			},
			wantErr: errors.New("boom"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMock(t)
			tt.setup(mock)

			lending := &data.Lending{
				Book:     data.Book{ID: 3},
				Member:   data.Member{ID: 5},
				LendDate: now,
				DueDate:  now.Add(14 * 24 * time.Hour),
			}
			entry := data.NewAuditEntry(nil, data.ActionLend, data.EntityLending, 0)
			err := repo.CreateLending(lending, entry)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				assert.Zero(t, lending.ID)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(11), lending.ID)
				assert.Equal(t, 1, lending.Book.CopiesAvailable)
				assert.Equal(t, int64(11), entry.EntityID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReturnLending(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	settle := func(l *data.Lending) error {
		l.ReturnDate = &now
		l.IsReturned = true
		l.FineAmount = decimal.NewNullDecimal(decimal.NewFromInt(150))
		return nil
	}

	t.Run("open record", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .* FROM lendings l .* FOR UPDATE OF l`).
			WithArgs(int64(7)).
			WillReturnRows(lendingRow(now, false))
		mock.ExpectQuery(`UPDATE lendings`).
			WithArgs(sqlmock.AnyArg(), true, sqlmock.AnyArg(), int64(7), int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))
		mock.ExpectQuery(`UPDATE books`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"copies_available", "version"}).AddRow(1, 5))
		mock.ExpectQuery(`INSERT INTO audit_entries`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(2, now))
		mock.ExpectCommit()

		lending, err := repo.ReturnLending(7, settle, data.NewAuditEntry(nil, data.ActionReturn, data.EntityLending, 0))
		require.NoError(t, err)
		assert.True(t, lending.IsReturned)
		assert.Equal(t, 1, lending.Book.CopiesAvailable)
		assert.Equal(t, "150", lending.FineAmount.Decimal.String())
		assert.Equal(t, "Ada", lending.Member.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already returned", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .* FROM lendings l`).
			WithArgs(int64(7)).
			WillReturnRows(lendingRow(now, true))
		mock.ExpectRollback()

		_, err := repo.ReturnLending(7, settle, nil)
		assert.ErrorIs(t, err, ErrAlreadyReturned)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown record", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .* FROM lendings l`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := repo.ReturnLending(99, settle, nil)
		assert.ErrorIs(t, err, ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost race", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .* FROM lendings l`).
			WillReturnRows(lendingRow(now, false))
		mock.ExpectQuery(`UPDATE lendings`).
			WillReturnRows(sqlmock.NewRows([]string{"version"}))
		mock.ExpectRollback()

		_, err := repo.ReturnLending(7, settle, nil)
		assert.ErrorIs(t, err, ErrEditConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid id", func(t *testing.T) {
		repo, mock := newMock(t)
		_, err := repo.ReturnLending(0, settle, nil)
		assert.ErrorIs(t, err, ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetReturnedOverdue(t *testing.T) {
	now := time.Now()
	repo, mock := newMock(t)
	mock.ExpectQuery(`SELECT .* WHERE .*ILIKE.* AND l.is_returned = \$6 AND l.fine_amount > \$7 ORDER BY`).
		WithArgs("%ada%", "%ada%", "%ada%", "%ada%", "%ada%", true, 0).
		WillReturnRows(lendingRow(now, true))

	lendings, err := repo.GetReturnedOverdue("ada")
	require.NoError(t, err)
	require.Len(t, lendings, 1)
	assert.Equal(t, "The Odyssey", lendings[0].Book.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
