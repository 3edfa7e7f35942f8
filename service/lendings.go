package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emzola/libraria/data"
	"github.com/emzola/libraria/data/dto"
	"github.com/emzola/libraria/internal/validator"
	"github.com/emzola/libraria/repository"
)

type lendings interface {
	LendBook(actor *data.Staff, requestBody dto.LendBookRequestBody) (*data.Lending, error)
	ReturnBook(actor *data.Staff, lendingID int64) (*data.Lending, error)
	GetLending(lendingID int64) (*data.Lending, error)
	ListLendings(qs dto.QsListLendings) ([]*data.Lending, data.Metadata, error)
	ListReturnedOverdue(qs dto.QsListReturnedOverdue) ([]*data.Lending, data.Metadata, error)
}

// LendBook service lends one copy of a book to a member. The borrower is
// identified by member ID or NIC, the member ID winning when both are given.
func (s *service) LendBook(actor *data.Staff, requestBody dto.LendBookRequestBody) (*data.Lending, error) {
	v := validator.New()
	identifier := data.ParseBorrowerIdentifier(v, requestBody.MemberID, requestBody.NIC)
	isbn := data.NormalizeIsbn(requestBody.Isbn)
	v.Check(isbn != "", "isbn", "must be provided")
	if !v.Valid() {
		return nil, failedValidation(v)
	}
	member, err := s.repo.GetMemberByIdentifier(identifier)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, fmt.Errorf("%w: no member with %s %q", ErrRecordNotFound, identifier.Field(), identifier.Value())
		default:
			return nil, err
		}
	}
	book, err := s.repo.GetBookByIsbn(isbn)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, fmt.Errorf("%w: no book with isbn %q", ErrRecordNotFound, isbn)
		default:
			return nil, err
		}
	}
	if book.CopiesAvailable < 1 {
		return nil, fmt.Errorf("%w: %q", ErrUnavailable, book.Title)
	}
	if s.policy.MaxOpenLendings > 0 {
		open, err := s.repo.CountOpenLendingsForMember(member.ID)
		if err != nil {
			return nil, err
		}
		if open >= s.policy.MaxOpenLendings {
			return nil, fmt.Errorf("%w: member holds %d books", ErrLimitReached, open)
		}
	}
	now := s.now()
	lending := &data.Lending{
		Book:     *book,
		Member:   *member,
		LendDate: now,
		DueDate:  s.policy.DueDate(now),
	}
	entry := data.NewAuditEntry(actor, data.ActionLend, data.EntityLending, 0)
	entry.Details["book_id"] = book.ID
	entry.Details["isbn"] = book.Isbn
	entry.Details["member_id"] = member.MemberID
	err = s.repo.CreateLending(lending, entry)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUnavailable):
			return nil, fmt.Errorf("%w: %q", ErrUnavailable, book.Title)
		default:
			return nil, err
		}
	}
	data.Annotate(now, lending)
	s.sendMail(member.Email, "lending_receipt.tmpl", map[string]any{
		"memberName": member.Name,
		"title":      book.Title,
		"author":     book.Author,
		"lendDate":   lending.LendDate.Format(time.DateOnly),
		"dueDate":    lending.DueDate.Format(time.DateOnly),
		"finePerDay": s.policy.FinePerDay.String(),
	})
	return lending, nil
}

// ReturnBook service closes an open lending, charges any fine and puts the
// copy back on the shelf.
func (s *service) ReturnBook(actor *data.Staff, lendingID int64) (*data.Lending, error) {
	now := s.now()
	entry := data.NewAuditEntry(actor, data.ActionReturn, data.EntityLending, lendingID)
	settle := func(l *data.Lending) error {
		s.policy.Settle(l, now)
		entry.Details["book_id"] = l.Book.ID
		entry.Details["member_id"] = l.Member.MemberID
		if l.FineAmount.Valid {
			entry.Details["fine_amount"] = l.FineAmount.Decimal.String()
		}
		return nil
	}
	lending, err := s.repo.ReturnLending(lendingID, settle, entry)
	if err != nil {
		return nil, translate(err)
	}
	data.Annotate(now, lending)
	if lending.FineAmount.Valid {
		s.sendMail(lending.Member.Email, "fine_notice.tmpl", map[string]any{
			"memberName": lending.Member.Name,
			"title":      lending.Book.Title,
			"dueDate":    lending.DueDate.Format(time.DateOnly),
			"returnDate": now.Format(time.DateOnly),
			"daysLate":   s.policy.DaysLate(lending.DueDate, now),
			"fineAmount": lending.FineAmount.Decimal.StringFixed(2),
		})
	}
	return lending, nil
}

// GetLending service retrieves a single lending record.
func (s *service) GetLending(lendingID int64) (*data.Lending, error) {
	lending, err := s.repo.GetLending(lendingID)
	if err != nil {
		return nil, translate(err)
	}
	data.Annotate(s.now(), lending)
	return lending, nil
}

// ListLendings service lists lending records matching a free-text search and
// a status derived at the current time, sorted and paginated.
func (s *service) ListLendings(qs dto.QsListLendings) ([]*data.Lending, data.Metadata, error) {
	v := validator.New()
	data.ValidateFilters(v, qs.Filters)
	v.Check(validator.PermittedValue(qs.Status, data.LendingStatusFilters...), "status", "must be one of all, active, overdue or returned")
	if !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v)
	}
	all, err := s.repo.GetAllLendings(strings.TrimSpace(qs.Search))
	if err != nil {
		return nil, data.Metadata{}, err
	}
	now := s.now()
	data.Annotate(now, all...)
	lendings := data.FilterLendings(all, data.WithStatus(qs.Status, now))
	data.SortLendings(lendings, qs.Filters.Sort)
	page, metadata := data.Paginate(lendings, qs.Filters)
	return page, metadata, nil
}

// ListReturnedOverdue service lists returned records that were charged a fine.
func (s *service) ListReturnedOverdue(qs dto.QsListReturnedOverdue) ([]*data.Lending, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v)
	}
	lendings, err := s.repo.GetReturnedOverdue("")
	if err != nil {
		return nil, data.Metadata{}, err
	}
	data.Annotate(s.now(), lendings...)
	data.SortLendings(lendings, qs.Filters.Sort)
	page, metadata := data.Paginate(lendings, qs.Filters)
	return page, metadata, nil
}
