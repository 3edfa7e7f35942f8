package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/emzola/libraria/data"
	"github.com/emzola/libraria/data/dto"
	"github.com/emzola/libraria/internal/validator"
	"github.com/emzola/libraria/repository"
)

// maxImportSize bounds the catalog CSV upload.
const maxImportSize = 2 << 20

type books interface {
	CreateBook(actor *data.Staff, requestBody dto.CreateBookRequestBody) (*data.Book, error)
	GetBook(bookID int64) (*data.Book, error)
	ListBooks(qs dto.QsListBooks) ([]*data.Book, data.Metadata, error)
	UpdateBook(actor *data.Staff, bookID int64, requestBody dto.UpdateBookRequestBody) (*data.Book, error)
	DeleteBook(actor *data.Staff, bookID int64) error
	ImportBooks(actor *data.Staff, r *http.Request) (*dto.ImportBooksResult, error)
}

// CreateBook service adds a title to the catalog. Missing title or author are
// looked up by ISBN when a catalog lookup URL is configured.
func (s *service) CreateBook(actor *data.Staff, requestBody dto.CreateBookRequestBody) (*data.Book, error) {
	book := &data.Book{
		Isbn:            data.NormalizeIsbn(requestBody.Isbn),
		Title:           strings.TrimSpace(requestBody.Title),
		Author:          strings.TrimSpace(requestBody.Author),
		Genre:           strings.TrimSpace(requestBody.Genre),
		Description:     strings.TrimSpace(requestBody.Description),
		PublishedDate:   strings.TrimSpace(requestBody.PublishedDate),
		CopiesAvailable: requestBody.CopiesAvailable,
	}
	if book.Title == "" || book.Author == "" {
		s.completeFromCatalog(book)
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, failedValidation(v)
	}
	err := s.repo.CreateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("isbn", "a book with this isbn already exists")
			return nil, fmt.Errorf("%w: %w", ErrDuplicateRecord, failedValidation(v))
		default:
			return nil, err
		}
	}
	entry := data.NewAuditEntry(actor, data.ActionCreate, data.EntityBook, book.ID)
	entry.Details["isbn"] = book.Isbn
	s.recordAudit(entry)
	return book, nil
}

// completeFromCatalog fills empty fields of book from the Open Library data
// API. Lookup failures are logged and leave book unchanged.
func (s *service) completeFromCatalog(book *data.Book) {
	if s.httpClient == nil || s.config.Catalog.LookupURL == "" || book.Isbn == "" {
		return
	}
	found, err := s.lookupIsbn(book.Isbn)
	if err != nil {
		s.logger.PrintError(err, map[string]string{"isbn": book.Isbn})
		return
	}
	if found == nil {
		return
	}
	if book.Title == "" {
		book.Title = found.Title
	}
	if book.Author == "" {
		names := make([]string, 0, len(found.Authors))
		for _, a := range found.Authors {
			names = append(names, a.Name)
		}
		book.Author = strings.Join(names, ", ")
	}
	if book.Genre == "" && len(found.Subjects) > 0 {
		book.Genre = found.Subjects[0].Name
	}
	if book.PublishedDate == "" {
		book.PublishedDate = parsePublishDate(found.PublishDate)
	}
}

func (s *service) lookupIsbn(isbn string) (*dto.OpenLibraryBook, error) {
	key := "ISBN:" + isbn
	q := url.Values{}
	q.Set("bibkeys", key)
	q.Set("format", "json")
	q.Set("jscmd", "data")
	body, err := s.fetchRemoteResource(s.httpClient, s.config.Catalog.LookupURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	var result map[string]dto.OpenLibraryBook
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	found, ok := result[key]
	if !ok {
		return nil, nil
	}
	return &found, nil
}

// parsePublishDate converts the free-form dates used by Open Library into
// YYYY-MM-DD, returning "" when the date is not precise enough.
func parsePublishDate(s string) string {
	for _, layout := range []string{time.DateOnly, "January 2, 2006", "Jan 2, 2006", "2 January 2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format(time.DateOnly)
		}
	}
	return ""
}

// GetBook service retrieves the details of a book.
func (s *service) GetBook(bookID int64) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		return nil, translate(err)
	}
	return book, nil
}

// ListBooks service retrieves a list of paginated books. The list can be filtered and sorted.
func (s *service) ListBooks(qs dto.QsListBooks) ([]*data.Book, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v)
	}
	search := strings.TrimSpace(qs.Search)
	if isbn := data.NormalizeIsbn(search); len(isbn) == 10 || len(isbn) == 13 {
		if _, err := strconv.ParseUint(strings.TrimSuffix(isbn, "X"), 10, 64); err == nil {
			search = isbn
		}
	}
	return s.repo.GetAllBooks(search, strings.TrimSpace(qs.Genre), qs.Filters)
}

// UpdateBook service updates the details of a specific book.
func (s *service) UpdateBook(actor *data.Staff, bookID int64, requestBody dto.UpdateBookRequestBody) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		return nil, translate(err)
	}
	// Update only fields with new data
	if requestBody.Isbn != nil {
		book.Isbn = data.NormalizeIsbn(*requestBody.Isbn)
	}
	if requestBody.Title != nil {
		book.Title = strings.TrimSpace(*requestBody.Title)
	}
	if requestBody.Author != nil {
		book.Author = strings.TrimSpace(*requestBody.Author)
	}
	if requestBody.Genre != nil {
		book.Genre = strings.TrimSpace(*requestBody.Genre)
	}
	if requestBody.Description != nil {
		book.Description = strings.TrimSpace(*requestBody.Description)
	}
	if requestBody.PublishedDate != nil {
		book.PublishedDate = strings.TrimSpace(*requestBody.PublishedDate)
	}
	if requestBody.CopiesAvailable != nil {
		book.CopiesAvailable = *requestBody.CopiesAvailable
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, failedValidation(v)
	}
	err = s.repo.UpdateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("isbn", "a book with this isbn already exists")
			return nil, fmt.Errorf("%w: %w", ErrDuplicateRecord, failedValidation(v))
		default:
			return nil, translate(err)
		}
	}
	s.recordAudit(data.NewAuditEntry(actor, data.ActionUpdate, data.EntityBook, book.ID))
	return book, nil
}

// DeleteBook service removes a book from the catalog. Books with copies on
// loan cannot be deleted.
func (s *service) DeleteBook(actor *data.Staff, bookID int64) error {
	open, err := s.repo.CountOpenLendingsForBook(bookID)
	if err != nil {
		return err
	}
	if open > 0 {
		return fmt.Errorf("%w: %d copies on loan", ErrOpenLendings, open)
	}
	err = s.repo.DeleteBook(bookID)
	if err != nil {
		return translate(err)
	}
	s.recordAudit(data.NewAuditEntry(actor, data.ActionDelete, data.EntityBook, bookID))
	return nil
}

// ImportBooks service creates books from an uploaded CSV file with a header
// row naming at least the isbn, title and author columns. Invalid and
// duplicate rows are skipped and reported by line number.
func (s *service) ImportBooks(actor *data.Staff, r *http.Request) (*dto.ImportBooksResult, error) {
	err := r.ParseMultipartForm(maxImportSize)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			return nil, ErrContentTooLarge
		default:
			return nil, ErrBadRequest
		}
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, ErrBadRequest
	}
	defer file.Close()
	buffer, mtype, err := s.detectMimeType(file)
	if err != nil {
		return nil, err
	}
	if !mtype.Is("text/csv") && !mtype.Is("text/plain") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mtype.String())
	}
	result, err := s.importBooks(bytes.NewReader(buffer))
	if err != nil {
		return nil, err
	}
	entry := data.NewAuditEntry(actor, data.ActionImport, data.EntityBook, 0)
	entry.Details["created"] = result.Created
	entry.Details["skipped"] = result.Skipped
	s.recordAudit(entry)
	return result, nil
}

func (s *service) importBooks(src io.Reader) (*dto.ImportBooksResult, error) {
	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header row", ErrBadRequest)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, required := range []string{"isbn", "title", "author"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: header must contain %s", ErrBadRequest, required)
		}
	}
	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	result := &dto.ImportBooksResult{Errors: map[string]string{}}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		lineKey := "line " + strconv.Itoa(line)
		if err != nil {
			result.Skipped++
			result.Errors[lineKey] = err.Error()
			continue
		}
		if slices.IndexFunc(record, func(f string) bool { return strings.TrimSpace(f) != "" }) < 0 {
			continue
		}
		book := &data.Book{
			Isbn:          data.NormalizeIsbn(field(record, "isbn")),
			Title:         field(record, "title"),
			Author:        field(record, "author"),
			Genre:         field(record, "genre"),
			Description:   field(record, "description"),
			PublishedDate: field(record, "published_date"),
		}
		if copies := field(record, "copies_available"); copies != "" {
			n, err := strconv.Atoi(copies)
			if err != nil {
				result.Skipped++
				result.Errors[lineKey] = "copies_available must be an integer"
				continue
			}
			book.CopiesAvailable = n
		}
		v := validator.New()
		if data.ValidateBook(v, book); !v.Valid() {
			result.Skipped++
			result.Errors[lineKey] = failedValidation(v).Error()
			continue
		}
		err = s.repo.CreateBook(book)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicateRecord):
				result.Skipped++
				result.Errors[lineKey] = "a book with this isbn already exists"
				continue
			default:
				return nil, err
			}
		}
		result.Created++
	}
	return result, nil
}
