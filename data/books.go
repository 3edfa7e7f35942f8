package data

import (
	"strings"
	"time"
	"unicode"

	"github.com/emzola/libraria/internal/validator"
)

// Book defines a catalog title and the number of its copies on the shelf.
type Book struct {
	ID              int64     `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Isbn            string    `json:"isbn"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre,omitempty"`
	Description     string    `json:"description,omitempty"`
	PublishedDate   string    `json:"published_date,omitempty"`
	CopiesAvailable int       `json:"copies_available"`
	Version         int32     `json:"-"`
}

// NormalizeIsbn strips hyphens and spaces so that "978-0-14-044913-6" and
// "9780140449136" refer to the same book.
func NormalizeIsbn(isbn string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, isbn)
}

func ValidateIsbn(v *validator.Validator, isbn string) {
	v.Check(isbn != "", "isbn", "must be provided")
	v.Check(len(isbn) == 10 || len(isbn) == 13, "isbn", "must contain 10 or 13 characters")
	for i, r := range isbn {
		// ISBN-10 may end with the check character X.
		if !unicode.IsDigit(r) && !(r == 'X' && i == 9 && len(isbn) == 10) {
			v.AddError("isbn", "must contain only digits")
			break
		}
	}
}

func ValidateBook(v *validator.Validator, book *Book) {
	ValidateIsbn(v, book.Isbn)
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= 500, "title", "must not be more than 500 bytes long")
	v.Check(book.Author != "", "author", "must be provided")
	v.Check(len(book.Author) <= 500, "author", "must not be more than 500 bytes long")
	v.Check(len(book.Genre) <= 100, "genre", "must not be more than 100 bytes long")
	v.Check(len(book.Description) <= 2000, "description", "must not be more than 2000 bytes long")
	v.Check(book.CopiesAvailable >= 0, "copies_available", "must not be negative")
	if book.PublishedDate != "" {
		date, err := time.Parse(time.DateOnly, book.PublishedDate)
		v.Check(err == nil, "published_date", "must be a date in the format YYYY-MM-DD")
		v.Check(err != nil || !date.After(time.Now()), "published_date", "must not be in the future")
	}
}

// BookSortSafeList lists the accepted values of the sort query parameter for books.
var BookSortSafeList = []string{"id", "title", "author", "copies_available", "-id", "-title", "-author", "-copies_available"}
