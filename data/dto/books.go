package dto

import "github.com/emzola/libraria/data"

// CreateBookRequestBody defines the request body for CreateBook service.
type CreateBookRequestBody struct {
	Isbn            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre"`
	Description     string `json:"description"`
	PublishedDate   string `json:"published_date"`
	CopiesAvailable int    `json:"copies_available"`
}

// UpdateBookRequestBody defines the request body for UpdateBook service. The fields are
// pointers so that a partial update leaves absent fields untouched.
type UpdateBookRequestBody struct {
	Isbn            *string `json:"isbn"`
	Title           *string `json:"title"`
	Author          *string `json:"author"`
	Genre           *string `json:"genre"`
	Description     *string `json:"description"`
	PublishedDate   *string `json:"published_date"`
	CopiesAvailable *int    `json:"copies_available"`
}

// QsListBooks defines the query strings used for listing books.
type QsListBooks struct {
	Search  string
	Genre   string
	Filters data.Filters
}

// ImportBooksResult summarizes a catalog CSV import.
type ImportBooksResult struct {
	Created int               `json:"created"`
	Skipped int               `json:"skipped"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// OpenLibraryBook holds the fields read from an Open Library "jscmd=data" response.
type OpenLibraryBook struct {
	Title       string `json:"title"`
	PublishDate string `json:"publish_date"`
	Authors     []struct {
		Name string `json:"name"`
	} `json:"authors"`
	Subjects []struct {
		Name string `json:"name"`
	} `json:"subjects"`
}
