package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/emzola/libraria/data"
	"github.com/emzola/libraria/data/dto"
	"github.com/emzola/libraria/internal/validator"
	"github.com/emzola/libraria/service"
)

// CreateBook godoc
// @Summary Add a book to the catalog
// @Description This endpoint creates a book. Missing title, author and genre are completed from the catalog lookup service when one is configured.
// @Tags books
// @Accept  json
// @Produce json
// @Param body body dto.CreateBookRequestBody true "JSON payload required to create a book"
// @Success 201 {object} data.Book
// @Failure 400
// @Failure 409
// @Failure 422
// @Failure 500
// @Security BearerAuth
// @Router /v1/books [post]
func (h *Handler) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateBookRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	staff := h.contextGetStaff(r)
	book, err := h.service.CreateBook(staff, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateRecord):
			h.recordAlreadyExistsResponse(w, r, err)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/books/%d", book.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"book": book}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ImportBooks godoc
// @Summary Import books from a CSV file
// @Description This endpoint reads a multipart CSV upload with the header isbn,title,author,genre,copies_available
// @Tags books
// @Accept  multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.ImportBooksResult
// @Failure 400
// @Failure 413
// @Failure 415
// @Failure 500
// @Security BearerAuth
// @Router /v1/books/import [post]
func (h *Handler) importBooksHandler(w http.ResponseWriter, r *http.Request) {
	// Set 3MB limit for request body size
	maxBytes := int64(3_145_728)
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	staff := h.contextGetStaff(r)
	result, err := h.service.ImportBooks(staff, r)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContentTooLarge):
			h.contentTooLargeResponse(w, r)
		case errors.Is(err, service.ErrBadRequest):
			h.badRequestResponse(w, r, err)
		case errors.Is(err, service.ErrUnsupportedMediaType):
			h.unsupportedMediaTypeResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"import": result}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowBook godoc
// @Summary Show details of a book
// @Tags books
// @Produce json
// @Param bookId path int true "ID of book"
// @Success 200 {object} data.Book
// @Failure 404
// @Failure 500
// @Security BearerAuth
// @Router /v1/books/{bookId} [get]
func (h *Handler) showBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	book, err := h.service.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListBooks godoc
// @Summary List books in the catalog
// @Tags books
// @Produce json
// @Param search query string false "Title, author or ISBN"
// @Param genre query string false "Genre"
// @Param sort query string false "Sort by id, title, author or copies_available; prefix - for descending"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} data.Book
// @Failure 422
// @Failure 500
// @Security BearerAuth
// @Router /v1/books [get]
func (h *Handler) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListBooks
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Search = h.readString(qs, "search", "")
	qsInput.Genre = h.readString(qs, "genre", "")
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 20, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "id")
	qsInput.Filters.SortSafeList = data.BookSortSafeList
	if !v.Valid() {
		h.failedValidationResponse(w, r, &service.ValidationError{Errors: v.Errors})
		return
	}
	books, metadata, err := h.service.ListBooks(qsInput)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"books": books, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateBook godoc
// @Summary Update details of a book
// @Tags books
// @Accept  json
// @Produce json
// @Param bookId path int true "ID of book"
// @Param body body dto.UpdateBookRequestBody true "JSON payload with the fields to change"
// @Success 200 {object} data.Book
// @Failure 400
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Security BearerAuth
// @Router /v1/books/{bookId} [patch]
func (h *Handler) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.UpdateBookRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	staff := h.contextGetStaff(r)
	book, err := h.service.UpdateBook(staff, bookID, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrDuplicateRecord):
			h.recordAlreadyExistsResponse(w, r, err)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// DeleteBook godoc
// @Summary Remove a book from the catalog
// @Description This endpoint refuses to remove a book while copies are on loan
// @Tags books
// @Produce json
// @Param bookId path int true "ID of book"
// @Success 200
// @Failure 404
// @Failure 409
// @Failure 500
// @Security BearerAuth
// @Router /v1/books/{bookId} [delete]
func (h *Handler) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	staff := h.contextGetStaff(r)
	err = h.service.DeleteBook(staff, bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrOpenLendings):
			h.conflictResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "book successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
