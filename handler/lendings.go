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

// LendBook godoc
// @Summary Lend a book to a member
// @Description This endpoint lends one copy of a book. The borrower is identified by member_id or nic; member_id wins when both are sent.
// @Tags lending
// @Accept  json
// @Produce json
// @Param body body dto.LendBookRequestBody true "JSON payload required to lend a book"
// @Success 201 {object} data.Lending
// @Failure 400
// @Failure 404
// @Failure 409
// @Failure 500
// @Security BearerAuth
// @Router /v1/lending/lend [post]
func (h *Handler) lendBookHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.LendBookRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	staff := h.contextGetStaff(r)
	lending, err := h.service.LendBook(staff, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.validationResponse(w, r, http.StatusBadRequest, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.recordNotFoundResponse(w, r, err)
		case errors.Is(err, service.ErrUnavailable), errors.Is(err, service.ErrLimitReached):
			h.conflictResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/lending/records/%d", lending.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"lending": lending}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ReturnBook godoc
// @Summary Return a lent book
// @Description This endpoint closes a lending record, charging a fine when it is returned late
// @Tags lending
// @Produce json
// @Param lendingId path int true "ID of lending record"
// @Success 200 {object} data.Lending
// @Failure 404
// @Failure 409
// @Failure 500
// @Security BearerAuth
// @Router /v1/lending/return/{lendingId} [post]
func (h *Handler) returnBookHandler(w http.ResponseWriter, r *http.Request) {
	lendingID, err := h.readIDParam(r, "lendingId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	staff := h.contextGetStaff(r)
	lending, err := h.service.ReturnBook(staff, lendingID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrAlreadyReturned):
			h.conflictResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"lending": lending}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowLending godoc
// @Summary Show a lending record
// @Tags lending
// @Produce json
// @Param lendingId path int true "ID of lending record"
// @Success 200 {object} data.Lending
// @Failure 404
// @Failure 500
// @Security BearerAuth
// @Router /v1/lending/records/{lendingId} [get]
func (h *Handler) showLendingHandler(w http.ResponseWriter, r *http.Request) {
	lendingID, err := h.readIDParam(r, "lendingId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	lending, err := h.service.GetLending(lendingID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"lending": lending}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListLendings godoc
// @Summary List lending records
// @Description This endpoint lists lending records matching a search term and status
// @Tags lending
// @Produce json
// @Param search query string false "Member name, member ID, NIC, book title or ISBN"
// @Param status query string false "all, active, overdue or returned"
// @Param sort query string false "Sort by id, lend_date, due_date, return_date or title; prefix - for descending"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} data.Lending
// @Failure 422
// @Failure 500
// @Security BearerAuth
// @Router /v1/lending [get]
func (h *Handler) listLendingsHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListLendings
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Search = h.readString(qs, "search", "")
	qsInput.Status = h.readString(qs, "status", "all")
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 20, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "-lend_date")
	qsInput.Filters.SortSafeList = data.LendingSortSafeList
	if !v.Valid() {
		h.failedValidationResponse(w, r, &service.ValidationError{Errors: v.Errors})
		return
	}
	lendings, metadata, err := h.service.ListLendings(qsInput)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"lendings": lendings, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListReturnedOverdue godoc
// @Summary List returned records that were charged a fine
// @Tags lending
// @Produce json
// @Param sort query string false "Sort key, default -return_date"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} data.Lending
// @Failure 422
// @Failure 500
// @Security BearerAuth
// @Router /v1/lending/overdue-returned [get]
func (h *Handler) listReturnedOverdueHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListReturnedOverdue
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 20, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "-return_date")
	qsInput.Filters.SortSafeList = data.LendingSortSafeList
	if !v.Valid() {
		h.failedValidationResponse(w, r, &service.ValidationError{Errors: v.Errors})
		return
	}
	lendings, metadata, err := h.service.ListReturnedOverdue(qsInput)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"lendings": lendings, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ExportReturnedOverdue godoc
// @Summary Export the fine report
// @Description This endpoint writes all fined returns as CSV to the configured S3 bucket and returns the object key
// @Tags lending
// @Produce json
// @Success 201
// @Failure 503
// @Failure 500
// @Security BearerAuth
// @Router /v1/lending/overdue-returned/export [post]
func (h *Handler) exportReturnedOverdueHandler(w http.ResponseWriter, r *http.Request) {
	staff := h.contextGetStaff(r)
	key, err := h.service.ExportReturnedOverdue(staff)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotConfigured):
			h.serviceUnavailableResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"key": key}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
