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

// CreateStaff godoc
// @Summary Create a staff account
// @Description This endpoint is restricted to admins. The role defaults to librarian.
// @Tags staff
// @Accept  json
// @Produce json
// @Param body body dto.CreateStaffRequestBody true "JSON payload required to create a staff account"
// @Success 201 {object} data.Staff
// @Failure 400
// @Failure 403
// @Failure 409
// @Failure 422
// @Failure 500
// @Security BearerAuth
// @Router /v1/staff [post]
func (h *Handler) createStaffHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateStaffRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	actor := h.contextGetStaff(r)
	staff, err := h.service.CreateStaff(actor, requestBody)
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
	headers.Set("Location", fmt.Sprintf("/v1/staff/%d", staff.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"staff": staff}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowStaff godoc
// @Summary Show a staff account
// @Tags staff
// @Produce json
// @Param staffId path int true "ID of staff account"
// @Success 200 {object} data.Staff
// @Failure 403
// @Failure 404
// @Failure 500
// @Security BearerAuth
// @Router /v1/staff/{staffId} [get]
func (h *Handler) showStaffHandler(w http.ResponseWriter, r *http.Request) {
	staffID, err := h.readIDParam(r, "staffId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	staff, err := h.service.GetStaff(staffID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"staff": staff}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowCurrentStaff godoc
// @Summary Show the authenticated staff account
// @Tags staff
// @Produce json
// @Success 200 {object} data.Staff
// @Failure 401
// @Security BearerAuth
// @Router /v1/profile [get]
func (h *Handler) showCurrentStaffHandler(w http.ResponseWriter, r *http.Request) {
	staff := h.contextGetStaff(r)
	err := h.encodeJSON(w, http.StatusOK, envelope{"staff": staff}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListStaff godoc
// @Summary List staff accounts
// @Tags staff
// @Produce json
// @Param sort query string false "Sort by id, name or email; prefix - for descending"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} data.Staff
// @Failure 403
// @Failure 422
// @Failure 500
// @Security BearerAuth
// @Router /v1/staff [get]
func (h *Handler) listStaffHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListStaff
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 20, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "id")
	qsInput.Filters.SortSafeList = data.StaffSortSafeList
	if !v.Valid() {
		h.failedValidationResponse(w, r, &service.ValidationError{Errors: v.Errors})
		return
	}
	staff, metadata, err := h.service.ListStaff(qsInput)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"staff": staff, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateStaff godoc
// @Summary Update a staff account
// @Description This endpoint changes name, role or active flag. Admins cannot deactivate or demote themselves.
// @Tags staff
// @Accept  json
// @Produce json
// @Param staffId path int true "ID of staff account"
// @Param body body dto.UpdateStaffRequestBody true "JSON payload with the fields to change"
// @Success 200 {object} data.Staff
// @Failure 400
// @Failure 403
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Security BearerAuth
// @Router /v1/staff/{staffId} [patch]
func (h *Handler) updateStaffHandler(w http.ResponseWriter, r *http.Request) {
	staffID, err := h.readIDParam(r, "staffId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.UpdateStaffRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	actor := h.contextGetStaff(r)
	staff, err := h.service.UpdateStaff(actor, staffID, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	// Drop the cached account so the new role and active flag apply on the next request.
	h.cache.Delete(staff.ID)
	err = h.encodeJSON(w, http.StatusOK, envelope{"staff": staff}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
