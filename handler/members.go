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

// CreateMember godoc
// @Summary Register a library member
// @Tags members
// @Accept  json
// @Produce json
// @Param body body dto.CreateMemberRequestBody true "JSON payload required to register a member"
// @Success 201 {object} data.Member
// @Failure 400
// @Failure 409
// @Failure 422
// @Failure 500
// @Security BearerAuth
// @Router /v1/members [post]
func (h *Handler) createMemberHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateMemberRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	staff := h.contextGetStaff(r)
	member, err := h.service.CreateMember(staff, requestBody)
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
	headers.Set("Location", fmt.Sprintf("/v1/members/%d", member.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"member": member}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowMember godoc
// @Summary Show details of a member
// @Tags members
// @Produce json
// @Param memberId path int true "ID of member"
// @Success 200 {object} data.Member
// @Failure 404
// @Failure 500
// @Security BearerAuth
// @Router /v1/members/{memberId} [get]
func (h *Handler) showMemberHandler(w http.ResponseWriter, r *http.Request) {
	memberID, err := h.readIDParam(r, "memberId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	member, err := h.service.GetMember(memberID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"member": member}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListMembers godoc
// @Summary List library members
// @Tags members
// @Produce json
// @Param search query string false "Name, member ID or NIC"
// @Param sort query string false "Sort by id, name or member_id; prefix - for descending"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} data.Member
// @Failure 422
// @Failure 500
// @Security BearerAuth
// @Router /v1/members [get]
func (h *Handler) listMembersHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListMembers
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Search = h.readString(qs, "search", "")
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 20, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "id")
	qsInput.Filters.SortSafeList = data.MemberSortSafeList
	if !v.Valid() {
		h.failedValidationResponse(w, r, &service.ValidationError{Errors: v.Errors})
		return
	}
	members, metadata, err := h.service.ListMembers(qsInput)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"members": members, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateMember godoc
// @Summary Update details of a member
// @Tags members
// @Accept  json
// @Produce json
// @Param memberId path int true "ID of member"
// @Param body body dto.UpdateMemberRequestBody true "JSON payload with the fields to change"
// @Success 200 {object} data.Member
// @Failure 400
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 500
// @Security BearerAuth
// @Router /v1/members/{memberId} [patch]
func (h *Handler) updateMemberHandler(w http.ResponseWriter, r *http.Request) {
	memberID, err := h.readIDParam(r, "memberId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.UpdateMemberRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	staff := h.contextGetStaff(r)
	member, err := h.service.UpdateMember(staff, memberID, requestBody)
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
	err = h.encodeJSON(w, http.StatusOK, envelope{"member": member}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// DeleteMember godoc
// @Summary Remove a member
// @Description This endpoint refuses to remove a member who still holds books
// @Tags members
// @Produce json
// @Param memberId path int true "ID of member"
// @Success 200
// @Failure 404
// @Failure 409
// @Failure 500
// @Security BearerAuth
// @Router /v1/members/{memberId} [delete]
func (h *Handler) deleteMemberHandler(w http.ResponseWriter, r *http.Request) {
	memberID, err := h.readIDParam(r, "memberId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	staff := h.contextGetStaff(r)
	err = h.service.DeleteMember(staff, memberID)
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
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "member successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
