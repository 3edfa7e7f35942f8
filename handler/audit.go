package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/libraria/data"
	"github.com/emzola/libraria/data/dto"
	"github.com/emzola/libraria/internal/validator"
	"github.com/emzola/libraria/service"
)

// ListAudit godoc
// @Summary List audit entries
// @Tags audit
// @Produce json
// @Param action query string false "Action, e.g. LEND or RETURN"
// @Param entity query string false "Entity, e.g. lending or book"
// @Param sort query string false "Sort by created_at or id; prefix - for descending"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {array} data.AuditEntry
// @Failure 403
// @Failure 422
// @Failure 500
// @Security BearerAuth
// @Router /v1/audit [get]
func (h *Handler) listAuditHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListAudit
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Action = h.readString(qs, "action", "")
	qsInput.Entity = h.readString(qs, "entity", "")
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 20, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "-created_at")
	qsInput.Filters.SortSafeList = data.AuditSortSafeList
	if !v.Valid() {
		h.failedValidationResponse(w, r, &service.ValidationError{Errors: v.Errors})
		return
	}
	entries, metadata, err := h.service.ListAudit(qsInput)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"audit": entries, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
