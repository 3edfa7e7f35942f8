package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/libraria/data/dto"
	"github.com/emzola/libraria/service"
)

// CreateAuthenticationToken godoc
// @Summary Log in
// @Description This endpoint checks staff credentials and returns a session with an access token and a refresh token
// @Tags tokens
// @Accept  json
// @Produce json
// @Param body body dto.CreateAuthenticationTokenRequestBody true "JSON payload required to log in"
// @Success 201 {object} data.Session
// @Failure 400
// @Failure 401
// @Failure 422
// @Failure 500
// @Router /v1/tokens/authentication [post]
func (h *Handler) createAuthenticationTokenHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateAuthenticationTokenRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	session, err := h.service.CreateSession(requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.invalidCredentialsResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"session": session}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// RefreshAuthenticationToken godoc
// @Summary Refresh a session
// @Description This endpoint exchanges a refresh token for a new session. The refresh token can be used once.
// @Tags tokens
// @Accept  json
// @Produce json
// @Param body body dto.RefreshTokenRequestBody true "JSON payload carrying the refresh token"
// @Success 201 {object} data.Session
// @Failure 400
// @Failure 401
// @Failure 500
// @Router /v1/tokens/refresh [post]
func (h *Handler) refreshAuthenticationTokenHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.RefreshTokenRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	session, err := h.service.RefreshSession(requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrFailedValidation):
			h.invalidAuthenticationTokenResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"session": session}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// DeleteAuthenticationToken godoc
// @Summary Log out
// @Description This endpoint revokes every refresh token of the authenticated staff account
// @Tags tokens
// @Produce json
// @Success 200
// @Failure 401
// @Failure 500
// @Security BearerAuth
// @Router /v1/tokens/authentication [delete]
func (h *Handler) deleteAuthenticationTokenHandler(w http.ResponseWriter, r *http.Request) {
	staff := h.contextGetStaff(r)
	err := h.service.DeleteSession(staff.ID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	h.cache.Delete(staff.ID)
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "you have been logged out"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
