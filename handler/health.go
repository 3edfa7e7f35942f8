package handler

import (
	"net/http"

	"github.com/emzola/libraria/docs"
)

// Healthcheck godoc
// @Summary Report application status
// @Tags health
// @Produce json
// @Success 200
// @Router /v1/healthcheck [get]
func (h *Handler) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	health := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": h.config.Server.Env,
			"version":     docs.SwaggerInfo.Version,
		},
	}
	err := h.encodeJSON(w, http.StatusOK, health, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
