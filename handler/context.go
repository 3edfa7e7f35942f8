package handler

import (
	"context"
	"net/http"

	"github.com/emzola/libraria/data"
)

// Type contextKey is a custom contextKey type, with the underlying type string.
// This is necessary to prevent name collisions with external packages.
type contextKey string

const staffContextKey = contextKey("staff")

// contextSetStaff returns a new copy of the request with the provided Staff struct
// added to the context.
func (h *Handler) contextSetStaff(r *http.Request, staff *data.Staff) *http.Request {
	ctx := context.WithValue(r.Context(), staffContextKey, staff)
	return r.WithContext(ctx)
}

// contextGetStaff retrieves the Staff struct from the request context. A missing
// value means the authenticate middleware did not run, which is a programming error.
func (h *Handler) contextGetStaff(r *http.Request) *data.Staff {
	staff, ok := r.Context().Value(staffContextKey).(*data.Staff)
	if !ok {
		panic("missing staff value in request context")
	}
	return staff
}
