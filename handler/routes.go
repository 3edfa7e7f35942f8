package handler

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodPost, "/v1/lending/lend", h.requireAuthenticatedStaff(h.lendBookHandler))
	router.HandlerFunc(http.MethodPost, "/v1/lending/return/:lendingId", h.requireAuthenticatedStaff(h.returnBookHandler))
	router.HandlerFunc(http.MethodGet, "/v1/lending", h.requireAuthenticatedStaff(h.listLendingsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/lending/overdue-returned", h.requireAuthenticatedStaff(h.listReturnedOverdueHandler))
	router.HandlerFunc(http.MethodPost, "/v1/lending/overdue-returned/export", h.requireAuthenticatedStaff(h.exportReturnedOverdueHandler))
	router.HandlerFunc(http.MethodGet, "/v1/lending/records/:lendingId", h.requireAuthenticatedStaff(h.showLendingHandler))

	router.HandlerFunc(http.MethodGet, "/v1/books", h.requireAuthenticatedStaff(h.listBooksHandler))
	router.HandlerFunc(http.MethodPost, "/v1/books", h.requireAuthenticatedStaff(h.createBookHandler))
	router.HandlerFunc(http.MethodPost, "/v1/books/import", h.requireAuthenticatedStaff(h.importBooksHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId", h.requireAuthenticatedStaff(h.showBookHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId", h.requireAuthenticatedStaff(h.updateBookHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:bookId", h.requireAuthenticatedStaff(h.deleteBookHandler))

	router.HandlerFunc(http.MethodGet, "/v1/members", h.requireAuthenticatedStaff(h.listMembersHandler))
	router.HandlerFunc(http.MethodPost, "/v1/members", h.requireAuthenticatedStaff(h.createMemberHandler))
	router.HandlerFunc(http.MethodGet, "/v1/members/:memberId", h.requireAuthenticatedStaff(h.showMemberHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/members/:memberId", h.requireAuthenticatedStaff(h.updateMemberHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/members/:memberId", h.requireAuthenticatedStaff(h.deleteMemberHandler))

	router.HandlerFunc(http.MethodGet, "/v1/staff", h.requireAdmin(h.listStaffHandler))
	router.HandlerFunc(http.MethodPost, "/v1/staff", h.requireAdmin(h.createStaffHandler))
	router.HandlerFunc(http.MethodGet, "/v1/profile", h.requireAuthenticatedStaff(h.showCurrentStaffHandler))
	router.HandlerFunc(http.MethodGet, "/v1/staff/:staffId", h.requireAdmin(h.showStaffHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/staff/:staffId", h.requireAdmin(h.updateStaffHandler))

	router.HandlerFunc(http.MethodPost, "/v1/tokens/authentication", h.createAuthenticationTokenHandler)
	router.HandlerFunc(http.MethodPost, "/v1/tokens/refresh", h.refreshAuthenticationTokenHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/tokens/authentication", h.requireAuthenticatedStaff(h.deleteAuthenticationTokenHandler))

	router.HandlerFunc(http.MethodGet, "/v1/audit", h.requireAdmin(h.listAuditHandler))

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/spec", h.handleSwaggerFile())
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/spec")))

	return h.metrics(h.recoverPanic(h.enableCORS(h.rateLimit(h.authenticate(router)))))
}
