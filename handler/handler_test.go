package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emzola/libraria/config"
	"github.com/emzola/libraria/data"
	"github.com/emzola/libraria/data/dto"
	"github.com/emzola/libraria/internal/jsonlog"
	"github.com/emzola/libraria/service"
	"github.com/jellydator/ttlcache/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService answers for the staff accounts in accounts; bearer tokens are
// "token-<id>". Methods not overridden panic through the nil embedded interface.
type fakeService struct {
	service.Service

	accounts       map[int64]*data.Staff
	getStaffCalls  atomic.Int32
	lendBook       func(dto.LendBookRequestBody) (*data.Lending, error)
	returnBook     func(int64) (*data.Lending, error)
	listLendings   func(dto.QsListLendings) ([]*data.Lending, data.Metadata, error)
	export         func() (string, error)
	createSession  func(dto.CreateAuthenticationTokenRequestBody) (*data.Session, error)
	refreshSession func(dto.RefreshTokenRequestBody) (*data.Session, error)
	deleteBook     func(int64) error
}

func (f *fakeService) AuthenticateToken(accessToken string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(accessToken, "token-%d", &id); err != nil {
		return 0, service.ErrInvalidCredentials
	}
	return id, nil
}

func (f *fakeService) GetStaff(staffID int64) (*data.Staff, error) {
	f.getStaffCalls.Add(1)
	s, ok := f.accounts[staffID]
	if !ok {
		return nil, service.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeService) LendBook(actor *data.Staff, requestBody dto.LendBookRequestBody) (*data.Lending, error) {
	return f.lendBook(requestBody)
}

func (f *fakeService) ReturnBook(actor *data.Staff, lendingID int64) (*data.Lending, error) {
	return f.returnBook(lendingID)
}

func (f *fakeService) ListLendings(qs dto.QsListLendings) ([]*data.Lending, data.Metadata, error) {
	return f.listLendings(qs)
}

func (f *fakeService) ExportReturnedOverdue(actor *data.Staff) (string, error) {
	return f.export()
}

func (f *fakeService) CreateSession(requestBody dto.CreateAuthenticationTokenRequestBody) (*data.Session, error) {
	return f.createSession(requestBody)
}

func (f *fakeService) RefreshSession(requestBody dto.RefreshTokenRequestBody) (*data.Session, error) {
	return f.refreshSession(requestBody)
}

func (f *fakeService) DeleteBook(actor *data.Staff, bookID int64) error {
	return f.deleteBook(bookID)
}

func (f *fakeService) ListStaff(qs dto.QsListStaff) ([]*data.Staff, data.Metadata, error) {
	return []*data.Staff{}, data.Metadata{}, nil
}

var (
	librarian = &data.Staff{ID: 1, Name: "Lib", Role: data.RoleLibrarian, Active: true}
	admin     = &data.Staff{ID: 2, Name: "Root", Role: data.RoleAdmin, Active: true}
	inactive  = &data.Staff{ID: 3, Name: "Gone", Role: data.RoleLibrarian, Active: false}
)

func newFakeService() *fakeService {
	return &fakeService{accounts: map[int64]*data.Staff{1: librarian, 2: admin, 3: inactive}}
}

func newTestHandler(t *testing.T, svc *fakeService) http.Handler {
	t.Helper()
	var cfg config.Config
	cfg.Server.Env = "testing"
	cache := ttlcache.New[int64, *data.Staff](ttlcache.WithTTL[int64, *data.Staff](time.Minute))
	h := New(cfg, jsonlog.New(io.Discard, jsonlog.LevelOff), cache, svc)
	return h.Routes()
}

// do sends a request as the staff account with the given id; id 0 sends no token.
func do(t *testing.T, routes http.Handler, method, target string, staffID int64, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if staffID != 0 {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer token-%d", staffID))
	}
	rr := httptest.NewRecorder()
	routes.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestHealthcheck(t *testing.T) {
	routes := newTestHandler(t, newFakeService())
	rr := do(t, routes, http.MethodGet, "/v1/healthcheck", 0, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	env := decode(t, rr)
	assert.Equal(t, "available", env["status"])
}

func TestSwaggerSpec(t *testing.T) {
	routes := newTestHandler(t, newFakeService())
	rr := do(t, routes, http.MethodGet, "/spec", 0, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	paths := doc["paths"].(map[string]any)
	assert.Contains(t, paths, "/v1/lending/lend")
	assert.Contains(t, paths, "/v1/tokens/refresh")
}

func TestAuthenticate(t *testing.T) {
	svc := newFakeService()
	svc.listLendings = func(dto.QsListLendings) ([]*data.Lending, data.Metadata, error) {
		return []*data.Lending{}, data.Metadata{}, nil
	}
	routes := newTestHandler(t, svc)

	tests := []struct {
		name       string
		method     string
		target     string
		header     string
		wantStatus int
	}{
		{"no token", http.MethodGet, "/v1/lending", "", http.StatusUnauthorized},
		{"malformed header", http.MethodGet, "/v1/lending", "Token abc", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/v1/lending", "Bearer nonsense", http.StatusUnauthorized},
		{"unknown staff", http.MethodGet, "/v1/lending", "Bearer token-99", http.StatusUnauthorized},
		{"inactive staff", http.MethodGet, "/v1/lending", "Bearer token-3", http.StatusForbidden},
		{"librarian", http.MethodGet, "/v1/lending", "Bearer token-1", http.StatusOK},
		{"librarian on admin route", http.MethodGet, "/v1/staff", "Bearer token-1", http.StatusForbidden},
		{"admin on admin route", http.MethodGet, "/v1/staff", "Bearer token-2", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			routes.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestAuthenticateCachesStaff(t *testing.T) {
	svc := newFakeService()
	svc.listLendings = func(dto.QsListLendings) ([]*data.Lending, data.Metadata, error) {
		return []*data.Lending{}, data.Metadata{}, nil
	}
	routes := newTestHandler(t, svc)
	for i := 0; i < 3; i++ {
		rr := do(t, routes, http.MethodGet, "/v1/lending", librarian.ID, "")
		require.Equal(t, http.StatusOK, rr.Code)
	}
	assert.Equal(t, int32(1), svc.getStaffCalls.Load())
}

func TestLendBookHandler(t *testing.T) {
	lending := &data.Lending{ID: 42, Book: data.Book{ID: 7, Isbn: "9780140449136"}, Member: data.Member{ID: 3, MemberID: "M-001"}}

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"created", `{"member_id":"M-001","isbn":"9780140449136"}`, nil, http.StatusCreated, ""},
		{"validation", `{"isbn":""}`, &service.ValidationError{Errors: map[string]string{"isbn": "must be provided"}}, http.StatusBadRequest, ""},
		{"unknown member", `{"member_id":"M-404","isbn":"9780140449136"}`, fmt.Errorf("%w: no member with member_id %q", service.ErrRecordNotFound, "M-404"), http.StatusNotFound, `record not found: no member with member_id "M-404"`},
		{"unavailable", `{"nic":"901234567V","isbn":"9780140449136"}`, service.ErrUnavailable, http.StatusConflict, "no copies available"},
		{"limit reached", `{"member_id":"M-001","isbn":"9780140449136"}`, service.ErrLimitReached, http.StatusConflict, "open lending limit reached"},
		{"unknown field", `{"member":"M-001"}`, nil, http.StatusBadRequest, `body contains unknown key "member"`},
		{"unexpected failure", `{"member_id":"M-001","isbn":"9780140449136"}`, errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService()
			svc.lendBook = func(body dto.LendBookRequestBody) (*data.Lending, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return lending, nil
			}
			rr := do(t, newTestHandler(t, svc), http.MethodPost, "/v1/lending/lend", librarian.ID, tt.body)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			env := decode(t, rr)
			switch tt.wantStatus {
			case http.StatusCreated:
				assert.Equal(t, "/v1/lending/records/42", rr.Header().Get("Location"))
				assert.Equal(t, float64(42), env["lending"].(map[string]any)["id"])
			case http.StatusBadRequest:
				if tt.wantError == "" {
					assert.Equal(t, map[string]any{"isbn": "must be provided"}, env["error"])
				} else {
					assert.Equal(t, tt.wantError, env["error"])
				}
			default:
				if tt.wantError != "" {
					assert.Equal(t, tt.wantError, env["error"])
				}
			}
		})
	}
}

func TestReturnBookHandler(t *testing.T) {
	returned := time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{"returned", "/v1/lending/return/5", nil, http.StatusOK},
		{"unknown", "/v1/lending/return/6", service.ErrRecordNotFound, http.StatusNotFound},
		{"already returned", "/v1/lending/return/5", service.ErrAlreadyReturned, http.StatusConflict},
		{"lost race", "/v1/lending/return/5", service.ErrEditConflict, http.StatusConflict},
		{"invalid id", "/v1/lending/return/abc", nil, http.StatusNotFound},
		{"zero id", "/v1/lending/return/0", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService()
			svc.returnBook = func(id int64) (*data.Lending, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return &data.Lending{ID: id, IsReturned: true, ReturnDate: &returned, Status: data.StatusReturned}, nil
			}
			rr := do(t, newTestHandler(t, svc), http.MethodPost, tt.target, librarian.ID, "")
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantStatus == http.StatusOK {
				lending := decode(t, rr)["lending"].(map[string]any)
				assert.Equal(t, true, lending["is_returned"])
				assert.Equal(t, "returned", lending["status"])
			}
		})
	}
}

func TestListLendingsHandler(t *testing.T) {
	svc := newFakeService()
	var got dto.QsListLendings
	svc.listLendings = func(qs dto.QsListLendings) ([]*data.Lending, data.Metadata, error) {
		got = qs
		return []*data.Lending{{ID: 1}}, data.CalculateMetadata(1, qs.Filters.Page, qs.Filters.PageSize), nil
	}
	routes := newTestHandler(t, svc)

	rr := do(t, routes, http.MethodGet, "/v1/lending?search=odyssey&status=overdue&sort=-due_date&page=2&page_size=5", librarian.ID, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "odyssey", got.Search)
	assert.Equal(t, "overdue", got.Status)
	assert.Equal(t, "-due_date", got.Filters.Sort)
	assert.Equal(t, 2, got.Filters.Page)
	assert.Equal(t, 5, got.Filters.PageSize)

	rr = do(t, routes, http.MethodGet, "/v1/lending", librarian.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "all", got.Status)
	assert.Equal(t, "-lend_date", got.Filters.Sort)

	rr = do(t, routes, http.MethodGet, "/v1/lending?page=first", librarian.ID, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, map[string]any{"page": "must be an integer value"}, decode(t, rr)["error"])
}

func TestExportReturnedOverdueHandler(t *testing.T) {
	svc := newFakeService()
	svc.export = func() (string, error) { return "", service.ErrNotConfigured }
	rr := do(t, newTestHandler(t, svc), http.MethodPost, "/v1/lending/overdue-returned/export", librarian.ID, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	svc.export = func() (string, error) { return "reports/fines/2024-01-18-x.csv", nil }
	rr = do(t, newTestHandler(t, svc), http.MethodPost, "/v1/lending/overdue-returned/export", librarian.ID, "")
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "reports/fines/2024-01-18-x.csv", decode(t, rr)["key"])
}

func TestDeleteBookHandler(t *testing.T) {
	svc := newFakeService()
	svc.deleteBook = func(id int64) error {
		if id == 1 {
			return fmt.Errorf("%w: 2 copies on loan", service.ErrOpenLendings)
		}
		return nil
	}
	routes := newTestHandler(t, svc)
	assert.Equal(t, http.StatusConflict, do(t, routes, http.MethodDelete, "/v1/books/1", librarian.ID, "").Code)
	assert.Equal(t, http.StatusOK, do(t, routes, http.MethodDelete, "/v1/books/2", librarian.ID, "").Code)
}

func TestSessionHandlers(t *testing.T) {
	svc := newFakeService()
	svc.createSession = func(body dto.CreateAuthenticationTokenRequestBody) (*data.Session, error) {
		if body.Password != "pa55word!" {
			return nil, service.ErrInvalidCredentials
		}
		return &data.Session{Staff: librarian, AccessToken: "token-1", RefreshToken: "refresh-1"}, nil
	}
	svc.refreshSession = func(body dto.RefreshTokenRequestBody) (*data.Session, error) {
		if body.RefreshToken != "refresh-1" {
			return nil, service.ErrInvalidCredentials
		}
		return &data.Session{Staff: librarian, AccessToken: "token-1", RefreshToken: "refresh-2"}, nil
	}
	routes := newTestHandler(t, svc)

	rr := do(t, routes, http.MethodPost, "/v1/tokens/authentication", 0, `{"email":"lib@example.com","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, routes, http.MethodPost, "/v1/tokens/authentication", 0, `{"email":"lib@example.com","password":"pa55word!"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	session := decode(t, rr)["session"].(map[string]any)
	assert.Equal(t, "refresh-1", session["refresh_token"])

	rr = do(t, routes, http.MethodPost, "/v1/tokens/refresh", 0, `{"refresh_token":"refresh-1"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "refresh-2", decode(t, rr)["session"].(map[string]any)["refresh_token"])

	rr = do(t, routes, http.MethodPost, "/v1/tokens/refresh", 0, `{"refresh_token":"stale"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRecoverPanic(t *testing.T) {
	svc := newFakeService()
	// GetLending is not overridden, so the embedded nil interface panics.
	routes := newTestHandler(t, svc)
	rr := do(t, routes, http.MethodGet, "/v1/lending/records/1", librarian.ID, "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "close", rr.Header().Get("Connection"))
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	routes := newTestHandler(t, newFakeService())
	assert.Equal(t, http.StatusNotFound, do(t, routes, http.MethodGet, "/v1/nowhere", 0, "").Code)
	rr := do(t, routes, http.MethodPut, "/v1/healthcheck", 0, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.True(t, bytes.Contains(rr.Body.Bytes(), []byte("PUT")))
}
