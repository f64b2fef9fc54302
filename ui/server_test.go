package ui

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"arbodash/app"
	"arbodash/domain/notification"
	"arbodash/internal/errors"
	"arbodash/internal/pipeline"
	"arbodash/internal/reports"
	"arbodash/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "arbodash_session"

func newTestServer(t *testing.T) (*Server, *testkit.TestKit) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kit, err := testkit.NewTestKit()
	require.NoError(t, err)

	esp := time.Date(2019, 1, 25, 0, 0, 0, 0, time.UTC)
	dashboard := app.NewDashboardService(kit.Loader, reports.NewRegistry(reports.DefaultViews()...), testkit.SyntheticPath, esp, kit.Logger)

	srv, err := NewServer(dashboard, kit.SessionManager(time.Hour), Options{CookieName: cookieName, SessionTTL: time.Hour}, kit.Logger)
	require.NoError(t, err)
	return srv, kit
}

func do(srv *Server, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// sessionCookie returns the last session cookie set by the response
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			found = c
		}
	}
	return found
}

func login(t *testing.T, srv *Server, user, password string) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	return loginWith(t, srv, user, password, nil)
}

func loginWith(t *testing.T, srv *Server, user, password string, cookie *http.Cookie) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()
	form := url.Values{"username": {user}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(srv, req, cookie)
	return rec, sessionCookie(rec)
}

func authenticated(t *testing.T, srv *Server) *http.Cookie {
	t.Helper()
	rec, cookie := login(t, srv, testkit.TestUser, testkit.TestPassword)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, cookie)
	return cookie
}

func TestProtectedPageRedirectsToLogin(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.NotNil(t, sessionCookie(rec), "a session cookie is issued on first visit")
}

func TestProtectedAPIReturnsUnauthorized(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/options", "/export/" + app.FilteredCSVName} {
		rec := do(srv, httptest.NewRequest(http.MethodGet, path, nil), nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestLoginWithWrongPassword(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, cookie := login(t, srv, testkit.TestUser, "wrong")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Usuário ou senha inválidos.")

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code, "failed login must not grant access")
}

func TestLoginLogoutFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := authenticated(t, srv)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Brumadinho")
	assert.Contains(t, rec.Body.String(), "/views/sintese")

	rec = do(srv, httptest.NewRequest(http.MethodPost, "/logout", nil), cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestLoginRotatesSessionCookie(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/login", nil), nil)
	anonymous := sessionCookie(rec)
	require.NotNil(t, anonymous)

	rec, rotated := loginWith(t, srv, testkit.TestUser, testkit.TestPassword, anonymous)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, rotated)
	assert.NotEqual(t, anonymous.Value, rotated.Value, "login must issue a new session ID")

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/", nil), anonymous)
	assert.Equal(t, http.StatusSeeOther, rec.Code, "the pre-login session ID grants nothing")

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/", nil), rotated)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionsAPI(t *testing.T) {
	srv, kit := newTestServer(t)
	cookie := authenticated(t, srv)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/api/options", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var opts app.FilterOptions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, kit.Table.Len(), opts.Rows)
	assert.Equal(t, []string{"Caso", "Controle"}, opts.Groups)
}

func TestViewAPIHonoursFilters(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := authenticated(t, srv)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/api/views/grupos?group=Caso", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var view reports.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotNil(t, view.Counts)
	require.Len(t, view.Counts.Rows, 1)
	assert.Equal(t, []string{"Caso"}, view.Counts.Rows[0].Keys)
}

func TestEmptySelectionIsAWarning(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := authenticated(t, srv)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/api/synthesis?disease=", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errors.CodeEmptyResult, body["code"])
	assert.Contains(t, body, "warning")

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/views/municipios?disease=", nil), cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), emptyResultWarning)
}

func TestUnknownViewAndBadInput(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := authenticated(t, srv)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/api/views/nope", nil), cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/api/synthesis?year=abc", nil), cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/api/models/its?period=decade", nil), cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModelsAPI(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := authenticated(t, srv)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/api/models/its?period=year", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "rate_ratios")

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/api/models/did?period=year&group=Caso", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "effect")

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/api/models/its?period=year&year=2015", nil), cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExportCSV(t *testing.T) {
	srv, kit := newTestServer(t)
	cookie := authenticated(t, srv)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/export/"+app.FilteredCSVName+"?group=Controle", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), app.FilteredCSVName)

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)

	sel := pipeline.FullSelection(kit.Table)
	sel.Groups = pipeline.NewSet(notification.GroupControl)
	expected := pipeline.Apply(kit.Table, sel).Len()
	assert.Equal(t, expected, len(records)-1)
}

func TestExportSynthesisWorkbook(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := authenticated(t, srv)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/export/"+app.SynthesisXLSName, nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), app.SynthesisXLSName)
	assert.Equal(t, "PK", rec.Body.String()[:2], "xlsx is a zip container")
}

func TestProfilingHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	ProfilingHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{errors.EmptyResult("none"), http.StatusOK},
		{errors.NotFound("view"), http.StatusNotFound},
		{errors.InvalidInput("year"), http.StatusBadRequest},
		{errors.Unauthorized("login"), http.StatusUnauthorized},
		{errors.InsufficientData("model"), http.StatusUnprocessableEntity},
		{errors.Wrap(errors.NotFound("dataset"), "warm load"), http.StatusNotFound},
		{context.Canceled, http.StatusServiceUnavailable},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "err=%v", tt.err)
	}
}
