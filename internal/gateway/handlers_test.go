package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/platform/httpx"
)

// capturedRequest records what the fake server saw.
type capturedRequest struct {
	Method string
	Path   string
	Query  string
	UserID string
	Body   string
}

func newTestGateway(t *testing.T) (*gin.Engine, *capturedRequest) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	captured := &capturedRequest{}
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*captured = capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			UserID: r.Header.Get(httpx.HeaderUserID),
			Body:   string(body),
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(backend.Close)

	logger := zerolog.Nop()
	r := gin.New()
	RegisterRoutes(r, NewClient(backend.URL, &logger))
	return r, captured
}

func perform(r *gin.Engine, method, target, userID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(httpx.HeaderUserID, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestForwarding(t *testing.T) {
	r, captured := newTestGateway(t)

	w := perform(r, http.MethodPost, "/items", "7",
		`{"name":"Drill","description":"Cordless","available":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/items", captured.Path)
	assert.Equal(t, "7", captured.UserID)
	assert.Contains(t, captured.Body, `"Drill"`)
}

func TestForwardingPreservesQuery(t *testing.T) {
	r, captured := newTestGateway(t)

	w := perform(r, http.MethodGet, "/bookings?state=FUTURE&from=0&size=5", "3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/bookings", captured.Path)
	assert.Contains(t, captured.Query, "state=FUTURE")
	assert.Contains(t, captured.Query, "size=5")
}

func TestUserValidation(t *testing.T) {
	r, captured := newTestGateway(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"a@b.com"}`},
		{"missing email", `{"name":"Alice"}`},
		{"malformed email", `{"name":"Alice","email":"not-an-email"}`},
		{"empty body", ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			*captured = capturedRequest{}
			w := perform(r, http.MethodPost, "/users", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, captured.Method, "invalid request must not reach the server")
		})
	}

	w := perform(r, http.MethodPost, "/users", "", `{"name":"Alice","email":"alice@example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserPatchValidation(t *testing.T) {
	r, _ := newTestGateway(t)

	w := perform(r, http.MethodPatch, "/users/1", "", `{"email":"broken"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPatch, "/users/1", "", `{"name":"Only name"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIdentityHeaderRequired(t *testing.T) {
	r, captured := newTestGateway(t)

	paths := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/items"},
		{http.MethodGet, "/bookings"},
		{http.MethodGet, "/requests"},
		{http.MethodGet, "/items/search?text=drill"},
	}
	for _, p := range paths {
		*captured = capturedRequest{}
		w := perform(r, p.method, p.target, "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, p.target)
		assert.Empty(t, captured.Method)
	}
}

func TestBookingValidation(t *testing.T) {
	r, captured := newTestGateway(t)

	t.Run("missing fields", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/bookings", "2", `{"itemId":1}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad approved flag", func(t *testing.T) {
		w := perform(r, http.MethodPatch, "/bookings/1?approved=maybe", "2", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("valid approve forwards", func(t *testing.T) {
		*captured = capturedRequest{}
		w := perform(r, http.MethodPatch, "/bookings/1?approved=true", "2", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "/bookings/1", captured.Path)
		assert.Contains(t, captured.Query, "approved=true")
	})

	t.Run("valid create forwards", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/bookings", "2",
			`{"itemId":1,"start":"2026-07-01T10:00:00Z","end":"2026-07-02T10:00:00Z"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestPagingValidation(t *testing.T) {
	r, captured := newTestGateway(t)

	bad := []string{
		"/items?from=-1",
		"/items?size=0",
		"/bookings?from=x",
		"/requests/all?size=-3",
		"/items/search?text=a&size=0",
	}
	for _, target := range bad {
		*captured = capturedRequest{}
		w := perform(r, http.MethodGet, target, "5", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Empty(t, captured.Method)
	}
}

func TestPathIDValidation(t *testing.T) {
	r, _ := newTestGateway(t)

	for _, target := range []string{"/users/abc", "/items/0", "/bookings/-5"} {
		w := perform(r, http.MethodGet, target, "5", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestBackendErrorPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"item not found"}`))
	}))
	defer backend.Close()

	logger := zerolog.Nop()
	r := gin.New()
	RegisterRoutes(r, NewClient(backend.URL, &logger))

	w := perform(r, http.MethodGet, "/items/42", "5", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "item not found", body["message"])
}

func TestUnreachableBackend(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zerolog.Nop()
	r := gin.New()
	RegisterRoutes(r, NewClient("http://127.0.0.1:1", &logger))

	w := perform(r, http.MethodGet, "/users", "", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
