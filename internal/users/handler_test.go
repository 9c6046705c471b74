package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/platform/db/dbtest"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, NewService(dbtest.New(t)))
	return r
}

func doJSON(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserLifecycleHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/users", `{"name":"Alice","email":"alice@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var created UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Alice", created.Name)

	w = doJSON(r, http.MethodGet, "/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPatch, "/users/1", `{"name":"Alicia"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var patched UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
	assert.Equal(t, "Alicia", patched.Name)
	assert.Equal(t, "alice@example.com", patched.Email)

	w = doJSON(r, http.MethodDelete, "/users/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/users/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserErrorsHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/users", `{"name":"Alice"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/users/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/users", `{"name":"Alice","email":"alice@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodPost, "/users", `{"name":"Copy","email":"alice@example.com"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "email already in use", body["message"])
}
