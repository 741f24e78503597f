package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/haylacafe/backend/internal/domain/costing"
	"github.com/haylacafe/backend/internal/interfaces/http/dto"
	"github.com/haylacafe/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
)

// withAuth stamps the context the way the JWT middleware would, without
// needing a real token in every test
func withAuth(role costing.Role, actor string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTActorKey, actor)
		c.Set(middleware.JWTRoleKey, role)
		c.Next()
	}
}

func newTestRouter(role costing.Role, actor string, register func(rg *gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	r := gin.New()
	api := r.Group("/api/v1", withAuth(role, actor))
	register(api)
	return r
}

func performJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
