package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSONRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_ConsumeFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, db := setupTestService(t)
	p := seedProduct(t, db, owner, "Oats", nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", owner)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/inventory", map[string]any{"productId": p.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created struct {
		Data Item `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	path := fmt.Sprintf("/api/v1/inventory/%d/consume", created.Data.ID)
	rr = doJSONRequest(r, http.MethodPost, path, map[string]any{"quantity": "5"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INSUFFICIENT_QUANTITY")

	rr = doJSONRequest(r, http.MethodPost, path, map[string]any{"quantity": 2})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"deleted":true`)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/inventory?expiringWithinDays=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/inventory", map[string]any{"productId": 999, "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REFERENCE")
}
